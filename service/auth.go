package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/nav"
	"github.com/kevinaaaquil/dejapp/policy"
)

const minPasswordLen = 6

// SessionProvider signs users in and out and creates accounts. It does not
// enforce document rules; those live in Documents.
type SessionProvider struct {
	Profiles      ProfileStore
	Confirmations ConfirmationStore
	Mailer        Mailer
	Roles         policy.RoleRule
	Tokens        *TokenIssuer
	Sessions      *SessionRegistry
	Metrics       *metrics.Metrics
	Logger        *slog.Logger

	// RequireConfirmation keeps new accounts locked until the emailed link is opened.
	RequireConfirmation bool
	// PublicURL is the externally visible base URL used in confirmation links.
	PublicURL string

	Now func() time.Time
}

type SignInResult struct {
	Session *Session
	Token   string
}

type SignUpResult struct {
	Profile          *models.Profile
	ConfirmationSent bool
}

func (p *SessionProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *SessionProvider) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// SignIn checks the credentials and opens a session.
func (p *SessionProvider) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = normalizeEmail(email)
	violations := models.Violations{}
	if email == "" {
		violations["email"] = "required"
	}
	if password == "" {
		violations["password"] = "required"
	}
	if !violations.Empty() {
		return nil, apperr.Validation(violations)
	}

	profile, err := p.Profiles.ProfileByEmail(ctx, email)
	if err != nil {
		p.Metrics.SignIn("error")
		return nil, apperr.DataAccess("sign in", err)
	}
	if profile == nil || bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)) != nil {
		p.Metrics.SignIn("invalid_credentials")
		return nil, apperr.ErrInvalidCredentials
	}
	if p.RequireConfirmation && !profile.Confirmed() {
		p.Metrics.SignIn("email_not_confirmed")
		return nil, apperr.ErrEmailNotConfirmed
	}

	now := p.now()
	session := &Session{
		ID:        uuid.NewString(),
		Profile:   *profile,
		Nav:       nav.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(p.Tokens.TTL),
	}
	token, err := p.Tokens.Issue(session.ID, profile, now)
	if err != nil {
		p.Metrics.SignIn("error")
		return nil, err
	}
	p.Sessions.Put(session, p.Tokens.TTL)
	p.Metrics.SignIn("ok")
	p.logger().InfoContext(ctx, "session opened",
		slog.String("session_id", session.ID),
		slog.String("user_id", profile.ID.Hex()),
		slog.String("role", profile.Role))
	return &SignInResult{Session: session, Token: token}, nil
}

// SignUp creates an account. The role comes from the configured rule, never from the caller.
func (p *SessionProvider) SignUp(ctx context.Context, email, password, fullName string) (*SignUpResult, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	violations := models.Violations{}
	if email == "" {
		violations["email"] = "required"
	} else if !strings.Contains(email, "@") {
		violations["email"] = "invalid"
	}
	if len(password) < minPasswordLen {
		violations["password"] = "too_short"
	}
	if fullName == "" {
		violations["full_name"] = "required"
	}
	if !violations.Empty() {
		return nil, apperr.Validation(violations)
	}

	existing, err := p.Profiles.ProfileByEmail(ctx, email)
	if err != nil {
		return nil, apperr.DataAccess("sign up", err)
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := p.now()
	profile := &models.Profile{
		Email:     email,
		Password:  string(hash),
		FullName:  fullName,
		Role:      p.Roles.RoleFor(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !p.RequireConfirmation {
		profile.EmailConfirmedAt = &now
	}
	id, err := p.Profiles.CreateProfile(ctx, profile)
	if errors.Is(err, apperr.ErrEmailTaken) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.DataAccess("create profile", err)
	}
	profile.ID = id
	p.logger().InfoContext(ctx, "account created",
		slog.String("user_id", id.Hex()),
		slog.String("role", profile.Role))

	if !p.RequireConfirmation {
		return &SignUpResult{Profile: profile}, nil
	}
	if err := p.sendConfirmation(ctx, profile); err != nil {
		// An account without a delivered token can never be confirmed.
		if derr := p.Profiles.DeleteProfile(ctx, id); derr != nil {
			p.logger().ErrorContext(ctx, "roll back unconfirmed account",
				slog.String("user_id", id.Hex()),
				slog.Any("error", derr))
		}
		return nil, err
	}
	return &SignUpResult{Profile: profile, ConfirmationSent: true}, nil
}

func (p *SessionProvider) sendConfirmation(ctx context.Context, profile *models.Profile) error {
	c := &models.EmailConfirmation{
		Token:  uuid.NewString(),
		UserID: profile.ID,
		Email:  profile.Email,
		SentAt: p.now(),
	}
	if err := p.Confirmations.InsertConfirmation(ctx, c); err != nil {
		return apperr.DataAccess("store confirmation", err)
	}
	link := strings.TrimRight(p.PublicURL, "/") + "/api/auth/confirm?token=" + url.QueryEscape(c.Token)
	if err := p.Mailer.SendConfirmation(ctx, profile, link); err != nil {
		p.logger().ErrorContext(ctx, "send confirmation email",
			slog.String("user_id", profile.ID.Hex()),
			slog.Any("error", err))
		return apperr.DataAccess("send confirmation email", err)
	}
	return nil
}

// Confirm marks the account behind token as confirmed. Reusing a token is harmless.
func (p *SessionProvider) Confirm(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperr.ErrInvalidToken
	}
	c, err := p.Confirmations.ConfirmationByToken(ctx, token)
	if err != nil {
		return apperr.DataAccess("confirm email", err)
	}
	if c == nil {
		return apperr.ErrInvalidToken
	}
	if c.ConfirmedAt != nil {
		return nil
	}
	now := p.now()
	if err := p.Profiles.ConfirmProfile(ctx, c.UserID, now); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrInvalidToken
		}
		return apperr.DataAccess("confirm email", err)
	}
	if err := p.Confirmations.MarkConfirmationUsed(ctx, c.ID, now); err != nil {
		return apperr.DataAccess("confirm email", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its live session.
func (p *SessionProvider) Authenticate(raw string) (*Session, error) {
	claims, err := p.Tokens.Parse(raw, p.now())
	if err != nil {
		return nil, err
	}
	session, ok := p.Sessions.Get(claims.SessionID)
	if !ok || session.Profile.ID.Hex() != claims.UserID {
		return nil, apperr.ErrInvalidToken
	}
	return session, nil
}

// SignOut tears the session down; its token stops working immediately.
func (p *SessionProvider) SignOut(ctx context.Context, sessionID string) {
	p.Sessions.Delete(sessionID)
	p.logger().InfoContext(ctx, "session closed", slog.String("session_id", sessionID))
}
