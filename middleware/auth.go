package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/utils"
)

type contextKey string

const SessionKey contextKey = "session"

var unauthorized = apperr.Notification{Title: "Não autorizado"}

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(raw string) (*service.Session, error)
}

func Auth(auth Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.WriteError(w, apperr.ErrInvalidToken, unauthorized)
				return
			}
			session, err := auth.Authenticate(parts[1])
			if err != nil {
				utils.WriteError(w, err, unauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*service.Session)
	return s, ok && s != nil
}

// RequireAdmin must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			utils.WriteError(w, apperr.ErrInvalidToken, unauthorized)
			return
		}
		if !s.Profile.IsAdmin() {
			utils.WriteError(w, apperr.ErrForbidden, apperr.Notification{Title: "Acesso negado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
