package service

import (
	"context"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail/v2"

	"github.com/kevinaaaquil/dejapp/models"
)

// Mailer delivers the signup confirmation link.
type Mailer interface {
	SendConfirmation(ctx context.Context, to *models.Profile, link string) error
}

type SMTPMailer struct {
	Dialer *mail.Dialer
	From   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	d := mail.NewDialer(host, port, username, password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	return &SMTPMailer{Dialer: d, From: from}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to *models.Profile, link string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetAddressHeader("To", to.Email, to.FullName)
	msg.SetHeader("Subject", "Confirme seu email - DEJAPP")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Olá %s,\n\nConfirme seu email para acessar o sistema de documentos:\n%s\n", to.FullName, link))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<p>Olá %s,</p><p>Confirme seu email para acessar o sistema de documentos:</p><p><a href="%s">Confirmar email</a></p>`,
		to.FullName, link))
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Dialer.DialAndSend(msg)
}

// LogMailer writes the link to the log instead of sending mail. Used when SMTP is not configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to *models.Profile, link string) error {
	m.Logger.InfoContext(ctx, "confirmation email not sent (SMTP not configured)",
		slog.String("email", to.Email),
		slog.String("link", link))
	return nil
}
