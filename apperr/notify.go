package apperr

import "errors"

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is the short title/description pair the UI shows as a toast.
type Notification struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func Success(title, description string) *Notification {
	return &Notification{Variant: VariantDefault, Title: title, Description: description}
}

// Notify translates err into a destructive notification. fallback is used for
// errors that carry no user-facing meaning of their own.
func Notify(err error, fallback Notification) *Notification {
	n := fallback
	n.Variant = VariantDestructive
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		n.Description = "Verifique os campos destacados e tente novamente."
	case errors.Is(err, ErrInvalidCredentials):
		n.Description = "Email ou senha inválidos."
	case errors.Is(err, ErrEmailNotConfirmed):
		n.Description = "Confirme seu email antes de fazer login."
	case errors.Is(err, ErrEmailTaken):
		n.Description = "Este email já está cadastrado."
	case errors.Is(err, ErrNotFound):
		n.Description = "O registro não foi encontrado."
	case errors.Is(err, ErrForbidden):
		n.Description = "Você não tem permissão para esta ação."
	case errors.Is(err, ErrConfirmationRequired):
		n.Description = "Confirme a ação antes de continuar."
	case errors.Is(err, ErrInvalidToken):
		n.Description = "Sessão inválida ou expirada. Faça login novamente."
	case KindOf(err) == KindUnexpected:
		n.Description = "Ocorreu um erro inesperado. Tente novamente."
	}
	return &n
}
