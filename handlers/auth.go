package handlers

import (
	"net/http"
	"time"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/middleware"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/utils"
)

type AuthHandler struct {
	Sessions *service.SessionProvider
	Gate     *policy.Gate
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type SignOutRequest struct {
	Confirm bool `json:"confirm"`
}

type Capabilities struct {
	IsAdmin   bool `json:"is_admin"`
	CanCreate bool `json:"can_create"`
}

type ProfileResponse struct {
	Profile      models.Profile `json:"profile"`
	Capabilities Capabilities   `json:"capabilities"`
}

type SignInResponse struct {
	Token        string               `json:"token"`
	ExpiresAt    time.Time            `json:"expires_at"`
	Profile      models.Profile       `json:"profile"`
	Capabilities Capabilities         `json:"capabilities"`
	Notification *apperr.Notification `json:"notification"`
}

type SignUpResponse struct {
	Profile          models.Profile       `json:"profile"`
	ConfirmationSent bool                 `json:"confirmation_sent"`
	Notification     *apperr.Notification `json:"notification"`
}

type MessageResponse struct {
	Notification *apperr.Notification `json:"notification"`
}

func (h *AuthHandler) capabilities(p *models.Profile) Capabilities {
	return Capabilities{IsAdmin: p.IsAdmin(), CanCreate: h.Gate.CanCreate(p)}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro no login"}
	var req SignInRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	res, err := h.Sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	profile := res.Session.Profile
	utils.WriteJSON(w, http.StatusOK, SignInResponse{
		Token:        res.Token,
		ExpiresAt:    res.Session.ExpiresAt,
		Profile:      profile,
		Capabilities: h.capabilities(&profile),
		Notification: apperr.Success("Login realizado com sucesso!", "Bem-vindo, "+profile.FullName+"."),
	})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro no cadastro"}
	var req SignUpRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	res, err := h.Sessions.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	note := apperr.Success("Conta criada com sucesso!", "Você já pode fazer login.")
	if res.ConfirmationSent {
		note = apperr.Success("Cadastro realizado!", "Verifique seu email para confirmar a conta.")
	}
	utils.WriteJSON(w, http.StatusCreated, SignUpResponse{
		Profile:          *res.Profile,
		ConfirmationSent: res.ConfirmationSent,
		Notification:     note,
	})
}

// Confirm is the target of the emailed confirmation link.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Confirm(r.Context(), r.URL.Query().Get("token")); err != nil {
		utils.WriteError(w, err, apperr.Notification{Title: "Erro na confirmação"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, MessageResponse{
		Notification: apperr.Success("Email confirmado!", "Você já pode fazer login."),
	})
}

// SignOut requires {"confirm": true} in the body.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro ao sair"}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, fail)
		return
	}
	var req SignOutRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	if !req.Confirm {
		utils.WriteError(w, apperr.ErrConfirmationRequired, fail)
		return
	}
	h.Sessions.SignOut(r.Context(), session.ID)
	utils.WriteJSON(w, http.StatusOK, MessageResponse{
		Notification: apperr.Success("Logout realizado", "Até logo!"),
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, apperr.Notification{Title: "Não autorizado"})
		return
	}
	profile := session.Profile
	utils.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: profile, Capabilities: h.capabilities(&profile)})
}
