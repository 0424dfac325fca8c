package handlers

import (
	"net/http"
	"time"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/utils"
)

type ProfilesHandler struct {
	Profiles service.ProfileStore
}

type ProfileSummary struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"user_type"`
	Confirmed   bool    `json:"email_confirmed"`
	CreatedAt   string  `json:"created_at"`
	ConfirmedAt *string `json:"email_confirmed_at,omitempty"`
}

// List returns all profiles ordered by creation (admin only). Passwords are never serialized.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Profiles.ListProfiles(r.Context())
	if err != nil {
		utils.WriteError(w, apperr.DataAccess("list profiles", err), apperr.Notification{Title: "Erro ao carregar usuários"})
		return
	}
	out := make([]ProfileSummary, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		s := ProfileSummary{
			ID:        p.ID.Hex(),
			Email:     p.Email,
			FullName:  p.FullName,
			Role:      p.Role,
			Confirmed: p.Confirmed(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		}
		if p.EmailConfirmedAt != nil {
			at := p.EmailConfirmedAt.Format(time.RFC3339)
			s.ConfirmedAt = &at
		}
		out = append(out, s)
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
