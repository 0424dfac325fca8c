package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/listing"
	"github.com/kevinaaaquil/dejapp/middleware"
	"github.com/kevinaaaquil/dejapp/nav"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/utils"
)

// NavHandler drives the per-session section switch and renders the view of
// whichever section is current.
type NavHandler struct {
	Content   *ContentHandler
	Documents *DocumentsHandler
}

type NavResponse struct {
	Section  nav.Section   `json:"section"`
	Sections []nav.Section `json:"sections"`
	View     any           `json:"view"`
}

func (h *NavHandler) render(r *http.Request, s *service.Session) NavResponse {
	section := s.Nav.Current()
	resp := NavResponse{Section: section, Sections: nav.Sections}
	switch section {
	case nav.Trainings:
		resp.View = TrainingsView{Trainings: h.Content.Catalog.Trainings()}
	case nav.Deliveries:
		resp.View = DeliveriesView{Deliveries: h.Content.Catalog.Deliveries()}
	case nav.Documents:
		resp.View = h.Documents.view(r.Context(), listing.Filter{Category: listing.AllCategories, Fields: h.Documents.SearchFields}, &s.Profile)
	default:
		resp.View = h.Content.home(r.URL.Query().Get("q"))
	}
	return resp
}

func (h *NavHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, apperr.Notification{Title: "Não autorizado"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.render(r, s))
}

func (h *NavHandler) Open(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Navegação inválida"}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, fail)
		return
	}
	section, err := nav.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		utils.WriteError(w, apperr.ErrNotFound, fail)
		return
	}
	if err := s.Nav.Open(section); err != nil {
		if errors.Is(err, nav.ErrInvalidTransition) {
			err = apperr.Validation(map[string]string{"section": "open_from_home_only"})
		}
		utils.WriteError(w, err, fail)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.render(r, s))
}

func (h *NavHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, apperr.Notification{Title: "Não autorizado"})
		return
	}
	s.Nav.Back()
	utils.WriteJSON(w, http.StatusOK, h.render(r, s))
}
