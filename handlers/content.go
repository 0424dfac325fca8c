package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/content"
	"github.com/kevinaaaquil/dejapp/utils"
)

type ContentHandler struct {
	Catalog *content.Catalog
}

type HomeView struct {
	Term    string           `json:"term"`
	Results []content.Result `json:"results"`
}

type TrainingsView struct {
	Trainings []content.Training `json:"trainings"`
}

type DeliveriesView struct {
	Deliveries []content.Delivery `json:"deliveries"`
}

func (h *ContentHandler) home(term string) HomeView {
	results := h.Catalog.Search(term)
	if results == nil {
		results = []content.Result{}
	}
	return HomeView{Term: strings.TrimSpace(term), Results: results}
}

func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.home(r.URL.Query().Get("q")))
}

func (h *ContentHandler) Trainings(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, TrainingsView{Trainings: h.Catalog.Trainings()})
}

func (h *ContentHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, DeliveriesView{Deliveries: h.Catalog.Deliveries()})
}

func (h *ContentHandler) Delivery(w http.ResponseWriter, r *http.Request) {
	d, ok := h.Catalog.Delivery(chi.URLParam(r, "id"))
	if !ok {
		utils.WriteError(w, apperr.ErrNotFound, apperr.Notification{Title: "Categoria não encontrada"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, d)
}
