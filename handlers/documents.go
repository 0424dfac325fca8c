package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/form"
	"github.com/kevinaaaquil/dejapp/listing"
	"github.com/kevinaaaquil/dejapp/middleware"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/utils"
)

type DocumentsHandler struct {
	Docs         *service.Documents
	Gate         *policy.Gate
	SearchFields listing.Field
}

// ListResponse is the document list view. When the store cannot be reached
// the list degrades to empty and Notification explains why.
type ListResponse struct {
	listing.View
	Categories   []string             `json:"categories"`
	Degraded     bool                 `json:"degraded,omitempty"`
	Notification *apperr.Notification `json:"notification,omitempty"`
}

type DocumentResponse struct {
	Document     *models.Document     `json:"document"`
	Notification *apperr.Notification `json:"notification"`
}

func (h *DocumentsHandler) filterFrom(r *http.Request) listing.Filter {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = listing.AllCategories
	}
	return listing.Filter{Term: q.Get("q"), Category: category, Fields: h.SearchFields}
}

// view fetches the full collection and filters it in memory.
func (h *DocumentsHandler) view(ctx context.Context, f listing.Filter, profile *models.Profile) ListResponse {
	docs, err := h.Docs.List(ctx)
	if err != nil {
		// An unreachable store is not an empty collection; no empty-state hint.
		v := listing.Build(nil, f, h.Gate, profile)
		v.Empty = ""
		return ListResponse{
			View:         v,
			Categories:   models.ValidCategories,
			Degraded:     true,
			Notification: apperr.Notify(err, apperr.Notification{Title: "Erro ao carregar documentos"}),
		}
	}
	return ListResponse{View: listing.Build(docs, f, h.Gate, profile), Categories: models.ValidCategories}
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, apperr.Notification{Title: "Não autorizado"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.view(r.Context(), h.filterFrom(r), &session.Profile))
}

// submit runs a form to completion. An unsubmittable form (bad link) is
// reported as a validation error on drive_link.
func (h *DocumentsHandler) submit(ctx context.Context, f *form.Form, actor *models.Profile) (*models.Document, error) {
	var saved *models.Document
	err := f.Submit(ctx, h.Docs, actor, func(d *models.Document) { saved = d })
	if errors.Is(err, form.ErrNotSubmittable) {
		return nil, apperr.Validation(map[string]string{"drive_link": "invalid_drive_link"})
	}
	return saved, err
}

func (h *DocumentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro ao criar documento"}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, fail)
		return
	}
	var draft models.Draft
	if err := utils.DecodeJSON(r, &draft); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	f := form.New(nil)
	f.SetDraft(draft)
	doc, err := h.submit(r.Context(), f, &session.Profile)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, DocumentResponse{
		Document:     doc,
		Notification: apperr.Success("Documento criado!", "O documento foi adicionado com sucesso."),
	})
}

func documentID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro ao atualizar documento"}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, fail)
		return
	}
	id, err := documentID(r)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	var patch models.DocumentPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	current, err := h.Docs.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	f := form.New(current)
	f.SetDraft(patch.Apply(f.Draft()))
	doc, err := h.submit(r.Context(), f, &session.Profile)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	utils.WriteJSON(w, http.StatusOK, DocumentResponse{
		Document:     doc,
		Notification: apperr.Success("Documento atualizado!", "As alterações foram salvas."),
	})
}

// Delete requires ?confirm=true; without it nothing is removed.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fail := apperr.Notification{Title: "Erro ao excluir documento"}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperr.ErrInvalidToken, fail)
		return
	}
	id, err := documentID(r)
	if err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.Docs.Delete(r.Context(), &session.Profile, id, confirmed); err != nil {
		utils.WriteError(w, err, fail)
		return
	}
	utils.WriteJSON(w, http.StatusOK, MessageResponse{
		Notification: apperr.Success("Documento excluído!", "O documento foi removido."),
	})
}
