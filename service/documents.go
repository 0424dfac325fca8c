package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
)

// Documents is the query/mutation layer over the documents table. Every call
// goes to the store; nothing is cached. Access rules are enforced here with
// the same Gate the list view uses for its affordances.
type Documents struct {
	Store   DocumentStore
	Gate    *policy.Gate
	Links   LinkInspector // optional
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

func (d *Documents) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Documents) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// List returns all documents newest first, with author names.
func (d *Documents) List(ctx context.Context) ([]models.Document, error) {
	docs, err := d.Store.ListDocuments(ctx)
	if err != nil {
		d.logger().ErrorContext(ctx, "list documents", slog.Any("error", err))
		return nil, apperr.DataAccess("list documents", err)
	}
	return docs, nil
}

func (d *Documents) Get(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	doc, err := d.Store.DocumentByID(ctx, id)
	if err != nil {
		return nil, apperr.DataAccess("load document", err)
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}
	return doc, nil
}

func normalizeDraft(draft models.Draft) models.Draft {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.DriveLink = strings.TrimSpace(draft.DriveLink)
	return draft
}

func (d *Documents) inspect(ctx context.Context, link string) error {
	if d.Links == nil || link == "" {
		return nil
	}
	return d.Links.Inspect(ctx, link)
}

// Create persists a valid draft authored by actor.
func (d *Documents) Create(ctx context.Context, actor *models.Profile, draft models.Draft) (doc *models.Document, err error) {
	defer func() { d.Metrics.Mutation("create", err) }()

	draft = normalizeDraft(draft)
	if v := draft.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	if !d.Gate.CanCreate(actor) {
		return nil, apperr.ErrForbidden
	}
	if err := d.inspect(ctx, draft.DriveLink); err != nil {
		return nil, err
	}
	now := d.now()
	doc = &models.Document{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		DriveLink:   draft.DriveLink,
		AuthorID:    actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := d.Store.InsertDocument(ctx, doc)
	if err != nil {
		d.logger().ErrorContext(ctx, "insert document", slog.Any("error", err))
		return nil, apperr.DataAccess("insert document", err)
	}
	doc.ID = id
	doc.AuthorName = actor.FullName
	d.logger().InfoContext(ctx, "document created",
		slog.String("document_id", id.Hex()),
		slog.String("author_id", actor.ID.Hex()))
	return doc, nil
}

// Update applies patch to the document. Nil fields stay unchanged; last write wins.
func (d *Documents) Update(ctx context.Context, actor *models.Profile, id primitive.ObjectID, patch models.DocumentPatch) (doc *models.Document, err error) {
	defer func() { d.Metrics.Mutation("update", err) }()

	current, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Gate.CanEdit(actor, current) {
		return nil, apperr.ErrForbidden
	}
	merged := normalizeDraft(patch.Apply(models.DraftOf(current)))
	if v := merged.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	changes := models.Diff(models.DraftOf(current), merged)
	if changes.Empty() {
		return current, nil
	}
	if changes.DriveLink != nil {
		if err := d.inspect(ctx, merged.DriveLink); err != nil {
			return nil, err
		}
	}
	now := d.now()
	if err := d.Store.UpdateDocument(ctx, id, changes, now); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		d.logger().ErrorContext(ctx, "update document", slog.String("document_id", id.Hex()), slog.Any("error", err))
		return nil, apperr.DataAccess("update document", err)
	}
	updated := *current
	updated.Title = merged.Title
	updated.Description = merged.Description
	updated.Category = merged.Category
	updated.DriveLink = merged.DriveLink
	updated.UpdatedAt = now
	return &updated, nil
}

// Delete removes the document for good. confirmed must reflect an explicit
// user confirmation; without it nothing is sent to the store.
func (d *Documents) Delete(ctx context.Context, actor *models.Profile, id primitive.ObjectID, confirmed bool) (err error) {
	defer func() { d.Metrics.Mutation("delete", err) }()

	if !confirmed {
		return apperr.ErrConfirmationRequired
	}
	current, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if !d.Gate.CanDelete(actor, current) {
		return apperr.ErrForbidden
	}
	if err := d.Store.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		d.logger().ErrorContext(ctx, "delete document", slog.String("document_id", id.Hex()), slog.Any("error", err))
		return apperr.DataAccess("delete document", err)
	}
	d.logger().InfoContext(ctx, "document deleted",
		slog.String("document_id", id.Hex()),
		slog.String("actor_id", actor.ID.Hex()))
	return nil
}
