// Package form is the document create/edit form: draft state, link
// validation and the submit lifecycle.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/models"
)

type State string

const (
	Empty      State = "empty"
	Editing    State = "editing"
	Validating State = "validating"
	Submitting State = "submitting"
	Closed     State = "closed"
)

var (
	ErrClosed         = errors.New("form is closed")
	ErrNotSubmittable = errors.New("form cannot be submitted in its current state")
)

// Submitter persists a draft. *service.Documents satisfies it.
type Submitter interface {
	Create(ctx context.Context, actor *models.Profile, draft models.Draft) (*models.Document, error)
	Update(ctx context.Context, actor *models.Profile, id primitive.ObjectID, patch models.DocumentPatch) (*models.Document, error)
}

// Form holds one draft. A form created from an existing document edits it;
// otherwise it creates a new one.
type Form struct {
	mu       sync.Mutex
	state    State
	draft    models.Draft
	original *models.Document
	err      error
}

func New(existing *models.Document) *Form {
	if existing == nil {
		return &Form{state: Empty}
	}
	doc := *existing
	return &Form{state: Editing, draft: models.DraftOf(&doc), original: &doc}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Draft() models.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Err is the error of the last failed submit, if any.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Form) IsEdit() bool {
	return f.original != nil
}

func (f *Form) set(apply func(d *models.Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Closed || f.state == Submitting {
		return
	}
	apply(&f.draft)
	f.state = Editing
}

func (f *Form) SetTitle(v string)       { f.set(func(d *models.Draft) { d.Title = v }) }
func (f *Form) SetDescription(v string) { f.set(func(d *models.Draft) { d.Description = v }) }
func (f *Form) SetCategory(v string)    { f.set(func(d *models.Draft) { d.Category = v }) }
func (f *Form) SetDriveLink(v string)   { f.set(func(d *models.Draft) { d.DriveLink = v }) }

// SetDraft replaces every field at once.
func (f *Form) SetDraft(d models.Draft) { f.set(func(cur *models.Draft) { *cur = d }) }

// LinkValid reports whether the current link is empty or a recognized Drive URL.
func (f *Form) LinkValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.DriveLinkValid(strings.TrimSpace(f.draft.DriveLink))
}

// CanSubmit is false while a submit is in flight, after close, and while the
// link is non-empty and unrecognized.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmit()
}

func (f *Form) canSubmit() bool {
	if f.state == Submitting || f.state == Closed {
		return false
	}
	return models.DriveLinkValid(strings.TrimSpace(f.draft.DriveLink))
}

// Submit validates the draft and hands it to s. Edits send only the fields
// that changed. On success onSuccess receives the stored document and the
// form closes; on failure it returns to Editing keeping the error.
func (f *Form) Submit(ctx context.Context, s Submitter, actor *models.Profile, onSuccess func(*models.Document)) error {
	f.mu.Lock()
	if f.state == Closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if !f.canSubmit() {
		f.mu.Unlock()
		return ErrNotSubmittable
	}
	f.state = Validating
	if v := f.draft.Validate(); !v.Empty() {
		err := apperr.Validation(v)
		f.state = Editing
		f.err = err
		f.mu.Unlock()
		return err
	}
	f.state = Submitting
	draft := f.draft
	original := f.original
	f.mu.Unlock()

	var (
		doc *models.Document
		err error
	)
	if original != nil {
		doc, err = s.Update(ctx, actor, original.ID, models.Diff(models.DraftOf(original), draft))
	} else {
		doc, err = s.Create(ctx, actor, draft)
	}

	f.mu.Lock()
	if err != nil {
		f.state = Editing
		f.err = err
		f.mu.Unlock()
		return err
	}
	f.state = Closed
	f.err = nil
	f.mu.Unlock()

	if onSuccess != nil {
		onSuccess(doc)
	}
	return nil
}

// Close abandons the form. A closed form cannot be reopened.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Closed
}
