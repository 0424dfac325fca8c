// Package memstore is an in-memory implementation of the profile, document and
// confirmation stores. It backs the tests and STORE_DRIVER=memory.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/models"
)

type Store struct {
	mu            sync.RWMutex
	seq           int64
	profiles      map[primitive.ObjectID]models.Profile
	documents     map[primitive.ObjectID]storedDocument
	confirmations map[string]models.EmailConfirmation

	// Err, when set, is returned by every call. Tests use it to simulate an unreachable store.
	Err error
}

type storedDocument struct {
	doc models.Document
	seq int64
}

func New() *Store {
	return &Store{
		profiles:      make(map[primitive.ObjectID]models.Profile),
		documents:     make(map[primitive.ObjectID]storedDocument),
		confirmations: make(map[string]models.EmailConfirmation),
	}
}

func (s *Store) ProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) ProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) CreateProfile(_ context.Context, p *models.Profile) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return primitive.NilObjectID, apperr.ErrEmailTaken
		}
	}
	stored := *p
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	s.profiles[stored.ID] = stored
	return stored.ID, nil
}

func (s *Store) ConfirmProfile(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.EmailConfirmedAt = &at
	p.UpdatedAt = at
	s.profiles[id] = p
	return nil
}

func (s *Store) DeleteProfile(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.profiles[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *Store) ListProfiles(_ context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListDocuments(_ context.Context) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored := make([]storedDocument, 0, len(s.documents))
	for _, d := range s.documents {
		stored = append(stored, d)
	}
	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].doc.CreatedAt.Equal(stored[j].doc.CreatedAt) {
			return stored[i].doc.CreatedAt.After(stored[j].doc.CreatedAt)
		}
		return stored[i].seq > stored[j].seq
	})
	docs := make([]models.Document, 0, len(stored))
	for _, d := range stored {
		docs = append(docs, s.joined(d.doc))
	}
	return docs, nil
}

func (s *Store) DocumentByID(_ context.Context, id primitive.ObjectID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	d, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	doc := s.joined(d.doc)
	return &doc, nil
}

// joined fills AuthorName the way the profiles lookup does. Caller holds the lock.
func (s *Store) joined(doc models.Document) models.Document {
	doc.AuthorName = ""
	if p, ok := s.profiles[doc.AuthorID]; ok {
		doc.AuthorName = p.FullName
	}
	return doc
}

func (s *Store) InsertDocument(_ context.Context, doc *models.Document) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	stored := *doc
	stored.AuthorName = ""
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	s.seq++
	s.documents[stored.ID] = storedDocument{doc: stored, seq: s.seq}
	return stored.ID, nil
}

func (s *Store) UpdateDocument(_ context.Context, id primitive.ObjectID, patch models.DocumentPatch, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	d, ok := s.documents[id]
	if !ok {
		return apperr.ErrNotFound
	}
	draft := patch.Apply(models.DraftOf(&d.doc))
	d.doc.Title = draft.Title
	d.doc.Description = draft.Description
	d.doc.Category = draft.Category
	d.doc.DriveLink = draft.DriveLink
	d.doc.UpdatedAt = updatedAt
	s.documents[id] = d
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.documents[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Store) InsertConfirmation(_ context.Context, c *models.EmailConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored := *c
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	s.confirmations[stored.Token] = stored
	return nil
}

func (s *Store) ConfirmationByToken(_ context.Context, token string) (*models.EmailConfirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.confirmations[token]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) MarkConfirmationUsed(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for token, c := range s.confirmations {
		if c.ID == id {
			c.ConfirmedAt = &at
			s.confirmations[token] = c
			return nil
		}
	}
	return apperr.ErrNotFound
}
