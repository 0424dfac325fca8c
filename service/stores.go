package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/dejapp/models"
)

// ProfileStore is the account side of the data collaborator. Lookups return
// nil, nil when nothing matches.
type ProfileStore interface {
	ProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) (primitive.ObjectID, error)
	ConfirmProfile(ctx context.Context, id primitive.ObjectID, at time.Time) error
	DeleteProfile(ctx context.Context, id primitive.ObjectID) error
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

// DocumentStore is the documents table, read joined with the author profile.
type DocumentStore interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	InsertDocument(ctx context.Context, doc *models.Document) (primitive.ObjectID, error)
	UpdateDocument(ctx context.Context, id primitive.ObjectID, patch models.DocumentPatch, updatedAt time.Time) error
	DeleteDocument(ctx context.Context, id primitive.ObjectID) error
}

type ConfirmationStore interface {
	InsertConfirmation(ctx context.Context, c *models.EmailConfirmation) error
	ConfirmationByToken(ctx context.Context, token string) (*models.EmailConfirmation, error)
	MarkConfirmationUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error
}
