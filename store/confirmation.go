package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevinaaaquil/dejapp/models"
)

// InsertConfirmation records that a confirmation link was mailed.
func (db *DB) InsertConfirmation(ctx context.Context, c *models.EmailConfirmation) error {
	_, err := db.Confirmations().InsertOne(ctx, c, options.InsertOne())
	return err
}

// ConfirmationByToken returns the confirmation for token, or nil if none exists.
func (db *DB) ConfirmationByToken(ctx context.Context, token string) (*models.EmailConfirmation, error) {
	var c models.EmailConfirmation
	err := db.Confirmations().FindOne(ctx, bson.M{"token": token}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) MarkConfirmationUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := db.Confirmations().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"confirmed_at": at}})
	return err
}
