package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/models"
)

func (db *DB) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := db.Profiles().FindOne(ctx, bson.M{"email": email}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	err := db.Profiles().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts p. A duplicate email surfaces as apperr.ErrEmailTaken.
func (db *DB) CreateProfile(ctx context.Context, p *models.Profile) (primitive.ObjectID, error) {
	res, err := db.Profiles().InsertOne(ctx, p, options.InsertOne())
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, apperr.ErrEmailTaken
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ConfirmProfile(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := db.Profiles().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"email_confirmed_at": at,
		"updated_at":         at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) DeleteProfile(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.Profiles().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	cur, err := db.Profiles().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var profiles []models.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
