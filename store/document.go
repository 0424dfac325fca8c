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

// withAuthorName joins documents.author_id to profiles and keeps only the full name.
var withAuthorName = mongo.Pipeline{
	{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "profiles"},
		{Key: "localField", Value: "author_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "author"},
	}}},
	{{Key: "$set", Value: bson.D{
		{Key: "author_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
			bson.D{{Key: "$first", Value: "$author.full_name"}}, "",
		}}}},
	}}},
	{{Key: "$project", Value: bson.D{{Key: "author", Value: 0}}}},
}

// ListDocuments returns every document, newest first, with the author's full name.
func (db *DB) ListDocuments(ctx context.Context) ([]models.Document, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}, withAuthorName...)
	cur, err := db.Documents().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	docs := []models.Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (db *DB) DocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}, withAuthorName...)
	cur, err := db.Documents().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var doc models.Document
	if err := cur.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (db *DB) InsertDocument(ctx context.Context, doc *models.Document) (primitive.ObjectID, error) {
	stored := *doc
	stored.AuthorName = ""
	res, err := db.Documents().InsertOne(ctx, &stored, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// UpdateDocument sets only the fields present in patch.
func (db *DB) UpdateDocument(ctx context.Context, id primitive.ObjectID, patch models.DocumentPatch, updatedAt time.Time) error {
	update := bson.M{"updated_at": updatedAt}
	if patch.Title != nil {
		update["title"] = *patch.Title
	}
	if patch.Description != nil {
		update["description"] = *patch.Description
	}
	if patch.Category != nil {
		update["category"] = *patch.Category
	}
	if patch.DriveLink != nil {
		update["drive_link"] = *patch.DriveLink
	}
	res, err := db.Documents().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) DeleteDocument(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.Documents().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
