package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailConfirmation records a confirmation link mailed to a new account.
type EmailConfirmation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token       string             `bson:"token" json:"-"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Email       string             `bson:"email" json:"email"`
	SentAt      time.Time          `bson:"sent_at" json:"sent_at"`
	ConfirmedAt *time.Time         `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
}
