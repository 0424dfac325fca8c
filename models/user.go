package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var ValidRoles = []string{RoleAdmin, RoleMember}

// Profile is the account record. ID doubles as the auth identity.
type Profile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"` // bcrypt hash
	FullName         string             `bson:"full_name" json:"full_name"`
	Role             string             `bson:"user_type" json:"user_type"` // admin, member
	EmailConfirmedAt *time.Time         `bson:"email_confirmed_at,omitempty" json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Profile) Confirmed() bool {
	return p != nil && p.EmailConfirmedAt != nil
}
