package policy

import (
	"fmt"
	"strings"

	"github.com/kevinaaaquil/dejapp/models"
)

// Action describes the kind of operation a profile wants to perform on a document.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// MutationPolicy decides who may update or delete a document.
type MutationPolicy string

const (
	MutateAdminOnly     MutationPolicy = "admin"
	MutateAuthenticated MutationPolicy = "authenticated"
	MutateOwnerOrAdmin  MutationPolicy = "owner_or_admin"
)

func ParseMutationPolicy(s string) (MutationPolicy, error) {
	switch p := MutationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MutateAdminOnly, MutateAuthenticated, MutateOwnerOrAdmin:
		return p, nil
	case "":
		return MutateAdminOnly, nil
	}
	return "", fmt.Errorf("unknown document mutation policy %q (use admin, authenticated or owner_or_admin)", s)
}

// Gate is the single capability check for documents.
type Gate struct {
	Mutation MutationPolicy
}

func NewGate(p MutationPolicy) *Gate {
	if p == "" {
		p = MutateAdminOnly
	}
	return &Gate{Mutation: p}
}

// Can reports whether profile may perform action on doc. A nil profile is
// never authorized. doc may be nil for view/create.
func (g *Gate) Can(profile *models.Profile, action Action, doc *models.Document) bool {
	if profile == nil || profile.ID.IsZero() {
		return false
	}
	switch action {
	case ActionView, ActionCreate:
		return true
	case ActionUpdate, ActionDelete:
		return g.canMutate(profile, doc)
	}
	return false
}

func (g *Gate) canMutate(profile *models.Profile, doc *models.Document) bool {
	switch g.Mutation {
	case MutateAuthenticated:
		return true
	case MutateOwnerOrAdmin:
		return profile.IsAdmin() || (doc != nil && doc.AuthorID == profile.ID)
	default:
		return profile.IsAdmin()
	}
}

func (g *Gate) CanCreate(profile *models.Profile) bool {
	return g.Can(profile, ActionCreate, nil)
}

func (g *Gate) CanEdit(profile *models.Profile, doc *models.Document) bool {
	return g.Can(profile, ActionUpdate, doc)
}

func (g *Gate) CanDelete(profile *models.Profile, doc *models.Document) bool {
	return g.Can(profile, ActionDelete, doc)
}
