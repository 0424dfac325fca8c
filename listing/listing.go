// Package listing filters the document list and decides which row controls
// a profile gets to see.
package listing

import (
	"fmt"
	"strings"

	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// Field selects which document fields a search term is matched against.
type Field uint8

const (
	FieldTitle Field = 1 << iota
	FieldDescription
	FieldAuthor

	DefaultFields = FieldTitle | FieldDescription | FieldAuthor
)

// ParseFields reads a comma separated list such as "title,author".
// Blank input yields DefaultFields.
func ParseFields(s string) (Field, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultFields, nil
	}
	var f Field
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "title":
			f |= FieldTitle
		case "description":
			f |= FieldDescription
		case "author":
			f |= FieldAuthor
		case "":
		default:
			return 0, fmt.Errorf("unknown search field %q", part)
		}
	}
	if f == 0 {
		return DefaultFields, nil
	}
	return f, nil
}

type Filter struct {
	Term     string
	Category string
	Fields   Field
}

// Active reports whether the filter narrows the list at all.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Term) != "" || (f.Category != "" && f.Category != AllCategories)
}

func (f Filter) matches(d *models.Document) bool {
	if f.Category != "" && f.Category != AllCategories && d.Category != f.Category {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Term))
	if term == "" {
		return true
	}
	fields := f.Fields
	if fields == 0 {
		fields = DefaultFields
	}
	return (fields&FieldTitle != 0 && strings.Contains(strings.ToLower(d.Title), term)) ||
		(fields&FieldDescription != 0 && strings.Contains(strings.ToLower(d.Description), term)) ||
		(fields&FieldAuthor != 0 && strings.Contains(strings.ToLower(d.AuthorName), term))
}

// Apply returns the documents matching f in their original order.
func Apply(docs []models.Document, f Filter) []models.Document {
	if !f.Active() {
		return docs
	}
	out := make([]models.Document, 0, len(docs))
	for i := range docs {
		if f.matches(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}

// Empty-state hints for the list view.
const (
	EmptyCreateFirst = "create_first"
	EmptyNoResults   = "no_results"
)

type Item struct {
	models.Document
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type View struct {
	Items     []Item `json:"items"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`
	CanCreate bool   `json:"can_create"`
	Empty     string `json:"empty,omitempty"`
}

// Build filters docs and attaches the per-row affordances granted by gate.
func Build(docs []models.Document, f Filter, gate *policy.Gate, profile *models.Profile) View {
	matched := Apply(docs, f)
	v := View{
		Items:     make([]Item, 0, len(matched)),
		Total:     len(docs),
		Matched:   len(matched),
		CanCreate: gate.CanCreate(profile),
	}
	for i := range matched {
		doc := &matched[i]
		v.Items = append(v.Items, Item{
			Document:  *doc,
			CanEdit:   gate.CanEdit(profile, doc),
			CanDelete: gate.CanDelete(profile, doc),
		})
	}
	if len(matched) == 0 {
		if f.Active() {
			v.Empty = EmptyNoResults
		} else {
			v.Empty = EmptyCreateFirst
		}
	}
	return v
}
