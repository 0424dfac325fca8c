package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category values as stored in the documents collection.
const (
	CategoryTraining       = "Treinamento"
	CategoryProjects       = "Projetos"
	CategoryAdministrative = "Administrativo"
)

var ValidCategories = []string{CategoryTraining, CategoryProjects, CategoryAdministrative}

func CategoryValid(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// driveLinkPattern accepts file-by-id, open-by-id and folder links.
var driveLinkPattern = regexp.MustCompile(`^https://drive\.google\.com/(file/d/|open\?id=|drive/folders/)`)

// DriveLinkValid reports whether link is a recognized Google Drive URL. Empty means not provided yet.
func DriveLinkValid(link string) bool {
	return link == "" || driveLinkPattern.MatchString(link)
}

type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	DriveLink   string             `bson:"drive_link" json:"drive_link"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName  string             `bson:"author_name,omitempty" json:"author_name,omitempty"` // filled by the profiles join
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Draft is the not-yet-persisted form state of a Document.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DriveLink   string `json:"drive_link"`
}

// DraftOf returns the editable fields of d.
func DraftOf(d *Document) Draft {
	return Draft{
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		DriveLink:   d.DriveLink,
	}
}

// Violations maps a field name to a short machine-readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (d Draft) Validate() Violations {
	v := Violations{}
	if strings.TrimSpace(d.Title) == "" {
		v["title"] = "required"
	}
	if strings.TrimSpace(d.Description) == "" {
		v["description"] = "required"
	}
	if d.Category == "" {
		v["category"] = "required"
	} else if !CategoryValid(d.Category) {
		v["category"] = "invalid"
	}
	if !DriveLinkValid(d.DriveLink) {
		v["drive_link"] = "invalid_drive_link"
	}
	return v
}

// DocumentPatch carries a partial update; nil fields are left unchanged.
type DocumentPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	DriveLink   *string `json:"drive_link,omitempty"`
}

func (p DocumentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.DriveLink == nil
}

// Apply returns the draft that results from applying p on top of d.
func (p DocumentPatch) Apply(d Draft) Draft {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.DriveLink != nil {
		d.DriveLink = *p.DriveLink
	}
	return d
}

// Diff returns the patch that turns from into to.
func Diff(from, to Draft) DocumentPatch {
	var p DocumentPatch
	if from.Title != to.Title {
		p.Title = &to.Title
	}
	if from.Description != to.Description {
		p.Description = &to.Description
	}
	if from.Category != to.Category {
		p.Category = &to.Category
	}
	if from.DriveLink != to.DriveLink {
		p.DriveLink = &to.DriveLink
	}
	return p
}
