// Package content serves the read-only dashboard sections: training videos
// and delivery examples. The data ships inside the binary.
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kevinaaaquil/dejapp/utils"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type Training struct {
	ID           int    `yaml:"id" json:"id"`
	Title        string `yaml:"title" json:"title"`
	Duration     string `yaml:"duration" json:"duration"`
	Description  string `yaml:"description" json:"description"`
	DriveLink    string `yaml:"drive_link" json:"drive_link"`
	DownloadLink string `yaml:"-" json:"download_link,omitempty"`
}

type DeliveryFile struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	Size string `yaml:"size" json:"size"`
	Link string `yaml:"link,omitempty" json:"link,omitempty"`
}

type Delivery struct {
	ID    string         `yaml:"id" json:"id"`
	Name  string         `yaml:"name" json:"name"`
	Count int            `yaml:"count" json:"count"`
	Files []DeliveryFile `yaml:"files" json:"files,omitempty"`
}

// Result kinds returned by Search.
const (
	KindTraining = "Treinamento"
	KindDelivery = "Entrega"
)

type Result struct {
	Title    string `json:"title"`
	Kind     string `json:"type"`
	Category string `json:"category"`
	Section  string `json:"section"`
}

type Catalog struct {
	trainings  []Training
	deliveries []Delivery
}

// Load parses a catalog document and derives download links for trainings.
func Load(raw []byte) (*Catalog, error) {
	var doc struct {
		Trainings  []Training `yaml:"trainings"`
		Deliveries []Delivery `yaml:"deliveries"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := map[string]bool{}
	for _, d := range doc.Deliveries {
		if d.ID == "" || seen[d.ID] {
			return nil, fmt.Errorf("parse catalog: delivery id %q missing or duplicated", d.ID)
		}
		seen[d.ID] = true
	}
	for i := range doc.Trainings {
		doc.Trainings[i].DownloadLink = utils.DriveDownloadURL(doc.Trainings[i].DriveLink)
	}
	return &Catalog{trainings: doc.Trainings, deliveries: doc.Deliveries}, nil
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embeddedCatalog)
}

func (c *Catalog) Trainings() []Training {
	return append([]Training(nil), c.trainings...)
}

// Deliveries lists the delivery categories without their files.
func (c *Catalog) Deliveries() []Delivery {
	out := make([]Delivery, len(c.deliveries))
	for i, d := range c.deliveries {
		d.Files = nil
		out[i] = d
	}
	return out
}

// Delivery returns one category with its files.
func (c *Catalog) Delivery(id string) (Delivery, bool) {
	for _, d := range c.deliveries {
		if d.ID == id {
			d.Files = append([]DeliveryFile(nil), d.Files...)
			return d, true
		}
	}
	return Delivery{}, false
}

// Search matches term case-insensitively against training titles and
// delivery file names. A blank term matches nothing.
func (c *Catalog) Search(term string) []Result {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []Result
	for _, t := range c.trainings {
		if strings.Contains(strings.ToLower(t.Title), term) {
			out = append(out, Result{Title: t.Title, Kind: KindTraining, Category: "Treinamentos", Section: "trainings"})
		}
	}
	for _, d := range c.deliveries {
		for _, f := range d.Files {
			if strings.Contains(strings.ToLower(f.Name), term) {
				out = append(out, Result{Title: f.Name, Kind: KindDelivery, Category: d.Name, Section: "deliveries"})
			}
		}
	}
	return out
}
