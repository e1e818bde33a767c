package estimation

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"kdsgroup.co.in/hms/models"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Catalogue is the list of predefined estimation items, per mode.
type Catalogue struct {
	GSTRate float64                            `yaml:"gst_rate"`
	Modes   map[string][]models.EstimationItem `yaml:"modes"`
}

// LoadCatalogue reads a catalogue file, or the embedded default when path
// is empty.
func LoadCatalogue(path string) (*Catalogue, error) {
	data := defaultCatalogue
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalogue: %w", err)
		}
		data = b
	}
	return ParseCatalogue(data)
}

func ParseCatalogue(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	for mode, items := range c.Modes {
		for i, it := range items {
			if it.Rate < 0 {
				return nil, fmt.Errorf("catalogue %s item %q: negative rate", mode, it.ItemName)
			}
			if it.Quantity == 0 {
				items[i].Quantity = 1
			}
		}
	}
	return &c, nil
}

// Items returns a copy of the catalogue lines for mode, matched without
// regard to case.
func (c *Catalogue) Items(mode string) []models.EstimationItem {
	for m, items := range c.Modes {
		if strings.EqualFold(m, mode) {
			out := make([]models.EstimationItem, len(items))
			copy(out, items)
			return out
		}
	}
	return []models.EstimationItem{}
}

// Merge resolves a submitted form against the catalogue: known item ids
// take their rate and name from the catalogue, custom lines are kept as
// given.
func (c *Catalogue) Merge(mode string, submitted []models.EstimationItem) []models.EstimationItem {
	byID := map[int]models.EstimationItem{}
	for _, it := range c.Items(mode) {
		byID[it.ItemID] = it
	}
	out := make([]models.EstimationItem, 0, len(submitted))
	for _, s := range submitted {
		if known, ok := byID[s.ItemID]; ok && !s.Custom && s.ItemID != 0 {
			known.Quantity = s.Quantity
			known.Selected = s.Selected
			out = append(out, known)
			continue
		}
		s.Custom = true
		out = append(out, s)
	}
	return out
}
