// Package catalog holds the static template catalog and the circular
// carousel arithmetic used by the character selection stage.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"ProjectPhotobooth/internal/entity"
)

// Template is one pre-rendered character image a face can be swapped onto.
type Template struct {
	Name     string `json:"name"`
	AssetURL string `json:"asset_url"`
}

type Catalog struct {
	templates map[entity.Gender][]Template
}

var defaultAssets = map[entity.Gender][]string{
	entity.GenderMale:   {"male-01.jpg", "male-02.jpg", "male-03.jpg", "male-04.jpg"},
	entity.GenderFemale: {"female-01.jpg", "female-02.jpg", "female-03.jpg", "female-04.jpg"},
}

// New builds the catalog from the static asset list, resolving asset URLs
// against TEMPLATE_ASSET_BASE_URL.
func New() *Catalog {
	base := strings.TrimSuffix(os.Getenv("TEMPLATE_ASSET_BASE_URL"), "/")

	templates := make(map[entity.Gender][]Template, len(defaultAssets))
	for gender, assets := range defaultAssets {
		list := make([]Template, 0, len(assets))
		for _, asset := range assets {
			name := strings.TrimSuffix(asset, ".jpg")
			list = append(list, Template{
				Name:     name,
				AssetURL: fmt.Sprintf("%s/%s", base, asset),
			})
		}
		templates[gender] = list
	}

	return &Catalog{templates: templates}
}

// NewWithTemplates builds a catalog from an explicit mapping. Every gender
// must have at least one template.
func NewWithTemplates(templates map[entity.Gender][]Template) (*Catalog, error) {
	for gender, list := range templates {
		if len(list) == 0 {
			return nil, fmt.Errorf("catalog has no templates for gender %q", gender)
		}
	}
	return &Catalog{templates: templates}, nil
}

func (c *Catalog) Templates(gender entity.Gender) []Template {
	return c.templates[gender]
}

func (c *Catalog) Len(gender entity.Gender) int {
	return len(c.templates[gender])
}

// At resolves the template at the given cursor position.
func (c *Catalog) At(gender entity.Gender, index int) (Template, error) {
	list := c.templates[gender]
	if len(list) == 0 {
		return Template{}, fmt.Errorf("no templates for gender %q", gender)
	}
	if index < 0 || index >= len(list) {
		return Template{}, fmt.Errorf("template index %d out of range [0,%d)", index, len(list))
	}
	return list[index], nil
}

// Next advances the cursor one position to the right, wrapping around.
func Next(index, length int) int {
	return (index + 1) % length
}

// Previous moves the cursor one position to the left, wrapping around.
func Previous(index, length int) int {
	return (index - 1 + length) % length
}
