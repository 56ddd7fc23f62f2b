// Package catalog holds the static category taxonomy the marketplace
// lists under. The built-in set mirrors production; deployments can
// override it with a YAML file.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Subcategory struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type Category struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

type Taxonomy struct {
	cats []Category
	byID map[string]int
}

func New(cats []Category) *Taxonomy {
	t := &Taxonomy{cats: cats, byID: make(map[string]int, len(cats))}
	for i, c := range cats {
		t.byID[c.ID] = i
	}
	return t
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy { return New(defaultCategories) }

// Load reads a taxonomy override from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("categories %s: empty taxonomy", path)
	}
	return New(cats), nil
}

func (t *Taxonomy) Categories() []Category { return t.cats }

func (t *Taxonomy) Category(id string) (Category, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Category{}, false
	}
	return t.cats[i], true
}

// HasSubcategories reports whether the category exists and declares
// subcategories (in which case a listing must name one).
func (t *Taxonomy) HasSubcategories(id string) bool {
	c, ok := t.Category(id)
	return ok && len(c.Subcategories) > 0
}

// CategoryName resolves a display name, falling back to the raw id.
func (t *Taxonomy) CategoryName(id string) string {
	if c, ok := t.Category(id); ok {
		return c.Name
	}
	return id
}

// SubcategoryName resolves a display name, falling back to the raw id.
func (t *Taxonomy) SubcategoryName(categoryID, subcategoryID string) string {
	c, ok := t.Category(categoryID)
	if !ok {
		return subcategoryID
	}
	for _, sc := range c.Subcategories {
		if sc.ID == subcategoryID {
			return sc.Name
		}
	}
	return subcategoryID
}
