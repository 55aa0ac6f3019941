// Package catalog holds the fixed set of inspection packages.
package catalog

import (
	_ "embed"
	"fmt"

	"autotrust/internal/domain"
	"autotrust/internal/domain/models"

	"gopkg.in/yaml.v3"
)

//go:embed packages.yaml
var packagesYAML []byte

type file struct {
	Packages []models.InspectionPackage `yaml:"packages"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	packages []models.InspectionPackage
	byID     map[string]models.InspectionPackage
}

// Default returns the catalogue embedded in the binary.
func Default() *Catalog {
	c, err := Parse(packagesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded packages.yaml: %v", err))
	}
	return c
}

func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse package catalogue: %w", err)
	}
	if len(f.Packages) == 0 {
		return nil, fmt.Errorf("package catalogue is empty")
	}
	c := &Catalog{byID: make(map[string]models.InspectionPackage, len(f.Packages))}
	for _, p := range f.Packages {
		if p.ID == "" {
			return nil, fmt.Errorf("package without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate package id %q", p.ID)
		}
		c.byID[p.ID] = p
		c.packages = append(c.packages, p)
	}
	return c, nil
}

// All returns the packages in catalogue order.
func (c *Catalog) All() []models.InspectionPackage {
	return append([]models.InspectionPackage(nil), c.packages...)
}

// Get looks a package up by its exact id.
func (c *Catalog) Get(id string) (models.InspectionPackage, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Quote returns the checkout name/price for id. Matching is exact, so
// "Basic" or "" are rejected.
func (c *Catalog) Quote(id string) (models.PackageQuote, error) {
	p, ok := c.byID[id]
	if !ok {
		return models.PackageQuote{}, domain.ValidationError{Field: "type", Msg: "Invalid package type"}
	}
	return p.Checkout, nil
}

// Valid reports whether id names a known package.
func (c *Catalog) Valid(id string) bool {
	_, ok := c.byID[id]
	return ok
}
