package models

// InspectionPackage is a static catalogue entry.
type InspectionPackage struct {
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	Price         float64      `json:"price" yaml:"price"`
	OriginalPrice float64      `json:"originalPrice,omitempty" yaml:"original_price"`
	Description   string       `json:"description" yaml:"description"`
	Duration      string       `json:"duration" yaml:"duration"`
	Features      []string     `json:"features" yaml:"features"`
	Popular       bool         `json:"popular,omitempty" yaml:"popular"`
	Checkout      PackageQuote `json:"-" yaml:"checkout"`
}

// PackageQuote is what the checkout endpoint returns for a package id.
type PackageQuote struct {
	Price float64 `json:"price" yaml:"price"`
	Name  string  `json:"name" yaml:"name"`
}
