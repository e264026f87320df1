package domain

import (
	"fmt"
	"strings"
)

// Category is the closed set of rack types a renter can ask for.
type Category string

const (
	CategoryStandard     Category = "STANDARD"
	CategoryRefrigerated Category = "REFRIGERATED"
	CategorySecure       Category = "SECURE"
)

// ParseCategory maps a wire value to a Category. Matching ignores case and surrounding spaces.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return category, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStandard, CategoryRefrigerated, CategorySecure:
		return true
	default:
		return false
	}
}
