// Package catalog holds the product catalog domain: the item schema, the
// page store the screens read from, and the per-screen list view that
// filters and sorts the loaded page.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Item is one product as served by the catalog API.
type Item struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Price              float64  `json:"price"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
	Description        string   `json:"description"`
	AvailabilityStatus string   `json:"availabilityStatus"`
}

// Validate checks the fields every screen relies on.
func (i Item) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", i.ID)
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("product %d has no title", i.ID)
	}
	if i.Price < 0 {
		return fmt.Errorf("product %d has negative price", i.ID)
	}
	return nil
}

// HasImages reports whether the item carries a gallery.
func (i Item) HasImages() bool { return len(i.Images) > 0 }

// ValidateAll returns the first invalid item's error, annotated with its
// position in the page.
func ValidateAll(items []Item) error {
	var errs []error
	for idx, it := range items {
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("products[%d]: %w", idx, err))
		}
	}
	return errors.Join(errs...)
}
