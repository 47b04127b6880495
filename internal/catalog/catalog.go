// Package catalog is the static brand/model reference data used to fill
// the prediction form and to check that a submitted pair exists.
package catalog

import (
	"sort"
	"strings"
	"unicode"

	"carprice/internal/model"
)

// Catalog is read-only after construction.
type Catalog struct {
	entries []model.CatalogEntry
	brands  []string
	models  map[string][]string
	pairs   map[model.CatalogEntry]struct{}
}

// SplitName splits a dataset car name into brand and model on the first
// run of whitespace. A name without whitespace yields an empty model.
//
// Multi-word brands ("Land Rover Discovery") are split after the first
// word like every other name; the dataset gives no way to tell them apart.
func SplitName(name string) (brand, carModel string) {
	s := strings.TrimLeftFunc(name, unicode.IsSpace)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
}

// New builds a catalog from raw dataset names, one per row. Blank names
// are skipped.
func New(names []string) *Catalog {
	c := &Catalog{
		models: make(map[string][]string),
		pairs:  make(map[model.CatalogEntry]struct{}),
	}

	seenModel := make(map[model.CatalogEntry]bool)
	for _, name := range names {
		brand, carModel := SplitName(name)
		if brand == "" {
			continue
		}
		entry := model.CatalogEntry{Brand: brand, Model: carModel}
		c.entries = append(c.entries, entry)

		if _, ok := c.models[brand]; !ok {
			c.brands = append(c.brands, brand)
			c.models[brand] = nil
		}
		if carModel == "" || seenModel[entry] {
			continue
		}
		seenModel[entry] = true
		c.pairs[entry] = struct{}{}
		c.models[brand] = append(c.models[brand], carModel)
	}

	sort.Strings(c.brands)
	for _, ms := range c.models {
		sort.Strings(ms)
	}
	return c
}

// Brands returns the distinct brands in ascending order.
func (c *Catalog) Brands() []string {
	return append([]string(nil), c.brands...)
}

// ModelsFor returns the distinct models of brand in ascending order.
func (c *Catalog) ModelsFor(brand string) []string {
	return append([]string(nil), c.models[brand]...)
}

// Contains reports whether the dataset has a car named brand + model.
func (c *Catalog) Contains(brand, carModel string) bool {
	_, ok := c.pairs[model.CatalogEntry{Brand: brand, Model: carModel}]
	return ok
}

// Entries returns every dataset row as a (brand, model) pair, in file
// order, duplicates included.
func (c *Catalog) Entries() []model.CatalogEntry {
	return append([]model.CatalogEntry(nil), c.entries...)
}

// Len returns the number of dataset rows.
func (c *Catalog) Len() int {
	return len(c.entries)
}
