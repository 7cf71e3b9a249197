package estimate

import (
	"errors"
	"fmt"
)

// ErrUnknownBiomass is returned when a biomass name is not in a catalog.
var ErrUnknownBiomass = errors.New("unknown biomass type")

// BiomassEntry is a biomass feedstock with its calorific value and, where
// known, a reference market price.
type BiomassEntry struct {
	Name  string  `json:"name"`
	GCV   float64 `json:"gcv"`
	Price float64 `json:"price,omitempty"`
}

// Catalog is an ordered list of biomass entries. Names may repeat; a later
// entry overrides an earlier one with the same name.
type Catalog []BiomassEntry

var referenceCatalog = Catalog{
	{Name: "Sugarcane Bagasse", GCV: 2300, Price: 7500},
	{Name: "Rice Husk", GCV: 3100, Price: 8700},
	{Name: "Wood Pellets", GCV: 4000, Price: 10000},
	{Name: "Bamboo", GCV: 4200, Price: 10500},
	{Name: "Coconut Shell", GCV: 4800, Price: 11200},
	{Name: "Mustard Husk", GCV: 3000, Price: 8600},
	{Name: "Groundnut Shell", GCV: 4000, Price: 9800},
	{Name: "Torrefied Biomass", GCV: 4200, Price: 10836},
}

// simpleCatalog repeats Rice Husk and Groundnut Shell with different values.
var simpleCatalog = Catalog{
	{Name: "Wood Chips", GCV: 3500},
	{Name: "Rice Husk", GCV: 3000},
	{Name: "Bagasse", GCV: 2800},
	{Name: "Groundnut Shell", GCV: 3600},
	{Name: "Cotton Stalk", GCV: 3700},
	{Name: "Manure Pellet", GCV: 2500},
	{Name: "Sugarcane Bagasse", GCV: 2300},
	{Name: "Rice Husk", GCV: 3100},
	{Name: "Wood Pellets", GCV: 4000},
	{Name: "Bamboo", GCV: 4200},
	{Name: "Coconut Shell", GCV: 4800},
	{Name: "Mustard Husk", GCV: 3000},
	{Name: "Groundnut Shell", GCV: 4000},
	{Name: "Torrefied Biomass", GCV: 4200},
}

// ReferenceCatalog returns the eight-entry GCV and market price table used by
// the combined scenario calculator.
func ReferenceCatalog() Catalog {
	return append(Catalog(nil), referenceCatalog...)
}

// SimpleCatalog returns the raw GCV list of the simple pricing calculator,
// duplicates included.
func SimpleCatalog() Catalog {
	return append(Catalog(nil), simpleCatalog...)
}

// Lookup returns the last entry named name.
func (c Catalog) Lookup(name string) (BiomassEntry, error) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Name == name {
			return c[i], nil
		}
	}
	return BiomassEntry{}, fmt.Errorf("%w: %q", ErrUnknownBiomass, name)
}

// Names returns each distinct name once, in order of first appearance.
func (c Catalog) Names() []string {
	seen := make(map[string]struct{}, len(c))
	names := make([]string, 0, len(c))
	for _, entry := range c {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	return names
}

// Resolved collapses repeated names: each name keeps the position of its first
// appearance and the values of its last.
func (c Catalog) Resolved() Catalog {
	names := c.Names()
	resolved := make(Catalog, 0, len(names))
	for _, name := range names {
		entry, _ := c.Lookup(name)
		resolved = append(resolved, entry)
	}
	return resolved
}

// Duplicates lists names that appear more than once, in order of first appearance.
func (c Catalog) Duplicates() []string {
	counts := make(map[string]int, len(c))
	for _, entry := range c {
		counts[entry.Name]++
	}
	var dups []string
	for _, name := range c.Names() {
		if counts[name] > 1 {
			dups = append(dups, name)
		}
	}
	return dups
}
