package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a mistyped id may be from a catalog id
// before no suggestion is offered.
const maxSuggestDistance = 3

var defaultTypes = []MaintenanceType{
	{ID: "oli_mesin", Name: "Oli Mesin", DefaultIntervalKm: 2500},
	{ID: "minyak_rem", Name: "Minyak Rem", DefaultIntervalKm: 10000},
	{ID: "kampas_rem", Name: "Kampas Rem", DefaultIntervalKm: 15000},
	{ID: "lampu_sein", Name: "Lampu Sein", DefaultIntervalKm: 20000},
	{ID: "lampu_depan", Name: "Lampu Depan", DefaultIntervalKm: 20000},
	{ID: "filter_oli", Name: "Filter Oli", DefaultIntervalKm: 5000},
	{ID: "filter_udara", Name: "Filter Udara", DefaultIntervalKm: 10000},
}

// Catalog is the immutable set of known maintenance types in display order.
type Catalog struct {
	types []MaintenanceType
	byID  map[string]MaintenanceType
}

type catalogFile struct {
	Types []MaintenanceType `toml:"type"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultTypes)
	if err != nil {
		panic(err)
	}
	return c
}

func NewCatalog(types []MaintenanceType) (*Catalog, error) {
	if len(types) == 0 {
		return nil, errors.New("catalog is empty")
	}
	c := &Catalog{
		types: make([]MaintenanceType, 0, len(types)),
		byID:  make(map[string]MaintenanceType, len(types)),
	}
	for i, t := range types {
		t.ID = strings.TrimSpace(t.ID)
		t.Name = strings.TrimSpace(t.Name)
		if t.ID == "" {
			return nil, fmt.Errorf("type %d: empty id", i)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("type %q: empty name", t.ID)
		}
		if t.DefaultIntervalKm <= 0 {
			return nil, fmt.Errorf("type %q: default interval must be greater than zero", t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("type %q: duplicate id", t.ID)
		}
		c.byID[t.ID] = t
		c.types = append(c.types, t)
	}
	return c, nil
}

// LoadCatalogFile reads a catalog from a TOML file of [[type]] tables.
func LoadCatalogFile(path string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c, err := NewCatalog(f.Types)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) Types() []MaintenanceType {
	out := make([]MaintenanceType, len(c.types))
	copy(out, c.types)
	return out
}

func (c *Catalog) Lookup(id string) (MaintenanceType, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Suggest returns the catalog id closest to id, if any is close enough.
func (c *Catalog) Suggest(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", false
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, t := range c.types {
		d := levenshtein.ComputeDistance(id, t.ID)
		if d < bestDist {
			best, bestDist = t.ID, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Resolve looks up id and returns a ValidationError, with a suggestion when
// one exists, for unknown ids.
func (c *Catalog) Resolve(id string) (MaintenanceType, error) {
	if t, ok := c.Lookup(id); ok {
		return t, nil
	}
	ve := &ValidationError{Field: "typeId", Message: fmt.Sprintf("unknown maintenance type %q", id)}
	if s, ok := c.Suggest(id); ok {
		ve.Suggestion = s
	}
	return MaintenanceType{}, ve
}
