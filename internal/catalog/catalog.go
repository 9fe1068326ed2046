// Package catalog resolves per-country and per-business-type configuration
// from declarative tables compiled into the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"courier-companion/internal/domain"
)

// DefaultCode is the table entry returned for unknown codes.
const DefaultCode = "default"

//go:embed tables.toml
var tablesTOML string

// Field describes one inventory attribute of a business type.
type Field struct {
	Name     string   `toml:"name" json:"name"`
	Label    string   `toml:"label" json:"label"`
	Type     string   `toml:"type" json:"type"`
	Required bool     `toml:"required" json:"required"`
	Options  []string `toml:"options" json:"options,omitempty"`
}

// MenuItem is a navigation entry.
type MenuItem struct {
	ID    string `toml:"id" json:"id"`
	Label string `toml:"label" json:"label"`
	Route string `toml:"route" json:"route"`
}

// Configuration is an immutable, versioned table entry.
type Configuration struct {
	Code           string               `toml:"-" json:"code"`
	Name           string               `toml:"name" json:"name"`
	Version        string               `toml:"version" json:"version"`
	Currency       string               `toml:"currency" json:"currency,omitempty"`
	PaymentMethods []string             `toml:"payment_methods" json:"payment_methods,omitempty"`
	Vehicles       []domain.VehicleType `toml:"vehicles" json:"vehicles,omitempty"`
	Fields         []Field              `toml:"fields" json:"fields,omitempty"`
	Menu           []MenuItem           `toml:"menu" json:"menu"`
}

func (c Configuration) clone() Configuration {
	out := c
	out.PaymentMethods = append([]string(nil), c.PaymentMethods...)
	out.Vehicles = append([]domain.VehicleType(nil), c.Vehicles...)
	out.Menu = append([]MenuItem(nil), c.Menu...)
	if c.Fields != nil {
		out.Fields = make([]Field, len(c.Fields))
		for i, f := range c.Fields {
			f.Options = append([]string(nil), f.Options...)
			out.Fields[i] = f
		}
	}
	return out
}

type tables struct {
	Countries  map[string]Configuration `toml:"countries"`
	Businesses map[string]Configuration `toml:"businesses"`
}

// Resolver looks codes up in the static tables. Safe for concurrent use: it is read-only.
type Resolver struct {
	countries  map[string]Configuration
	businesses map[string]Configuration
}

// New decodes the embedded tables.
func New() (*Resolver, error) {
	return Parse(tablesTOML)
}

// Parse decodes tables from TOML source. Both tables must carry a default entry.
func Parse(src string) (*Resolver, error) {
	var t tables
	if _, err := toml.Decode(src, &t); err != nil {
		return nil, fmt.Errorf("decode catalog tables: %w", err)
	}
	countries, err := normalize("countries", t.Countries, strings.ToUpper)
	if err != nil {
		return nil, err
	}
	businesses, err := normalize("businesses", t.Businesses, strings.ToLower)
	if err != nil {
		return nil, err
	}
	return &Resolver{countries: countries, businesses: businesses}, nil
}

func normalize(table string, in map[string]Configuration, fold func(string) string) (map[string]Configuration, error) {
	out := make(map[string]Configuration, len(in))
	for code, c := range in {
		key := fold(code)
		if code == DefaultCode {
			key = DefaultCode
		}
		for _, v := range c.Vehicles {
			if !v.Valid() {
				return nil, fmt.Errorf("catalog %s.%s: unknown vehicle %q", table, code, v)
			}
		}
		c.Code = key
		out[key] = c
	}
	if _, ok := out[DefaultCode]; !ok {
		return nil, fmt.Errorf("catalog %s: missing %q entry", table, DefaultCode)
	}
	return out, nil
}

// Resolve returns the configuration for a country code, or the default entry.
func (r *Resolver) Resolve(code string) Configuration {
	return lookup(r.countries, strings.ToUpper(strings.TrimSpace(code)))
}

// ResolveBusiness returns the configuration for a business type, or the default entry.
func (r *Resolver) ResolveBusiness(code string) Configuration {
	return lookup(r.businesses, strings.ToLower(strings.TrimSpace(code)))
}

// Known reports whether a country code has its own entry.
func (r *Resolver) Known(code string) bool {
	_, ok := r.countries[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Countries lists the country codes with their own entry, sorted.
func (r *Resolver) Countries() []string {
	out := make([]string, 0, len(r.countries))
	for code := range r.countries {
		if code != DefaultCode {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func lookup(m map[string]Configuration, key string) Configuration {
	if c, ok := m[key]; ok {
		return c.clone()
	}
	return m[DefaultCode].clone()
}
