// Package coding applies user-defined keyword coding schemes to
// transcript paragraphs.
package coding

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// ErrInvalidScheme flags a malformed scheme definition.
var ErrInvalidScheme = errors.New("invalid coding scheme definition")

// Code is one keyword-triggered thematic category.
type Code struct {
	Name          string   `yaml:"name" json:"name" validate:"required"`
	Keywords      []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	CaseSensitive bool     `yaml:"caseSensitive" json:"caseSensitive"`
}

// Scheme is a user-defined set of codes. Schemes are external
// configuration and may change at any time; re-applying one recomputes
// automatic tags without discarding manual tags.
type Scheme struct {
	ID        string `yaml:"id" json:"id" validate:"required"`
	Name      string `yaml:"name" json:"name" validate:"required"`
	Codes     []Code `yaml:"codes" json:"codes" validate:"required,min=1,dive"`
	MultiCode bool   `yaml:"multiCodeAllowed" json:"multiCodeAllowed"`
}

// HasCode reports whether the scheme defines a code with this name.
func (s Scheme) HasCode(name string) bool {
	for _, c := range s.Codes {
		if c.Name == name {
			return true
		}
	}
	return false
}

var validate = validator.New()

// Validate checks a scheme definition. Failures wrap ErrInvalidScheme.
func Validate(s Scheme) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScheme, err)
	}
	seen := make(map[string]bool, len(s.Codes))
	for _, c := range s.Codes {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate code %q", ErrInvalidScheme, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

type schemeFile struct {
	Schemes []Scheme `yaml:"schemes"`
}

// Parse decodes and validates a YAML scheme document.
func Parse(data []byte) ([]Scheme, error) {
	var f schemeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScheme, err)
	}
	if len(f.Schemes) == 0 {
		return nil, fmt.Errorf("%w: no schemes defined", ErrInvalidScheme)
	}
	for _, s := range f.Schemes {
		if err := Validate(s); err != nil {
			return nil, err
		}
	}
	return f.Schemes, nil
}

// LoadFile reads schemes from a YAML file.
func LoadFile(path string) ([]Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scheme file: %w", err)
	}
	return Parse(data)
}
