package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyCatalogName is returned when a category or brand has no name.
var ErrEmptyCatalogName = errors.New("name cannot be empty")

const maxCatalogNameLength = 100

// Category groups publications by vehicle kind (car, motorcycle, truck...).
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Brand is a vehicle manufacturer.
type Brand struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewCategory creates a Category with a fresh ID.
func NewCategory(name string) (*Category, error) {
	name, err := normalizeCatalogName(name)
	if err != nil {
		return nil, err
	}
	return &Category{ID: uuid.New(), Name: name}, nil
}

// Rename validates and applies a new name.
func (c *Category) Rename(name string) error {
	name, err := normalizeCatalogName(name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// NewBrand creates a Brand with a fresh ID.
func NewBrand(name string) (*Brand, error) {
	name, err := normalizeCatalogName(name)
	if err != nil {
		return nil, err
	}
	return &Brand{ID: uuid.New(), Name: name}, nil
}

// Rename validates and applies a new name.
func (b *Brand) Rename(name string) error {
	name, err := normalizeCatalogName(name)
	if err != nil {
		return err
	}
	b.Name = name
	return nil
}

func normalizeCatalogName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", "cannot be empty", ErrEmptyCatalogName)
	}
	if len([]rune(name)) > maxCatalogNameLength {
		return "", NewValidationError("name", "is too long", ErrInvalidFormat)
	}
	return name, nil
}
