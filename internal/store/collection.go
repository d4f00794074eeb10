// Package store implements interfaces.ContentStore over bun and in memory.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownCollection is returned for collections that were not registered.
	ErrUnknownCollection = errors.New("store: unknown collection")
	// ErrUnknownColumn is returned when a patch names a column the collection does not expose.
	ErrUnknownColumn = errors.New("store: unknown column")
)

// NotFoundError reports a missing record.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s %q not found", e.Collection, e.ID)
}

// Collection describes a table reachable through the store. Only listed
// columns may be patched; the key column is always "id".
type Collection struct {
	Name    string
	Table   string
	Columns []string
}

func (c Collection) table() string {
	if c.Table != "" {
		return c.Table
	}
	return c.Name
}

func (c Collection) allows(column string) bool {
	return column != "id" && slices.Contains(c.Columns, column)
}

func (c Collection) hasColumn(column string) bool {
	return slices.Contains(c.Columns, column)
}

type registry map[string]Collection

func newRegistry(collections []Collection) registry {
	reg := make(registry, len(collections))
	for _, c := range collections {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		c.Name = name
		reg[name] = c
	}
	return reg
}

func (r registry) lookup(name string) (Collection, error) {
	c, ok := r[strings.TrimSpace(name)]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

func (r registry) checkPatch(c Collection, fields map[string]any) error {
	for column := range fields {
		if !c.allows(column) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c.Name, column)
		}
	}
	return nil
}
