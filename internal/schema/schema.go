// Package schema validates collection payloads against embedded JSON Schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrUnknownCollection = errors.New("schema: unknown collection")
	ErrSchemaValidation  = errors.New("schema validation failed")
)

//go:embed collections/*.json
var collectionFS embed.FS

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every issue found in a payload.
type ValidationError struct {
	Collection string
	Issues     []Issue
	Cause      error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return e.Collection + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var payloadErr *ValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	return []Issue{{Message: err.Error()}}
}

// Registry holds the compiled schema of every collection.
type Registry struct {
	schemas map[string]*jsonschema.Schema
	raw     map[string][]byte
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry compiled from the embedded collection schemas.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(collectionFS, "collections")
	})
	return defaultRegistry, defaultErr
}

// Load compiles every *.json file in dir. The file name without
// extension is the collection name.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", dir, err)
	}

	reg := &Registry{
		schemas: map[string]*jsonschema.Schema{},
		raw:     map[string][]byte{},
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", entry.Name(), err)
		}
		compiled, err := compile(name, data)
		if err != nil {
			return nil, fmt.Errorf("schema: compile %s: %w", name, err)
		}
		reg.schemas[name] = compiled
		reg.raw[name] = data
	}
	return reg, nil
}

// Collections lists the collections with a schema, sorted.
func (r *Registry) Collections() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Document returns the raw JSON Schema of a collection.
func (r *Registry) Document(collection string) ([]byte, error) {
	data, ok := r.raw[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return bytes.Clone(data), nil
}

// Validate checks payload against the collection schema. Payload may be a
// map or any value that encodes to a JSON object.
func (r *Registry) Validate(collection string, payload any) error {
	compiled, ok := r.schemas[collection]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	doc, err := toDocument(payload)
	if err != nil {
		return &ValidationError{Collection: collection, Cause: err}
	}
	if err := compiled.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{
				Collection: collection,
				Issues:     collectIssues(validationErr),
				Cause:      err,
			}
		}
		return &ValidationError{Collection: collection, Cause: err}
	}
	return nil
}

// Validate checks payload against the embedded schema of collection.
func Validate(collection string, payload any) error {
	reg, err := Default()
	if err != nil {
		return err
	}
	return reg.Validate(collection, payload)
}

func compile(name string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func toDocument(payload any) (any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return doc, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
