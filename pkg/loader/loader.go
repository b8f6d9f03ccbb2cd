package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modalform/pkg/model"
)

// Store holds the forms loaded from a set of documents, keyed by name.
type Store struct {
	specs   map[string]model.FormSpec
	sources map[string]string
	order   []string
}

// LoadFS walks fsys and loads every .yaml, .yml, .json and .toml file. A nil
// fsys yields an empty store. Form names must be unique across files.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		specs:   make(map[string]model.FormSpec),
		sources: make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !IsDocument(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		specs, err := Parse(data, path)
		if err != nil {
			return err
		}
		return store.add(specs, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadPath loads a single document or, for a directory, every document
// below it.
func LoadPath(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	specs, err := Parse(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	store := &Store{specs: make(map[string]model.FormSpec), sources: make(map[string]string)}
	if err := store.add(specs, path); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(specs []model.FormSpec, source string) error {
	for _, spec := range specs {
		if previous, exists := s.sources[spec.Name]; exists {
			return fmt.Errorf("loader: duplicate form %q (%s and %s)", spec.Name, previous, source)
		}
		s.specs[spec.Name] = spec
		s.sources[spec.Name] = source
		s.order = append(s.order, spec.Name)
	}
	return nil
}

// Spec returns a copy of the form called name.
func (s *Store) Spec(name string) (model.FormSpec, bool) {
	if s == nil {
		return model.FormSpec{}, false
	}
	spec, ok := s.specs[name]
	if !ok {
		return model.FormSpec{}, false
	}
	return spec.Clone(), true
}

// Source returns the document a form came from.
func (s *Store) Source(name string) string {
	if s == nil {
		return ""
	}
	return s.sources[name]
}

// Names lists form names in load order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Specs returns copies of every form in load order.
func (s *Store) Specs() []model.FormSpec {
	if s == nil {
		return nil
	}
	out := make([]model.FormSpec, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.specs[name].Clone())
	}
	return out
}

// Empty reports whether the store holds no forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.specs) == 0
}

// IsDocument reports whether path has a supported extension.
func IsDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}

type document struct {
	Forms []model.FormSpec `json:"forms"`
}

// Parse decodes one document. The format is taken from the extension of
// source. The result is validated against the document schema first.
func Parse(data []byte, source string) ([]model.FormSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("loader: %s is empty", source)
	}

	raw, err := decodeGeneric(data, source)
	if err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("loader: normalise %s: %w", source, err)
	}

	if err := validateDocument(normalized, source); err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(normalized, &probe); err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", source, err)
	}
	if _, list := probe["forms"]; list {
		var doc document
		if err := json.Unmarshal(normalized, &doc); err != nil {
			return nil, fmt.Errorf("loader: decode %s: %w", source, err)
		}
		return doc.Forms, nil
	}

	var spec model.FormSpec
	if err := json.Unmarshal(normalized, &spec); err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", source, err)
	}
	return []model.FormSpec{spec}, nil
}

func decodeGeneric(data []byte, source string) (any, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(source)) {
	case ".toml":
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
		raw = table
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
	}
	return raw, nil
}

func validateDocument(normalized []byte, source string) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(normalized))
	decoder.UseNumber()
	var instance any
	if err := decoder.Decode(&instance); err != nil {
		return fmt.Errorf("loader: decode %s: %w", source, err)
	}
	if err := schema.Validate(instance); err != nil {
		return schemaError(source, err)
	}
	return nil
}
