package storage

import (
	"errors"
	"fmt"
	"iter"

	"github.com/eugenenazirov/simconfig/internal/schema"
)

var (
	// ErrUnknownField indicates the name does not resolve to any schema field.
	ErrUnknownField = errors.New("unknown configuration field")
	// ErrUnset indicates the field exists but has never been assigned.
	ErrUnset = errors.New("configuration field not configured")
)

// UnknownFieldError carries the name that failed to resolve.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownField, e.Name)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// Entry is one field of the store together with its current state.
type Entry struct {
	Field schema.Field
	Value any
	Set   bool
}

// Storage provides access to the simulation configuration values.
type Storage interface {
	Lookup(name string) (schema.Field, error)
	Set(name string, value any) (schema.Field, error)
	Get(name string) (any, error)
	All() iter.Seq[Entry]
}

var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage keeps the configuration in memory. It is not safe for
// concurrent use: all writes must complete before reads begin.
type MemoryStorage struct {
	cfg    schema.Configuration
	fields []schema.Field
}

// NewMemoryStorage returns a store with every schema field unset.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		fields: schema.Fields(),
	}
}

// Lookup resolves name case-insensitively to its canonical schema field.
func (s *MemoryStorage) Lookup(name string) (schema.Field, error) {
	f, ok := schema.Lookup(name)
	if !ok {
		return schema.Field{}, &UnknownFieldError{Name: name}
	}
	return f, nil
}

// Set stores value under the field name resolves to, overwriting any prior
// value. Nothing is mutated when the name is unknown or the value has the
// wrong type for the field.
func (s *MemoryStorage) Set(name string, value any) (schema.Field, error) {
	f, err := s.Lookup(name)
	if err != nil {
		return schema.Field{}, err
	}
	if err := s.cfg.Assign(f, value); err != nil {
		return f, err
	}
	return f, nil
}

// Get returns the current value of the field name resolves to.
func (s *MemoryStorage) Get(name string) (any, error) {
	f, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	v, ok := s.cfg.Value(f)
	if !ok {
		return nil, fmt.Errorf("%s: %w", f.Name, ErrUnset)
	}
	return v, nil
}

// All yields every schema field in schema order with its current state.
func (s *MemoryStorage) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, f := range s.fields {
			v, ok := s.cfg.Value(f)
			if !yield(Entry{Field: f, Value: v, Set: ok}) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the typed configuration.
func (s *MemoryStorage) Snapshot() schema.Configuration {
	return s.cfg
}
