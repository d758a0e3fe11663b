package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/eugenenazirov/simconfig/internal/schema"
)

func TestNewMemoryStorageStartsUnset(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	count := 0
	for entry := range store.All() {
		count++
		if entry.Set {
			t.Fatalf("expected %s to start unset", entry.Field.Name)
		}
		if _, err := store.Get(entry.Field.Name); !errors.Is(err, ErrUnset) {
			t.Fatalf("expected ErrUnset for %s, got %v", entry.Field.Name, err)
		}
	}
	if count != len(schema.Fields()) {
		t.Fatalf("expected %d entries, got %d", len(schema.Fields()), count)
	}
}

func TestSetResolvesCaseInsensitively(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	f, err := store.Set("ordersperhour", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "OrdersPerHour" {
		t.Fatalf("expected canonical name, got %s", f.Name)
	}

	got, err := store.Get("ORDERSPERHOUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if _, err := store.Set("OrdersPerHour", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Set("OrdersPerHour", 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Get("OrdersPerHour")
	if got != 200 {
		t.Fatalf("expected later value to win, got %v", got)
	}
	if n, ok := store.Snapshot().OrdersPerHour.Get(); !ok || n != 200 {
		t.Fatalf("expected snapshot to hold 200, got %d (set=%v)", n, ok)
	}
}

func TestSetRejectsUnknownField(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	_, err := store.Set("Unknown", 5)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) || unknown.Name != "Unknown" {
		t.Fatalf("expected UnknownFieldError carrying the name, got %v", err)
	}

	for entry := range store.All() {
		if entry.Set {
			t.Fatalf("expected %s to remain unset", entry.Field.Name)
		}
	}
}

func TestSetRejectsWrongValueType(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if _, err := store.Set("ResultStartTime", 8); !errors.Is(err, schema.ErrValueType) {
		t.Fatalf("expected ErrValueType, got %v", err)
	}
	if _, err := store.Get("ResultStartTime"); !errors.Is(err, ErrUnset) {
		t.Fatalf("expected field to remain unset, got %v", err)
	}
}

func TestGetDistinguishesUnknownFromUnset(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	_, err := store.Get("NoSuchField")
	if !errors.Is(err, ErrUnknownField) || errors.Is(err, ErrUnset) {
		t.Fatalf("expected only ErrUnknownField, got %v", err)
	}

	_, err = store.Get("PowerSupply")
	if !errors.Is(err, ErrUnset) || errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected only ErrUnset, got %v", err)
	}
}

func TestAllFollowsSchemaOrderAndRestarts(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	// set in reverse schema order
	if _, err := store.Set("NumberOfAisles", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Set("ResultStartTime", 8*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := schema.Fields()
	for pass := 0; pass < 2; pass++ {
		i := 0
		for entry := range store.All() {
			if entry.Field != fields[i] {
				t.Fatalf("pass %d: expected %s at %d, got %s", pass, fields[i].Name, i, entry.Field.Name)
			}
			i++
		}
		if i != len(fields) {
			t.Fatalf("pass %d: expected %d entries, got %d", pass, len(fields), i)
		}
	}

	// early exit must not panic
	for range store.All() {
		break
	}
}
