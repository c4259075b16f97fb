package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Keys of the persisted collections.
const (
	KeyWorkouts         = "workouts"
	KeyPersonalRecords  = "personalRecords"
	KeyWorkoutTemplates = "workout-templates"
)

var AllKeys = []string{KeyWorkouts, KeyPersonalRecords, KeyWorkoutTemplates}

var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a key-value store with get/set semantics. Values are opaque
// (JSON encoded) documents; each key holds one whole collection.
type Store interface {
	// Read returns the value for key; found is false when the key was never written.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

// Collection is a typed view over a single Store key holding a JSON array.
type Collection[T any] struct {
	store Store
	key   string
}

func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns all items of the collection. A key that was never written
// yields an empty, non-nil slice.
func (c *Collection[T]) Load(ctx context.Context) (_ []T, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.collection.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", c.key))

	raw, found, err := c.store.Read(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.collection.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", c.key))
	span.SetAttributes(attribute.Int("items", len(items)))

	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	if err := c.store.Write(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
