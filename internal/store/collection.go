package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/parse"
)

// Collection is an ordered in-memory list of records of one kind. All
// methods are safe for concurrent use; every call observes the latest write.
type Collection[T model.Record[T]] struct {
	kind   model.Kind
	mu     sync.RWMutex
	items  []T
	ids    IDGenerator
	fields func(T) []string
	notify func(Mutation)
}

func newCollection[T model.Record[T]](kind model.Kind, seed []T, ids IDGenerator, fields func(T) []string, notify func(Mutation)) *Collection[T] {
	c := &Collection[T]{
		kind:   kind,
		items:  make([]T, 0, len(seed)),
		ids:    ids,
		fields: fields,
		notify: notify,
	}
	for _, rec := range seed {
		id, err := parse.ID(rec.RecordID())
		if err != nil || c.indexOf(id) >= 0 {
			id = c.nextID()
		}
		c.items = append(c.items, rec.WithRecordID(id))
	}
	return c
}

// Kind returns the collection's entity kind.
func (c *Collection[T]) Kind() model.Kind { return c.kind }

// List returns a copy of every record in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	for i, rec := range c.items {
		out[i] = clone(rec)
	}
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with the given identifier.
func (c *Collection[T]) Get(id string) (T, bool) {
	var zero T
	id, err := parse.ID(id)
	if err != nil {
		return zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return clone(c.items[i]), true
	}
	return zero, false
}

// Create stores fields under a freshly assigned identifier. Any identifier
// already present in fields is ignored.
func (c *Collection[T]) Create(fields T) T {
	c.mu.Lock()
	rec := fields.WithRecordID(c.nextID())
	c.items = append(c.items, rec)
	c.mu.Unlock()

	c.emit(OpCreate, rec.RecordID())
	return clone(rec)
}

// CreateFrom decodes fields into a new record and stores it like Create.
// Unknown keys and any "id" are ignored.
func (c *Collection[T]) CreateFrom(fields map[string]any) (T, error) {
	var zero T
	rec, err := merge(zero, fields)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", c.kind, err)
	}
	return c.Create(rec), nil
}

// Update shallow-merges patch into the record. Top-level keys replace the
// record's fields wholesale; the identifier never changes.
func (c *Collection[T]) Update(id string, patch map[string]any) (T, error) {
	var zero T
	id, err := parse.ID(id)
	if err != nil {
		return zero, ErrNotFound
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, ErrNotFound
	}
	merged, err := merge(c.items[i], patch)
	if err != nil {
		c.mu.Unlock()
		return zero, fmt.Errorf("update %s %s: %w", c.kind, id, err)
	}
	merged = merged.WithRecordID(id)
	c.items[i] = merged
	c.mu.Unlock()

	c.emit(OpUpdate, id)
	return clone(merged), nil
}

// Apply replaces the record with fn's result in one atomic step. fn runs
// under the collection lock and must not call back into the store; returning
// ok=false leaves the record untouched and emits nothing.
func (c *Collection[T]) Apply(id string, fn func(T) (T, bool)) (T, error) {
	var zero T
	id, err := parse.ID(id)
	if err != nil {
		return zero, ErrNotFound
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, ErrNotFound
	}
	next, ok := fn(clone(c.items[i]))
	if !ok {
		cur := clone(c.items[i])
		c.mu.Unlock()
		return cur, nil
	}
	next = next.WithRecordID(id)
	c.items[i] = next
	c.mu.Unlock()

	c.emit(OpUpdate, id)
	return clone(next), nil
}

// Delete removes the record with the given identifier.
func (c *Collection[T]) Delete(id string) Result {
	id, err := parse.ID(id)
	if err != nil {
		return Result{Success: false}
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return Result{Success: false}
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.mu.Unlock()

	c.emit(OpDelete, id)
	return Result{Success: true}
}

// DeleteMany removes every listed record and returns how many existed.
func (c *Collection[T]) DeleteMany(ids []string) int {
	removed := 0
	for _, id := range ids {
		if c.Delete(id).Success {
			removed++
		}
	}
	return removed
}

// Filter returns the records matching pred.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, rec := range c.items {
		if pred(rec) {
			out = append(out, clone(rec))
		}
	}
	return out
}

// Search returns records whose searchable fields contain query,
// case-insensitively. An empty query matches everything.
func (c *Collection[T]) Search(query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || c.fields == nil {
		return c.List()
	}
	return c.Filter(func(rec T) bool {
		for _, f := range c.fields(rec) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	})
}

// nextID must be called with mu held.
func (c *Collection[T]) nextID() string {
	for {
		id := c.ids.Next()
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

func (c *Collection[T]) indexOf(id string) int {
	for i, rec := range c.items {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) emit(op Op, id string) {
	if c.notify != nil {
		c.notify(Mutation{Kind: c.kind, Op: op, ID: id})
	}
}

func clone[T model.Record[T]](rec T) T {
	return rec.WithRecordID(rec.RecordID())
}

// merge overlays the top-level keys of patch onto rec's JSON form. Keys must
// match one of rec's JSON field names exactly; anything else is skipped.
func merge[T any](rec T, patch map[string]any) (T, error) {
	var out T

	base, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return out, err
	}
	for k, v := range patch {
		if _, known := fields[k]; !known || k == "id" {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = raw
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, err
	}
	return out, nil
}
