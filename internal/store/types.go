package store

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"recycling-admin-backend/internal/model"
)

// ErrNotFound is returned when no record carries the requested identifier.
var ErrNotFound = errors.New("record not found")

// Result reports the outcome of a delete.
type Result struct {
	Success bool `json:"success"`
}

// Op names a store mutation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation describes one successful change to a collection.
type Mutation struct {
	Kind model.Kind
	Op   Op
	ID   string
}

// IDGenerator hands out identifiers for new records.
type IDGenerator interface {
	Next() string
}

// Sequence is a monotonic counter rendered with an optional prefix and zero padding.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	width  int
	n      int64
}

// NewSequence returns a Sequence whose first identifier is start+1.
func NewSequence(prefix string, width int, start int64) *Sequence {
	return &Sequence{prefix: prefix, width: width, n: start}
}

func (s *Sequence) Next() string {
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()

	if s.prefix == "" && s.width == 0 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s%0*d", s.prefix, s.width, n)
}

// UUIDs generates random UUID identifiers.
type UUIDs struct{}

func (UUIDs) Next() string { return uuid.NewString() }
