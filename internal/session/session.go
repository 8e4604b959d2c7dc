// Package session persists chat sessions as whole values behind pluggable
// drivers. A session record is always written and read in one piece; a
// missing or unreadable stored value is reported as "no prior session".
package session

import (
	"context"
	"errors"
	"time"

	"github.com/krishimitra/server/internal/domain"
)

var (
	// ErrNotFound is returned by Update for a session that was never created.
	ErrNotFound = errors.New("session not found")
	// ErrVersionConflict is returned by Update when the stored version has
	// moved on since the record was read.
	ErrVersionConflict = errors.New("session version conflict")
	// ErrInvalidStoreType is returned by NewStore for unknown driver names.
	ErrInvalidStoreType = errors.New("invalid session store type")
	// ErrInvalidConfig is returned by NewStore for incomplete driver options.
	ErrInvalidConfig = errors.New("invalid session store configuration")
)

// Record wraps a chat session with storage bookkeeping. Version increments
// on every update and guards against lost writes.
type Record struct {
	ID        string             `json:"id"`
	Session   domain.ChatSession `json:"session"`
	Version   int64              `json:"version"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store is a session driver.
type Store interface {
	// Create stores a new record with Version set to 1.
	Create(ctx context.Context, rec *Record) error

	// Get retrieves a record by session id. A missing or corrupt stored
	// value returns (nil, nil).
	Get(ctx context.Context, id string) (*Record, error)

	// Update replaces the stored record if rec.Version matches the stored
	// version, then increments it. Returns ErrNotFound or
	// ErrVersionConflict otherwise.
	Update(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases driver resources.
	Close() error
}
