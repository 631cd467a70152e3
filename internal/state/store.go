// Package state owns the authoritative per-session project record: a
// write-through cache over a durable store, mutated only through atomic
// delta updates.
package state

import (
	"errors"
	"io"

	"github.com/agenticmentor/mentor/pkg/models"
)

// ErrStoreUnavailable indicates the durable store could not be reached.
// A turn that hits this is fatal: cache-only mutations are not durable.
var ErrStoreUnavailable = errors.New("durable store unavailable")

// RecordStore handles project-record persistence. Get returns (nil, nil)
// for an unknown session.
type RecordStore interface {
	Get(sessionID string) (*models.ProjectRecord, error)
	Save(sessionID string, record *models.ProjectRecord) error
	Delete(sessionID string) error
	List() ([]string, error)
}

// Migrator handles schema migrations for stores that need them.
type Migrator interface {
	Migrate() error
}

// Store is the full persistence surface used by the state manager.
type Store interface {
	RecordStore
	io.Closer
}

// Compile-time verification that both stores implement the interfaces.
var (
	_ Store    = (*DB)(nil)
	_ Migrator = (*DB)(nil)
	_ Store    = (*MemoryStore)(nil)
)
