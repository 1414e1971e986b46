// Package store persists chart documents: an option document together
// with the layout last computed for it.
//
// The API server saves documents so clients can fetch a layout again by
// id, or export it in another format, without resending the option. Two
// backends exist: [MemoryStore] for tests and single-process servers and
// [MongoStore] for deployments.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// Document is a stored chart.
type Document struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	// Format is the format of Option, "json" or "toml".
	Format string `json:"format" bson:"format"`
	Option []byte `json:"option" bson:"option"`
	// Layout is the serialized layout of Option, empty until computed.
	Layout []byte `json:"layout,omitempty" bson:"layout,omitempty"`
	// LayoutKey is the cache key Layout was computed under.
	LayoutKey string    `json:"layout_key,omitempty" bson:"layout_key,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store persists documents.
type Store interface {
	// Save inserts or replaces doc. A document without ID gets a new one.
	Save(ctx context.Context, doc *Document) error
	// Get returns the document with id, an ErrCodeNotFound error when
	// there is none.
	Get(ctx context.Context, id string) (*Document, error)
	// List returns up to limit documents, most recently updated first.
	List(ctx context.Context, limit int) ([]*Document, error)
	// Delete removes the document with id, an ErrCodeNotFound error when
	// there is none.
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 100

// prepare assigns an id and the timestamps of a document being saved.
func prepare(doc *Document, now time.Time) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := errors.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "document %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
