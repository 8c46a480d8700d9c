package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

// DocumentKey is the storage key of the application document
const DocumentKey = "rs_eventos_db_v1"

// DB reads and writes the application document through a Storage backend
type DB struct {
	storage Storage
	bus     *Bus
	logger  *zap.Logger
}

// NewDB creates a DB over storage. Every successful Save is published on bus.
func NewDB(storage Storage, bus *Bus, logger *zap.Logger) *DB {
	if bus == nil {
		bus = NewBus()
	}
	return &DB{storage: storage, bus: bus, logger: logger}
}

// Bus returns the change bus Saves are published on
func (db *DB) Bus() *Bus {
	return db.bus
}

// Storage returns the underlying backend
func (db *DB) Storage() Storage {
	return db.storage
}

// Load returns the stored document, writing the default document first when
// nothing has been stored yet.
func (db *DB) Load(ctx context.Context) (*model.Document, error) {
	data, err := db.storage.Get(ctx, DocumentKey)
	if errors.Is(err, ErrNotFound) {
		return db.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

func (db *DB) seed(ctx context.Context) (*model.Document, error) {
	var stored []byte
	err := db.storage.Update(ctx, DocumentKey, func(current []byte) ([]byte, error) {
		if current != nil {
			// another process seeded first
			stored = current
			return current, nil
		}

		doc, err := DefaultDocument()
		if err != nil {
			return nil, err
		}
		doc.Revision = 1
		stored, err = json.Marshal(doc)
		return stored, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed document: %w", err)
	}

	db.logger.Info("Seeded default document", zap.String("key", DocumentKey))

	var doc model.Document
	if err := json.Unmarshal(stored, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Save persists doc if nobody else saved since it was loaded, then signals the
// change bus. On success doc.Revision holds the new revision.
func (db *DB) Save(ctx context.Context, doc *model.Document) error {
	next := *doc
	next.Revision = doc.Revision + 1

	err := db.storage.Update(ctx, DocumentKey, func(current []byte) ([]byte, error) {
		var stored int64
		if current != nil {
			var head struct {
				Revision int64 `json:"revision"`
			}
			if err := json.Unmarshal(current, &head); err != nil {
				return nil, fmt.Errorf("failed to decode stored revision: %w", err)
			}
			stored = head.Revision
		}
		if stored != doc.Revision {
			return nil, fmt.Errorf("%w: stored revision %d, loaded revision %d", ErrStaleWrite, stored, doc.Revision)
		}
		return json.Marshal(&next)
	})
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	doc.Revision = next.Revision
	db.logger.Debug("Saved document", zap.Int64("revision", doc.Revision))
	db.bus.Publish()
	return nil
}

// Clear removes the stored document; the next Load reseeds it
func (db *DB) Clear(ctx context.Context) error {
	if err := db.storage.Delete(ctx, DocumentKey); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}
	db.logger.Info("Cleared document", zap.String("key", DocumentKey))
	db.bus.Publish()
	return nil
}
