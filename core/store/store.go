package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record identity does not exist.
var ErrNotFound = errors.New("store: record not found")

// Record is one persisted provider record. Field values live in an
// open-ended JSON column, mirroring the external store's {id, fields}
// shape; the engine resolves them into typed values at intake.
type Record struct {
	ID        string         `gorm:"primaryKey;size:32" json:"id"`
	Fields    map[string]any `gorm:"serializer:json" json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName sets the table name for GORM.
func (Record) TableName() string {
	return "provider_records"
}

// Store provides per-record CRUD over the provider records table.
// Each operation targets a single record; there is no cross-record
// transaction.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the records table schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// List returns all persisted records in ascending ID order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Get returns one record by identity.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).Take(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	return &rec, nil
}

// Create persists a new record under the given identity.
func (s *Store) Create(ctx context.Context, id string, fields map[string]any) error {
	rec := Record{ID: id, Fields: fields}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create record %s: %w", id, err)
	}
	return nil
}

// Update applies a partial field update: the given fields are merged into
// the persisted field map, fields not named are preserved.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec Record
		if err := tx.Take(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any, len(fields))
		}
		for name, val := range fields {
			rec.Fields[name] = val
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	return nil
}

// Remove deletes a record by identity.
func (s *Store) Remove(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Record{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to remove record %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of persisted records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
