// Package storage persists scan history in Postgres via GORM. History is an
// optional feature: front-ends run without a database when DATABASE_URL is
// unset.
package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Hakari-Bibani/OCR/pkg/models"
)

// DefaultHistoryLimit caps the history listing.
const DefaultHistoryLimit = 50

// Store wraps the scan history database.
type Store struct {
	db *gorm.DB
}

// Open connects to the database and migrates the schema.
func Open(databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.ScanRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveScan appends one history entry.
func (s *Store) SaveScan(rec *models.ScanRecord) error {
	return s.db.Create(rec).Error
}

// ListScans returns the most recent history entries, newest first.
func (s *Store) ListScans(limit int) ([]models.ScanRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var records []models.ScanRecord
	err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}
