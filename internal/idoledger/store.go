package idoledger

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the gorm handle used to persist and query Events.
type Store struct {
	db *gorm.DB
}

// Open migrates and returns a Store backed by a SQLite file at path (use
// ":memory:" for ephemeral/test stores).
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.AutoMigrate(&Event{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts e, stamping CreatedAt if unset.
func (s *Store) Record(e *Event) error {
	return s.db.Create(e).Error
}

// EventsForPool returns every recorded event for pool, oldest first.
func (s *Store) EventsForPool(pool string) ([]Event, error) {
	var events []Event
	err := s.db.Where("pool = ?", pool).Order("created_at asc").Find(&events).Error
	return events, err
}

// EventsForUser returns every recorded event naming user, oldest first.
func (s *Store) EventsForUser(user string) ([]Event, error) {
	var events []Event
	err := s.db.Where("\"user\" = ?", user).Order("created_at asc").Find(&events).Error
	return events, err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
