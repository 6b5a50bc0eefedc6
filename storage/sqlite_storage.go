package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"acdm_platform/platform"
)

// SqliteStorage implements both the engines' state.Store and the event
// Recorder over one sqlite file, so a CLI invocation picks up exactly where
// the previous one left off.
type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) (*SqliteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&KVEntry{}, &EventRecord{}); err != nil {
		return nil, err
	}
	return &SqliteStorage{db: db}, nil
}

// Set upserts the key. Engine keys contain raw prefix bytes, which sqlite
// stores fine as text.
func (s *SqliteStorage) Set(key, value string) {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&KVEntry{Key: key, Value: value}).Error
	if err != nil {
		panic(err)
	}
}

func (s *SqliteStorage) Get(key string) *string {
	var entry KVEntry
	err := s.db.Where("key = ?", key).Take(&entry).Error
	if err != nil {
		return nil
	}
	return &entry.Value
}

func (s *SqliteStorage) Delete(key string) {
	if err := s.db.Delete(&KVEntry{}, "key = ?", key).Error; err != nil {
		panic(err)
	}
}

// Record appends the event to the journal.
func (s *SqliteStorage) Record(ev platform.Event) {
	rec := EventRecord{
		Kind:         ev.Kind,
		Account:      ev.Account,
		Counterparty: ev.Counterparty,
		RefID:        ev.ID,
		Amount:       ev.Amount,
		Note:         ev.Note,
		At:           ev.At,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		panic(err)
	}
}

// Events returns journal rows of one kind, oldest first.
func (s *SqliteStorage) Events(kind string) ([]EventRecord, error) {
	var out []EventRecord
	err := s.db.Where("kind = ?", kind).Order("seq").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
