// Package history keeps a local, best-effort log of every message sent from
// this machine, including AI draft provenance. The backend owns the real
// message record; this log exists so the operator can audit what the client
// sent and how much of it was AI-drafted, even offline.
package history

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SentMessage is one locally logged send.
type SentMessage struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	ReservationID   int    `gorm:"index;not null"`
	GuestName       string `gorm:"size:255"`
	Body            string `gorm:"type:text;not null"`
	AIDrafted       bool   `gorm:"default:false;index"`
	WasEdited       bool   `gorm:"default:false"`
	OriginalAIDraft string `gorm:"type:text"`
	AIConfidence    *float64
	AICategory      string    `gorm:"size:64"`
	SentAt          time.Time `gorm:"index"`
}

// Store wraps the sqlite history database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the history database at path and runs
// migrations. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&SentMessage{}); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection (used by tests).
func NewWithDB(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("history: db is required")
	}
	if err := db.AutoMigrate(&SentMessage{}); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one sent message. SentAt defaults to now when unset.
func (s *Store) Record(msg SentMessage) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	if msg.OriginalAIDraft != "" {
		msg.AIDrafted = true
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns the most recent n sends, newest first.
func (s *Store) Recent(n int) ([]SentMessage, error) {
	var msgs []SentMessage
	result := s.db.Order("sent_at DESC, id DESC").Limit(n).Find(&msgs)
	if result.Error != nil {
		return nil, fmt.Errorf("history: recent: %w", result.Error)
	}
	return msgs, nil
}

// ForReservation returns all logged sends for one reservation, oldest first.
func (s *Store) ForReservation(reservationID int) ([]SentMessage, error) {
	var msgs []SentMessage
	result := s.db.Where("reservation_id = ?", reservationID).
		Order("sent_at ASC, id ASC").Find(&msgs)
	if result.Error != nil {
		return nil, fmt.Errorf("history: for reservation %d: %w", reservationID, result.Error)
	}
	return msgs, nil
}

// Counts returns total and AI-drafted send counts.
func (s *Store) Counts() (total, aiDrafted int64, err error) {
	if err := s.db.Model(&SentMessage{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("history: count: %w", err)
	}
	if err := s.db.Model(&SentMessage{}).Where("ai_drafted = ?", true).Count(&aiDrafted).Error; err != nil {
		return 0, 0, fmt.Errorf("history: count drafted: %w", err)
	}
	return total, aiDrafted, nil
}
