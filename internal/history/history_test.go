package history

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewWithDB(db)
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	return s
}

func TestRecord_DefaultsSentAt(t *testing.T) {
	s := testStore(t)
	before := time.Now().Add(-time.Second)
	if err := s.Record(SentMessage{ReservationID: 1, GuestName: "Ana", Body: "Welcome!"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	msgs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len = %d, want 1", len(msgs))
	}
	if msgs[0].SentAt.Before(before) {
		t.Errorf("SentAt = %v, want defaulted to now", msgs[0].SentAt)
	}
}

func TestRecord_MarksAIDrafted(t *testing.T) {
	s := testStore(t)
	conf := 0.8
	err := s.Record(SentMessage{
		ReservationID:   2,
		Body:            "Check-out is 11am, edited.",
		WasEdited:       true,
		OriginalAIDraft: "Check-out is at 11am.",
		AIConfidence:    &conf,
		AICategory:      "CheckOut",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	msgs, _ := s.Recent(1)
	if !msgs[0].AIDrafted {
		t.Error("AIDrafted = false, want derived from OriginalAIDraft")
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := s.Record(SentMessage{
			ReservationID: 1,
			Body:          "msg",
			SentAt:        base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if !msgs[0].SentAt.After(msgs[2].SentAt) {
		t.Errorf("Recent not newest-first: %v then %v", msgs[0].SentAt, msgs[2].SentAt)
	}
}

func TestForReservation_FiltersAndOrders(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Record(SentMessage{ReservationID: 1, Body: "first", SentAt: base})
	s.Record(SentMessage{ReservationID: 2, Body: "other", SentAt: base})
	s.Record(SentMessage{ReservationID: 1, Body: "second", SentAt: base.Add(time.Hour)})

	msgs, err := s.ForReservation(1)
	if err != nil {
		t.Fatalf("ForReservation: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("order = %q, %q; want oldest first", msgs[0].Body, msgs[1].Body)
	}
}

func TestCounts(t *testing.T) {
	s := testStore(t)
	s.Record(SentMessage{ReservationID: 1, Body: "plain"})
	s.Record(SentMessage{ReservationID: 1, Body: "drafted", OriginalAIDraft: "drafted"})

	total, drafted, err := s.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if total != 2 || drafted != 1 {
		t.Errorf("Counts = %d, %d; want 2, 1", total, drafted)
	}
}
