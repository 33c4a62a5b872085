package audit

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/models"
)

func TestDispatcher_WritesThroughLogger(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	d := NewDispatcher(New(db), zap.NewNop())

	userID := uint(7)
	entityID := uint(42)
	d.Dispatch(Event{
		UserID:   &userID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &entityID,
		Metadata: map[string]any{"slot": "14:00"},
	})
	d.Close()

	var logs []models.AuditLog
	if err := db.WithContext(context.Background()).Find(&logs).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit log, got %d", len(logs))
	}
	if logs[0].Metadata != `{"slot":"14:00"}` {
		t.Fatalf("unexpected metadata %q", logs[0].Metadata)
	}
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

type countingWriter struct {
	mu sync.Mutex
	n  int
}

func (w *countingWriter) Write(context.Context, Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.n++
	return nil
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	w := &countingWriter{}
	d := NewDispatcher(w, zap.NewNop())
	d.Close()

	d.Dispatch(Event{Action: "booking_created"})
	d.Close()

	if w.n != 0 {
		t.Fatalf("expected no writes after close, got %d", w.n)
	}
}
