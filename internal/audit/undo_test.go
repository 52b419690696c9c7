package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatal(err)
	}
	return db
}

// recordingStore counts reversals; onDelete runs inside DeleteEntity.
type recordingStore struct {
	deletes  int
	err      error
	onDelete func()
}

func (r *recordingStore) DeleteEntity(ctx context.Context, id string) error {
	r.deletes++
	if r.onDelete != nil {
		r.onDelete()
	}
	return r.err
}

func (r *recordingStore) RestoreEntity(ctx context.Context, id string, before []byte) error {
	return r.err
}

func (r *recordingStore) RecreateEntity(ctx context.Context, snapshot []byte) error {
	return r.err
}

var admin = models.Actor{UserID: "42", UserName: "admin", Role: models.RoleAdmin}

func writeCreate(t *testing.T, svc *Service) models.AuditLog {
	t.Helper()
	err := svc.WriteLog(context.Background(), LogOptions{
		Actor:       admin,
		EntityType:  "transaction",
		EntityID:    "65a000000000000000000001",
		Action:      models.AuditActionCreate,
		Description: "created",
		After:       map[string]any{"cost": 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	logs, err := svc.List(context.Background(), ListQuery{EntityType: "transaction"})
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs = %+v, err = %v", logs, err)
	}
	return logs[0]
}

func TestUndoLogReversesOnce(t *testing.T) {
	svc := NewService(newTestDB(t))
	store := &recordingStore{}
	svc.Register("transaction", store)
	entry := writeCreate(t, svc)

	if err := svc.UndoLog(context.Background(), entry.ID, admin); err != nil {
		t.Fatalf("UndoLog: %v", err)
	}
	if err := svc.UndoLog(context.Background(), entry.ID, admin); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("second undo: err = %v, want ErrConflict", err)
	}
	if store.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", store.deletes)
	}

	logs, err := svc.List(context.Background(), ListQuery{EntityType: "transaction"})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %+v", logs)
	}
	for _, l := range logs {
		switch l.Action {
		case models.AuditActionCreate:
			if !l.IsUndone || l.UndoneBy == nil || *l.UndoneBy != "42" || l.UndoneAt == nil {
				t.Errorf("create entry not marked: %+v", l)
			}
		case models.AuditActionUndo:
			if !l.Undone {
				t.Errorf("undo entry not flagged: %+v", l)
			}
		}
	}
}

func TestUndoLogClaimsEntryBeforeReversing(t *testing.T) {
	svc := NewService(newTestDB(t))
	store := &recordingStore{}
	svc.Register("transaction", store)
	entry := writeCreate(t, svc)

	var racing error
	store.onDelete = func() {
		store.onDelete = nil
		racing = svc.UndoLog(context.Background(), entry.ID, admin)
	}

	if err := svc.UndoLog(context.Background(), entry.ID, admin); err != nil {
		t.Fatalf("UndoLog: %v", err)
	}
	if !errors.Is(racing, models.ErrConflict) {
		t.Fatalf("concurrent undo: err = %v, want ErrConflict", racing)
	}
	if store.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", store.deletes)
	}
}

func TestUndoLogReleasesEntryWhenReversalFails(t *testing.T) {
	svc := NewService(newTestDB(t))
	store := &recordingStore{err: errors.New("mongo down")}
	svc.Register("transaction", store)
	entry := writeCreate(t, svc)

	if err := svc.UndoLog(context.Background(), entry.ID, admin); err == nil {
		t.Fatal("expected the store error")
	}

	store.err = nil
	if err := svc.UndoLog(context.Background(), entry.ID, admin); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if store.deletes != 2 {
		t.Fatalf("deletes = %d, want 2", store.deletes)
	}
}

func TestUndoLogErrors(t *testing.T) {
	svc := NewService(newTestDB(t))
	entry := writeCreate(t, svc)

	if err := svc.UndoLog(context.Background(), 999, admin); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("missing entry: err = %v", err)
	}
	if err := svc.UndoLog(context.Background(), entry.ID, admin); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("unregistered entity type: err = %v", err)
	}
}
