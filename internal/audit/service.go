package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"gorm.io/gorm"
)

// EntityStore lets the audit log reverse a change to one kind of entity.
type EntityStore interface {
	// DeleteEntity reverses a create.
	DeleteEntity(ctx context.Context, id string) error
	// RestoreEntity reverses an update using the snapshot taken before it.
	RestoreEntity(ctx context.Context, id string, before []byte) error
	// RecreateEntity reverses a delete, keeping the original id.
	RecreateEntity(ctx context.Context, snapshot []byte) error
}

type LogOptions struct {
	Actor       models.Actor
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type ListQuery struct {
	EntityType string
	EntityID   string
	UserID     string
	Limit      int
	Offset     int
}

type Service struct {
	db     *gorm.DB
	stores map[string]EntityStore
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, stores: make(map[string]EntityStore)}
}

// Register makes entries of entityType undoable.
func (s *Service) Register(entityType string, store EntityStore) {
	s.stores[entityType] = store
}

// snapshot renders v for a jsonb column; jsonb rejects "" so nil becomes null.
func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (s *Service) WriteLog(ctx context.Context, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.Actor.UserID,
		UserName:    opts.Actor.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]models.AuditLog, error) {
	dbq := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if q.EntityType != "" {
		dbq = dbq.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != "" {
		dbq = dbq.Where("entity_id = ?", q.EntityID)
	}
	if q.UserID != "" {
		dbq = dbq.Where("user_id = ?", q.UserID)
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []models.AuditLog
	if err := dbq.Order("created_at DESC").Limit(limit).Offset(q.Offset).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// UndoLog reverses the change recorded by logID and records the undo as a
// new entry. An entry can be undone once.
func (s *Service) UndoLog(ctx context.Context, logID uint, actor models.Actor) error {
	var entry models.AuditLog
	err := s.db.WithContext(ctx).First(&entry, "id = ?", logID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("audit log %d: %w", logID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load audit log %d: %w", logID, err)
	}

	if entry.IsUndone {
		return fmt.Errorf("audit log %d is already undone: %w", logID, models.ErrConflict)
	}

	store, ok := s.stores[entry.EntityType]
	if !ok {
		return fmt.Errorf("%w: entity type %q cannot be undone", models.ErrInvalidInput, entry.EntityType)
	}

	var reverse func() error
	switch entry.Action {
	case models.AuditActionCreate:
		reverse = func() error { return store.DeleteEntity(ctx, entry.EntityID) }
	case models.AuditActionUpdate:
		reverse = func() error { return store.RestoreEntity(ctx, entry.EntityID, []byte(entry.BeforeData)) }
	case models.AuditActionDelete:
		reverse = func() error { return store.RecreateEntity(ctx, []byte(entry.BeforeData)) }
	default:
		return fmt.Errorf("%w: %s entries cannot be undone", models.ErrInvalidInput, entry.Action)
	}

	if err := s.claim(ctx, logID, actor); err != nil {
		return err
	}

	if err := reverse(); err != nil {
		s.release(ctx, logID)
		return fmt.Errorf("undo %s of %s %s: %w", entry.Action, entry.EntityType, entry.EntityID, err)
	}

	undo := models.AuditLog{
		UserID:      actor.UserID,
		UserName:    actor.UserName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: "Undo: " + entry.Description,
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
		Undone:      true,
	}
	if err := s.db.WithContext(ctx).Create(&undo).Error; err != nil {
		return fmt.Errorf("write undo log: %w", err)
	}
	return nil
}

// claim marks the entry undone only if nobody else has, so an entry is
// reversed at most once.
func (s *Service) claim(ctx context.Context, logID uint, actor models.Actor) error {
	res := s.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("id = ? AND is_undone = ?", logID, false).
		Updates(map[string]any{
			"is_undone": true,
			"undone_by": actor.UserID,
			"undone_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("mark audit log %d undone: %w", logID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("audit log %d is already undone: %w", logID, models.ErrConflict)
	}
	return nil
}

// release reopens an entry whose reversal failed.
func (s *Service) release(ctx context.Context, logID uint) {
	err := s.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("id = ?", logID).
		Updates(map[string]any{"is_undone": false, "undone_by": nil, "undone_at": nil}).Error
	if err != nil {
		slog.ErrorContext(ctx, "release audit log failed", "log_id", logID, "error", err)
	}
}
