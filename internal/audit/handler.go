package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/auth"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Logs is the part of Service the handlers use.
type Logs interface {
	List(ctx context.Context, q ListQuery) ([]models.AuditLog, error)
	UndoLog(ctx context.Context, logID uint, actor models.Actor) error
}

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      string             `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *string            `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=transaction&entity_id=...&user_id=...&limit=50&offset=0
func ListAuditLogsHandler(logs Logs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := ListQuery{
			EntityType: c.Query("entity_type"),
			EntityID:   c.Query("entity_id"),
			UserID:     c.Query("user_id"),
			Limit:      c.QueryInt("limit", 50),
			Offset:     c.QueryInt("offset", 0),
		}
		if q.Offset < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "offset must not be negative")
		}

		entries, err := logs.List(c.UserContext(), q)
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(entries))
		for _, e := range entries {
			var undoneAt *string
			if e.UndoneAt != nil {
				s := e.UndoneAt.Format(time.RFC3339)
				undoneAt = &s
			}
			resp = append(resp, AuditLogResponse{
				ID:          e.ID,
				CreatedAt:   e.CreatedAt.Format(time.RFC3339),
				UserID:      e.UserID,
				UserName:    e.UserName,
				EntityType:  e.EntityType,
				EntityID:    e.EntityID,
				Action:      e.Action,
				Description: e.Description,
				IsUndone:    e.IsUndone,
				UndoneBy:    e.UndoneBy,
				UndoneAt:    undoneAt,
			})
		}

		return c.JSON(fiber.Map{"data": resp})
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(logs Logs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid audit log id")
		}

		if err := logs.UndoLog(c.UserContext(), uint(logID), auth.ActorFrom(c)); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"message": "change undone"})
	}
}
