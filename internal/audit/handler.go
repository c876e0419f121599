package audit

import (
	"fmt"

	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID            uint               `json:"id"`
	CreatedAt     string             `json:"created_at"`
	CorrelationID string             `json:"correlation_id"`
	EntityType    string             `json:"entity_type"`
	EntityID      uint               `json:"entity_id"`
	Action        models.AuditAction `json:"action"`
	Description   string             `json:"description"`
	BeforeData    string             `json:"before_data"`
	AfterData     string             `json:"after_data"`
}

// GET /api/audit-logs?entity_type=ingredient&entity_id=1&limit=50
func ListAuditLogsHandler(store *catalog.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := ListFilter{EntityType: c.Query("entity_type")}

		if idStr := c.Query("entity_id"); idStr != "" {
			var id uint
			if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id geçersiz")
			}
			f.EntityID = id
		}
		f.Limit = c.QueryInt("limit", 100)

		logs, err := List(c.UserContext(), store, f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit loglar listelenemedi")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:            l.ID,
				CreatedAt:     l.CreatedAt.Format("2006-01-02 15:04:05"),
				CorrelationID: l.CorrelationID,
				EntityType:    l.EntityType,
				EntityID:      l.EntityID,
				Action:        l.Action,
				Description:   l.Description,
				BeforeData:    l.BeforeData,
				AfterData:     l.AfterData,
			})
		}
		return c.JSON(res)
	}
}
