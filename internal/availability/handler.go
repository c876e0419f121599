package availability

import (
	"github.com/gofiber/fiber/v2"
)

type RecomputeResponse struct {
	Changed int `json:"changed"`
}

// POST /api/availability/recompute
// stok dışarıdan değiştiyse bayrakları elle tazelemek için
func RecomputeHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		changed, err := e.RecomputeAll(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Uygunluk hesaplanamadı")
		}
		return c.JSON(RecomputeResponse{Changed: changed})
	}
}
