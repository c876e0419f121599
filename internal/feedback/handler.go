package feedback

import (
	"dinesight-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type CreateFeedbackRequest struct {
	ItemName string `json:"item_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type FeedbackResponse struct {
	ID           uint   `json:"id"`
	ItemName     string `json:"item_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	FeedbackDate string `json:"feedback_date"`
}

// POST /api/feedback
func CreateFeedbackHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFeedbackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		fb, err := svc.Add(c.UserContext(), body.ItemName, body.Rating, body.Comment)
		if err != nil {
			return apperr.ToFiber(err)
		}

		return c.Status(fiber.StatusCreated).JSON(FeedbackResponse{
			ID:           fb.ID,
			ItemName:     fb.ItemName,
			Rating:       fb.Rating,
			Comment:      fb.Comment,
			FeedbackDate: fb.FeedbackDate.Format("2006-01-02"),
		})
	}
}

// GET /api/feedback?item_name=Bread
func ListFeedbackHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.Query("item_name"))
		if err != nil {
			return apperr.ToFiber(err)
		}

		res := make([]FeedbackResponse, 0, len(items))
		for _, fb := range items {
			res = append(res, FeedbackResponse{
				ID:           fb.ID,
				ItemName:     fb.ItemName,
				Rating:       fb.Rating,
				Comment:      fb.Comment,
				FeedbackDate: fb.FeedbackDate.Format("2006-01-02"),
			})
		}
		return c.JSON(res)
	}
}
