package inventory

import (
	"strings"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type IngredientResponse struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	CurrentStock     float64 `json:"current_stock"`
	Unit             string  `json:"unit"`
	MinimumThreshold float64 `json:"minimum_threshold"`
	IsLowStock       bool    `json:"is_low_stock"`
	CostPerUnit      float64 `json:"cost_per_unit"`
	StockValue       float64 `json:"stock_value"`
	Supplier         string  `json:"supplier"`
	LastRestocked    *string `json:"last_restocked"`
	ExpiryDate       *string `json:"expiry_date"`
}

type IngredientRequest struct {
	Name             string   `json:"name"`
	CurrentStock     *float64 `json:"current_stock"`
	Unit             string   `json:"unit"`
	MinimumThreshold *float64 `json:"minimum_threshold"`
	CostPerUnit      float64  `json:"cost_per_unit"`
	Supplier         string   `json:"supplier"`
	ExpiryDate       string   `json:"expiry_date"` // "2026-12-31", opsiyonel
}

func (r IngredientRequest) toInput() (IngredientInput, error) {
	in := IngredientInput{
		Name:             r.Name,
		CurrentStock:     r.CurrentStock,
		Unit:             models.Unit(r.Unit),
		MinimumThreshold: r.MinimumThreshold,
		CostPerUnit:      r.CostPerUnit,
		Supplier:         r.Supplier,
	}
	if exp := strings.TrimSpace(r.ExpiryDate); exp != "" {
		d, err := time.Parse("2006-01-02", exp)
		if err != nil {
			return in, apperr.Validation("expiry_date", "must be YYYY-MM-DD")
		}
		in.ExpiryDate = &d
	}
	return in, nil
}

func toResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:               i.ID,
		Name:             i.Name,
		CurrentStock:     i.CurrentStock,
		Unit:             string(i.Unit),
		MinimumThreshold: i.MinimumThreshold,
		IsLowStock:       i.IsLowStock(),
		CostPerUnit:      i.CostPerUnit,
		StockValue:       i.StockValue(),
		Supplier:         i.Supplier,
		LastRestocked:    formatDate(i.LastRestocked),
		ExpiryDate:       formatDate(i.ExpiryDate),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// GET /api/inventory?low_stock=true
func ListIngredientsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.QueryBool("low_stock", false))
		if err != nil {
			return apperr.ToFiber(err)
		}

		res := make([]IngredientResponse, 0, len(items))
		for _, i := range items {
			res = append(res, toResponse(i))
		}
		return c.JSON(res)
	}
}

// GET /api/inventory/:id
func GetIngredientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		ing, err := svc.Get(c.UserContext(), uint(id))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(toResponse(*ing))
	}
}

// POST /api/inventory
func CreateIngredientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		in, err := body.toInput()
		if err != nil {
			return apperr.ToFiber(err)
		}

		ing, err := svc.Add(c.UserContext(), in)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(*ing))
	}
}

// PUT /api/inventory/:id
func UpdateIngredientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		in, err := body.toInput()
		if err != nil {
			return apperr.ToFiber(err)
		}

		ing, err := svc.Update(c.UserContext(), uint(id), in)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(toResponse(*ing))
	}
}

// DELETE /api/inventory/:id
func DeleteIngredientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		if err := svc.Delete(c.UserContext(), uint(id)); err != nil {
			return apperr.ToFiber(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
