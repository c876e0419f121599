package menu

import (
	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MenuItemResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Margin      float64 `json:"margin"`
	PrepTime    int     `json:"prep_time"`
	Available   bool    `json:"available"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// available alanı kasıtlı olarak yok; sadece motor yazar
type MenuItemRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Cost        float64  `json:"cost"`
	PrepTime    int      `json:"prep_time"`
}

func (r MenuItemRequest) toInput() MenuItemInput {
	return MenuItemInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Cost:        r.Cost,
		PrepTime:    r.PrepTime,
	}
}

type RecipeLineRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	QuantityUsed float64 `json:"quantity_used"`
}

type RecipeLineResponse struct {
	ID             uint    `json:"id"`
	MenuItemID     uint    `json:"menu_item_id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	QuantityUsed   float64 `json:"quantity_used"`
	Missing        bool    `json:"missing"`
}

type CanFulfillResponse struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
	CanFulfill bool `json:"can_fulfill"`
}

func toResponse(m models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		Price:       m.Price,
		Cost:        m.Cost,
		Margin:      m.Margin(),
		PrepTime:    m.PrepTime,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   m.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
	}
	return uint(id), nil
}

// GET /api/menu-items?available=true
func ListMenuItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.QueryBool("available", false))
		if err != nil {
			return apperr.ToFiber(err)
		}

		res := make([]MenuItemResponse, 0, len(items))
		for _, m := range items {
			res = append(res, toResponse(m))
		}
		return c.JSON(res)
	}
}

// GET /api/menu-items/:id
func GetMenuItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		item, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(toResponse(*item))
	}
}

// POST /api/menu-items
func CreateMenuItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		item, err := svc.Add(c.UserContext(), body.toInput())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(*item))
	}
}

// PUT /api/menu-items/:id
func UpdateMenuItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var body MenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		item, err := svc.Update(c.UserContext(), id, body.toInput())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(toResponse(*item))
	}
}

// DELETE /api/menu-items/:id
func DeleteMenuItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return apperr.ToFiber(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/menu-items/:id/recipe
func GetRecipeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		entries, err := svc.Recipe(c.UserContext(), id)
		if err != nil {
			return apperr.ToFiber(err)
		}

		res := make([]RecipeLineResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, RecipeLineResponse{
				ID:             e.ID,
				MenuItemID:     e.MenuItemID,
				IngredientID:   e.IngredientID,
				IngredientName: e.IngredientName,
				Unit:           e.Unit,
				QuantityUsed:   e.QuantityUsed,
				Missing:        e.Missing,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/menu-items/:id/recipe
func AddRecipeLineHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var body RecipeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		line, err := svc.AddRecipeLine(c.UserContext(), id, body.IngredientID, body.QuantityUsed)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(RecipeLineResponse{
			ID:           line.ID,
			MenuItemID:   line.MenuItemID,
			IngredientID: line.IngredientID,
			QuantityUsed: line.QuantityUsed,
		})
	}
}

// DELETE /api/recipe-lines/:id
func DeleteRecipeLineHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := svc.DeleteRecipeLine(c.UserContext(), id); err != nil {
			return apperr.ToFiber(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/menu-items/:id/can-fulfill?quantity=3
func CanFulfillHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		qty := c.QueryInt("quantity", 1)

		ok, err := svc.CanFulfill(c.UserContext(), id, qty)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(CanFulfillResponse{MenuItemID: id, Quantity: qty, CanFulfill: ok})
	}
}
