package sales

import (
	"errors"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	MenuItemID uint    `json:"menu_item_id"`
	ItemName   string  `json:"item_name"`
	Category   string  `json:"category"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type SaleResponse struct {
	ID          uint    `json:"id"`
	ReceiptID   string  `json:"receipt_id"`
	MenuItemID  uint    `json:"menu_item_id"`
	ItemName    string  `json:"item_name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalAmount float64 `json:"total_amount"`
	OrderDate   string  `json:"order_date"`
	OrderTime   string  `json:"order_time"`
	DayOfWeek   string  `json:"day_of_week"`
	Month       string  `json:"month"`
	Year        int     `json:"year"`
}

func toResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		ReceiptID:   s.ReceiptID,
		MenuItemID:  s.MenuItemID,
		ItemName:    s.ItemName,
		Category:    s.Category,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		OrderDate:   s.OrderDate,
		OrderTime:   s.OrderTime,
		DayOfWeek:   s.DayOfWeek,
		Month:       s.Month,
		Year:        s.Year,
	}
}

// POST /api/sales
func CreateSaleHandler(coord *Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		sale, err := coord.RecordSale(c.UserContext(), SaleRequest{
			MenuItemID: body.MenuItemID,
			ItemName:   body.ItemName,
			Category:   body.Category,
			Quantity:   body.Quantity,
			UnitPrice:  body.UnitPrice,
		})
		if err != nil {
			if errors.Is(err, apperr.ErrInsufficientStock) {
				return fiber.NewError(fiber.StatusConflict, "Yetersiz stok")
			}
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(*sale))
	}
}

// GET /api/sales?from=2026-10-01&to=2026-10-19&category=Bakery&limit=50
func ListSalesHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit geçersiz")
		}

		sales, err := rep.List(c.UserContext(), catalog.SaleFilter{
			From:     c.Query("from"),
			To:       c.Query("to"),
			Category: c.Query("category"),
			Limit:    limit,
		})
		if err != nil {
			return apperr.ToFiber(err)
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			res = append(res, toResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/sales/summary
func SummaryHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := rep.Summary(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(out)
	}
}

// GET /api/sales/category-performance
func CategoryPerformanceHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := rep.CategoryPerformance(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		if rows == nil {
			rows = []CategoryPerformance{}
		}
		return c.JSON(rows)
	}
}

// GET /api/sales/hourly
func HourlyPatternHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := rep.HourlyPattern(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(rows)
	}
}

// GET /api/sales/daily-trend?days=30
func DailyTrendHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := rep.DailyTrend(c.UserContext(), c.QueryInt("days", 30))
		if err != nil {
			return apperr.ToFiber(err)
		}
		if rows == nil {
			rows = []DailyBucket{}
		}
		return c.JSON(rows)
	}
}

// GET /api/sales/insights
func InsightsHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := rep.Insights(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(out)
	}
}

// GET /api/sales/top-items?limit=5
func TopItemsHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := rep.TopItems(c.UserContext(), c.QueryInt("limit", DefaultTopItems))
		if err != nil {
			return apperr.ToFiber(err)
		}
		if rows == nil {
			rows = []TopItem{}
		}
		return c.JSON(rows)
	}
}

// GET /api/sales/weekday
func WeekdayPatternHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := rep.WeekdayPattern(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(rows)
	}
}

// GET /api/menu-items/stats
func MenuStatsHandler(rep *Reports) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := rep.MenuStats(c.UserContext())
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(out)
	}
}
