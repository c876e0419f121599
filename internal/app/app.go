// Package app assembles the back-office services and mounts their HTTP routes.
package app

import (
	"dinesight-backend/internal/audit"
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/dashboard"
	"dinesight-backend/internal/feedback"
	"dinesight-backend/internal/inventory"
	"dinesight-backend/internal/menu"
	"dinesight-backend/internal/metrics"
	"dinesight-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
)

type App struct {
	Store       *catalog.Store
	Metrics     *metrics.Metrics
	Engine      *availability.Engine
	Coordinator *sales.Coordinator
	Reports     *sales.Reports
	Inventory   *inventory.Service
	Menu        *menu.Service
	Feedback    *feedback.Service
	Chart       *dashboard.Chart
}

func NewApp(
	store *catalog.Store,
	m *metrics.Metrics,
	engine *availability.Engine,
	coord *sales.Coordinator,
	reports *sales.Reports,
	inv *inventory.Service,
	menuSvc *menu.Service,
	fb *feedback.Service,
	chart *dashboard.Chart,
) *App {
	return &App{
		Store:       store,
		Metrics:     m,
		Engine:      engine,
		Coordinator: coord,
		Reports:     reports,
		Inventory:   inv,
		Menu:        menuSvc,
		Feedback:    fb,
		Chart:       chart,
	}
}

// RegisterRoutes mounts every /api route on api.
func (a *App) RegisterRoutes(api fiber.Router) {
	// malzemeler
	api.Get("/inventory", inventory.ListIngredientsHandler(a.Inventory))
	api.Get("/inventory/:id", inventory.GetIngredientHandler(a.Inventory))
	api.Post("/inventory", inventory.CreateIngredientHandler(a.Inventory))
	api.Put("/inventory/:id", inventory.UpdateIngredientHandler(a.Inventory))
	api.Delete("/inventory/:id", inventory.DeleteIngredientHandler(a.Inventory))

	// menü ve tarifler
	api.Get("/menu-items", menu.ListMenuItemsHandler(a.Menu))
	api.Get("/menu-items/stats", sales.MenuStatsHandler(a.Reports))
	api.Get("/menu-items/:id", menu.GetMenuItemHandler(a.Menu))
	api.Post("/menu-items", menu.CreateMenuItemHandler(a.Menu))
	api.Put("/menu-items/:id", menu.UpdateMenuItemHandler(a.Menu))
	api.Delete("/menu-items/:id", menu.DeleteMenuItemHandler(a.Menu))
	api.Get("/menu-items/:id/recipe", menu.GetRecipeHandler(a.Menu))
	api.Post("/menu-items/:id/recipe", menu.AddRecipeLineHandler(a.Menu))
	api.Get("/menu-items/:id/can-fulfill", menu.CanFulfillHandler(a.Menu))
	api.Delete("/recipe-lines/:id", menu.DeleteRecipeLineHandler(a.Menu))

	api.Post("/availability/recompute", availability.RecomputeHandler(a.Engine))

	// satışlar ve raporlar
	api.Post("/sales", sales.CreateSaleHandler(a.Coordinator))
	api.Get("/sales", sales.ListSalesHandler(a.Reports))
	api.Get("/sales/summary", sales.SummaryHandler(a.Reports))
	api.Get("/sales/category-performance", sales.CategoryPerformanceHandler(a.Reports))
	api.Get("/sales/hourly", sales.HourlyPatternHandler(a.Reports))
	api.Get("/sales/daily-trend", sales.DailyTrendHandler(a.Reports))
	api.Get("/sales/insights", sales.InsightsHandler(a.Reports))
	api.Get("/sales/top-items", sales.TopItemsHandler(a.Reports))
	api.Get("/sales/weekday", sales.WeekdayPatternHandler(a.Reports))

	api.Get("/dashboard/sales-chart", dashboard.SalesChartHandler(a.Chart))

	api.Post("/feedback", feedback.CreateFeedbackHandler(a.Feedback))
	api.Get("/feedback", feedback.ListFeedbackHandler(a.Feedback))

	api.Get("/audit-logs", audit.ListAuditLogsHandler(a.Store))
}
