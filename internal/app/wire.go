//go:build wireinject
// +build wireinject

package app

import (
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/dashboard"
	"dinesight-backend/internal/feedback"
	"dinesight-backend/internal/inventory"
	"dinesight-backend/internal/menu"
	"dinesight-backend/internal/metrics"
	"dinesight-backend/internal/recipe"
	"dinesight-backend/internal/sales"
	"dinesight-backend/internal/stock"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Wire sets
var CoreSet = wire.NewSet(
	catalog.NewStore,
	stock.NewLedger,
	recipe.NewResolver,
	availability.NewEngine,
)

var ServiceSet = wire.NewSet(
	sales.NewCoordinator,
	sales.NewReports,
	inventory.NewService,
	menu.NewService,
	feedback.NewService,
	dashboard.NewChart,
)

// InitializeApp builds the application graph on top of an open database.
func InitializeApp(db *gorm.DB, clk clock.Clock, reg prometheus.Registerer) (*App, error) {
	wire.Build(
		metrics.New,
		CoreSet,
		ServiceSet,
		NewApp,
	)
	return nil, nil
}
