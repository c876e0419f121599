package database

import (
	"fmt"

	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/config"
	"dinesight-backend/internal/models"
	"dinesight-backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init opens the configured store and migrates it. Failures are fatal.
func Init(cfg *config.Config, clk clock.Clock) *gorm.DB {
	db, err := Open(cfg.DBDriver, cfg.DatabaseDSN, clk)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Veritabanına bağlanılamadı")
	}
	if err := Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("AutoMigrate hatası")
	}

	logger.Logger.Info().Str("driver", cfg.DBDriver).Msg("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return db
}

// Open connects to sqlite or postgres. Row timestamps come from clk.
func Open(driver, dsn string, clk clock.Clock) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: clk.Now,
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		// sqlite tek yazıcıya izin verir; tek bağlantı tüm transaction'ları sıraya sokar
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MenuItem{},
		&models.Ingredient{},
		&models.RecipeLine{},
		&models.Sale{},
		&models.CustomerFeedback{},
		&models.AuditLog{},
	)
}
