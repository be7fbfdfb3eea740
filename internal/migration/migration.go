// Package migration applies the embedded schema migrations for
// postgres deployments. Sqlite dev databases are auto-migrated from
// the gorm models instead.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"github.com/staylytics/revpace/internal/config"
	eventsdomain "github.com/staylytics/revpace/internal/events/domain"
	listingdomain "github.com/staylytics/revpace/internal/listing/domain"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	taxdomain "github.com/staylytics/revpace/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

func Run(cfg config.Config, log *zap.Logger, gdb *gorm.DB) error {
	log = log.Named("migration")

	if !isPostgres(cfg.DatabaseURL) {
		log.Info("sqlite database, auto-migrating models")
		return gdb.AutoMigrate(
			&bookingdomain.Booking{},
			&bookingdomain.BookingRoom{},
			&listingdomain.Listing{},
			&taxdomain.RatePlanTax{},
			&rateflowdomain.RatePlan{},
			&rateflowdomain.Channel{},
			&rateflowdomain.FlowRecord{},
			&eventsdomain.Event{},
		)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database migrations are dirty at version %d", version)
	}

	log.Info("migrations applied", zap.Uint("version", version))
	return nil
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") || strings.Contains(url, "host=")
}
