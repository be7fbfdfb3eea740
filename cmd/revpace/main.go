package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/staylytics/revpace/internal/booking"
	"github.com/staylytics/revpace/internal/clock"
	"github.com/staylytics/revpace/internal/config"
	"github.com/staylytics/revpace/internal/events"
	"github.com/staylytics/revpace/internal/interval"
	"github.com/staylytics/revpace/internal/listing"
	"github.com/staylytics/revpace/internal/migration"
	"github.com/staylytics/revpace/internal/observability"
	"github.com/staylytics/revpace/internal/pace"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
	"github.com/staylytics/revpace/internal/rateflow"
	"github.com/staylytics/revpace/internal/rates"
	"github.com/staylytics/revpace/internal/redis"
	"github.com/staylytics/revpace/internal/server"
	"github.com/staylytics/revpace/internal/tax"
	"github.com/staylytics/revpace/pkg/db"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "revpace",
		Short:   "Revenue pace analytics engine",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newPaceCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pace analytics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

type paceFlags struct {
	pickups  []string
	from     string
	to       string
	interval string
	metrics  []string
	listings []int64
}

func newPaceCmd() *cobra.Command {
	var flags paceFlags
	cmd := &cobra.Command{
		Use:   "pace",
		Short: "Run a one-shot pace computation and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPace(flags)
		},
	}
	cmd.Flags().StringSliceVar(&flags.pickups, "pickup", nil, "pickup date YYYY-MM-DD (repeatable)")
	cmd.Flags().StringVar(&flags.from, "from", "", "target window start YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.to, "to", "", "target window end YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.interval, "interval", "day", "bucket interval: day or month")
	cmd.Flags().StringSliceVar(&flags.metrics, "metric", nil, "metric id to compute (repeatable, default all)")
	cmd.Flags().Int64SliceVar(&flags.listings, "listing", nil, "restrict to listing id (repeatable)")
	_ = cmd.MarkFlagRequired("pickup")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		redis.Module,
		booking.Module,
		listing.Module,
		tax.Module,
		rateflow.Module,
		events.Module,
		rates.Module,
		pace.Module,
		server.Module,
	)
	app.Run()
}

func runPace(flags paceFlags) error {
	req, err := buildComputeRequest(flags)
	if err != nil {
		return err
	}

	var runErr error
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		redis.Module,
		booking.Module,
		listing.Module,
		tax.Module,
		rateflow.Module,
		events.Module,
		rates.Module,
		pace.Module,
		fx.Invoke(func(svc pacedomain.Service) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			result, err := svc.ComputePace(ctx, req)
			if err != nil {
				runErr = err
				return
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			runErr = enc.Encode(result)
		}),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("pace run failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return runErr
}

func buildComputeRequest(flags paceFlags) (pacedomain.ComputeRequest, error) {
	var req pacedomain.ComputeRequest

	for _, raw := range flags.pickups {
		t, err := parseDate(raw)
		if err != nil {
			return req, fmt.Errorf("invalid pickup date %q", raw)
		}
		req.PickupDates = append(req.PickupDates, t)
	}

	from, err := parseDate(flags.from)
	if err != nil {
		return req, fmt.Errorf("invalid from date %q", flags.from)
	}
	to, err := parseDate(flags.to)
	if err != nil {
		return req, fmt.Errorf("invalid to date %q", flags.to)
	}

	req.From = from
	req.To = to
	req.Interval = interval.Interval(strings.ToLower(strings.TrimSpace(flags.interval)))
	req.MetricIDs = flags.metrics
	for _, id := range flags.listings {
		req.ListingIDs = append(req.ListingIDs, snowflake.ID(id))
	}
	return req, nil
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.UTC)
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
