package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/losmon/losmon/internal/config"
	"github.com/losmon/losmon/internal/domain/analytics"
	"github.com/losmon/losmon/internal/domain/patient"
	"github.com/losmon/losmon/internal/domain/tracking"
	"github.com/losmon/losmon/internal/monitor"
	"github.com/losmon/losmon/internal/platform/db"
	"github.com/losmon/losmon/internal/platform/events"
	"github.com/losmon/losmon/internal/platform/middleware"
	"github.com/losmon/losmon/internal/report"
	"github.com/losmon/losmon/internal/sim"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "losmon-server",
		Short: "Hospital length-of-stay tracking server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// connect loads config and opens the database pool shared by all commands.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the LOS tracking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := newLogger()

	ctx := context.Background()
	cfg, pool, err := connect(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Migrations run on every start; applying an already-applied set is a
	// no-op.
	migrator := db.NewMigrator(pool, "./migrations")
	applied, err := migrator.Up(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	if applied > 0 {
		logger.Info().Int("applied", applied).Msg("applied migrations")
	}

	patientRepo := patient.NewRepo(pool)
	trackingRepo := tracking.NewRepo(pool)
	analyticsRepo := analytics.NewRepo(pool)

	patientSvc := patient.NewService(patientRepo)
	trackingSvc := tracking.NewService(trackingRepo)
	analyticsSvc := analytics.NewService(analyticsRepo, patientRepo, trackingRepo)

	if cfg.SeedOnEmpty {
		count, err := patientSvc.CountPatients(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to check patient count")
		}
		if count == 0 {
			seeder := sim.NewSeeder(patientRepo, trackingRepo)
			seedCfg := sim.DefaultSeedConfig()
			seedCfg.PatientCount = cfg.SeedPatientCount
			result, err := seeder.Seed(ctx, seedCfg)
			if err != nil {
				logger.Fatal().Err(err).Msg("seeding failed")
			}
			logger.Info().
				Int("patients", result.Patients).
				Int("tracking_records", result.TrackingRecords).
				Msg("seeded empty database")
		}
	}

	// Optional pub/sub for dashboard live refresh.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RedisURL != "" {
		redisPub, err := events.NewRedisPublisher(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, tracking updates will not be published")
		} else {
			publisher = redisPub
			defer redisPub.Close()
			logger.Info().Msg("publishing tracking updates to redis")
		}
	}

	mon := monitor.New(patientRepo, trackingRepo, sim.NewGenerator(time.Now().UnixNano()), logger)
	mon.Interval = cfg.MonitorInterval
	mon.RetryInterval = cfg.MonitorRetryInterval
	mon.SetPublisher(publisher)
	mon.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	tracking.NewHandler(trackingSvc).RegisterRoutes(apiV1)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)

	exporter := report.NewExporter(analyticsSvc)
	apiV1.GET("/reports/export", func(c echo.Context) error {
		out, err := exporter.Generate(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			`attachment; filename="los_report.xlsx"`)
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	mon.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with a simulated patient population",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetInt64("seed")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			seedCfg := sim.DefaultSeedConfig()
			if count > 0 {
				seedCfg.PatientCount = count
			}
			if seed != 0 {
				seedCfg.Seed = seed
			}

			seeder := sim.NewSeeder(patient.NewRepo(pool), tracking.NewRepo(pool))
			result, err := seeder.Seed(ctx, seedCfg)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Printf("Seeded %d patient(s) with %d tracking record(s).\n",
				result.Patients, result.TrackingRecords)
			return nil
		},
	}
	cmd.Flags().Int("count", 0, "Number of patients to generate (default 5)")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible populations")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print a snapshot of the database contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			patientRepo := patient.NewRepo(pool)
			trackingRepo := tracking.NewRepo(pool)
			analyticsRepo := analytics.NewRepo(pool)
			svc := analytics.NewService(analyticsRepo, patientRepo, trackingRepo)

			summary, err := svc.PatientSummary(ctx)
			if err != nil {
				return err
			}
			totalRecords, err := trackingRepo.Count(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Patients: %d  Tracking records: %d\n\n", len(summary), totalRecords)
			fmt.Printf("%-8s %-20s %-28s %-20s %-10s %s\n",
				"ID", "DEPARTMENT", "DIAGNOSIS", "ADMITTED", "PRED LOS", "RECORDS")
			for _, row := range summary {
				fmt.Printf("%-8s %-20s %-28s %-20s %-10.1f %d\n",
					row.PatientID, row.Department, row.Diagnosis,
					row.AdmissionDate.Format("2006-01-02 15:04"),
					row.PredictedLOS, row.TrackingRecords)
			}

			vitals, err := svc.RecentVitals(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("\n%-8s %-20s %-20s %-6s %-6s %-6s %s\n",
				"ID", "DEPARTMENT", "LAST OBSERVED", "HR", "BP", "TEMP", "SPO2")
			for _, row := range vitals {
				if row.VitalSigns == nil {
					fmt.Printf("%-8s %-20s (no observations)\n", row.PatientID, row.Department)
					continue
				}
				fmt.Printf("%-8s %-20s %-20s %-6.0f %-6.0f %-6.1f %.0f\n",
					row.PatientID, row.Department,
					row.TrackingDate.Format("2006-01-02 15:04"),
					row.VitalSigns.HeartRate, row.VitalSigns.BloodPressure,
					row.VitalSigns.Temperature, row.VitalSigns.OxygenSaturation)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export dashboard views to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			patientRepo := patient.NewRepo(pool)
			trackingRepo := tracking.NewRepo(pool)
			svc := analytics.NewService(analytics.NewRepo(pool), patientRepo, trackingRepo)

			data, err := report.NewExporter(svc).Generate(ctx)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s (%d bytes).\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().String("out", "los_report.xlsx", "Output file path")
	return cmd
}
