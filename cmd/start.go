package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commerce-sync/core/loader"
	"commerce-sync/core/logger"
	"commerce-sync/core/middleware/auth"
	"commerce-sync/core/middleware/rayid"
	"commerce-sync/feature/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Commerce Sync API
// @version 1.0
// @description Admin API for the ERP and storefront synchronization service.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var noScheduler bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the admin server and the sync scheduler",
	Long:  `Starts the HTTP admin API and runs a sync every sync.interval_minutes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		logg := rt.logger

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		mgr := loader.NewManager(logg)
		mgr.Register(orchestrator.NewFeature(rt.service, true))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		if !noScheduler {
			scheduler := orchestrator.NewScheduler(rt.service, rt.cfg.Sync.Interval(), logg)
			go scheduler.Start(ctx)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Addr())
		}()

		select {
		case err := <-errCh:
			logg.Error("Server failed", zap.Error(err))
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	startCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Serve the admin API without scheduled runs")
	RootCmd.AddCommand(startCmd)
}
