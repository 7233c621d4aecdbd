package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prompt-mixer/core/config"
	"prompt-mixer/core/database"
	"prompt-mixer/core/loader"
	"prompt-mixer/core/logger"
	"prompt-mixer/core/middleware/auth"
	"prompt-mixer/core/middleware/rayid"
	"prompt-mixer/core/storage"

	"prompt-mixer/feature/combination"
	"prompt-mixer/feature/library"
	libstore "prompt-mixer/feature/library/store"
	"prompt-mixer/feature/reconcile"
	"prompt-mixer/feature/reconcile/source"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "prompt-mixer/docs/swagger"
)

// @title Prompt Mixer API
// @version 1.0
// @description API for composing creative prompts from weighted value libraries.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the prompt mixer server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Without one the library collection lives in memory only.
		var st *libstore.Store
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, snapshots are memory-only", zap.Error(err))
		} else {
			st = libstore.New(conn)
			logg.Info("Connected to snapshot database")
		}

		// 4. Initialize Storage (Optional)
		// Without a reachable bucket the sync endpoints report no source.
		var adapter source.Adapter
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, sheet sync disabled", zap.Error(err))
		} else {
			adapter = source.NewBucketAdapter(client, cfg.Storage.Bucket, cfg.Storage.SheetPrefix)
		}

		// 5. Initialize Library Service
		libFeature := library.NewFeature(logg, st)
		if err := libFeature.Service().Init(context.Background()); err != nil {
			logg.Fatal("Failed to load config snapshot", zap.Error(err))
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(libFeature)
		mgr.Register(combination.NewFeature(logg, libFeature.Service(), cfg.Server))
		mgr.Register(reconcile.NewFeature(logg, libFeature.Service(), adapter,
			time.Duration(cfg.Storage.SyncTimeoutSeconds)*time.Second))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
