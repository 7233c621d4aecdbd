package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"prompt-mixer/core/config"
	"prompt-mixer/core/database"
	"prompt-mixer/core/logger"
	"prompt-mixer/core/server"
	"prompt-mixer/feature/combination"
	"prompt-mixer/feature/library"
	libstore "prompt-mixer/feature/library/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateCount int
	generateMode  string
	generateSeed  int64
	generateFile  string
)

// generateCmd produces combinations on the command line without starting
// the server.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate combinations from the current library config",
	Long: `Generate combinations from the persisted library config and print them.

Examples:
  # Four random combinations (the default)
  prompt-mixer generate

  # Ten random combinations with a fixed seed
  prompt-mixer generate --count 10 --seed 42

  # A cartesian draw with its full product size
  prompt-mixer generate --mode cartesian`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateCount, "count", 4, "Number of combinations to generate (random mode)")
	generateCmd.Flags().StringVar(&generateMode, "mode", server.ModeRandom, "Combination mode: random or cartesian")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 uses the current time)")
	generateCmd.Flags().StringVar(&generateFile, "file", "", "Read the config from an exported JSON file instead of the database")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if !server.IsValidMode(generateMode) {
		return fmt.Errorf("unknown combination mode %q", generateMode)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	libs, err := resolveLibraryService(logg, cfg, generateFile)
	if err != nil {
		return err
	}

	seed := generateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := combination.NewEngine(rand.New(rand.NewSource(seed)))
	snapshot := libs.Snapshot()

	switch generateMode {
	case server.ModeCartesian:
		result := engine.GenerateCartesian(&snapshot)
		fmt.Printf("Representative: %s\n", result.Representative.Render())
		fmt.Printf("Full product size: %d\n", result.TotalCount)
		for _, draw := range result.Draws {
			fmt.Printf("  %s: %v\n", draw.LibraryName, draw.Values)
		}
	default:
		for i, combo := range engine.Generate(&snapshot, generateCount) {
			fmt.Printf("%d. %s\n", i+1, combo.Render())
		}
	}
	return nil
}

// resolveLibraryService reads the config from an exported file when one is
// given, otherwise from the database.
func resolveLibraryService(logg *zap.Logger, cfg *config.Config, file string) (*library.Service, error) {
	if file == "" {
		return loadLibraryService(logg, cfg), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	libs := library.NewService(logg, nil)
	if err := libs.ImportConfig(context.Background(), data); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return libs, nil
}

// loadLibraryService builds a library service backed by the database when one
// is reachable, falling back to the default in-memory config.
func loadLibraryService(logg *zap.Logger, cfg *config.Config) *library.Service {
	var st *libstore.Store
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed, using default config", zap.Error(err))
	} else {
		st = libstore.New(conn)
	}

	libs := library.NewService(logg, st)
	if err := libs.Init(context.Background()); err != nil {
		logg.Warn("Failed to load config snapshot, using default config", zap.Error(err))
	}
	return libs
}
