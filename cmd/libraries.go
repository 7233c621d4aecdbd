package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"prompt-mixer/core/config"
	"prompt-mixer/core/logger"

	"github.com/spf13/cobra"
)

var (
	librariesJSON bool
	librariesFile string
)

// librariesCmd lists the persisted library collection.
var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the libraries in the current config",
	RunE:  runLibraries,
}

func init() {
	librariesCmd.Flags().BoolVar(&librariesJSON, "json", false, "Print the full config as JSON")
	librariesCmd.Flags().StringVar(&librariesFile, "file", "", "Read the config from an exported JSON file instead of the database")

	RootCmd.AddCommand(librariesCmd)
}

func runLibraries(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	libs, err := resolveLibraryService(logg, cfg, librariesFile)
	if err != nil {
		return err
	}

	if librariesJSON {
		data, err := libs.ExportConfig()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	snapshot := libs.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHEET\tENABLED\tRATE\tVALUES")
	for _, lib := range snapshot.Libraries {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d%%\t%d\n",
			lib.Name, lib.SourceSheet, lib.Enabled, lib.ParticipationRate, len(lib.Values))
	}
	return w.Flush()
}
