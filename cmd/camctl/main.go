// Package main provides camctl, an offline tool for the camera dataset.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shenikar/camera_map/internal/config"
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/repository"
	"github.com/shenikar/camera_map/internal/service"
	"github.com/shenikar/camera_map/pkg/logger"
	"github.com/shenikar/camera_map/pkg/postgres"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
)

var (
	// Global flags
	verbose bool
	csvPath string

	// Inspect command flags
	selection models.Selection
	asJSON    bool

	// Import command flags
	databaseURL    string
	migrationsPath string
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "camctl",
	Short: "camctl - camera dataset tool",
	Long: `camctl inspects the camera CSV with the same filter and render
pipeline the server uses, and imports it into PostgreSQL.

Examples:
  # Show every camera in a district
  camctl inspect --csv AP_13_dist_data.csv --district Guntur

  # Load the CSV into the cameras table
  camctl import --csv AP_13_dist_data.csv --database-url postgres://localhost/cams`,
	SilenceUsage: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Filter the dataset and print the table",
	Long: `Run one filter cycle over the CSV and print the info bar, marker
diagnostics and the resulting table. Without filters the cycle is the
initial page load: all markers, empty table.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the CSV into PostgreSQL",
	Long: `Apply migrations and replace the contents of the cameras table
with the normalized CSV rows.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "AP_13_dist_data.csv", "Path to the camera CSV")

	// Inspect command flags
	inspectCmd.Flags().StringVar(&selection.District, "district", "", "District filter")
	inspectCmd.Flags().StringVar(&selection.Mandal, "mandal", "", "Mandal filter")
	inspectCmd.Flags().StringVar(&selection.Type, "type", "", "Camera type filter")
	inspectCmd.Flags().StringVar(&selection.Analytics, "analytics", "", "Analytics filter")
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole view as JSON")

	// Import command flags
	importCmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	importCmd.Flags().StringVar(&migrationsPath, "migrations", "file://migrations", "Migrations source URL")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(importCmd)
}

func newLogger() *logrus.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewWithOutput(level, "text", os.Stderr)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	ctx := cmd.Context()

	settings := service.SettingsFromConfig(defaultConfig())
	cameraService := service.NewCameraService(
		repository.NewCSVSource(csvPath),
		repository.NewMemorySessionStore(time.Minute),
		log,
		settings,
	)
	if err := cameraService.LoadDataset(ctx); err != nil {
		return err
	}

	view, err := cameraService.OpenSession(ctx)
	if err != nil {
		return err
	}
	if !selection.IsEmpty() {
		id, err := uuid.Parse(view.SessionID)
		if err != nil {
			return err
		}
		if view, err = cameraService.ApplyFilters(ctx, id, selection); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Fprintln(out, view.InfoBar)
	fmt.Fprintf(out, "Markers: %d valid, %d invalid\n", view.Stats.Valid, view.Stats.Invalid)
	fmt.Fprintf(out, "Viewport: %.5f,%.5f zoom %d\n",
		view.Map.Viewport.Center.Lat, view.Map.Viewport.Center.Lng, view.Map.Viewport.Zoom)
	fmt.Fprintf(out, "Districts: %s\n", strings.Join(view.Options.Districts, ", "))
	fmt.Fprintf(out, "Mandals: %s\n", strings.Join(view.Options.Mandals, ", "))
	fmt.Fprintf(out, "Types: %s\n", strings.Join(view.Options.Types, ", "))
	fmt.Fprintf(out, "Analytics: %s\n", strings.Join(view.Options.Analytics, ", "))
	if len(view.Table) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, col := range service.TableColumns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range view.Table {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.District, row.Mandal, row.LocationName, row.Latitude, row.Longitude, row.CameraType, row.Analytics)
	}
	return tw.Flush()
}

func runImport(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	if databaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	rows, err := repository.NewCSVSource(csvPath).Load(ctx)
	if err != nil {
		return err
	}
	records := service.NormalizeRows(rows)

	if err := postgres.RunMigrations(databaseURL, migrationsPath, log); err != nil {
		return err
	}

	dbpool, err := postgres.NewPostgresDB(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	n, err := repository.NewPostgresSource(dbpool).Import(ctx, records)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"csv": csvPath, "rows": n}).Info("Import finished")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cameras from %s\n", n, csvPath)
	return nil
}

// defaultConfig возвращает настройки карты по умолчанию без чтения окружения
func defaultConfig() *config.Config {
	return &config.Config{
		MapCenterLat:    22.0,
		MapCenterLng:    79.0,
		MapDefaultZoom:  5,
		MapMaxFitZoom:   12,
		MapWidthPx:      1024,
		MapHeightPx:     768,
		ClusterRadiusPx: 40,
		IconBaseURL:     "icons/",
	}
}
