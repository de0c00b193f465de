// ABOUTME: Entry point for the actionadmin server.
// ABOUTME: Wires together config, store, auth, logging, metrics, and the admin site with CLI commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/2389/actionadmin/internal/admin"
	"github.com/2389/actionadmin/internal/auth"
	"github.com/2389/actionadmin/internal/config"
	"github.com/2389/actionadmin/internal/logging"
	"github.com/2389/actionadmin/internal/seed"
	"github.com/2389/actionadmin/internal/store"
	"github.com/2389/actionadmin/plugins/core"
	_ "github.com/2389/actionadmin/plugins/tickets" // Register tickets plugin
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	configPath string
	port       string
	dbPath     string
	seedSize   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "actionadmin",
		Short: "actionadmin - admin site with declarative custom actions",
		Long: `actionadmin serves an admin site whose models declare custom actions:
buttons on the changelist, on every list row, and on the change page.

Features:
  • Row, list, and detail actions with per-request visibility rules
  • Two-step confirmation forms for actions that need input
  • Automatically generated, named action routes
  • Session messages after an action runs
  • SQLite persistence and a request log per model
  • Prometheus metrics at /metrics

Quick Start:
  actionadmin seed      # Generate demo tickets
  actionadmin serve     # Start server on port 9000
  actionadmin routes    # List generated routes`,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	// Calculate default database path once (not per-command)
	defaultDBPath := getDefaultDBPath()

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the admin HTTP server.

The server provides:
  • Admin UI at http://localhost:PORT/admin/
  • Health check at http://localhost:PORT/healthz
  • Prometheus metrics at http://localhost:PORT/metrics

Authentication:
  Use Bearer tokens in the format: Bearer user:USERNAME
  When ADMIN_STAFF_USERS is set, only those users may open the admin.

Environment Variables:
  APP_ENV            "production" hides stage-only actions
  ADMIN_PORT         Server port (default: 9000)
  ADMIN_DB_PATH      Database path
  ADMIN_STAFF_USERS  Comma-separated staff user names`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")

	seedCmd := &cobra.Command{
		Use:   "seed [plugin]",
		Short: "Seed the database with test data",
		Long: `Seed the database with demo data for all plugins or a specific one.

AI-Powered Generation:
  Set OPENAI_API_KEY to use AI for generating realistic tickets.
  Falls back to static test data if no API key is provided.

Usage:
  actionadmin seed              # Seed all plugins
  actionadmin seed tickets      # Seed only the tickets plugin

Note: Seed is not idempotent. Use 'actionadmin reset' to clear data before reseeding.`,
		RunE: runSeed,
		Args: cobra.MaximumNArgs(1),
	}
	seedCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")
	seedCmd.Flags().StringVarP(&seedSize, "size", "s", "medium", "Amount of data: small, medium, or large")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database file and create a fresh one with new test data.

Warning: This permanently deletes all data in the database!`,
		RunE: runReset,
	}
	resetCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")
	resetCmd.Flags().StringVarP(&seedSize, "size", "s", "medium", "Amount of data: small, medium, or large")

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the generated admin routes",
		RunE:  runRoutes,
	}

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd, routesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Server.Port = port
	}
	if f := cmd.Flags().Lookup("db"); f != nil && (f.Changed || cfg.Database.Path == "") {
		cfg.Database.Path = dbPath
	}
	if cfg.Database.Path != "" {
		cfg.Database.Path, err = validateAndCleanDBPath(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
	}

	config.Apply(cfg)
	return cfg, nil
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	// Reject empty and root-like paths
	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Server.Port
	log.Printf("actionadmin listening on %s (environment: %s)", addr, cfg.Environment)
	log.Printf("Database: %s", cfg.Database.Path)
	return http.ListenAndServe(addr, srv)
}

func newServer(cfg *config.Config) (http.Handler, error) {
	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := initPlugins(s); err != nil {
		return nil, err
	}

	site, err := newSite(cfg, s)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)
	r.Use(logging.Middleware(s, site.Prefix()))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Favicon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, site.Prefix()+"/", http.StatusFound)
	})

	site.RegisterRoutes(r)

	return r, nil
}

// newSite registers every plugin on a fresh admin site. Route collisions
// surface here, before the server starts listening.
func newSite(cfg *config.Config, s *store.Store) (*admin.Site, error) {
	opts := admin.Options{
		Name:   cfg.Admin.SiteName,
		Prefix: cfg.Admin.Prefix,
		Staff:  cfg.Admin.StaffUsers,
	}
	if s != nil {
		opts.Messages = s
		opts.Stats = s
	}
	site := admin.NewSite(opts)
	if err := site.RegisterAll(); err != nil {
		return nil, err
	}
	return site, nil
}

// initPlugins gives database plugins their connection
func initPlugins(s *store.Store) error {
	for _, plugin := range core.All() {
		if dbPlugin, ok := plugin.(core.DatabasePlugin); ok {
			if err := dbPlugin.SetDB(s.GetDB()); err != nil {
				return fmt.Errorf("failed to initialize plugin %s: %w", plugin.Name(), err)
			}
		}
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	var pluginName string
	if len(args) > 0 {
		pluginName = args[0]
	}

	return seedData(cmd.Context(), cfg, s, pluginName, seedSize)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Remove existing database - ignore if file doesn't exist
	if err := os.Remove(cfg.Database.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(cmd.Context(), cfg, s, "", seedSize) // Reset always seeds all plugins
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	site, err := newSite(cfg, nil)
	if err != nil {
		return err
	}
	return printRoutes(cmd.OutOrStdout(), site.Routes())
}

func printRoutes(w io.Writer, routes []admin.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATTERN\tMODEL\tACTION")
	for _, rt := range routes {
		action := rt.Action
		if action == "" {
			action = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rt.Name, rt.Pattern, rt.Model, action)
	}
	return tw.Flush()
}

func seedData(ctx context.Context, cfg *config.Config, s *store.Store, pluginFilter, size string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if pluginFilter != "" {
		log.Printf("Seeding database with test data for plugin: %s", pluginFilter)
	} else {
		log.Println("Seeding database with test data...")
	}

	generator := seed.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// Initialize all plugins with database access
	for _, plugin := range core.All() {
		if dbPlugin, ok := plugin.(core.DatabasePlugin); ok {
			if err := dbPlugin.SetDB(s.GetDB()); err != nil {
				log.Printf("Failed to initialize plugin %s: %v", plugin.Name(), err)
				continue
			}
		}
		if genPlugin, ok := plugin.(core.GeneratorPlugin); ok {
			genPlugin.SetGenerator(generator)
		}
	}

	// Seed each plugin (optionally filtered by name)
	totalRecords := 0
	seededCount := 0
	for _, plugin := range core.All() {
		if pluginFilter != "" && plugin.Name() != pluginFilter {
			continue
		}

		seedData, err := plugin.Seed(ctx, size)
		if err != nil {
			log.Printf("Failed to seed %s: %v", plugin.Name(), err)
			continue
		}

		if seedData.Summary != "" {
			log.Printf("%s: %s", plugin.Name(), seedData.Summary)
			for _, count := range seedData.Records {
				totalRecords += count
			}
			seededCount++
		}
	}

	// Check if plugin filter didn't match anything
	if pluginFilter != "" && seededCount == 0 {
		log.Printf("Plugin '%s' not found or has no seed implementation", pluginFilter)
		log.Println("\nAvailable plugins:")
		for _, name := range core.Names() {
			log.Printf("  - %s", name)
		}
		return fmt.Errorf("plugin '%s' not found", pluginFilter)
	}

	if pluginFilter != "" {
		log.Printf("\nSeeding complete! Created %d records for %s", totalRecords, pluginFilter)
	} else {
		log.Printf("\nSeeding complete! Created %d total records across all plugins", totalRecords)
	}
	return nil
}

// getDefaultDBPath returns the default database path following XDG Base Directory spec
// Priority: ./actionadmin.db (if present) > XDG_DATA_HOME/actionadmin/actionadmin.db.
// ADMIN_DB_PATH is applied by the config layer.
func getDefaultDBPath() string {
	cwdPath := "./actionadmin.db"
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			// Fallback to current directory if we can't get valid home dir
			log.Printf("Warning: Could not determine valid home directory (%q): %v, using %s", homeDir, err, cwdPath)
			return cwdPath
		}

		// Windows: %LOCALAPPDATA% or ~/AppData/Local
		// Unix/Linux/macOS: ~/.local/share (XDG spec)
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(dataHome, "actionadmin")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v, using %s", dataDir, err, cwdPath)
		return cwdPath
	}

	return filepath.Join(dataDir, "actionadmin.db")
}
