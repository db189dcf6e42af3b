// Package main is the entry point for the LeetCode dashboard TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/lc-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/lc-dashboard-tui/internal/app"
	"github.com/j-veylop/lc-dashboard-tui/internal/config"
	"github.com/j-veylop/lc-dashboard-tui/internal/db"
	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/leetcode"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/mastery"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/tabs/history"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/tabs/skills"
	"github.com/j-veylop/lc-dashboard-tui/internal/version"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(2)
	}

	switch opts.mode {
	case modeVersion:
		fmt.Println(version.Info())
		return
	case modeHelp:
		printUsage()
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration and logging, then dispatches on the selected mode.
func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()

	switch opts.mode {
	case modeCollect:
		return collectOnce(cfg)
	case modeImport:
		return importOnce(cfg, opts.importPath)
	default:
		return runTUI(cfg)
	}
}

// runTUI starts the services and blocks on the Bubble Tea program.
func runTUI(cfg *config.Config) error {
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		history.New(state, svcManager),
		skills.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// collectOnce fetches and stores one snapshot, then prints the rebuilt dashboard.
func collectOnce(cfg *config.Config) error {
	if !cfg.HasCredentials() {
		return fmt.Errorf("%w: set LEETCODE_COOKIE, LEETCODE_CSRF and LEETCODE_USERNAME", leetcode.ErrMissingCredentials)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := leetcode.NewClient(leetcode.Credentials{
		Cookie:   cfg.LeetCodeCookie,
		CSRF:     cfg.LeetCodeCSRF,
		Username: cfg.LeetCodeUsername,
		UserSlug: cfg.LeetCodeUserSlug,
	}, nil)

	collector := leetcode.New(client, database, leetcode.Config{Manual: true})
	defer collector.Close()

	snapshot, err := collector.CollectNow(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("collection interrupted")
		}
		return err
	}

	d, err := buildDashboard(cfg, database)
	if err != nil {
		return err
	}

	printCollectSummary(os.Stdout, snapshot, d)
	return nil
}

// importOnce imports one mastery payload file.
func importOnce(cfg *config.Config, path string) error {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	result, err := mastery.ImportFile(database, path)
	if err != nil {
		return err
	}

	printImportSummary(os.Stdout, result)
	return nil
}

func buildDashboard(cfg *config.Config, database *db.DB) (*models.Dashboard, error) {
	progress, err := database.GetProgressHistory(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}
	masteryHistory, err := database.GetMasteryHistory(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery history: %w", err)
	}

	return aggregate.Build(progress, masteryHistory, time.Now(), aggregate.Options{
		RegressionWindow: cfg.RegressionWindow,
		HorizonDays:      cfg.PredictionHorizon,
		TopSkills:        cfg.TopSkills,
	}), nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`lcd - LeetCode progress dashboard

Usage:
  lcd [flags]

Flags:
  -h, --help                    Show this help message
  -v, --version                 Show version information
      --collect                 Collect one snapshot, print a summary and exit
      --import-mastery <file>   Import a mastery payload file and exit

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, History, Skills, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Scroll
  t               Cycle the history time range
  r               Rebuild the dashboard from stored history
  c               Collect from LeetCode now
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  LEETCODE_COOKIE         LEETCODE_SESSION cookie value
  LEETCODE_CSRF           csrftoken cookie value
  LEETCODE_USERNAME       LeetCode username
  LEETCODE_USER_SLUG      Profile slug (defaults to the username)
  COLLECT_INTERVAL        Polling interval (default: 6h)
  LCD_CONFIG              YAML config file
  LCD_DATABASE_PATH       SQLite database path
  LCD_MASTERY_IMPORT_PATH Watched mastery payload file
  LCD_METRICS_ADDR        Prometheus listen address (disabled when empty)
  LCD_LOG_LEVEL           debug, info, warn or error

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/lcd/.env
  - ~/.lcd/.env
  Settings in ~/.config/lcd/config.yaml are loaded when present.

For more information, visit: https://github.com/j-veylop/lc-dashboard-tui`)
}
