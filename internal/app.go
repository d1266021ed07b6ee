// Package internal provides the App struct that wires curator's storage,
// integration, and observability components together and initializes the CLI
// layer.
package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/datacentered/curator/internal/cli"
	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/internal/integration"
	"github.com/datacentered/curator/internal/observability"
	"github.com/datacentered/curator/internal/storage"
	"github.com/datacentered/curator/pkg/models"
)

// App holds all service dependencies for curator.
type App struct {
	BasePath string
	Config   models.Config

	// Storage layer
	Seen     storage.SeenStore
	Queues   *storage.QueueFiles
	Pending  storage.PendingStore
	Registry *storage.Registry

	// Observability
	Audit      *observability.AuditLogger
	RoutingLog *observability.RoutingLog
	Logger     *slog.Logger

	// Integration services
	Fetcher   *integration.Fetcher
	Bookmarks integration.BookmarkSource
	Enricher  core.Enricher

	lock *flock.Flock
}

// NewApp creates and wires all components. basePath is the root directory of
// the knowledge base (typically the directory containing .curatorrc).
func NewApp(basePath string) (*App, error) {
	cfg, err := core.LoadConfig(basePath)
	if err != nil {
		return nil, err
	}

	app := &App{BasePath: basePath, Config: cfg}
	app.Logger = newDiagLogger(basePath)

	// Only one curator process may mutate the queue files at a time.
	app.lock = flock.New(filepath.Join(basePath, ".curator.lock"))
	locked, err := app.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring instance lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another curator instance is already running in %s", basePath)
	}

	// --- Storage layer ---
	app.Seen, err = storage.NewSeenStore(filepath.Join(basePath, ".curator-seen"))
	if err != nil {
		return nil, err
	}
	app.Queues = storage.NewQueueFiles(basePath)
	app.Pending = storage.NewPendingStore(basePath)
	app.Registry = storage.NewRegistry(basePath)

	// --- Observability ---
	app.Audit = observability.NewAuditLogger(basePath)
	app.RoutingLog = observability.NewRoutingLog(basePath)

	// --- Integration services ---
	app.Fetcher = integration.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, app.Logger)
	app.Bookmarks = integration.NewCLIBookmarkSource(cfg.PollSourceCommand)
	if cfg.EnrichmentEnabled {
		app.Enricher = integration.NewGitHubEnricher(app.Logger)
	}

	// --- CLI layer ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Seen = app.Seen
	cli.Queues = app.Queues
	cli.Pending = app.Pending
	cli.Registry = app.Registry
	cli.Audit = app.Audit
	cli.RoutingLog = app.RoutingLog
	cli.Fetcher = app.Fetcher
	cli.Bookmarks = app.Bookmarks
	cli.Enricher = app.Enricher
	cli.Diag = app.Logger

	return app, nil
}

// Close releases the instance lock.
func (a *App) Close() error {
	if a.lock != nil {
		return a.lock.Unlock()
	}
	return nil
}

// newDiagLogger builds the rotating diagnostic logger at logs/curator.log.
// Diagnostics are best-effort; if the log directory can't be created the
// logger discards.
func newDiagLogger(basePath string) *slog.Logger {
	logDir := filepath.Join(basePath, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return slog.New(slog.DiscardHandler)
	}
	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "curator.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// ResolveBasePath returns the knowledge-base root: CURATOR_HOME when set,
// else the nearest ancestor directory containing .curatorrc, else the current
// directory.
func ResolveBasePath() string {
	if home := os.Getenv("CURATOR_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for probe := dir; ; {
		if _, err := os.Stat(filepath.Join(probe, ".curatorrc")); err == nil {
			return probe
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}
	return dir
}
