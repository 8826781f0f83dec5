package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"filmstrip/internal/assetcache"
	"filmstrip/internal/config"
	"filmstrip/internal/job"
	"filmstrip/internal/logging"
	"filmstrip/internal/pipeline"
	"filmstrip/internal/workspace"
)

// Version identifies the filmstrip build reported by the API and CLI.
const Version = "0.1.0"

// Daemon owns the HTTP server, the single-instance lock, and background
// maintenance sweeps.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipe     *pipeline.Pipeline
	registry *job.Registry
	cache    *assetcache.Cache

	lock      *flock.Flock
	listener  net.Listener
	server    *http.Server
	startedAt time.Time

	running atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New constructs a daemon around an already-built pipeline.
func New(cfg *config.Config, pipe *pipeline.Pipeline, registry *job.Registry, cache *assetcache.Cache, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || pipe == nil || registry == nil {
		return nil, errors.New("daemon requires config, pipeline, and registry")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		pipe:     pipe,
		registry: registry,
		cache:    cache,
		lock:     flock.New(cfg.Paths.LockPath),
	}, nil
}

// Start acquires the instance lock, binds the API listener, and launches
// the server plus maintenance sweeps.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another filmstripd instance is already running")
	}

	listener, err := net.Listen("tcp", d.cfg.Paths.APIBind)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("api listen on %s: %w", d.cfg.Paths.APIBind, err)
	}
	d.listener = listener
	d.server = &http.Server{
		Handler:           newRouter(d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Renders run synchronously inside the request; give them room.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	group, groupCtx := errgroup.WithContext(runCtx)
	d.group = group
	d.startedAt = time.Now()

	group.Go(func() error {
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		d.shutdownServer()
		return nil
	})
	group.Go(func() error {
		d.sweepLoop(groupCtx)
		return nil
	})

	d.running.Store(true)
	d.logger.Info("filmstripd started",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", d.cfg.Paths.LockPath),
		logging.String("environment", d.cfg.Daemon.Environment))
	return nil
}

// Stop shuts the server down, fails any in-flight job records, and releases
// the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.group != nil {
		_ = d.group.Wait()
		d.group = nil
	}
	if failed := d.registry.FailActive(job.DaemonStopReason); failed > 0 {
		d.logger.Warn("marked in-flight jobs failed on shutdown", logging.Int("jobs", failed))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("filmstripd stopped")
}

// Addr returns the bound API address, empty before Start.
func (d *Daemon) Addr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Running reports whether the daemon has been started and not yet stopped.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

func (d *Daemon) shutdownServer() {
	timeout := time.Duration(d.cfg.Daemon.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
}

// sweepLoop periodically removes stale workspaces and prunes the asset
// cache. Sweep failures are logged, never fatal.
func (d *Daemon) sweepLoop(ctx context.Context) {
	interval := time.Duration(d.cfg.Daemon.SweepInterval) * time.Minute
	if interval <= 0 {
		return
	}
	maxAge := time.Duration(d.cfg.Daemon.WorkspaceMaxAge) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep(ctx, maxAge)
		}
	}
}

func (d *Daemon) sweep(ctx context.Context, maxAge time.Duration) {
	result := workspace.CleanStale(ctx, d.cfg.Paths.WorkspaceDir, maxAge, d.logger)
	if len(result.Removed) > 0 {
		d.logger.Info("stale workspace sweep",
			logging.Int("removed", len(result.Removed)),
			logging.String(logging.FieldEventType, "workspace_sweep"))
	}
	if d.cache.Enabled() {
		if _, err := d.cache.Prune(ctx); err != nil {
			d.logger.Warn("asset cache prune failed", logging.Error(err))
		}
	}
}
