package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"plparse/internal/api"
	"plparse/internal/config"
	"plparse/internal/disc"
	"plparse/internal/history"
	"plparse/internal/logging"
	"plparse/internal/plparser"
	"plparse/internal/preflight"
)

// ErrAlreadyRunning is returned by Start when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another plparse daemon instance is already running")

type discWatcher interface {
	Start(ctx context.Context) error
	Stop()
}

type readyFunc func(ctx context.Context, device string, maxPolls int) (disc.DriveStatus, error)

// Daemon runs the API server and disc watcher under a single-instance lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	parser *plparser.Parser
	store  *history.Store

	lockPath string
	lock     *flock.Flock

	server  *api.Server
	watcher discWatcher
	ready   readyFunc

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastMu   sync.Mutex
	lastDisc *DiscRun
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	APIAddress   string
	Watching     bool
	HistoryPath  string
	LockFilePath string
	LastDisc     *DiscRun
}

// DiscRun summarizes the most recent disc resolution.
type DiscRun struct {
	Device string
	RunID  string
	Result plparser.Result
	Err    string
}

// New constructs a daemon. store may be nil when history is disabled.
func New(cfg *config.Config, parser *plparser.Parser, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || parser == nil {
		return nil, errors.New("daemon requires config and parser")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	logger = logging.NewComponentLogger(logger, "daemon")

	server, err := api.NewServer(cfg.API.Bind, parser, store, logger)
	if err != nil {
		return nil, fmt.Errorf("api server: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		parser:   parser,
		store:    store,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		server:   server,
		ready:    disc.WaitForReady,
	}
	if cfg.Disc.Watch {
		d.watcher = disc.NewMonitor(cfg.Disc.Device, logger, d.handleInsert)
	}
	return d, nil
}

// Start acquires the lock and launches the API server, the disc watcher and
// the maintenance loop.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	for _, failed := range preflight.Failed(preflight.RunAll(ctx, d.cfg)) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.Hint("run 'plparse doctor' for details"),
		)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	if d.watcher != nil {
		if err := d.watcher.Start(runCtx); err != nil {
			cancel()
			d.server.Stop()
			_ = d.lock.Unlock()
			return fmt.Errorf("start disc monitor: %w", err)
		}
	}

	d.cancel = cancel
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.maintenanceLoop(runCtx)
	}()

	d.running.Store(true)
	d.logger.Info("plparse daemon started",
		logging.EventType("daemon_started"),
		logging.String("lock", d.lockPath),
		logging.String("api", d.server.Addr()),
		logging.Bool("watch", d.watcher != nil),
	)
	return nil
}

// Stop shuts down background work and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("plparse daemon stopped", logging.EventType("daemon_stopped"))
}

// Close stops the daemon and closes the history store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	st := Status{
		Running:      d.running.Load(),
		Watching:     d.watcher != nil,
		LockFilePath: d.lockPath,
	}
	if st.Running {
		st.APIAddress = d.server.Addr()
	}
	if d.store != nil {
		st.HistoryPath = d.store.Path()
	}
	d.lastMu.Lock()
	if d.lastDisc != nil {
		run := *d.lastDisc
		st.LastDisc = &run
	}
	d.lastMu.Unlock()
	return st
}
