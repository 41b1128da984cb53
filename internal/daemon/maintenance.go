package daemon

import (
	"context"
	"path/filepath"
	"time"

	"plparse/internal/logging"
)

const maintenanceInterval = 24 * time.Hour

func (d *Daemon) maintenanceLoop(ctx context.Context) {
	d.runMaintenance(ctx)

	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runMaintenance(ctx)
		}
	}
}

// runMaintenance prunes history rows and log files past their retention.
func (d *Daemon) runMaintenance(ctx context.Context) {
	if d.store != nil && d.cfg.History.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -d.cfg.History.RetentionDays)
		removed, err := d.store.Prune(ctx, cutoff)
		if err != nil {
			logging.WarnWithContext(d.logger, "history prune failed", "history_prune_failed",
				logging.Error(err),
				logging.Hint("check the history database for corruption or locks"),
				logging.Impact("old runs remain in history"),
			)
		} else if removed > 0 {
			d.logger.Info("history pruned",
				logging.EventType("history_pruned"),
				logging.Int64("runs", removed),
			)
		}
	}

	logging.CleanupOldLogs(d.logger, d.cfg.Paths.LogDir, "plparse*.log*", d.cfg.Logging.RetentionDays,
		filepath.Join(d.cfg.Paths.LogDir, logging.LogFileName))
}
