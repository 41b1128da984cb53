package daemon

import (
	"context"
	"fmt"

	"plparse/internal/history"
	"plparse/internal/logging"
	"plparse/internal/metrics"
	"plparse/internal/plparser"
)

// handleInsert resolves the disc in device once the drive reports it ready
// and records the run.
func (d *Daemon) handleInsert(ctx context.Context, device string) error {
	metrics.DiscEventsTotal.WithLabelValues("inserted").Inc()
	logger := d.logger.With(logging.Device(device))

	status, err := d.ready(ctx, device, d.cfg.Disc.ReadyPolls)
	if err != nil {
		metrics.DiscEventsTotal.WithLabelValues("not_ready").Inc()
		d.rememberDisc(DiscRun{Device: device, Err: err.Error()})
		return fmt.Errorf("wait for %s: %w", device, err)
	}
	logger.Debug("drive ready", logging.String("status", status.String()))

	run, events := history.Capture(ctx, d.parser, device, plparser.ResolveOptions{Fallback: false}, "disc")
	d.rememberDisc(DiscRun{Device: device, RunID: run.ID, Result: run.Result})

	ctxLogger := logging.WithContext(logging.WithRunID(ctx, run.ID), logger)
	if run.Result != plparser.Success {
		metrics.DiscEventsTotal.WithLabelValues("unresolved").Inc()
		logging.WarnWithContext(ctxLogger, "inserted disc did not resolve", "disc_unresolved",
			logging.Outcome(run.Result),
			logging.Hint("data discs without a video layout are not playable media"),
			logging.Impact("no entries were produced for the disc"),
		)
	} else {
		metrics.DiscEventsTotal.WithLabelValues("resolved").Inc()
		for _, ev := range events {
			if ev.Kind == plparser.EventEntry {
				ctxLogger.Info("disc resolved",
					logging.EventType("disc_resolved"),
					logging.URI(ev.Entry.URI),
					logging.String("title", ev.Entry.Title),
				)
			}
		}
	}

	if d.store == nil {
		return nil
	}
	if _, err := d.store.Record(ctx, run, events); err != nil {
		return fmt.Errorf("record disc run: %w", err)
	}
	metrics.HistoryRunsRecorded.WithLabelValues("disc").Inc()
	return nil
}

func (d *Daemon) rememberDisc(run DiscRun) {
	d.lastMu.Lock()
	defer d.lastMu.Unlock()
	d.lastDisc = &run
}
