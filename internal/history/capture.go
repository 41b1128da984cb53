package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"plparse/internal/logging"
	"plparse/internal/plparser"
)

// Capture resolves target and returns an unsaved Run along with every event
// the resolution emitted. The run ID doubles as the logging run_id.
func Capture(ctx context.Context, p *plparser.Parser, target string, opts plparser.ResolveOptions, source string) (Run, []plparser.Event) {
	runID, ok := logging.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}

	var collector plparser.Collector
	started := time.Now()
	result := p.Resolve(ctx, target, opts, &collector)
	events := collector.Events()

	run := Run{
		ID:        runID,
		URI:       target,
		Base:      opts.Base,
		Source:    source,
		Result:    result,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	for _, ev := range events {
		if ev.Kind == plparser.EventEntry {
			run.EntryCount++
		}
	}
	return run, events
}
