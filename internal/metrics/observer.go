package metrics

import (
	"time"

	"plparse/internal/mimetype"
	"plparse/internal/plparser"
)

// resolverObserver implements plparser.Observer using the collectors
// declared in metrics.go.
type resolverObserver struct{}

// NewResolverObserver returns an observer that records resolver metrics.
func NewResolverObserver() plparser.Observer {
	return resolverObserver{}
}

func (resolverObserver) ResolveFinished(result plparser.Result, elapsed time.Duration) {
	ResolutionsTotal.WithLabelValues(result.String()).Inc()
	ResolveDuration.Observe(elapsed.Seconds())
}

func (resolverObserver) DecoderFinished(t mimetype.TypeID, result plparser.Result) {
	DecoderResultsTotal.WithLabelValues(t.String(), result.String()).Inc()
}

func (resolverObserver) EntryEmitted() {
	EntriesEmittedTotal.Inc()
}
