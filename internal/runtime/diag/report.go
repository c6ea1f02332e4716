// Package diag reads the virtual memory ledger for diagnostics: it logs
// reports, samples the ledger periodically and keeps a sample history.
package diag

import (
	"github.com/rs/zerolog"

	"github.com/nativert/rtaccount/internal/runtime/nmt"
)

// Object wraps a report so it can be embedded in any zerolog event.
type Object nmt.Report

func (o Object) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("reserved", o.Reserved).
		Int64("committed", o.Committed).
		Int64("peak_reserved", o.PeakReserved).
		Int64("peak_committed", o.PeakCommitted)
}

// LogReport writes r at info level.
func LogReport(logger zerolog.Logger, r nmt.Report) {
	logger.Info().EmbedObject(Object(r)).Msg("virtual memory")
}
