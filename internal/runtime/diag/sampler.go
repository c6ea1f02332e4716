package diag

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nativert/rtaccount/internal/runtime/nmt"
)

// Sampler polls the ledger and records what it sees.
type Sampler struct {
	ledger   *nmt.VirtualMemoryInfo
	history  *History
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSampler creates a sampler. history may be nil, in which case samples
// are only logged.
func NewSampler(ledger *nmt.VirtualMemoryInfo, history *History, interval time.Duration, logger zerolog.Logger) *Sampler {
	return &Sampler{
		ledger:   ledger,
		history:  history,
		interval: interval,
		logger:   logger.With().Str("component", "diag").Logger(),
		now:      time.Now,
	}
}

// Sample takes one reading of the ledger.
func (s *Sampler) Sample() (Sample, error) {
	sample := Sample{At: s.now(), Report: s.ledger.Report()}
	s.logger.Debug().EmbedObject(Object(sample.Report)).Msg("sampled ledger")
	if s.history == nil {
		return sample, nil
	}
	return sample, s.history.Record(sample)
}

// Run samples every interval until ctx is done. A failed record is logged
// and sampling continues.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sample(); err != nil {
				s.logger.Error().Err(err).Msg("failed to record sample")
			}
		}
	}
}
