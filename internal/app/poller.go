package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/readaloud/internal/readaloud"
	"github.com/five82/readaloud/internal/state"
)

const defaultPollInterval = 10 * time.Second

// StatusSource is the part of the API the poller needs.
type StatusSource interface {
	Status(ctx context.Context) (*readaloud.StatusResponse, error)
}

// Poller checks backend status at a fixed cadence and records the outcome
// in a state.Store. Failures only flip the connection indicator.
type Poller struct {
	store    *state.Store
	source   StatusSource
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
}

// NewPoller builds a poller. A non-positive interval uses the 10s default;
// a non-positive timeout leaves deadlines to the source.
func NewPoller(store *state.Store, source StatusSource, interval, timeout time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		store:    store,
		source:   source,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Interval returns the polling cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the polling goroutine: one check immediately, then one per
// interval until ctx is cancelled. The returned channel closes when the
// goroutine has exited.
func (p *Poller) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			_ = p.Refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

// Refresh performs a single status check and records it. It is safe to
// call alongside the polling goroutine.
func (p *Poller) Refresh(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	status, err := p.source.Status(ctx)
	p.store.Update(status, err)
	if err != nil {
		p.logger.Warn("status poll failed", "err", err)
		return err
	}
	p.logger.Debug("status poll ok", "engine", status.HiggsAudio, "service", serviceLabel(status))
	return nil
}

func serviceLabel(status *readaloud.StatusResponse) string {
	if status == nil || status.Service == nil {
		return "unknown"
	}
	return status.Service.State().String()
}
