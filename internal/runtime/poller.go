package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// DefaultPollInterval is the pause between background processing status
// checks.
const DefaultPollInterval = time.Second

// Poller drives the bounded status-poll loop for background processing.
type Poller struct {
	api      ports.FormAPI
	interval time.Duration
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// PollerOption configures the Poller.
type PollerOption func(*Poller)

// WithPollInterval overrides the poll interval.
func WithPollInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithPollerLogger configures a logger.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger
	}
}

// WithPollerHooks registers observability hooks.
func WithPollerHooks(hooks domain.LifecycleHooks) PollerOption {
	return func(p *Poller) {
		p.hooks = hooks
	}
}

// NewPoller creates a poller against the given API.
func NewPoller(api ports.FormAPI, opts ...PollerOption) *Poller {
	p := &Poller{
		api:      api,
		interval: DefaultPollInterval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls the status URL at a fixed interval until processing reports
// done, the context is canceled, or a transport error occurs. Transport
// errors are surfaced to the caller instead of being retried indefinitely;
// a canceled context returns ctx.Err() so a superseded poll never leaks a
// result into engine state.
func (p *Poller) Wait(ctx context.Context, statusURL string) (*ports.StatusResponse, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		resp, err := p.api.PollStatus(ctx, statusURL)
		if err != nil {
			return nil, fmt.Errorf("status poll failed: %w", err)
		}

		done := resp.Status == ports.ProcessingDone
		p.emitTick(ctx, statusURL, attempt, time.Since(start), done)
		if done {
			p.logger.Debug("background processing finished",
				"status_url", statusURL,
				"result", resp.Result,
				"attempts", attempt,
			)
			return resp, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) emitTick(ctx context.Context, statusURL string, attempt int, d time.Duration, done bool) {
	if p.hooks.OnPollTick == nil {
		return
	}
	p.hooks.OnPollTick(ctx, &domain.PollEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPollTick},
		StatusURL: statusURL,
		Attempt:   attempt,
		Duration:  d,
		Done:      done,
	})
}
