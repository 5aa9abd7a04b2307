// Package privacyflow provides the cron-driven source provider that polls PrivacyFlow for new messages.
package privacyflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/operion-privacyflow/pkg/events"
	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
)

const (
	// ProviderID identifies this provider on emitted source events.
	ProviderID = "privacyflow"

	// DefaultSchedule polls once a minute.
	DefaultSchedule = "@every 1m"
)

// ErrInvalidConfig is returned for provider configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid privacyflow provider configuration")

// PollProvider runs one poll tick per schedule activation and emits each message as a source event.
type PollProvider struct {
	poller       *pf.Poller
	logger       *slog.Logger
	tracer       trace.Tracer
	sourceID     string
	schedule     string
	messageLimit float64
	callback     protocol.SourceEventCallback
	cron         *cron.Cron
	started      bool
	mu           sync.Mutex
}

// NewPollProvider parses config; values are checked by Validate.
func NewPollProvider(poller *pf.Poller, config map[string]any, logger *slog.Logger) (*PollProvider, error) {
	p := &PollProvider{
		poller:       poller,
		tracer:       otelhelper.Tracer(),
		schedule:     DefaultSchedule,
		messageLimit: pf.DefaultMessageLimit,
	}

	if raw, ok := config["message_limit"]; ok {
		switch v := raw.(type) {
		case float64:
			p.messageLimit = v
		case int:
			p.messageLimit = float64(v)
		default:
			return nil, fmt.Errorf("%w: message_limit must be a number, got %T", ErrInvalidConfig, raw)
		}
	}

	if schedule, ok := config["schedule"].(string); ok && schedule != "" {
		p.schedule = schedule
	}

	if sourceID, ok := config["source_id"].(string); ok && sourceID != "" {
		p.sourceID = sourceID
	} else {
		p.sourceID = uuid.New().String()
	}

	p.logger = logger.With("module", "privacyflow_provider", "source_id", p.sourceID)

	return p, nil
}

// SourceID returns the source ID stamped on emitted events.
func (p *PollProvider) SourceID() string {
	return p.sourceID
}

// Validate checks the message limit and the schedule expression.
func (p *PollProvider) Validate() error {
	if p.poller == nil {
		return fmt.Errorf("%w: poller is not configured", ErrInvalidConfig)
	}

	if err := pf.ValidateMessageLimit(p.messageLimit); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("%w: schedule %q: %w", ErrInvalidConfig, p.schedule, err)
	}

	return nil
}

// Start schedules poll ticks. Overlapping ticks are skipped and panics are recovered.
func (p *PollProvider) Start(ctx context.Context, callback protocol.SourceEventCallback) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	if err := p.Validate(); err != nil {
		return err
	}

	logger := cronLogger{logger: p.logger}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger)), cron.WithLogger(logger))

	if _, err := c.AddFunc(p.schedule, func() { p.scheduledTick(ctx) }); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	p.callback = callback
	p.cron = c
	p.started = true

	c.Start()

	p.logger.Info("PrivacyFlow poll provider started", "schedule", p.schedule, "message_limit", int(p.messageLimit))

	return nil
}

// Stop stops scheduling and waits for a running tick, or for ctx to be done.
func (p *PollProvider) Stop(ctx context.Context) error {
	p.mu.Lock()

	if !p.started {
		p.mu.Unlock()

		return nil
	}

	p.started = false
	c := p.cron
	p.mu.Unlock()

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	p.logger.Info("PrivacyFlow poll provider stopped")

	return nil
}

// Tick performs one poll and emits one event per message, in the order received.
// No new data emits nothing. Failures are returned; under Start they are logged and the schedule keeps running.
func (p *PollProvider) Tick(ctx context.Context) error {
	ctx, span := otelhelper.StartInternalSpan(ctx, p.tracer, "privacyflow poll tick",
		attribute.String(otelhelper.SourceIDKey, p.sourceID),
	)
	defer span.End()

	batch, err := p.poller.Poll(ctx, p.messageLimit)
	if err != nil {
		otelhelper.SetError(span, err, string(pf.KindOf(err)))

		return err
	}

	if batch == nil {
		return nil
	}

	callback := p.currentCallback()
	if callback == nil {
		return errors.New("provider has no event callback")
	}

	polledAt := time.Now()

	var errs []error

	for i, item := range batch.Items {
		data := events.NewMessageReceivedData(item, polledAt, int(p.messageLimit), i)

		if err := callback(ctx, p.sourceID, ProviderID, events.EventTypeMessageReceived, data); err != nil {
			errs = append(errs, fmt.Errorf("emit message %d: %w", i, err))
		}
	}

	p.logger.InfoContext(ctx, "Emitted message events", "count", len(batch.Items)-len(errs))

	if err := errors.Join(errs...); err != nil {
		otelhelper.SetError(span, err, "emit_failed")

		return err
	}

	return nil
}

// scheduledTick runs Tick under cron, where the error has no caller, and logs it.
func (p *PollProvider) scheduledTick(ctx context.Context) {
	if err := p.Tick(ctx); err != nil {
		p.logger.WarnContext(ctx, "Poll tick failed", "kind", pf.KindOf(err), "error", err)
	}
}

// SetCallback sets the callback used by Tick when the provider is driven without Start.
func (p *PollProvider) SetCallback(callback protocol.SourceEventCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.callback = callback
}

func (p *PollProvider) currentCallback() protocol.SourceEventCallback {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.callback
}

// cronLogger routes robfig/cron logs to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
