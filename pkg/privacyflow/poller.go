package privacyflow

import (
	"context"
	"log/slog"
	"math"

	"github.com/dukex/operion-privacyflow/pkg/metrics"
)

// Message limit bounds for a poll tick.
const (
	MinMessageLimit     = 1
	MaxMessageLimit     = 100
	DefaultMessageLimit = 50
)

// MessageLimitInvalid is the validation message for an out-of-range limit.
const MessageLimitInvalid = "Message limit must be an integer between 1 and 100"

// Batch holds the messages delivered by one poll tick, in the order received.
type Batch struct {
	Items []Item
}

// Poller performs a single poll tick. Scheduling belongs to the host.
type Poller struct {
	client *Client
	logger *slog.Logger
}

func NewPoller(client *Client, logger *slog.Logger) *Poller {
	return &Poller{
		client: client,
		logger: logger.With("module", "privacyflow_poller"),
	}
}

// ValidateMessageLimit checks that limit is an integer in [1,100].
func ValidateMessageLimit(limit float64) error {
	if math.IsNaN(limit) || limit != math.Trunc(limit) || limit < MinMessageLimit || limit > MaxMessageLimit {
		return invalidInput(OperationPollMessages, MessageLimitInvalid)
	}

	return nil
}

// Poll asks the service for pending messages. It returns a nil batch and a nil
// error when there is no new data; the host must not start a workflow then.
// No delivery state is kept between ticks.
func (p *Poller) Poll(ctx context.Context, messageLimit float64) (*Batch, error) {
	if err := ValidateMessageLimit(messageLimit); err != nil {
		return nil, err
	}

	body, err := p.client.Do(ctx, NewPollMessagesRequest(int(messageLimit)))
	if err != nil {
		return nil, err
	}

	items := MapResponse(OperationPollMessages, body)
	if len(items) == 0 {
		p.logger.DebugContext(ctx, "No new messages")

		return nil, nil
	}

	metrics.RecordPolledMessages(len(items))
	p.logger.DebugContext(ctx, "Polled messages", "count", len(items))

	return &Batch{Items: items}, nil
}
