package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dukex/operion-privacyflow/pkg/channels/kafka"
	"github.com/dukex/operion-privacyflow/pkg/eventbus"
)

// NewSourceEventBus creates the source event bus selected by busType.
// kafkaBrokers is a comma separated list used when busType is kafka.
func NewSourceEventBus(busType, kafkaBrokers string, logger *slog.Logger) (eventbus.SourceEventBus, error) {
	bus, err := eventbus.New(busType, kafka.ParseBrokers(kafkaBrokers), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source event bus: %w", busType, err)
	}

	return bus, nil
}
