package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukex/operion-privacyflow/pkg/cmd"
	"github.com/dukex/operion-privacyflow/pkg/eventbus"
	"github.com/dukex/operion-privacyflow/pkg/events"
	"github.com/dukex/operion-privacyflow/pkg/log"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	providerprivacyflow "github.com/dukex/operion-privacyflow/pkg/providers/privacyflow"
	cli "github.com/urfave/cli/v3"
)

const stopTimeout = 35 * time.Second

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll on a schedule and publish one MessageReceived source event per new message",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of messages to retrieve per poll (1-100)",
				Value:   pf.DefaultMessageLimit,
				Sources: cli.EnvVars("MESSAGE_LIMIT"),
			},
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Cron expression or descriptor for the poll interval",
				Value:   providerprivacyflow.DefaultSchedule,
				Sources: cli.EnvVars("POLL_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "source-id",
				Usage:   "Source ID stamped on emitted events (generated if empty)",
				Sources: cli.EnvVars("SOURCE_ID"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   eventbus.TypeGoChannel,
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			config := configFrom(command)
			config.EventBus = command.String("event-bus")
			config.KafkaBrokers = command.String("kafka-brokers")
			config.MessageLimit = command.Int("limit")
			config.Schedule = command.String("schedule")

			if err := config.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := log.WithModule("privacyflow-watch")

			bus, err := cmd.NewSourceEventBus(config.EventBus, config.KafkaBrokers, logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := bus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			// The in-memory bus has no other consumer; print what is delivered.
			if config.EventBus == eventbus.TypeGoChannel {
				out := command.Root().Writer

				if err := bus.HandleSourceEvents(func(ctx context.Context, sourceEvent *events.SourceEvent) error {
					return writeJSON(out, sourceEvent)
				}); err != nil {
					return err
				}

				if err := bus.SubscribeToSourceEvents(ctx); err != nil {
					return err
				}
			}

			reg, _ := cmd.NewRegistry(logger, config)

			provider, err := reg.CreateProvider(providerprivacyflow.ProviderID, map[string]any{
				"message_limit": config.MessageLimit,
				"schedule":      config.Schedule,
				"source_id":     command.String("source-id"),
			})
			if err != nil {
				return err
			}

			if err := provider.Start(ctx, eventbus.PublishCallback(bus)); err != nil {
				return fmt.Errorf("failed to start poll provider: %w", err)
			}

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()

			return provider.Stop(stopCtx)
		},
	}
}
