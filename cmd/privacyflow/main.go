// Package main provides the privacyflow command line: one-shot operations, a polling
// watcher publishing source events, and the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/operion-privacyflow/pkg/cmd"
	"github.com/dukex/operion-privacyflow/pkg/log"
	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	cli "github.com/urfave/cli/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "privacyflow"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var tracerProvider *sdktrace.TracerProvider

	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Send messages, read unread messages and contacts, and poll PrivacyFlow",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "PrivacyFlow API key",
				Sources: cli.EnvVars(pf.EnvAPIKey),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "PrivacyFlow API base URL",
				Value:   pf.DefaultBaseURL,
				Sources: cli.EnvVars(pf.EnvBaseURL),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces with the OTLP HTTP exporter (configured by OTEL_EXPORTER_OTLP_* variables)",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			if err := configFrom(command).Validate(); err != nil {
				return ctx, err
			}

			if !command.Bool("otel-enabled") {
				return ctx, nil
			}

			tp, err := otelhelper.NewTracerProvider(ctx, serviceName)
			if err != nil {
				return ctx, fmt.Errorf("failed to initialize tracer: %w", err)
			}

			tracerProvider = tp

			return ctx, nil
		},
		After: func(ctx context.Context, command *cli.Command) error {
			if tracerProvider == nil {
				return nil
			}

			return tracerProvider.Shutdown(ctx)
		},
		Commands: []*cli.Command{
			sendCommand(),
			unreadCommand(),
			contactsCommand(),
			healthCommand(),
			pollCommand(),
			watchCommand(),
			serveCommand(),
		},
	}
}

// configFrom reads the flags shared by every command.
func configFrom(command *cli.Command) cmd.Config {
	return cmd.Config{
		APIKey:  command.String("api-key"),
		BaseURL: command.String("base-url"),
	}
}
