package main

import (
	"context"
	"errors"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dukex/operion-privacyflow/pkg/cmd"
	"github.com/dukex/operion-privacyflow/pkg/log"
	"github.com/dukex/operion-privacyflow/pkg/web"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the PrivacyFlow HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			config := configFrom(command)
			config.Port = command.Int("port")

			if err := config.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := log.WithModule("privacyflow-api")
			_, client := cmd.NewRegistry(logger, config)

			app := web.NewApp(web.NewAPIHandlers(client, logger), true)

			errCh := make(chan error, 1)
			go func() {
				errCh <- web.Start(app, ":"+strconv.Itoa(config.Port), logger)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			return nil
		},
	}
}
