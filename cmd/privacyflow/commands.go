package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dukex/operion-privacyflow/pkg/cmd"
	"github.com/dukex/operion-privacyflow/pkg/log"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	cli "github.com/urfave/cli/v3"
)

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Send a text message to a contact",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipient",
				Aliases: []string{"to"},
				Usage:   "Contact ID or handle of the recipient",
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Message text (up to 10,000 characters)",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return dispatch(ctx, command, pf.ResourceMessageActions, pf.OperationSendTextMessage, pf.MapParameters{
				"recipient": command.String("recipient"),
				"message":   command.String("message"),
			})
		},
	}
}

func unreadCommand() *cli.Command {
	return &cli.Command{
		Name:  "unread",
		Usage: "List unread messages",
		Action: func(ctx context.Context, command *cli.Command) error {
			return dispatch(ctx, command, pf.ResourceMessageActions, pf.OperationGetUnreadMessages, nil)
		},
	}
}

func contactsCommand() *cli.Command {
	return &cli.Command{
		Name:  "contacts",
		Usage: "List contacts",
		Action: func(ctx context.Context, command *cli.Command) error {
			return dispatch(ctx, command, pf.ResourceContactManagement, pf.OperationListContacts, nil)
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the API key is accepted",
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("privacyflow-cli")
			_, client := cmd.NewRegistry(logger, configFrom(command))

			if err := client.Health(ctx); err != nil {
				return err
			}

			return writeJSON(command.Root().Writer, map[string]any{"status": "healthy"})
		},
	}
}

func pollCommand() *cli.Command {
	return &cli.Command{
		Name:  "poll",
		Usage: "Run a single poll tick and print new messages",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of messages to retrieve (1-100)",
				Value:   pf.DefaultMessageLimit,
				Sources: cli.EnvVars("MESSAGE_LIMIT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("privacyflow-cli")
			_, client := cmd.NewRegistry(logger, configFrom(command))

			batch, err := pf.NewPoller(client, logger).Poll(ctx, float64(command.Int("limit")))
			if err != nil {
				return err
			}

			if batch == nil {
				logger.InfoContext(ctx, "No new messages")

				return writeJSON(command.Root().Writer, []pf.Item{})
			}

			return writeJSON(command.Root().Writer, batch.Items)
		},
	}
}

func dispatch(ctx context.Context, command *cli.Command, resource pf.Resource, operation pf.Operation, params pf.ParameterAccessor) error {
	logger := log.WithModule("privacyflow-cli")
	_, client := cmd.NewRegistry(logger, configFrom(command))

	items, err := pf.NewDispatcher(client, logger).Dispatch(ctx, resource, operation, params)
	if err != nil {
		return err
	}

	return writeJSON(command.Root().Writer, items)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
