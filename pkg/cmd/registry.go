// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/registry"
	"github.com/go-playground/validator/v10"
)

// Config holds the settings shared by the CLI commands. Zero values are not validated.
type Config struct {
	APIKey       string
	BaseURL      string `validate:"omitempty,url"`
	Port         int    `validate:"omitempty,min=1,max=65535"`
	EventBus     string `validate:"omitempty,oneof=gochannel kafka"`
	KafkaBrokers string `validate:"required_if=EventBus kafka"`
	MessageLimit int    `validate:"omitempty,min=1,max=100"`
	Schedule     string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the flag values before any component is built.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Credentials returns a provider that prefers the configured values and falls back to
// the environment on every call, so rotated keys are picked up.
func (c Config) Credentials() pf.CredentialsProvider {
	env := pf.EnvCredentials()

	return pf.CredentialsFunc(func(ctx context.Context) (pf.Credentials, error) {
		creds, err := env.Credentials(ctx)
		if err != nil {
			return pf.Credentials{}, err
		}

		if c.APIKey != "" {
			creds.APIKey = c.APIKey
		}

		if c.BaseURL != "" {
			creds.BaseURL = c.BaseURL
		}

		return creds, nil
	})
}

// NewRegistry creates a registry holding the PrivacyFlow factories and returns the shared client.
func NewRegistry(log *slog.Logger, config Config) (*registry.Registry, *pf.Client) {
	reg := registry.NewRegistry(log)
	client := reg.RegisterDefaults(config.Credentials(), pf.WithTracer(otelhelper.Tracer()))

	return reg, client
}
