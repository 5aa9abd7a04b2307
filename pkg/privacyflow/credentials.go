package privacyflow

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the hosted PrivacyFlow API.
const DefaultBaseURL = "https://api.privacyflow.app"

// Environment variables read by EnvCredentials.
const (
	EnvAPIKey  = "PRIVACYFLOW_API_KEY"
	EnvBaseURL = "PRIVACYFLOW_BASE_URL"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Credentials authenticate calls against the remote service.
type Credentials struct {
	APIKey  string `json:"api_key"  validate:"required"`
	BaseURL string `json:"base_url" validate:"required,url"`
}

// Validate checks the credentials before any network I/O.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("credentials missing apiKey")
	}

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && validationErrors[0].Field() == "BaseURL" {
			return errors.New("credentials missing a valid baseUrl")
		}

		return err
	}

	return nil
}

// Authenticate attaches the bearer token to an outbound request.
func (c Credentials) Authenticate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
}

func (c Credentials) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// CredentialsProvider returns the current credentials. It is called on every
// request, so rotated credentials take effect on the next call.
type CredentialsProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// CredentialsFunc adapts a function to CredentialsProvider.
type CredentialsFunc func(ctx context.Context) (Credentials, error)

func (f CredentialsFunc) Credentials(ctx context.Context) (Credentials, error) {
	return f(ctx)
}

// StaticCredentials always returns the same credentials.
func StaticCredentials(apiKey, baseURL string) CredentialsProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	creds := Credentials{APIKey: apiKey, BaseURL: baseURL}

	return CredentialsFunc(func(context.Context) (Credentials, error) {
		return creds, nil
	})
}

// EnvCredentials reads PRIVACYFLOW_API_KEY and PRIVACYFLOW_BASE_URL on every call.
func EnvCredentials() CredentialsProvider {
	return CredentialsFunc(func(context.Context) (Credentials, error) {
		baseURL := os.Getenv(EnvBaseURL)
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}

		return Credentials{APIKey: os.Getenv(EnvAPIKey), BaseURL: baseURL}, nil
	})
}
