package privacyflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
)

func TestCredentials_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{name: "valid", creds: Credentials{APIKey: "k", BaseURL: DefaultBaseURL}},
		{name: "local url", creds: Credentials{APIKey: "k", BaseURL: "http://127.0.0.1:8080"}},
		{name: "missing key", creds: Credentials{BaseURL: DefaultBaseURL}, wantErr: true},
		{name: "blank key", creds: Credentials{APIKey: "  ", BaseURL: DefaultBaseURL}, wantErr: true},
		{name: "missing base url", creds: Credentials{APIKey: "k"}, wantErr: true},
		{name: "invalid base url", creds: Credentials{APIKey: "k", BaseURL: "not a url"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.creds.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaticCredentials_DefaultBaseURL(t *testing.T) {
	creds, err := StaticCredentials("k", "").Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, creds.BaseURL)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvBaseURL, "")

	creds, err := EnvCredentials().Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{APIKey: "env-key", BaseURL: DefaultBaseURL}, creds)

	t.Setenv(EnvBaseURL, "https://eu.privacyflow.app")

	creds, err = EnvCredentials().Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://eu.privacyflow.app", creds.BaseURL)
}

func TestClient_InvalidCredentialsSkipNetwork(t *testing.T) {
	fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{}))

	client := NewClient(StaticCredentials("", fs.server.URL), WithLogger(discardLogger()))
	_, err := client.Do(context.Background(), NewListContactsRequest())
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Equal(t, 0, fs.Calls())

	failing := NewClient(CredentialsFunc(func(context.Context) (Credentials, error) {
		return Credentials{}, errors.New("vault sealed")
	}), WithLogger(discardLogger()))
	_, err = failing.Do(context.Background(), NewListContactsRequest())
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Contains(t, err.Error(), "vault sealed")
}

func TestClient_Health(t *testing.T) {
	fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"status": "ok"}))

	require.NoError(t, fs.Client().Health(context.Background()))
	assert.Equal(t, PathHealth, fs.LastCall().Path)
	assert.Equal(t, "Bearer "+testAPIKey, fs.LastCall().Authorization)

	denied := newFakeService(t, respondRaw(http.StatusUnauthorized, ""))
	err := denied.Client().Health(context.Background())
	assert.Equal(t, KindAuthFailure, KindOf(err))
	assert.Contains(t, err.Error(), "check your API key")
}

func TestClient_Headers(t *testing.T) {
	var header http.Header

	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})

	_, err := fs.Client().Do(context.Background(), NewUnreadMessagesRequest())
	require.NoError(t, err)

	assert.Equal(t, "application/json", header.Get("Accept"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))
}

func TestClient_ConnectionRefusedIsClassified(t *testing.T) {
	fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{}))
	client := fs.Client()
	fs.server.Close()

	_, err := client.Do(context.Background(), NewListContactsRequest())
	require.Error(t, err)

	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, OperationListContacts, pfErr.Op)
	assert.Contains(t, pfErr.Message, "Failed to retrieve contacts")
}

func TestClient_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"contacts": []any{}}))
	client := fs.Client(WithTracer(tp.Tracer("test")))

	_, err := client.Do(context.Background(), NewListContactsRequest())
	require.NoError(t, err)

	_, err = client.Do(context.Background(), NewPollMessagesRequest(5))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	listAttrs := spans[0].Attributes()
	assert.Contains(t, listAttrs, attribute.String(otelhelper.OperationKey, string(OperationListContacts)))
	assert.Contains(t, listAttrs, attribute.String(otelhelper.ResourceKey, string(ResourceContactManagement)))
	assert.Contains(t, listAttrs, attribute.Int(otelhelper.HTTPStatusKey, http.StatusOK))

	for _, kv := range spans[1].Attributes() {
		assert.NotEqual(t, attribute.Key(otelhelper.ResourceKey), kv.Key, "poll calls belong to no resource")
	}
}

func TestOperation_Resource(t *testing.T) {
	assert.Equal(t, ResourceMessageActions, OperationSendTextMessage.Resource())
	assert.Equal(t, ResourceMessageActions, OperationGetUnreadMessages.Resource())
	assert.Equal(t, ResourceContactManagement, OperationListContacts.Resource())
	assert.Equal(t, Resource(""), OperationPollMessages.Resource())
	assert.Equal(t, Resource(""), OperationHealth.Resource())
}
