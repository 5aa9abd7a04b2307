package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv(pf.EnvAPIKey, "")
	t.Setenv(pf.EnvBaseURL, "")

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out

	argv := append([]string{"privacyflow", "--api-key", "test-key", "--base-url", server.URL, "--log-level", "error"}, args...)
	err := app.Run(context.Background(), argv)

	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	var body map[string]any

	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/messages/send", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}, "send", "--to", "contact-123", "--message", "hello")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"recipient": "contact-123", "message": "hello"}, body)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []map[string]any{{"id": "msg-1"}}, items)
}

func TestSendCommand_ValidationError(t *testing.T) {
	called := false

	_, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "send", "--to", "contact-123")
	require.Error(t, err)

	assert.Equal(t, pf.KindInvalidInput, pf.KindOf(err))
	assert.Equal(t, pf.MessageContentEmpty, err.Error())
	assert.False(t, called)
}

func TestContactsCommand(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/contacts", r.URL.Path)
		_, _ = w.Write([]byte(`{"contacts":[{"id":"c-1"},{"id":"c-2"}]}`))
	}, "contacts")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)
}

func TestUnreadCommand_AuthFailure(t *testing.T) {
	_, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "unread")
	require.Error(t, err)
	assert.Equal(t, pf.KindAuthFailure, pf.KindOf(err))
}

func TestPollCommand(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "limit=5", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}, "poll", "--limit", "5")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	_, err = runApp(t, func(w http.ResponseWriter, r *http.Request) {}, "poll", "--limit", "101")
	require.Error(t, err)
	assert.Equal(t, pf.KindInvalidInput, pf.KindOf(err))
}

func TestHealthCommand(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}, "health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy"}`, out)
}

func TestInvalidBaseURL(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"privacyflow", "--base-url", "not a url", "contacts"})
	assert.Error(t, err)
}
