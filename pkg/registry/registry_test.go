package registry

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/operion-privacyflow/pkg/models"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) *Registry {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaults(pf.StaticCredentials("test-key", server.URL))

	return registry
}

func TestRegisterDefaults(t *testing.T) {
	registry := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})

	nodeIDs := make([]string, 0)
	for _, factory := range registry.GetAvailableNodes() {
		nodeIDs = append(nodeIDs, factory.ID())
	}

	assert.Equal(t, []string{"privacyflow", "trigger:privacyflow"}, nodeIDs)

	providers := registry.GetAvailableProviders()
	require.Len(t, providers, 1)
	assert.Equal(t, "privacyflow", providers[0].ID())
}

func TestCreateNode_ExecutesThroughSharedClient(t *testing.T) {
	registry := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"messages":[{"id":"m1"}]}`))
	})

	node, err := registry.CreateNode(context.Background(), models.NodeTypePrivacyFlow, "unread", map[string]any{
		"operation": "getUnreadMessages",
	})
	require.NoError(t, err)

	results, err := node.Execute(context.Background(), models.ExecutionContext{ID: "exec-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, results["success"].Data["count"])
}

func TestCreateNode_Unknown(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))

	_, err := registry.CreateNode(context.Background(), "httprequest", "n", nil)
	assert.EqualError(t, err, "node type 'httprequest' not registered")
}

func TestCreateProvider(t *testing.T) {
	registry := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})

	provider, err := registry.CreateProvider("privacyflow", map[string]any{"message_limit": float64(10)})
	require.NoError(t, err)
	assert.NotNil(t, provider)

	_, err = registry.CreateProvider("privacyflow", map[string]any{"message_limit": float64(0)})
	assert.Error(t, err)

	_, err = registry.CreateProvider("scheduler", nil)
	assert.EqualError(t, err, "provider 'scheduler' not registered")
}
