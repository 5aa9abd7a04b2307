package privacyflow

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_InvalidMessageLimit(t *testing.T) {
	for _, limit := range []float64{0, 101, -1, 1.5, math.NaN(), math.Inf(1)} {
		fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"messages": []any{}}))
		poller := NewPoller(fs.Client(), discardLogger())

		batch, err := poller.Poll(context.Background(), limit)
		require.Error(t, err, "limit %v", limit)
		assert.Nil(t, batch)
		assert.Equal(t, KindInvalidInput, KindOf(err))
		assert.Equal(t, MessageLimitInvalid, err.Error())
		assert.Equal(t, 0, fs.Calls(), "limit %v must not reach the network", limit)
	}
}

func TestPoller_LimitBoundaries(t *testing.T) {
	testCases := []struct {
		limit float64
		query string
	}{
		{limit: 1, query: "limit=1"},
		{limit: 50, query: "limit=50"},
		{limit: 100, query: "limit=100"},
	}

	for _, tc := range testCases {
		fs := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"messages": []any{map[string]any{"id": "m1"}}}))
		poller := NewPoller(fs.Client(), discardLogger())

		_, err := poller.Poll(context.Background(), tc.limit)
		require.NoError(t, err)

		assert.Equal(t, 1, fs.Calls())
		assert.Equal(t, http.MethodGet, fs.LastCall().Method)
		assert.Equal(t, PathPollMessages, fs.LastCall().Path)
		assert.Equal(t, tc.query, fs.LastCall().Query)
		assert.Equal(t, "Bearer "+testAPIKey, fs.LastCall().Authorization)
	}
}

func TestPoller_NoNewData(t *testing.T) {
	for _, response := range []string{`{"messages":[]}`, `{}`, `{"messages":null}`} {
		fs := newFakeService(t, respondRaw(http.StatusOK, response))
		poller := NewPoller(fs.Client(), discardLogger())

		batch, err := poller.Poll(context.Background(), 10)
		require.NoError(t, err)
		assert.Nil(t, batch, "response %s must signal no new data", response)
	}
}

func TestPoller_PreservesOrder(t *testing.T) {
	fs := newFakeService(t, respondRaw(http.StatusOK,
		`{"messages":[{"id":"m3","text":"c"},{"id":"m1","text":"a"},{"id":"m2","text":"b"}]}`))
	poller := NewPoller(fs.Client(), discardLogger())

	batch, err := poller.Poll(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Len(t, batch.Items, 3)

	ids := make([]any, 0, len(batch.Items))
	for _, item := range batch.Items {
		ids = append(ids, item["id"])
	}

	assert.Equal(t, []any{"m3", "m1", "m2"}, ids)
}

func TestPoller_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{name: "auth", status: http.StatusUnauthorized, kind: KindAuthFailure},
		{name: "rate limit", status: http.StatusTooManyRequests, kind: KindRateLimited},
		{name: "server", status: http.StatusBadGateway, kind: KindTransient},
		{name: "other", status: http.StatusForbidden, kind: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := newFakeService(t, respondRaw(tc.status, `{"error":"nope"}`))
			poller := NewPoller(fs.Client(), discardLogger())

			batch, err := poller.Poll(context.Background(), 10)
			require.Error(t, err)
			assert.Nil(t, batch)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestPoller_TimeoutIsTransient(t *testing.T) {
	fs := newFakeService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	poller := NewPoller(fs.Client(WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})), discardLogger())

	batch, err := poller.Poll(context.Background(), 10)
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.Equal(t, KindTransient, KindOf(err))
}

func TestPoller_ReadsCredentialsEveryTick(t *testing.T) {
	first := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"messages": []any{}}))
	second := newFakeService(t, respondJSON(http.StatusOK, map[string]any{"messages": []any{}}))

	var ticks atomic.Int32

	creds := CredentialsFunc(func(context.Context) (Credentials, error) {
		if ticks.Add(1) == 1 {
			return Credentials{APIKey: "key-1", BaseURL: first.server.URL}, nil
		}

		return Credentials{APIKey: "key-2", BaseURL: second.server.URL + "/"}, nil
	})

	client := NewClient(creds, WithLogger(slog.New(slog.DiscardHandler)))
	poller := NewPoller(client, discardLogger())

	_, err := poller.Poll(context.Background(), 5)
	require.NoError(t, err)
	_, err = poller.Poll(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, "Bearer key-1", first.LastCall().Authorization)
	assert.Equal(t, 1, second.Calls())
	assert.Equal(t, "Bearer key-2", second.LastCall().Authorization)
	assert.Equal(t, PathPollMessages, second.LastCall().Path)
}
