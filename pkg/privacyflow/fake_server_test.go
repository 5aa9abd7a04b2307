package privacyflow

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

const testAPIKey = "test-key"

// recordedCall captures what the fake remote service received.
type recordedCall struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// fakeService simulates the remote API and counts calls.
type fakeService struct {
	server *httptest.Server
	calls  atomic.Int32

	mu       sync.Mutex
	recorded []recordedCall
}

func newFakeService(t *testing.T, handler http.HandlerFunc) *fakeService {
	t.Helper()

	fs := &fakeService{}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.calls.Add(1)

		body, _ := io.ReadAll(r.Body)

		fs.mu.Lock()
		fs.recorded = append(fs.recorded, recordedCall{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		fs.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(fs.server.Close)

	return fs
}

func (fs *fakeService) Calls() int {
	return int(fs.calls.Load())
}

func (fs *fakeService) LastCall() recordedCall {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.recorded[len(fs.recorded)-1]
}

func (fs *fakeService) Client(opts ...Option) *Client {
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)

	return NewClient(StaticCredentials(testAPIKey, fs.server.URL), opts...)
}

func respondJSON(status int, payload any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondRaw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
