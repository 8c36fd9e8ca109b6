package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockResponse defines the behavior of one mock upstream path.
type MockResponse struct {
	StatusCode int
	Body       string
}

// MockLodestone is a configurable mock parser service for tests that
// exercise the HTTP client end to end.
type MockLodestone struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse
	counts    map[string]int
}

// NewMockLodestone creates a running mock server. Unconfigured paths
// return 404.
func NewMockLodestone() *MockLodestone {
	mock := &MockLodestone{
		responses: make(map[string]MockResponse),
		counts:    make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.counts[r.URL.Path]++
		resp, ok := mock.responses[r.URL.Path]
		mock.mu.Unlock()

		if !ok {
			http.Error(w, `{"Error": true, "Message": "not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockLodestone) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockLodestone) Close() {
	m.server.Close()
}

// SetJSON configures a path to return 200 with the given body.
func (m *MockLodestone) SetJSON(path, body string) {
	m.SetResponse(path, MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetResponse configures a path with an explicit status and body.
func (m *MockLodestone) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// RequestCount returns how many requests the given path received.
func (m *MockLodestone) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[path]
}

// TotalRequests returns the total number of requests received.
func (m *MockLodestone) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}
