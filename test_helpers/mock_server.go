package test_helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the path the mock server mounts the API under, mirroring the
// version segment of the real base URL.
const APIPrefix = "/v1"

// MockServer provides a configurable mock Instagram API server for testing.
// Routes are keyed by method and path relative to APIPrefix.
type MockServer struct {
	server *httptest.Server

	mu          sync.Mutex
	responses   map[string]*MockResponse
	defaultResp *MockResponse
	requestLog  []RequestEntry
	callCount   map[string]int
}

// RequestEntry logs incoming requests for assertions
type RequestEntry struct {
	Method    string
	Path      string
	RawQuery  string
	Query     url.Values
	Body      string
	Form      url.Values
	Headers   http.Header
	Timestamp time.Time
}

// MockResponse defines a mock API response
type MockResponse struct {
	Status  int
	Body    string
	Headers map[string]string
	Delay   time.Duration
}

// NewMockServer creates a new mock server instance. Unrouted requests get a
// 404 envelope carrying an error message.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses:   make(map[string]*MockResponse),
		callCount:   make(map[string]int),
		defaultResp: ErrorResponse(http.StatusNotFound, "APINotFoundError", "this endpoint does not exist"),
	}
	ms.server = httptest.NewServer(ms)
	return ms
}

// URL returns the API base URL of the mock server, including APIPrefix
func (ms *MockServer) URL() string {
	return ms.server.URL + APIPrefix
}

// Client returns an HTTP client wired to the server
func (ms *MockServer) Client() *http.Client {
	return ms.server.Client()
}

// Close shuts down the mock server
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse configures the response for method and path
func (ms *MockServer) SetResponse(method, path string, response *MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[routeKey(method, path)] = response
}

// SetDefaultResponse configures the response for unrouted requests
func (ms *MockServer) SetDefaultResponse(response *MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.defaultResp = response
}

// GetRequestLog returns a copy of the request log
func (ms *MockServer) GetRequestLog() []RequestEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]RequestEntry{}, ms.requestLog...)
}

// GetCallCount returns how often method and path were requested
func (ms *MockServer) GetCallCount(method, path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.callCount[routeKey(method, path)]
}

// GetLastRequest returns the last request made to method and path
func (ms *MockServer) GetLastRequest(method, path string) (*RequestEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for i := len(ms.requestLog) - 1; i >= 0; i-- {
		e := ms.requestLog[i]
		if e.Method == method && e.Path == path {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("no requests found for %s %s", method, path)
}

// ClearLog clears the request log and call counts
func (ms *MockServer) ClearLog() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requestLog = ms.requestLog[:0]
	ms.callCount = make(map[string]int)
}

// WaitForRequests waits for a specific number of requests to be made
func (ms *MockServer) WaitForRequests(count int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		ms.mu.Lock()
		total := len(ms.requestLog)
		ms.mu.Unlock()
		if total >= count {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %d requests, got %d", count, total)
		case <-ticker.C:
		}
	}
}

// ServeHTTP implements http.Handler
func (ms *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	entry := RequestEntry{
		Method:    r.Method,
		Path:      path,
		RawQuery:  r.URL.RawQuery,
		Query:     r.URL.Query(),
		Headers:   r.Header.Clone(),
		Timestamp: time.Now(),
	}
	if r.Body != nil {
		body, _ := io.ReadAll(r.Body)
		entry.Body = string(body)
		entry.Form, _ = url.ParseQuery(entry.Body)
	}

	key := routeKey(r.Method, path)
	ms.mu.Lock()
	ms.requestLog = append(ms.requestLog, entry)
	ms.callCount[key]++
	response, exists := ms.responses[key]
	if !exists {
		response = ms.defaultResp
	}
	ms.mu.Unlock()

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	status := response.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(response.Body))
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Envelope builders

// DataResponse wraps data in a successful envelope.
func DataResponse(data any) *MockResponse {
	return envelopeResponse(http.StatusOK, map[string]any{
		"meta": map[string]any{"code": http.StatusOK},
		"data": data,
	})
}

// PageResponse wraps data in a successful envelope with a pagination block.
func PageResponse(data any, nextURL, nextMaxID string) *MockResponse {
	return envelopeResponse(http.StatusOK, map[string]any{
		"meta":       map[string]any{"code": http.StatusOK},
		"data":       data,
		"pagination": map[string]any{"next_url": nextURL, "next_max_id": nextMaxID},
	})
}

// ErrorResponse returns an error envelope with the given HTTP status.
func ErrorResponse(status int, errorType, message string) *MockResponse {
	return envelopeResponse(status, map[string]any{
		"meta": map[string]any{"code": status, "error_type": errorType, "error_message": message},
	})
}

// RawResponse returns body verbatim.
func RawResponse(status int, body string) *MockResponse {
	return &MockResponse{Status: status, Body: body}
}

func envelopeResponse(status int, v any) *MockResponse {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mock envelope: %v", err))
	}
	return &MockResponse{Status: status, Body: string(body)}
}
