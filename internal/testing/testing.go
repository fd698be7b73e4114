// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

type cannedResponse struct {
	status int
	body   string
}

// MockRoundTripper serves canned HTTP responses keyed by URL path, recording
// every request it sees. Each call gets a fresh response body, so a path may
// be requested more than once.
type MockRoundTripper struct {
	responses map[string]cannedResponse
	Err       error
	Requests  []*http.Request
}

func NewMockRoundTripper() *MockRoundTripper {
	return &MockRoundTripper{responses: map[string]cannedResponse{}}
}

// Respond registers a JSON response for requests to the given path.
func (m *MockRoundTripper) Respond(path string, status int, body string) {
	m.responses[path] = cannedResponse{status: status, body: body}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	if canned, ok := m.responses[req.URL.Path]; ok {
		return &http.Response{
			StatusCode: canned.status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(canned.body)),
		}, nil
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"status":404,"message":"not found"}}`)),
	}, nil
}

// PathCount returns how many recorded requests hit the given path.
func (m *MockRoundTripper) PathCount(path string) int {
	count := 0
	for _, req := range m.Requests {
		if req.URL.Path == path {
			count++
		}
	}
	return count
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
