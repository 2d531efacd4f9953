// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviebot/internal/models"
)

// Recorder captures notices and navigation requests. It satisfies both notify ports.
type Recorder struct {
	mu        sync.Mutex
	Notices   []models.Notice
	Locations []models.Location
}

func (r *Recorder) Notify(message string, kind models.NoticeKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, models.Notice{Message: message, Kind: kind})
}

func (r *Recorder) Navigate(to models.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Locations = append(r.Locations, to)
}

// Last returns the most recent notice, or the zero value.
func (r *Recorder) Last() models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Notices) == 0 {
		return models.Notice{}
	}
	return r.Notices[len(r.Notices)-1]
}

// LastLocation returns the most recent navigation target, or "".
func (r *Recorder) LastLocation() models.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Locations) == 0 {
		return ""
	}
	return r.Locations[len(r.Locations)-1]
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices, r.Locations = nil, nil
}

// InstantDelayer returns immediately unless ctx is already done.
type InstantDelayer struct{}

func (InstantDelayer) Delay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// GateDelayer blocks every Delay call until Open is called or ctx is done.
type GateDelayer struct {
	once sync.Once
	gate chan struct{}
}

func NewGateDelayer() *GateDelayer {
	return &GateDelayer{gate: make(chan struct{})}
}

func (g *GateDelayer) Delay(ctx context.Context, _ time.Duration) error {
	select {
	case <-g.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Open releases all current and future Delay calls.
func (g *GateDelayer) Open() {
	g.once.Do(func() { close(g.gate) })
}

// MockCatalog is a test double for the metadata read contract.
type MockCatalog struct {
	TrendingResults []models.MovieSummary
	SearchResults   map[string][]models.MovieSummary
	Details         map[models.MovieID]*models.MovieDetail
	Err             error

	mu    sync.Mutex
	Calls []string
}

func (m *MockCatalog) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockCatalog) Trending(ctx context.Context) ([]models.MovieSummary, error) {
	m.record("trending")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.TrendingResults, nil
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	m.record("search:" + query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.SearchResults[query], nil
}

func (m *MockCatalog) Movie(ctx context.Context, id models.MovieID) (*models.MovieDetail, error) {
	m.record("movie:" + id.String())
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.Details[id]
	if !ok {
		return nil, errors.New("movie not found")
	}
	return d, nil
}

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

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
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
