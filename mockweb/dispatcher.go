package mockweb

import (
	"net/http"
	"sync"

	"webtestkit/webapp"
)

// DispatchRecord captures one request seen by a mock dispatcher
type DispatchRecord struct {
	Method string
	Path   string
}

// MockDispatcher is a no-op request dispatcher that records every
// request dispatched to it. It stands in for a real request-handling
// delegate behind a named lookup.
type MockDispatcher struct {
	name string

	mu      sync.Mutex
	records []DispatchRecord
}

// NewMockDispatcher creates a recording no-op dispatcher with the
// given symbolic name
func NewMockDispatcher(name string) *MockDispatcher {
	return &MockDispatcher{name: name}
}

// Name returns the symbolic name of the dispatcher
func (d *MockDispatcher) Name() string {
	return d.name
}

// Dispatch records the request and responds 200 with no body
func (d *MockDispatcher) Dispatch(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.records = append(d.records, DispatchRecord{Method: r.Method, Path: r.URL.Path})
	d.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

// Records returns a copy of the requests dispatched so far
func (d *MockDispatcher) Records() []DispatchRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]DispatchRecord, len(d.records))
	copy(out, d.records)
	return out
}

// assert the interface is satisfied
var _ webapp.Dispatcher = (*MockDispatcher)(nil)
