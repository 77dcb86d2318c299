package webtest

import (
	"net/http"
	"net/http/httptest"

	"webtestkit/webapp"
)

// Harness wraps a refreshed application context and performs HTTP
// requests against its handler
type Harness struct {
	appCtx *webapp.AppContext
}

// Context returns the refreshed application context
func (h *Harness) Context() *webapp.AppContext {
	return h.appCtx
}

// Perform executes the request against the context's handler and
// returns the recorded response
func (h *Harness) Perform(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.appCtx.Handler().ServeHTTP(rec, req)
	return rec
}

// Get performs a GET request against the given path
func (h *Harness) Get(path string) *httptest.ResponseRecorder {
	return h.Perform(httptest.NewRequest(http.MethodGet, path, nil))
}
