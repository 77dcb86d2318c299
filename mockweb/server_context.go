// Package mockweb provides the test double for the request-handling
// environment an application context is attached to: a mock server
// context seeded with a resource base path and loader, and recording
// no-op request dispatchers.
package mockweb

import (
	"strings"
	"sync"

	"webtestkit/resource"
	"webtestkit/webapp"
)

var _ webapp.ServerContext = (*MockServerContext)(nil)

// MockServerContext is a ServerContext test double. Resource lookups
// join the configured base path with the requested path and resolve
// through the configured loader. Named-dispatcher lookups return only
// dispatchers explicitly registered on this mock; unknown names
// resolve to nil.
type MockServerContext struct {
	basePath string
	loader   resource.Loader

	mu          sync.RWMutex
	attributes  map[string]any
	initParams  map[string]string
	dispatchers map[string]webapp.Dispatcher
}

// NewServerContext creates a mock server context with the given resource
// base path and loader. The loader variant must match how the base path
// was written (working-directory relative vs module relative).
func NewServerContext(basePath string, loader resource.Loader) *MockServerContext {
	if loader == nil {
		loader = resource.NewFileSystemLoader()
	}

	return &MockServerContext{
		basePath:    basePath,
		loader:      loader,
		attributes:  make(map[string]any),
		initParams:  make(map[string]string),
		dispatchers: make(map[string]webapp.Dispatcher),
	}
}

// ResourceBasePath returns the configured base path
func (sc *MockServerContext) ResourceBasePath() string {
	return sc.basePath
}

// Loader returns the configured resource loader
func (sc *MockServerContext) Loader() resource.Loader {
	return sc.loader
}

// Resource resolves a path below the base path through the loader
func (sc *MockServerContext) Resource(path string) (resource.Resource, error) {
	location := path
	if sc.basePath != "" {
		location = strings.TrimSuffix(sc.basePath, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return sc.loader.Get(location)
}

// RegisterNamedDispatcher registers a dispatcher under a symbolic name
func (sc *MockServerContext) RegisterNamedDispatcher(name string, d webapp.Dispatcher) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.dispatchers[name] = d
}

// NamedDispatcher returns the dispatcher registered under the given
// name, or nil when no dispatcher was registered for it
func (sc *MockServerContext) NamedDispatcher(name string) webapp.Dispatcher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.dispatchers[name]
}

// SetAttribute stores a server-scoped attribute
func (sc *MockServerContext) SetAttribute(name string, value any) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if value == nil {
		delete(sc.attributes, name)
		return
	}
	sc.attributes[name] = value
}

// Attribute retrieves a server-scoped attribute, or nil when unset
func (sc *MockServerContext) Attribute(name string) any {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.attributes[name]
}

// SetInitParameter stores a server init parameter
func (sc *MockServerContext) SetInitParameter(name, value string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.initParams[name] = value
}

// InitParameter retrieves a server init parameter
func (sc *MockServerContext) InitParameter(name string) (string, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	v, ok := sc.initParams[name]
	return v, ok
}
