package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"webtestkit/internal/log"
	"webtestkit/resource"
)

const (
	// DefaultDispatcherName is the reserved named-dispatcher name used
	// for default-handler style request routing
	DefaultDispatcherName = "default"
)

// ErrAlreadyRefreshed is returned when Refresh is called on a context
// that has already been refreshed
var ErrAlreadyRefreshed = errors.New("application context already refreshed")

// State describes the lifecycle phase of an application context
type State string

const (
	// StateConfigurable means the context still accepts configuration
	StateConfigurable State = "configurable"

	// StateRefreshed means the context has been initialized and must
	// not be reconfigured
	StateRefreshed State = "refreshed"
)

// Dispatcher handles requests resolved through a named lookup on the
// server context
type Dispatcher interface {
	// Name returns the symbolic name the dispatcher was resolved under
	Name() string

	// Dispatch handles the request
	Dispatch(w http.ResponseWriter, r *http.Request)
}

// ServerContext is the request-handling environment an application
// context is attached to before it is refreshed. The mockweb package
// provides the test-double implementation.
type ServerContext interface {
	// ResourceBasePath returns the configured resource base directory
	ResourceBasePath() string

	// Resource resolves a path below the base path through the
	// context's resource loader
	Resource(path string) (resource.Resource, error)

	// NamedDispatcher resolves a symbolic name to a request-handling
	// delegate, or nil when the name is unknown
	NamedDispatcher(name string) Dispatcher

	// SetAttribute stores a server-scoped attribute
	SetAttribute(name string, value any)

	// Attribute retrieves a server-scoped attribute
	Attribute(name string) any
}

// Initializer is a callback applied to the context before it is
// refreshed, typically from a builder
type Initializer func(*AppContext) error

// Component is a named constructor run during refresh. Constructors may
// register handler mappings on the context they receive.
type Component func(*AppContext) error

// componentEntry preserves registration order
type componentEntry struct {
	name      string
	construct Component
}

// handlerMapping binds a mux pattern to a handler
type handlerMapping struct {
	pattern string
	handler http.Handler
}

// AppContext is a configurable web-application context. It is supplied
// to a builder, mutated by configuration calls, and finalized exactly
// once by Refresh, after which it serves requests through Handler.
type AppContext struct {
	id  string
	env *Environment

	mu            sync.RWMutex
	state         State
	serverContext ServerContext
	components    []componentEntry
	mappings      []handlerMapping
	handler       http.Handler
}

// New creates a configurable application context with an environment
// seeded from OS environment variables
func New() *AppContext {
	env, err := NewEnvironmentFromOS(context.Background())
	if err != nil {
		// Fall back to an empty environment so tests without OS
		// configuration still get a usable context
		log.Logger().Warnw("Failed to read environment settings, using empty environment", "error", err)
		env = NewEnvironment()
	}

	return &AppContext{
		id:    uuid.NewString(),
		env:   env,
		state: StateConfigurable,
	}
}

// ID returns the unique instance id of this context
func (a *AppContext) ID() string {
	return a.id
}

// State returns the current lifecycle state
func (a *AppContext) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Environment returns the context's environment
func (a *AppContext) Environment() *Environment {
	return a.env
}

// SetServerContext attaches the request-handling environment. Must be
// called before Refresh.
func (a *AppContext) SetServerContext(sc ServerContext) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.serverContext = sc
}

// ServerContext returns the attached request-handling environment, or
// nil when none has been attached yet
func (a *AppContext) ServerContext() ServerContext {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.serverContext
}

// RegisterComponent registers a named constructor to be run during
// Refresh, in registration order
func (a *AppContext) RegisterComponent(name string, construct Component) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.components = append(a.components, componentEntry{name: name, construct: construct})
}

// Handle binds a mux pattern to a handler. Calling this after the
// context has been refreshed has no effect on request routing.
func (a *AppContext) Handle(pattern string, h http.Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mappings = append(a.mappings, handlerMapping{pattern: pattern, handler: h})
}

// HandleFunc binds a mux pattern to a handler function
func (a *AppContext) HandleFunc(pattern string, h func(http.ResponseWriter, *http.Request)) {
	a.Handle(pattern, http.HandlerFunc(h))
}

// Refresh performs the one-time initialization of the context: loading
// the environment's property resource (when configured), running
// component constructors in registration order, and assembling the
// request handler. A second call returns ErrAlreadyRefreshed.
func (a *AppContext) Refresh() error {
	a.mu.Lock()
	if a.state == StateRefreshed {
		a.mu.Unlock()
		return ErrAlreadyRefreshed
	}
	sc := a.serverContext
	components := make([]componentEntry, len(a.components))
	copy(components, a.components)
	a.mu.Unlock()

	if sc == nil {
		return errors.New("cannot refresh application context: no server context attached")
	}

	l := log.Logger().With("context_id", a.id)
	l.Debugw("Refreshing application context", "active_profiles", a.env.ActiveProfiles())

	if a.env.propertiesFile != "" {
		res, err := sc.Resource(a.env.propertiesFile)
		if err != nil {
			return fmt.Errorf("failed to resolve properties resource: %w", err)
		}
		if err := a.env.LoadYAMLPropertySource("propertiesFile", res); err != nil {
			return err
		}
	}

	// Constructors may call Handle, so the lock is not held here
	for _, entry := range components {
		if err := entry.construct(a); err != nil {
			return fmt.Errorf("component %q failed to initialize: %w", entry.name, err)
		}
		l.Debugw("Component initialized", "component", entry.name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	mux := http.NewServeMux()
	for _, m := range a.mappings {
		mux.Handle(m.pattern, m.handler)
	}

	a.handler = &contextHandler{
		mux:      mux,
		fallback: sc.NamedDispatcher(DefaultDispatcherName),
	}
	a.state = StateRefreshed

	l.Infow("Application context refreshed", "mappings", len(a.mappings), "components", len(components))
	return nil
}

// Handler returns the request handler assembled during Refresh, or nil
// for a context that has not been refreshed
func (a *AppContext) Handler() http.Handler {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.handler
}

// contextHandler routes requests to the mapped handlers and falls back
// to the server context's "default" dispatcher for unmatched paths
type contextHandler struct {
	mux      *http.ServeMux
	fallback Dispatcher
}

func (h *contextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	if h.fallback != nil {
		h.fallback.Dispatch(w, r)
		return
	}

	http.NotFound(w, r)
}
