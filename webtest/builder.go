// Package webtest provides a builder that configures and bootstraps a
// web-application context for HTTP-layer tests. The context can be
// configured with the path to the web resource root directory (working
// directory or module relative), specific profiles can be activated, or
// initializer callbacks applied, before the context is attached to a
// mock server environment and refreshed.
package webtest

import (
	"webtestkit/internal/log"
	"webtestkit/mockweb"
	"webtestkit/resource"
	"webtestkit/webapp"
)

// ContextBuilder configures an externally supplied application context
// and finalizes it against a mock server environment. The context is
// refreshed when Build is called; configuration calls after Build have
// undefined effect on the already-refreshed context.
type ContextBuilder struct {
	appCtx *webapp.AppContext

	resourceBasePath string
	resourceLoader   resource.Loader

	// initErr is the first initializer failure; it aborts the
	// remaining initializer chain and surfaces from Build
	initErr error
}

// NewContextBuilder creates a builder around the given application
// context. The context will be refreshed when Build is called.
func NewContextBuilder(appCtx *webapp.AppContext) *ContextBuilder {
	return &ContextBuilder{
		appCtx:         appCtx,
		resourceLoader: resource.NewFileSystemLoader(),
	}
}

// ResourceBasePath specifies the location of the web resource root
// directory (should not end with a slash).
//
// If moduleRelative is false the path is interpreted either as being
// relative to the process working directory (e.g. "testdata/webroot")
// or as a fully qualified path (e.g. "file:///home/user/webroot").
// If moduleRelative is true the path is resolved inside the module
// directory tree (e.g. "internal/demo/webroot").
func (b *ContextBuilder) ResourceBasePath(path string, moduleRelative bool) *ContextBuilder {
	b.resourceBasePath = path
	if moduleRelative {
		b.resourceLoader = resource.NewModuleLoader()
	} else {
		b.resourceLoader = resource.NewFileSystemLoader()
	}
	return b
}

// ActivateProfiles activates the given profiles before the application
// context is refreshed, replacing any previously active set
func (b *ContextBuilder) ActivateProfiles(names ...string) *ContextBuilder {
	b.appCtx.Environment().SetActiveProfiles(names...)
	return b
}

// ApplyInitializers applies the given initializers to the application
// context immediately, in order. The first failure aborts the remaining
// chain and is returned from Build unchanged.
func (b *ContextBuilder) ApplyInitializers(initializers ...webapp.Initializer) *ContextBuilder {
	if b.initErr != nil {
		return b
	}

	for _, initializer := range initializers {
		if err := initializer(b.appCtx); err != nil {
			b.initErr = err
			break
		}
	}
	return b
}

// initServerContext produces the mock server environment seeded with
// the configured resource base path and loader. Lookups of the reserved
// "default" dispatcher name always resolve to a fixed no-op dispatcher
// so default-handler style request routing does not fail in tests; all
// other names follow the mock's standard resolution.
func (b *ContextBuilder) initServerContext() webapp.ServerContext {
	return &defaultServingContext{
		MockServerContext: mockweb.NewServerContext(b.resourceBasePath, b.resourceLoader),
		defaultDispatcher: mockweb.NewMockDispatcher(webapp.DefaultDispatcherName),
	}
}

// Build attaches the mock server environment to the held application
// context, refreshes it exactly once, and returns a harness over the
// now-initialized context. A pending initializer error or a refresh
// failure is returned unchanged.
func (b *ContextBuilder) Build() (*Harness, error) {
	if b.initErr != nil {
		return nil, b.initErr
	}

	sc := b.initServerContext()
	b.appCtx.SetServerContext(sc)
	if err := b.appCtx.Refresh(); err != nil {
		return nil, err
	}

	log.Logger().Debugw("Built test harness",
		"context_id", b.appCtx.ID(),
		"resource_base_path", b.resourceBasePath,
		"active_profiles", b.appCtx.Environment().ActiveProfiles(),
	)
	return &Harness{appCtx: b.appCtx}, nil
}

// defaultServingContext wraps the mock server context with the
// reserved-name special case for the "default" dispatcher
type defaultServingContext struct {
	*mockweb.MockServerContext
	defaultDispatcher webapp.Dispatcher
}

func (c *defaultServingContext) NamedDispatcher(name string) webapp.Dispatcher {
	if name == webapp.DefaultDispatcherName {
		return c.defaultDispatcher
	}
	return c.MockServerContext.NamedDispatcher(name)
}
