package webapp

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"

	"webtestkit/internal/log"
	"webtestkit/resource"
)

// Environment holds the profile state and property sources of an
// application context
type Environment struct {
	mu sync.RWMutex

	// activeProfiles is the current active set; empty means the
	// default profiles apply
	activeProfiles sets.Set[string]

	// defaultProfiles is consulted by AcceptsProfiles when no
	// profiles have been activated
	defaultProfiles sets.Set[string]

	// sources are consulted front to back, so sources added later
	// shadow earlier ones
	sources []propertySource

	// propertiesFile is the optional location of a YAML property
	// resource, resolved through the server context at refresh time
	propertiesFile string
}

// propertySource is a named bag of string properties
type propertySource struct {
	name  string
	props map[string]string
}

// NewEnvironment creates an environment with no profiles or properties
func NewEnvironment() *Environment {
	return &Environment{
		activeProfiles:  sets.New[string](),
		defaultProfiles: sets.New[string](),
	}
}

// NewEnvironmentFromOS creates an environment seeded from OS environment
// variables (WEBAPP_PROFILES_ACTIVE, WEBAPP_PROPERTIES_FILE)
func NewEnvironmentFromOS(ctx context.Context) (*Environment, error) {
	settings, err := NewSettingsFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	env := NewEnvironment()
	env.defaultProfiles.Insert(settings.ActiveProfiles...)
	env.propertiesFile = settings.PropertiesFile
	return env, nil
}

// SetActiveProfiles replaces the active profile set with exactly the
// given names. Profile names are not validated.
func (e *Environment) SetActiveProfiles(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.activeProfiles = sets.New(names...)
}

// ActiveProfiles returns the active profile names in sorted order
func (e *Environment) ActiveProfiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return sets.List(e.activeProfiles)
}

// DefaultProfiles returns the default profile names in sorted order
func (e *Environment) DefaultProfiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return sets.List(e.defaultProfiles)
}

// AcceptsProfiles reports whether any of the given names is active.
// When no profiles have been activated the default profiles are
// consulted instead.
func (e *Environment) AcceptsProfiles(names ...string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	current := e.activeProfiles
	if current.Len() == 0 {
		current = e.defaultProfiles
	}
	return current.HasAny(names...)
}

// AddPropertySource adds a named property source that shadows all
// previously added sources
func (e *Environment) AddPropertySource(name string, props map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	copied := make(map[string]string, len(props))
	for k, v := range props {
		copied[k] = v
	}
	e.sources = append([]propertySource{{name: name, props: copied}}, e.sources...)
}

// Property looks up a property value across all sources, newest first
func (e *Environment) Property(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, src := range e.sources {
		if v, ok := src.props[key]; ok {
			return v, true
		}
	}
	return "", false
}

// LoadYAMLPropertySource reads the given resource as a YAML document and
// adds its flattened scalar values as a property source. Nested mappings
// become dotted keys ("server.port"). Decode failures propagate unchanged.
func (e *Environment) LoadYAMLPropertySource(name string, res resource.Resource) error {
	rc, err := res.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read property resource %s: %w", res.Name(), err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse property resource %s: %w", res.Name(), err)
	}

	props := make(map[string]string)
	flattenProperties("", doc, props)
	e.AddPropertySource(name, props)

	log.Logger().Debugw("Loaded YAML property source", "source", name, "resource", res.Name(), "count", len(props))
	return nil
}

// flattenProperties walks a decoded YAML mapping and records every scalar
// leaf under its dotted key path
func flattenProperties(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenProperties(key, child, out)
		}
	case []any:
		for i, child := range v {
			flattenProperties(fmt.Sprintf("%s.%d", prefix, i), child, out)
		}
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprintf("%v", v)
	}
}
