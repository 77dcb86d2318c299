package webapp

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Settings defines the OS-environment inputs of an application context
type Settings struct {
	// ActiveProfiles seeds the environment's default profiles
	ActiveProfiles []string `env:"WEBAPP_PROFILES_ACTIVE"`

	// PropertiesFile names a YAML property resource, resolved through
	// the attached server context when the context is refreshed
	PropertiesFile string `env:"WEBAPP_PROPERTIES_FILE"`
}

// NewSettingsFromEnv loads the context settings from environment variables
func NewSettingsFromEnv(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := envconfig.Process(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &settings, nil
}
