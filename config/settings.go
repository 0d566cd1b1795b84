// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoadOption configures [LoadSettings].
type LoadOption func(*loader)

type loader struct {
	envPrefix string
}

// WithEnvPrefix lets environment variables override file settings: a
// setting "database.url" is overridden by <PREFIX>_DATABASE.URL.
func WithEnvPrefix(prefix string) LoadOption {
	return func(l *loader) { l.envPrefix = prefix }
}

// LoadSettings reads a raw settings map from the file at path. The
// format is inferred from the file extension (YAML, JSON, TOML and the
// other formats viper understands).
func LoadSettings(path string, opts ...LoadOption) (map[string]any, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if l.envPrefix != "" {
		v.SetEnvPrefix(l.envPrefix)
		v.AutomaticEnv()
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, NewConfigurationError(
			fmt.Sprintf("reading settings from %q", path), err)
	}
	return v.AllSettings(), nil
}

// ParseYAMLSettings decodes a raw settings map from YAML bytes. The
// document must be a mapping at the top level.
func ParseYAMLSettings(data []byte) (map[string]any, error) {
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, NewConfigurationError("parsing YAML settings", err)
	}
	return settings, nil
}
