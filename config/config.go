package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix scopes the environment variables read by Load.
// A double underscore separates nested keys, so
// DISPATCH_TRANSPORT__BASE_ADDRESS sets transport.base_address.
const DefaultEnvPrefix = "DISPATCH_"

// Option configures Load.
type Option func(*options) error

type options struct {
	file      string
	envPrefix string
	environ   func() []string
}

// WithFile reads YAML settings from path. A missing file is not an error.
func WithFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("file path must not be empty")
		}
		o.file = path
		return nil
	}
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			return errors.New("env prefix must not be empty")
		}
		o.envPrefix = prefix
		return nil
	}
}

// withEnviron swaps the environment source, for tests.
func withEnviron(fn func() []string) Option {
	return func(o *options) error {
		o.environ = fn
		return nil
	}
}

// Load builds Settings with priority:
// 1. Environment variables (highest priority)
// 2. YAML configuration file
// 3. Default values (lowest priority)
func Load(optFns ...Option) (*Settings, error) {
	o := options{envPrefix: DefaultEnvPrefix, environ: os.Environ}
	for _, opt := range optFns {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if o.file != "" {
		if _, err := os.Stat(o.file); err == nil {
			if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", o.file, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", o.file, err)
		}
	}

	prefix := o.envPrefix
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, prefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
		EnvironFunc: o.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &s, nil
}

func defaults() map[string]any {
	return map[string]any{
		"transport.accept":              "application/json",
		"transport.timeout":             "0s",
		"transport.cookies":             false,
		"transport.disable_compression": false,
		"transport.use_proxy":           false,

		"dispatch.cooldown":          "1s",
		"dispatch.retry_delay":       "1s",
		"dispatch.max_retries":       1,
		"dispatch.request_id_header": "X-Request-ID",
	}
}
