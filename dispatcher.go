// Package dispatcher wires a transport and a dispatcher together.
package dispatcher

import (
	"fmt"

	"github.com/adamwoolhether/dispatcher/config"
	"github.com/adamwoolhether/dispatcher/dispatch"
	"github.com/adamwoolhether/dispatcher/transport"
)

// New builds a transport from cfg and a Dispatcher on top of it.
// If not specified, the dispatcher uses its own slot with the default
// cooldown.
func New(cfg transport.Config, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	t, err := transport.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building transport: %w", err)
	}

	return dispatch.New(t, opts...)
}

// NewFromFile loads settings from the YAML file at path, overlaid with
// DISPATCH_ environment variables, and builds a Dispatcher from them.
// Options in opts are applied after those derived from the settings.
func NewFromFile(path string, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	s, err := config.Load(config.WithFile(path))
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	cfg, err := s.TransportConfig()
	if err != nil {
		return nil, err
	}

	return New(cfg, append(s.DispatchOptions(), opts...)...)
}
