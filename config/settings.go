package config

import (
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/adamwoolhether/dispatcher/dispatch"
	"github.com/adamwoolhether/dispatcher/transport"
)

// Settings is the loaded configuration.
type Settings struct {
	Transport TransportSettings `koanf:"transport" yaml:"transport"`
	Dispatch  DispatchSettings  `koanf:"dispatch" yaml:"dispatch"`
}

// TransportSettings mirrors transport.Config in a loadable form.
type TransportSettings struct {
	Accept             string            `koanf:"accept" yaml:"accept"`
	Referer            string            `koanf:"referer" yaml:"referer"`
	UserAgent          string            `koanf:"user_agent" yaml:"user_agent"`
	BaseAddress        string            `koanf:"base_address" yaml:"base_address"`
	BearerToken        string            `koanf:"bearer_token" yaml:"bearer_token"`
	Username           string            `koanf:"username" yaml:"username"`
	Password           string            `koanf:"password" yaml:"password"`
	Headers            map[string]string `koanf:"headers" yaml:"headers"`
	Cookies            bool              `koanf:"cookies" yaml:"cookies"`
	Timeout            time.Duration     `koanf:"timeout" yaml:"timeout"`
	DisableCompression bool              `koanf:"disable_compression" yaml:"disable_compression"`
	Proxy              string            `koanf:"proxy" yaml:"proxy"`
	UseProxy           bool              `koanf:"use_proxy" yaml:"use_proxy"`
	RateLimit          RateLimitSettings `koanf:"rate_limit" yaml:"rate_limit"`
}

// RateLimitSettings enables the token bucket when both values are set.
type RateLimitSettings struct {
	RPS   int `koanf:"rps" yaml:"rps"`
	Burst int `koanf:"burst" yaml:"burst"`
}

// DispatchSettings holds the dispatcher's timing and retry knobs.
type DispatchSettings struct {
	Cooldown        time.Duration `koanf:"cooldown" yaml:"cooldown"`
	RetryDelay      time.Duration `koanf:"retry_delay" yaml:"retry_delay"`
	MaxRetries      int           `koanf:"max_retries" yaml:"max_retries"`
	RequestIDHeader string        `koanf:"request_id_header" yaml:"request_id_header"`
}

// TransportConfig converts the settings into a transport.Config. The
// result still goes through transport.Build validation.
func (s *Settings) TransportConfig() (transport.Config, error) {
	ts := s.Transport

	cfg := transport.Config{
		Accept:             ts.Accept,
		Referer:            ts.Referer,
		UserAgent:          ts.UserAgent,
		BaseAddress:        ts.BaseAddress,
		BearerToken:        ts.BearerToken,
		Username:           ts.Username,
		Password:           ts.Password,
		Timeout:            ts.Timeout,
		DisableCompression: ts.DisableCompression,
		UseProxy:           ts.UseProxy,
	}

	if len(ts.Headers) > 0 {
		cfg.Headers = transport.HeadersFrom(ts.Headers)
	}

	if ts.Cookies {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return transport.Config{}, fmt.Errorf("creating cookie jar: %w", err)
		}
		cfg.Cookies = jar
	}

	if ts.Proxy != "" {
		proxy, err := url.Parse(ts.Proxy)
		if err != nil {
			return transport.Config{}, &transport.ConfigurationError{Field: "Config.Proxy", Message: err.Error()}
		}
		cfg.Proxy = proxy
	}

	if ts.RateLimit.RPS > 0 || ts.RateLimit.Burst > 0 {
		cfg.RateLimit = &transport.RateLimit{RPS: ts.RateLimit.RPS, Burst: ts.RateLimit.Burst}
	}

	return cfg, nil
}

// DispatchOptions returns the dispatcher options described by the settings.
func (s *Settings) DispatchOptions() []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithCooldown(s.Dispatch.Cooldown),
		dispatch.WithRetryDelay(s.Dispatch.RetryDelay),
		dispatch.WithMaxRetries(s.Dispatch.MaxRetries),
		dispatch.WithRequestIDHeader(s.Dispatch.RequestIDHeader),
	}
}
