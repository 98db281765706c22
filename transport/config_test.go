package transport_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/adamwoolhether/dispatcher/transport"
)

func TestConfig_BasicAuthorization(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		exp      string
	}{
		{name: "both set", username: "user", password: "pass", exp: "dXNlcjpwYXNz"},
		{name: "trimmed", username: "  user ", password: " pass\t", exp: "dXNlcjpwYXNz"},
		{name: "missing password", username: "user"},
		{name: "blank username", username: "   ", password: "pass"},
		{name: "neither"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := transport.Config{Username: tc.username, Password: tc.password}
			if got := cfg.BasicAuthorization(); got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	proxy, _ := url.Parse("http://proxy.local:3128")

	testCases := []struct {
		name     string
		cfg      transport.Config
		expField string
	}{
		{
			name:     "bearer and basic",
			cfg:      transport.Config{BearerToken: "tok", Username: "u", Password: "p"},
			expField: "BearerToken",
		},
		{
			name:     "bearer and username only",
			cfg:      transport.Config{BearerToken: "tok", Username: "u"},
			expField: "BearerToken",
		},
		{
			name:     "relative base address",
			cfg:      transport.Config{BaseAddress: "api/v1"},
			expField: "Config.BaseAddress",
		},
		{
			name:     "negative timeout",
			cfg:      transport.Config{Timeout: -time.Second},
			expField: "Config.Timeout",
		},
		{
			name:     "use proxy without proxy",
			cfg:      transport.Config{UseProxy: true},
			expField: "Config.Proxy",
		},
		{
			name:     "zero rate",
			cfg:      transport.Config{RateLimit: &transport.RateLimit{RPS: 0, Burst: 1}},
			expField: "Config.RateLimit.RPS",
		},
		{
			name: "blank bearer with basic",
			cfg:  transport.Config{BearerToken: "  ", Username: "u", Password: "p"},
		},
		{
			name: "full config",
			cfg: transport.Config{
				BaseAddress: "https://api.example.com/v1/",
				BearerToken: "tok",
				Timeout:     time.Second,
				Proxy:       proxy,
				UseProxy:    true,
				RateLimit:   &transport.RateLimit{RPS: 5, Burst: 1},
			},
		},
		{
			name: "blank base address",
			cfg:  transport.Config{BaseAddress: "   "},
		},
		{
			name: "padded base address",
			cfg:  transport.Config{BaseAddress: "  https://api.example.com/  "},
		},
		{
			name: "zero value",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()

			if tc.expField == "" {
				if err != nil {
					t.Fatalf("exp nil err, got: %v", err)
				}
				return
			}

			var cfgErr *transport.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("exp *ConfigurationError, got: %v", err)
			}
			if cfgErr.Field != tc.expField {
				t.Errorf("exp field %q, got %q (%v)", tc.expField, cfgErr.Field, err)
			}
			if !errors.Is(err, transport.ErrInvalidConfig) {
				t.Errorf("exp ErrInvalidConfig, got: %v", err)
			}
		})
	}
}
