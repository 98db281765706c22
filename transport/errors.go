package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is the sentinel wrapped by [ConfigurationError].
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrCertificateRejected is returned during the TLS handshake when a
	// [CertificateValidator] refuses the peer certificate.
	ErrCertificateRejected = errors.New("peer certificate rejected")
)

// ConfigurationError reports a [Config] that cannot be turned into a
// transport. It is only produced by [Config.Validate] and [Build].
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}
