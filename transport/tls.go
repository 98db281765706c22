package transport

import (
	"crypto/tls"
)

// tlsConfig returns the client TLS settings. A non-nil verify takes over
// trust evaluation completely: the system roots are never consulted.
func tlsConfig(verify CertificateValidator) *tls.Config {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if verify == nil {
		return cfg
	}

	cfg.InsecureSkipVerify = true // #nosec G402 -- VerifyConnection replaces chain verification.
	cfg.VerifyConnection = func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return ErrCertificateRejected
		}
		if !verify(cs.PeerCertificates[0], cs.PeerCertificates[1:]) {
			return ErrCertificateRejected
		}
		return nil
	}

	return cfg
}
