package configs

import (
	"crypto/tls"
	"fmt"
)

// Load reads the PEM certificate/key pair once at startup. The returned
// config is immutable for the life of the process; reload is not supported.
func (c TLSConfig) Load() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertPath, c.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS configuration (cert: %s, key: %s): %w", c.CertPath, c.KeyPath, err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
