package router

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ServerTLSConfig describes the mTLS listener settings the router
// authenticates workers with.
type ServerTLSConfig struct {
	CertFile          string
	KeyFile           string
	ClientCAFile      string
	RequireClientAuth bool
}

// Build loads the configured certificate material into a *tls.Config
// suitable for a net.Listener. RequireClientAuth without a client CA
// file is a configuration error — there would be nothing to verify a
// presented client certificate against.
func (c ServerTLSConfig) Build() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("router: load server cert: %w", err)
	}
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	if !c.RequireClientAuth {
		return cfg, nil
	}
	if c.ClientCAFile == "" {
		return nil, fmt.Errorf("router: require_client_auth set without a client CA file")
	}
	pool := x509.NewCertPool()
	pem, err := os.ReadFile(c.ClientCAFile)
	if err != nil {
		return nil, fmt.Errorf("router: read client CA: %w", err)
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("router: no certificates parsed from %s", c.ClientCAFile)
	}
	cfg.ClientCAs = pool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return cfg, nil
}
