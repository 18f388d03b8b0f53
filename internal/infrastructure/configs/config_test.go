package configs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_HOST", "HTTP_PORT",
		"TLS_CERT_PATH", "TLS_KEY_PATH",
		"WORKER_POOL_SIZE", "WORKER_QUEUE_SIZE",
		"RATE_LIMIT_ENABLED", "TRACING_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Host != "0.0.0.0" {
		t.Errorf("HTTP.Host = %q, want 0.0.0.0", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("HTTP.Port = %d, want 3000", cfg.HTTP.Port)
	}
	if cfg.TLS.CertPath != "/certs/server.crt" {
		t.Errorf("TLS.CertPath = %q, want /certs/server.crt", cfg.TLS.CertPath)
	}
	if cfg.TLS.KeyPath != "/certs/server.key" {
		t.Errorf("TLS.KeyPath = %q, want /certs/server.key", cfg.TLS.KeyPath)
	}
	if cfg.RateLimiter.Enabled {
		t.Error("RateLimiter.Enabled = true, want false by default")
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = true, want false by default")
	}
	if cfg.Tracing.Exporter != "otlp" {
		t.Errorf("Tracing.Exporter = %q, want otlp", cfg.Tracing.Exporter)
	}
	if cfg.Workers.PoolSize <= 0 {
		t.Errorf("Workers.PoolSize = %d, want > 0", cfg.Workers.PoolSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("TLS_CERT_PATH", "/tmp/my.crt")
	t.Setenv("TLS_KEY_PATH", "/tmp/my.key")
	t.Setenv("HTTP_PORT", "8443")
	t.Setenv("WORKER_POOL_SIZE", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.TLS.CertPath != "/tmp/my.crt" {
		t.Errorf("TLS.CertPath = %q, want /tmp/my.crt", cfg.TLS.CertPath)
	}
	if cfg.TLS.KeyPath != "/tmp/my.key" {
		t.Errorf("TLS.KeyPath = %q, want /tmp/my.key", cfg.TLS.KeyPath)
	}
	if cfg.HTTP.Port != 8443 {
		t.Errorf("HTTP.Port = %d, want 8443", cfg.HTTP.Port)
	}
	if cfg.Workers.PoolSize != 3 {
		t.Errorf("Workers.PoolSize = %d, want 3", cfg.Workers.PoolSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http:\n  port: 4000\ntls:\n  cert_path: /etc/pki/bench.crt\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Port != 4000 {
		t.Errorf("HTTP.Port = %d, want 4000 from file", cfg.HTTP.Port)
	}
	if cfg.TLS.CertPath != "/etc/pki/bench.crt" {
		t.Errorf("TLS.CertPath = %q, want /etc/pki/bench.crt from file", cfg.TLS.CertPath)
	}
	// Untouched keys keep their defaults.
	if cfg.TLS.KeyPath != "/certs/server.key" {
		t.Errorf("TLS.KeyPath = %q, want default", cfg.TLS.KeyPath)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load with explicit missing file returned nil error")
	}
}

func TestTLSLoad(t *testing.T) {
	certPath, keyPath := writeSelfSignedPair(t)

	tlsCfg, err := TLSConfig{CertPath: certPath, KeyPath: keyPath}.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(tlsCfg.Certificates) != 1 {
		t.Errorf("got %d certificates, want 1", len(tlsCfg.Certificates))
	}
}

func TestTLSLoadFailures(t *testing.T) {
	certPath, keyPath := writeSelfSignedPair(t)
	missing := filepath.Join(t.TempDir(), "missing.pem")
	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not pem at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{name: "missing cert", cfg: TLSConfig{CertPath: missing, KeyPath: keyPath}},
		{name: "missing key", cfg: TLSConfig{CertPath: certPath, KeyPath: missing}},
		{name: "malformed cert", cfg: TLSConfig{CertPath: garbage, KeyPath: keyPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Load(); err == nil {
				t.Error("Load returned nil error")
			}
		})
	}
}

func writeSelfSignedPair(t *testing.T) (certPath, keyPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	certPath = filepath.Join(dir, "server.crt")
	keyPath = filepath.Join(dir, "server.key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	return certPath, keyPath
}
