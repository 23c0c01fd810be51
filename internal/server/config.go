package server

import (
	"crypto/tls"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultAddress  = "0.0.0.0:8080"
	defaultTimeout  = 60 * time.Second
	defaultLocation = "Local"

	defaultViewerIdleTimeout = 30 * time.Minute
)

// Config represents dashboard server configuration
type Config struct {
	Address string        `yaml:"address" env:"SERVER_ADDRESS"`
	Timeout time.Duration `yaml:"timeout" env:"SERVER_TIMEOUT"`

	// Location is an IANA time zone used for date groups when a viewer does not send one
	Location string `yaml:"location" env:"SERVER_LOCATION"`

	// ViewerIdleTimeout is how long the latest result of a silent viewer is kept
	ViewerIdleTimeout time.Duration `yaml:"viewer_idle_timeout" env:"SERVER_VIEWER_IDLE_TIMEOUT"`

	CertFilePath string `yaml:"cert_file_path" env:"CERT_FILE_PATH"`
	KeyFilePath  string `yaml:"key_file_path" env:"KEY_FILE_PATH"`
	EnableHTTPS  bool   `yaml:"enable_https" env:"SERVER_ENABLE_HTTPS"`

	Certificate tls.Certificate `yaml:"-"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Address = lang.Check(cfg.Address, defaultAddress)
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)
	cfg.Location = lang.Check(cfg.Location, defaultLocation)
	cfg.ViewerIdleTimeout = lang.Check(cfg.ViewerIdleTimeout, defaultViewerIdleTimeout)

	if _, err := time.LoadLocation(cfg.Location); err != nil {
		return errm.Wrap(err, "invalid location")
	}

	if cfg.EnableHTTPS {
		if cfg.CertFilePath == "" || cfg.KeyFilePath == "" {
			return errm.New("cert_file_path and key_file_path must be set when enable_https is true")
		}

		cert, err := tls.LoadX509KeyPair(cfg.CertFilePath, cfg.KeyFilePath)
		if err != nil {
			return errm.Wrap(err, "failed to load certificate and key pair")
		}

		cfg.Certificate = cert
	}

	return nil
}
