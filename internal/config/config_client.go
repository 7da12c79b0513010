package config

import (
	"fmt"
	"time"
)

// ClientApp holds application-level settings derived from the shared
// structured config.
type ClientApp struct {
	// DisplayPlaceholder is the greeting placeholder used by the name
	// resolution cascade when nothing better is available.
	DisplayPlaceholder string
}

// ClientAdapter holds network settings used by the outbound transport layer.
type ClientAdapter struct {
	// IdentityAddress is the identity provider base URL.
	IdentityAddress string
	// ProfileAddress is the profile document store base URL.
	ProfileAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	// DSN is the SQLite file path backing the display-name cache.
	DSN string
}

// ClientStorage groups local storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientServer holds the listen address of the application's HTTP front.
type ClientServer struct {
	// HTTPAddress is the TCP address the HTTP front listens on.
	HTTPAddress string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level settings.
	App ClientApp
	// Adapter contains outbound transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains local storage settings.
	Storage ClientStorage
	// Server contains the HTTP front settings.
	Server ClientServer
}

// GetClientConfig builds and validates the client runtime config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies defaults for optional values, and
// validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			DisplayPlaceholder: cfg.App.DisplayPlaceholder,
		},
		Adapter: ClientAdapter{
			IdentityAddress: cfg.Adapter.IdentityAddress,
			ProfileAddress:  cfg.Adapter.ProfileAddress,
			RequestTimeout:  cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Server: ClientServer{HTTPAddress: cfg.Server.HTTPAddress},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.App.DisplayPlaceholder == "" {
		cfg.App.DisplayPlaceholder = "there"
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8080"
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = "session-gate.db"
	}
}
