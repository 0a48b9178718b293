package instagram

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// Environment variables that override values read from the config file.
const (
	EnvClientID    = "INSTAGRAM_CLIENT_ID"
	EnvRedirectURI = "INSTAGRAM_REDIRECT_URI"
)

// LoadClientConfig reads the application identity from a YAML file with the
// keys client_id and redirect_uri, then applies the INSTAGRAM_CLIENT_ID and
// INSTAGRAM_REDIRECT_URI environment overrides.
//
// A missing file (or an empty path) is not an error: the result is whatever
// the environment supplies, possibly unconfigured. Check IsConfigured before
// logging in, or let Login report KindMissingClientConfig.
func LoadClientConfig(path string) (types.ClientConfig, error) {
	var cfg types.ClientConfig

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return types.ClientConfig{}, &pkgerrs.ConfigError{Field: "path", Message: err.Error()}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return types.ClientConfig{}, &pkgerrs.ConfigError{Field: "path", Message: fmt.Sprintf("error loading config from %s: %v", path, err)}
			}
		}
	}

	if v, ok := os.LookupEnv(EnvClientID); ok {
		cfg.ClientID = v
	}
	if v, ok := os.LookupEnv(EnvRedirectURI); ok {
		cfg.RedirectURI = v
	}

	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	cfg.RedirectURI = strings.TrimSpace(cfg.RedirectURI)
	return cfg, nil
}

// ConfigFrom returns a Config carrying the identity in cc. Other fields take
// their defaults in NewClient.
func ConfigFrom(cc types.ClientConfig) *Config {
	return &Config{ClientID: cc.ClientID, RedirectURI: cc.RedirectURI}
}
