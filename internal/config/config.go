// Package config provides configuration management for ghauthz.
// It handles loading and parsing the YAML configuration file, applies
// environment overrides, and resolves the credentials sent to GitHub.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the public GitHub REST API endpoint.
	DefaultAPIURL = "https://api.github.com"
	// DefaultRequestTimeoutSeconds bounds a single API call when no timeout is configured.
	DefaultRequestTimeoutSeconds = 30
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// APIURL is the base URL of the GitHub REST API.
	APIURL string `yaml:"api-url" json:"api-url"`

	// Authorization is a raw Authorization header value, e.g. "Basic abc123".
	// It takes precedence over Token and Username/Password.
	Authorization string `yaml:"authorization,omitempty" json:"-"`

	// Token is a personal access token sent as "token <value>".
	Token string `yaml:"token,omitempty" json:"-"`

	// Username and Password are combined into a Basic authorization value.
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"-"`

	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// RequestTimeoutSeconds bounds a single API call. <= 0 uses DefaultRequestTimeoutSeconds.
	RequestTimeoutSeconds int `yaml:"request-timeout-seconds,omitempty" json:"request-timeout-seconds,omitempty"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile redirects logs to a rotating file instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogsMaxTotalSizeMB caps the total size of the log directory. <= 0 disables the cleaner.
	LogsMaxTotalSizeMB int `yaml:"logs-max-total-size-mb,omitempty" json:"logs-max-total-size-mb,omitempty"`

	// LogDir overrides the log directory. Defaults to "logs" next to the working directory.
	LogDir string `yaml:"log-dir,omitempty" json:"log-dir,omitempty"`

	// Locale selects the TUI language ("en" or "zh").
	Locale string `yaml:"locale,omitempty" json:"locale,omitempty"`
}

// LoadConfig reads and parses the configuration file. A missing file is an error.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional reads and parses the configuration file.
// When optional is true a missing or empty file yields the defaults.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{}
	data, errRead := os.ReadFile(configFile)
	if errRead != nil {
		if optional && errors.Is(errRead, os.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", errRead)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		if !optional {
			return nil, fmt.Errorf("config file %s is empty", configFile)
		}
		cfg.applyDefaults()
		return cfg, nil
	}
	if errParse := yaml.Unmarshal(data, cfg); errParse != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", errParse)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	cfg.Locale = strings.ToLower(strings.TrimSpace(cfg.Locale))
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
}

// ApplyEnv overrides configuration fields from environment variables.
// lookup is usually os.LookupEnv; blank values are ignored.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}
	get := func(keys ...string) (string, bool) {
		for _, key := range keys {
			if value, ok := lookup(key); ok {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed, true
				}
			}
		}
		return "", false
	}
	if value, ok := get("GITHUB_API_URL", "github_api_url"); ok {
		cfg.APIURL = value
	}
	authorization, _ := get("GITHUB_AUTHORIZATION", "github_authorization")
	token, _ := get("GITHUB_TOKEN", "github_token")
	username, _ := get("GITHUB_USER", "github_user")
	password, hasPassword := get("GITHUB_PASSWORD", "github_password")
	if !cfg.OverrideCredentials(authorization, token, username, password) && hasPassword {
		cfg.Password = password
	}
	if value, ok := get("GHAUTHZ_PROXY_URL", "ghauthz_proxy_url"); ok {
		cfg.ProxyURL = value
	}
	if value, ok := get("GHAUTHZ_DEBUG", "ghauthz_debug"); ok {
		if parsed, errParse := strconv.ParseBool(value); errParse == nil {
			cfg.Debug = parsed
		}
	}
	cfg.applyDefaults()
}

// Credentials resolves the Authorization header value sent to GitHub.
// Precedence: Authorization, then Token, then Username/Password.
func (cfg *Config) Credentials() (string, error) {
	if cfg == nil {
		return "", errors.New("config: nil configuration")
	}
	if value := strings.TrimSpace(cfg.Authorization); value != "" {
		return value, nil
	}
	if token := strings.TrimSpace(cfg.Token); token != "" {
		return TokenAuthorization(token), nil
	}
	if cfg.Username != "" {
		return BasicAuthorization(cfg.Username, cfg.Password), nil
	}
	return "", errors.New("config: no credentials configured (set authorization, token or username/password)")
}

// OverrideCredentials replaces every configured credential kind with the given
// values when at least one of authorization, token or username is non-blank, so a
// higher configuration layer never loses to a stronger kind from a lower one.
// It reports whether the credentials were replaced.
func (cfg *Config) OverrideCredentials(authorization, token, username, password string) bool {
	authorization = strings.TrimSpace(authorization)
	token = strings.TrimSpace(token)
	username = strings.TrimSpace(username)
	if authorization == "" && token == "" && username == "" {
		return false
	}
	cfg.Authorization = authorization
	cfg.Token = token
	cfg.Username = username
	cfg.Password = ""
	if username != "" {
		cfg.Password = password
	}
	return true
}

// BasicAuthorization builds a "Basic" Authorization header value.
func BasicAuthorization(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// TokenAuthorization builds the Authorization header value for a personal access token.
func TokenAuthorization(token string) string {
	return "token " + strings.TrimSpace(token)
}
