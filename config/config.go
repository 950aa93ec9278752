package config

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml"
)

const (
	DefaultListenAddress  = "0.0.0.0:8545"
	DefaultBaseCurrency   = "USD"
	DefaultMaxAds         = 100
	DefaultTimeoutSeconds = 30
	DefaultRefreshMinutes = 15
)

var (
	ErrInvalidListenAddress  = errors.New("invalid listen address")
	ErrInvalidBaseCurrency   = errors.New("invalid base currency")
	ErrInvalidMaxAds         = errors.New("invalid max ads limit")
	ErrInvalidTimeout        = errors.New("invalid request timeout")
	ErrInvalidRefreshMinutes = errors.New("invalid refresh interval")
)

var (
	listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)
	currencyRegex      = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Config defines the base-level application configuration
type Config struct {
	Marketplace Marketplace `toml:"marketplace"`
	Rates       Rates       `toml:"rates"`
	Report      Report      `toml:"report"`
	Mailgun     Mailgun     `toml:"mailgun"`
	Server      Server      `toml:"server"`
}

// Marketplace configures the LocalEthereum API client
type Marketplace struct {
	SettingsURL    string `toml:"settings_url"`
	OffersURL      string `toml:"offers_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Rates configures the currency-conversion API client
type Rates struct {
	ConvertURL     string `toml:"convert_url"`
	APIKey         string `toml:"api_key"`
	Base           string `toml:"base"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Report configures the deal report
type Report struct {
	MaxAds            int   `toml:"max_ads"`
	AcceptedMethodIDs []int `toml:"accepted_method_ids"`
}

// Mailgun configures the email notification collaborator.
// An empty recipient disables notifications entirely
type Mailgun struct {
	Domain    string `toml:"domain"`
	APIKey    string `toml:"api_key"`
	Recipient string `toml:"recipient"`
	Sender    string `toml:"sender"`
}

// Server configures the optional HTTP surface and its refresh loop
type Server struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`

	// The interval, in minutes, at which the report is regenerated
	RefreshMinutes int `toml:"refresh_minutes"`
}

// CORS is the server CORS configuration
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// DefaultCORSConfig returns the default CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// DefaultConfig returns the default application configuration.
// The default accepted payment methods are 2 (bank transfer),
// 4 (PayPal) and 5 (international wire)
func DefaultConfig() *Config {
	return &Config{
		Marketplace: Marketplace{
			SettingsURL:    "https://api.localethereum.com/v1/settings",
			OffersURL:      "https://api.localethereum.com/v1/offers/find",
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Rates: Rates{
			ConvertURL:     "https://free.currencyconverterapi.com/api/v5/convert",
			Base:           DefaultBaseCurrency,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Report: Report{
			MaxAds:            DefaultMaxAds,
			AcceptedMethodIDs: []int{2, 4, 5},
		},
		Server: Server{
			ListenAddress:  DefaultListenAddress,
			RefreshMinutes: DefaultRefreshMinutes,
			CORSConfig:     DefaultCORSConfig(),
		},
	}
}

// ValidateServerConfig validates the server configuration
func ValidateServerConfig(config *Server) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	// Validate the refresh interval
	if config.RefreshMinutes <= 0 {
		return ErrInvalidRefreshMinutes
	}

	return nil
}

// ValidateConfig validates the application configuration
func ValidateConfig(config *Config) error {
	if err := ValidateServerConfig(&config.Server); err != nil {
		return err
	}

	// Validate the base currency
	if !currencyRegex.MatchString(strings.ToUpper(config.Rates.Base)) {
		return ErrInvalidBaseCurrency
	}

	// Validate the report limit
	if config.Report.MaxAds <= 0 {
		return ErrInvalidMaxAds
	}

	// Validate the client timeouts
	if config.Marketplace.TimeoutSeconds <= 0 || config.Rates.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
