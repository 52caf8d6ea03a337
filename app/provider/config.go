package provider

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the three provider endpoints. Credentials are carried in
// the endpoint URLs (query-string API keys), so the file is the single place
// operators configure providers.
type Config struct {
	NewsAPI  Endpoint `yaml:"newsapi"`
	Guardian Endpoint `yaml:"guardian"`
	NYTimes  Endpoint `yaml:"nytimes"`
}

type Endpoint struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
	Timeout int    `yaml:"timeout"`
}

// LoadConfig reads the provider configuration file. A missing file is not an
// error: it yields a config with every provider disabled so the service can
// run read-only.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read provider config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse provider config: %w", err)
	}

	for _, endpoint := range []*Endpoint{&config.NewsAPI, &config.Guardian, &config.NYTimes} {
		if endpoint.Timeout == 0 {
			endpoint.Timeout = 30
		}
		if endpoint.Enabled && endpoint.URL == "" {
			return nil, fmt.Errorf("provider config: enabled endpoint is missing a URL")
		}
	}

	return &config, nil
}

// BuildAdapters constructs the enabled adapters in the fixed processing
// order: NewsAPI, then the Guardian, then the New York Times feed.
func BuildAdapters(config *Config, client *http.Client, userAgent string) []Adapter {
	var adapters []Adapter

	if config.NewsAPI.Enabled {
		adapters = append(adapters, NewNewsAPIAdapter(config.NewsAPI.URL, client, userAgent,
			time.Duration(config.NewsAPI.Timeout)*time.Second))
	}
	if config.Guardian.Enabled {
		adapters = append(adapters, NewGuardianAdapter(config.Guardian.URL, client, userAgent,
			time.Duration(config.Guardian.Timeout)*time.Second))
	}
	if config.NYTimes.Enabled {
		adapters = append(adapters, NewNYTimesAdapter(config.NYTimes.URL, client, userAgent,
			time.Duration(config.NYTimes.Timeout)*time.Second))
	}

	return adapters
}
