package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/newshub.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	ProvidersFile  string `long:"providers-file" env:"PROVIDERS_FILE" default:"./providers.yml" description:"Path to the provider configuration file"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the response cache (optional, in-memory cache is used when empty)"`
	CacheDisabled  bool   `long:"cache-disabled" env:"CACHE_DISABLED" description:"Disable the response cache entirely"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for ingestion tasks"`
	IngestInterval int    `long:"ingest-interval" env:"INGEST_INTERVAL" default:"3600" description:"Interval between scheduled ingestion runs in seconds (0 disables scheduled ingestion)"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"Operator API access key for the ingestion endpoint (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsHub/1.0" description:"User agent string for HTTP requests to providers"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		Port:           raw.Port,
		ProvidersFile:  raw.ProvidersFile,
		RedisAddr:      raw.RedisAddr,
		CacheDisabled:  raw.CacheDisabled,
		WorkerCount:    raw.WorkerCount,
		IngestInterval: raw.IngestInterval,
		APIAccessKey:   raw.APIAccessKey,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
