package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Steam     SteamConfig     `yaml:"steam"`
	SteamGrid SteamGridConfig `yaml:"steamgrid"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// CatalogConfig holds catalog lifecycle settings.
type CatalogConfig struct {
	SnapshotPath    string        `yaml:"snapshot_path"    env:"CATALOG_SNAPSHOT_PATH"    env-default:"data/applist.json"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"CATALOG_REFRESH_INTERVAL" env-default:"24h"`
}

// SearchConfig holds search pipeline settings.
type SearchConfig struct {
	Cutoff         float64 `yaml:"cutoff"           env:"SEARCH_CUTOFF"           env-default:"0.4"`
	MaxCandidates  int     `yaml:"max_candidates"   env:"SEARCH_MAX_CANDIDATES"   env-default:"250"`
	DefaultPerPage int     `yaml:"default_per_page" env:"SEARCH_DEFAULT_PER_PAGE" env-default:"16"`
	MaxPerPage     int     `yaml:"max_per_page"     env:"SEARCH_MAX_PER_PAGE"     env-default:"100"`
}

// CacheConfig holds the per-lookup cache lifetimes.
type CacheConfig struct {
	SearchTTL    time.Duration `yaml:"search_ttl"     env:"CACHE_SEARCH_TTL"     env-default:"5m"`
	DetailTTL    time.Duration `yaml:"detail_ttl"     env:"CACHE_DETAIL_TTL"     env-default:"5h"`
	FeaturedTTL  time.Duration `yaml:"featured_ttl"   env:"CACHE_FEATURED_TTL"   env-default:"5h"`
	AssetTTL     time.Duration `yaml:"asset_ttl"      env:"CACHE_ASSET_TTL"      env-default:"24h"`
	AssetMissTTL time.Duration `yaml:"asset_miss_ttl" env:"CACHE_ASSET_MISS_TTL" env-default:"1h"`
}

// SteamConfig holds Steam upstream settings.
type SteamConfig struct {
	APIBase   string        `yaml:"api_base"   env:"STEAM_API_BASE"`
	StoreBase string        `yaml:"store_base" env:"STEAM_STORE_BASE"`
	Timeout   time.Duration `yaml:"timeout"    env:"STEAM_TIMEOUT" env-default:"5s"`
}

// SteamGridConfig holds SteamGridDB settings. An empty APIKey disables
// asset lookups; the endpoints degrade to empty results.
type SteamGridConfig struct {
	BaseURL string        `yaml:"base_url" env:"STEAMGRID_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"STEAMGRID_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"STEAMGRID_TIMEOUT" env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Catalog.SnapshotPath == "" {
		return fmt.Errorf("catalog.snapshot_path is required")
	}
	if c.Catalog.RefreshInterval < time.Minute {
		return fmt.Errorf("catalog.refresh_interval %s too short", c.Catalog.RefreshInterval)
	}
	if c.Search.Cutoff <= 0 || c.Search.Cutoff > 1 {
		return fmt.Errorf("search.cutoff %v out of (0,1]", c.Search.Cutoff)
	}
	if c.Search.DefaultPerPage < 1 || c.Search.DefaultPerPage > c.Search.MaxPerPage {
		return fmt.Errorf("search.default_per_page %d invalid", c.Search.DefaultPerPage)
	}
	if c.Steam.Timeout <= 0 || c.SteamGrid.Timeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	return nil
}
