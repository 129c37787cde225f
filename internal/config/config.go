package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Cache       CacheConfig       `mapstructure:"cache"`
	DB          DBConfig          `mapstructure:"db"`
	DataAPI     DataAPIConfig     `mapstructure:"data_api"`
	Gamma       GammaConfig       `mapstructure:"gamma"`
	Clob        ClobConfig        `mapstructure:"clob"`
	PnLAPI      PnLAPIConfig      `mapstructure:"pnl_api"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	OpenMeteo   OpenMeteoConfig   `mapstructure:"open_meteo"`
	Feed        FeedConfig        `mapstructure:"feed"`
	Tracker     TrackerConfig     `mapstructure:"tracker"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type CacheConfig struct {
	// Backend is "file" or "postgres".
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type DataAPIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PageSize   int           `mapstructure:"page_size"`
	MaxRecords int           `mapstructure:"max_records"`
}

type GammaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClobConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PnLAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LeaderboardConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenMeteoConfig struct {
	ForecastURL string        `mapstructure:"forecast_url"`
	ArchiveURL  string        `mapstructure:"archive_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Latitude    float64       `mapstructure:"latitude"`
	Longitude   float64       `mapstructure:"longitude"`
	Timezone    string        `mapstructure:"timezone"`
}

type FeedConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	URL         string        `mapstructure:"url"`
	Assets      []string      `mapstructure:"assets"`
	BackoffMin  time.Duration `mapstructure:"backoff_min"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type TrackerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Wallets  []string      `mapstructure:"wallets"`
	Interval time.Duration `mapstructure:"interval"`
	Limit    int           `mapstructure:"limit"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", "data/cache")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.sweep_interval", "1h")

	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")

	v.SetDefault("data_api.base_url", "https://data-api.polymarket.com")
	v.SetDefault("data_api.timeout", "15s")
	v.SetDefault("data_api.page_size", 500)
	v.SetDefault("data_api.max_records", 50000)

	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "15s")
	v.SetDefault("clob.base_url", "https://clob.polymarket.com")
	v.SetDefault("clob.timeout", "15s")
	v.SetDefault("pnl_api.base_url", "https://user-pnl-api.polymarket.com")
	v.SetDefault("pnl_api.timeout", "15s")
	v.SetDefault("leaderboard.base_url", "https://lb-api.polymarket.com")
	v.SetDefault("leaderboard.timeout", "15s")

	v.SetDefault("open_meteo.forecast_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("open_meteo.archive_url", "https://archive-api.open-meteo.com/v1/archive")
	v.SetDefault("open_meteo.timeout", "15s")
	// City of London; the weather dashboards this service backs are London daily highs.
	v.SetDefault("open_meteo.latitude", 51.5074)
	v.SetDefault("open_meteo.longitude", -0.1278)
	v.SetDefault("open_meteo.timezone", "Europe/London")

	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.url", "wss://ws-subscriptions-clob.polymarket.com/ws/market")
	v.SetDefault("feed.backoff_min", "1s")
	v.SetDefault("feed.backoff_max", "30s")
	v.SetDefault("feed.max_attempts", 0)

	v.SetDefault("tracker.enabled", false)
	v.SetDefault("tracker.interval", "30s")
	v.SetDefault("tracker.limit", 50)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
