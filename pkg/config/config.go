package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv             = "TILESTUDIO_APP_ENV"
	EnvPort               = "TILESTUDIO_APP_PORT"
	EnvRedisURL           = "TILESTUDIO_REDIS_URL"
	EnvCloudinaryCloud    = "TILESTUDIO_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryKey      = "TILESTUDIO_CLOUDINARY_API_KEY"
	EnvCloudinarySecret   = "TILESTUDIO_CLOUDINARY_API_SECRET"
	EnvCloudinaryFolder   = "TILESTUDIO_CLOUDINARY_FOLDER"
	EnvDataDir            = "TILESTUDIO_DATA_DIR"
	EnvQuoteRateLimit     = "TILESTUDIO_QUOTE_RATE_LIMIT"
	EnvQuoteRateWindow    = "TILESTUDIO_QUOTE_RATE_WINDOW"
	EnvCatalogSyncMaxAge  = "TILESTUDIO_CATALOG_SYNC_MAX_AGE"
	EnvCatalogSyncPage    = "TILESTUDIO_CATALOG_SYNC_PAGE_SIZE"
	EnvSyncWorkerInterval = "TILESTUDIO_SYNC_WORKER_INTERVAL"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Cloud    CloudinaryConfig
	Catalog  CatalogConfig
	Quotes   QuotesConfig
	Data     DataConfig
	CORS     CORSConfig
	SyncWork SyncWorkerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILESTUDIO_APP_ENV" default:"development"`
	Port         string `envconfig:"TILESTUDIO_APP_PORT" default:"3001"`
	Version      string `envconfig:"TILESTUDIO_APP_VERSION" default:"1.0.0"`
	LogLevel     string `envconfig:"TILESTUDIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILESTUDIO_LOG_WARN_STACK" default:"false"`

	// TrustProxy must only be set when the service sits behind a proxy
	// that overwrites forwarding headers. Without it a direct caller
	// could spoof X-Forwarded-For to dodge per-IP throttling.
	TrustProxy bool `envconfig:"TILESTUDIO_APP_TRUST_PROXY" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.HasPrefix(strings.ToLower(a.Env), "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.HasPrefix(strings.ToLower(a.Env), "prod")
}

// RedisConfig is optional: when URL is empty the quote rate limiter falls
// back to its in-process counter store.
type RedisConfig struct {
	URL          string        `envconfig:"TILESTUDIO_REDIS_URL"`
	PoolSize     int           `envconfig:"TILESTUDIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILESTUDIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILESTUDIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILESTUDIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILESTUDIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// CloudinaryConfig holds the remote image host credentials. All three values
// must be present for the catalog to sync; otherwise the catalog serves its
// seeded contents only.
type CloudinaryConfig struct {
	CloudName string `envconfig:"TILESTUDIO_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"TILESTUDIO_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"TILESTUDIO_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"TILESTUDIO_CLOUDINARY_FOLDER" default:"tilestudio"`
}

func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type CatalogConfig struct {
	SyncMaxAge   time.Duration `envconfig:"TILESTUDIO_CATALOG_SYNC_MAX_AGE" default:"30s"`
	SyncPageSize int           `envconfig:"TILESTUDIO_CATALOG_SYNC_PAGE_SIZE" default:"100"`
}

type QuotesConfig struct {
	RateLimit  int           `envconfig:"TILESTUDIO_QUOTE_RATE_LIMIT" default:"5"`
	RateWindow time.Duration `envconfig:"TILESTUDIO_QUOTE_RATE_WINDOW" default:"1h"`
}

type DataConfig struct {
	Dir string `envconfig:"TILESTUDIO_DATA_DIR" default:"data"`
}

// SubmissionsDir is where quote records land.
func (d DataConfig) SubmissionsDir() string {
	return filepath.Join(d.Dir, "submissions")
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TILESTUDIO_CORS_ORIGINS" default:"http://localhost:3000,https://tilestudio.co.il,https://www.tilestudio.co.il"`
}

type SyncWorkerConfig struct {
	Interval time.Duration `envconfig:"TILESTUDIO_SYNC_WORKER_INTERVAL" default:"10m"`
}
