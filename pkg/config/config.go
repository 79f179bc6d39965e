package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vendorinv"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDORINV_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDORINV_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"VENDORINV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDORINV_LOG_WARN_STACK" default:"false"`

	// PortalBaseURL is the public frontend the vendor QR codes link to.
	PortalBaseURL string `envconfig:"VENDORINV_PORTAL_BASE_URL" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDORINV_DB_DSN"`
	Driver string `envconfig:"VENDORINV_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDORINV_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDORINV_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDORINV_DB_USER"`
	LegacyPassword string `envconfig:"VENDORINV_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDORINV_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDORINV_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDORINV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDORINV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDORINV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDORINV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name parts are required")
	}
	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: url.Values{"sslmode": []string{d.LegacySSLMode}}.Encode(),
	}
	d.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDORINV_REDIS_URL"`
	Address      string        `envconfig:"VENDORINV_REDIS_ADDR"`
	Password     string        `envconfig:"VENDORINV_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDORINV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDORINV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDORINV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDORINV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDORINV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDORINV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a cache connection was configured at all. The
// service runs without redis; status listings just skip the cache.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VENDORINV_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VENDORINV_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VENDORINV_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"VENDORINV_GCS_BUCKET" required:"true"`
}

type MediaConfig struct {
	SignedURLTTL   time.Duration `envconfig:"VENDORINV_MEDIA_SIGNED_URL_TTL" default:"1h"`
	MaxUploadBytes int64         `envconfig:"VENDORINV_MEDIA_MAX_UPLOAD_BYTES" default:"20971520"`
	WebPQuality    float32       `envconfig:"VENDORINV_MEDIA_WEBP_QUALITY" default:"80"`
	StatusCacheTTL time.Duration `envconfig:"VENDORINV_MEDIA_STATUS_CACHE_TTL" default:"30s"`
}

type CatalogConfig struct {
	Path string `envconfig:"VENDORINV_CATALOG_PATH"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENDORINV_AUTO_MIGRATE" default:"false"`
	UseSQLite   bool `envconfig:"VENDORINV_USE_SQLITE" default:"false"`
}
