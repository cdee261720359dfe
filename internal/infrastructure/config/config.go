package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Feed      FeedConfig      `mapstructure:"feed"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	IdleTimeout     int    `mapstructure:"idle_timeout"`     // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres or sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	Path            string `mapstructure:"path"` // sqlite file, ":memory:" allowed
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpiry  int    `mapstructure:"access_token_expiry"`
	RefreshTokenExpiry int    `mapstructure:"refresh_token_expiry"`
	Issuer             string `mapstructure:"issuer"`
}

// StorageConfig controls where uploaded avatars live
type StorageConfig struct {
	Driver        string   `mapstructure:"driver"` // local or s3
	BasePath      string   `mapstructure:"base_path"`
	PublicURL     string   `mapstructure:"public_url"`
	MaxAvatarSize int64    `mapstructure:"max_avatar_size"` // bytes
	S3            S3Config `mapstructure:"s3"`
}

// S3Config holds the bucket avatars are written to when storage.driver is s3
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Prefix   string `mapstructure:"prefix"`
	Endpoint string `mapstructure:"endpoint"` // S3-compatible endpoint, empty for AWS
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// StoreConfig selects where mood entries are persisted
type StoreConfig struct {
	Driver string       `mapstructure:"driver"` // database or remote
	Remote RemoteConfig `mapstructure:"remote"`
}

// RemoteConfig holds configuration for the hosted backend REST store
type RemoteConfig struct {
	URL            string `mapstructure:"url"`             // e.g. https://project.example.co
	APIKey         string `mapstructure:"api_key"`         // sent as the apikey header
	ServiceToken   string `mapstructure:"service_token"`   // bearer token, falls back to api_key
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds (default: 10)
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds (default: 30)
	ValidateCert   bool   `mapstructure:"validate_cert"`
	Headers        string `mapstructure:"headers"` // custom headers as JSON string
}

type RateLimitConfig struct {
	AuthRPS   float64 `mapstructure:"auth_rps"`
	AuthBurst int     `mapstructure:"auth_burst"`
}

type CaptureConfig struct {
	WSPingInterval int   `mapstructure:"ws_ping_interval"` // seconds
	WSReadLimit    int64 `mapstructure:"ws_read_limit"`    // bytes
}

// FeedConfig controls how dashboard feed events reach other instances.
// With an empty RedisURL events stay within the process.
type FeedConfig struct {
	RedisURL string `mapstructure:"redis_url"`
	Channel  string `mapstructure:"channel"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
)

// setDefaults registers default values on v
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "mindnest.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("jwt.access_token_expiry", 900)
	v.SetDefault("jwt.refresh_token_expiry", 2592000)
	v.SetDefault("jwt.issuer", "mindnest")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.base_path", "data/uploads")
	v.SetDefault("storage.public_url", "/static")
	v.SetDefault("storage.max_avatar_size", 2<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("store.driver", "database")
	v.SetDefault("store.remote.connect_timeout", 10)
	v.SetDefault("store.remote.request_timeout", 30)
	v.SetDefault("store.remote.validate_cert", true)

	v.SetDefault("ratelimit.auth_rps", 1.0)
	v.SetDefault("ratelimit.auth_burst", 5)

	v.SetDefault("capture.ws_ping_interval", 30)
	v.SetDefault("capture.ws_read_limit", 16<<10)

	v.SetDefault("feed.channel", "mindnest:feed")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	return v
}

// Parse reads the configuration file without touching the global config
func Parse(configPath string) (*Config, error) {
	v := newViper(configPath)
	return parse(v)
}

func parse(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load initializes the global configuration from config file and watches it
func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		v := newViper(configPath)

		cfg, loadErr = parse(v)
		if loadErr != nil {
			return
		}

		// Enable hot reload
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info().Str("file", e.Name).Msg("Config file changed, reloading...")
			mu.Lock()
			defer mu.Unlock()
			if err := v.Unmarshal(cfg); err != nil {
				log.Error().Err(err).Msg("Failed to reload config")
			} else {
				log.Info().Msg("Config reloaded successfully")
			}
		})
	})

	return cfg, loadErr
}

// Get returns the current configuration (thread-safe)
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Validate checks cross-field constraints viper cannot express
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Store.Driver {
	case "database":
	case "remote":
		if c.Store.Remote.URL == "" {
			return fmt.Errorf("store.remote.url is required when store.driver is remote")
		}
	default:
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when storage.driver is s3")
		}
	default:
		return fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// GetConnMaxLifetime returns the connection max lifetime as time.Duration
func (d *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// GetAccessTokenExpiry returns access token expiry as time.Duration
func (j *JWTConfig) GetAccessTokenExpiry() time.Duration {
	return time.Duration(j.AccessTokenExpiry) * time.Second
}

// GetRefreshTokenExpiry returns refresh token expiry as time.Duration
func (j *JWTConfig) GetRefreshTokenExpiry() time.Duration {
	return time.Duration(j.RefreshTokenExpiry) * time.Second
}

// GetAddress returns the server address
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func (s *ServerConfig) GetReadTimeout() time.Duration     { return seconds(s.ReadTimeout, 30) }
func (s *ServerConfig) GetWriteTimeout() time.Duration    { return seconds(s.WriteTimeout, 30) }
func (s *ServerConfig) GetIdleTimeout() time.Duration     { return seconds(s.IdleTimeout, 60) }
func (s *ServerConfig) GetShutdownTimeout() time.Duration { return seconds(s.ShutdownTimeout, 30) }

// GetPingInterval returns the websocket ping interval
func (c *CaptureConfig) GetPingInterval() time.Duration {
	return seconds(c.WSPingInterval, 30)
}
