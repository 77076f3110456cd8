// Package config loads application settings from the environment and an optional .env
// file, and opens the shared infrastructure clients.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Env is the application environment ("development", "production").
	Env      string `mapstructure:"APP_ENV"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// DBPath is the single-file SQLite database.
	DBPath string `mapstructure:"DB_PATH"`

	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	UploadMaxBytes int64  `mapstructure:"UPLOAD_MAX_BYTES"`

	// LifecycleVariant is "receiver" (Pending → Collected → Booked) or
	// "pickup" (Pending → Picked → Collected).
	LifecycleVariant string `mapstructure:"LIFECYCLE_VARIANT"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure  bool          `mapstructure:"COOKIE_SECURE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// AMQPURL enables delivery of temporary passwords through RabbitMQ.
	// When empty, temporary passwords are written to the server log (development only).
	AMQPURL        string `mapstructure:"AMQP_URL"`
	NotifyExchange string `mapstructure:"NOTIFY_EXCHANGE"`

	// AdminPhone and AdminPassword seed the administrator account at startup.
	AdminPhone    string `mapstructure:"ADMIN_PHONE"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	BcryptCost int `mapstructure:"BCRYPT_COST"`

	LoginMaxAttempts int           `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginWindow      time.Duration `mapstructure:"LOGIN_WINDOW"`
}

const devSessionSecret = "food_share_dev_secret_change_me"

// Load reads .env (if present), then builds and validates Config from the environment.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "food_share.db")
	v.SetDefault("UPLOAD_DIR", "static/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("LIFECYCLE_VARIANT", "receiver")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("NOTIFY_EXCHANGE", "food_share.notifications")
	v.SetDefault("ADMIN_PHONE", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 10)
	v.SetDefault("LOGIN_WINDOW", "15m")
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks required fields and fills development fallbacks.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	if c.DBPath == "" {
		return errors.New("config: DB_PATH must be set")
	}
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("config: SESSION_SECRET must be set when APP_ENV=production")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.IsProduction() && c.AMQPURL == "" {
		return errors.New("config: AMQP_URL must be set when APP_ENV=production (temporary passwords must not go to logs)")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("config: UPLOAD_MAX_BYTES must be positive")
	}
	if (c.AdminPhone == "") != (c.AdminPassword == "") {
		return errors.New("config: ADMIN_PHONE and ADMIN_PASSWORD must be set together")
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.LoginMaxAttempts < 0 {
		return errors.New("config: LOGIN_MAX_ATTEMPTS must not be negative")
	}
	return nil
}
