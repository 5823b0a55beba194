package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NatsURL           string
	JWTSecret         string
	CookieSecure      bool
	LoginPath         string
	DefaultPath       string
	PublicPaths       []string
	AdminPaths        []string
	StrictAdminPaths  []string
	PassthroughPaths  []string
	DashboardCacheTTL time.Duration
	NotifySubject     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("KINERJA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Kinerja API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("auth.login_path", "/login")
	v.SetDefault("auth.default_path", "/dashboard")
	v.SetDefault("paths.public", []string{"/login", "/password-reset"})
	v.SetDefault("paths.admin", []string{"/admin", "/settings"})
	v.SetDefault("paths.strict_admin", []string{"/settings"})
	v.SetDefault("paths.passthrough", []string{"/assets", "/static", "/healthz", "/metrics"})
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("notify.subject", "kinerja.notifications")

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NatsURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		CookieSecure:      v.GetBool("cookie.secure"),
		LoginPath:         v.GetString("auth.login_path"),
		DefaultPath:       v.GetString("auth.default_path"),
		PublicPaths:       v.GetStringSlice("paths.public"),
		AdminPaths:        v.GetStringSlice("paths.admin"),
		StrictAdminPaths:  v.GetStringSlice("paths.strict_admin"),
		PassthroughPaths:  v.GetStringSlice("paths.passthrough"),
		DashboardCacheTTL: ttl,
		NotifySubject:     v.GetString("notify.subject"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if !v.IsSet("cookie.secure") && cfg.IsProduction() {
		cfg.CookieSecure = true
	}

	return cfg, nil
}
