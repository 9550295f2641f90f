package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Postgres    PostgresConfig
	Stations    StationsConfig
	API         APIConfig
	HealthCheck HealthCheckConfig
	Export      ExportConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	URL                string        `mapstructure:"url"`
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	User               string        `mapstructure:"user"`
	Password           string        `mapstructure:"password"`
	Database           string        `mapstructure:"database"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxConnections     int           `mapstructure:"max_connections"`
	MaxIdleConnections int           `mapstructure:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectionTimeout  time.Duration `mapstructure:"connection_timeout"`
}

// DSN prefers an explicit URL over the individual fields.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return dsn.String()
}

type StationsConfig struct {
	Registry []int `mapstructure:"registry"`
}

type APIConfig struct {
	BasePath           string        `mapstructure:"base_path"`
	CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	RateLimit          int           `mapstructure:"rate_limit"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	EnableMetrics      bool          `mapstructure:"enable_metrics"`
}

type HealthCheckConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	Interval       time.Duration `mapstructure:"interval"`
	StartupRetries int           `mapstructure:"startup_retries"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
}

type ExportConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SheetName string `mapstructure:"sheet_name"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/temperature-archive/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := overrideFromEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "temperature-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "30s")

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "meteo")
	v.SetDefault("postgres.password", "meteo")
	v.SetDefault("postgres.database", "meteo")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_connections", 20)
	v.SetDefault("postgres.max_idle_connections", 5)
	v.SetDefault("postgres.conn_max_lifetime", "30m")
	v.SetDefault("postgres.connection_timeout", "10s")

	v.SetDefault("stations.registry", []int{
		58027, 58040, 58138, 58141, 58150, 58238, 58241,
		58251, 58259, 58265, 58343, 58345, 58349, 58354, 58358,
	})

	v.SetDefault("api.base_path", "")
	v.SetDefault("api.cors_allowed_origins", []string{"*"})
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.rate_limit_window", "1m")
	v.SetDefault("api.read_timeout", "30s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.enable_metrics", true)

	v.SetDefault("healthcheck.timeout", "5s")
	v.SetDefault("healthcheck.interval", "1m")
	v.SetDefault("healthcheck.startup_retries", 5)
	v.SetDefault("healthcheck.retry_interval", "2s")

	v.SetDefault("export.enabled", true)
	v.SetDefault("export.sheet_name", "Comparison")
}

func overrideFromEnv(v *viper.Viper) error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		v.Set("postgres.url", dsn)
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		v.Set("postgres.host", host)
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		v.Set("postgres.user", user)
	}
	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		v.Set("postgres.password", password)
	}
	if database := os.Getenv("POSTGRES_DB"); database != "" {
		v.Set("postgres.database", database)
	}

	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		v.Set("api.cors_allowed_origins", []string{origin})
	}

	if list := os.Getenv("STATION_LIST"); list != "" {
		codes, err := parseStationList(list)
		if err != nil {
			return fmt.Errorf("invalid STATION_LIST: %w", err)
		}
		v.Set("stations.registry", codes)
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.Set("app.env", env)
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("app.log_level", logLevel)
	}
	if port := os.Getenv("PORT"); port != "" {
		v.Set("app.port", port)
	}
	return nil
}

func parseStationList(list string) ([]int, error) {
	var codes []int
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		code, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("station %q is not an integer", item)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func validateConfig(cfg *Config) error {
	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		return fmt.Errorf("app port %d is out of range", cfg.App.Port)
	}
	if cfg.Postgres.URL == "" && cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres host or url is required")
	}
	if len(cfg.Stations.Registry) == 0 {
		return fmt.Errorf("station registry cannot be empty")
	}
	if cfg.API.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if cfg.API.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if cfg.HealthCheck.Interval <= 0 {
		return fmt.Errorf("health check interval must be positive")
	}
	if cfg.Export.Enabled && cfg.Export.SheetName == "" {
		return fmt.Errorf("export sheet name cannot be empty")
	}
	if strings.EqualFold(cfg.Export.SheetName, "Statistics") {
		return fmt.Errorf("export sheet name %q is reserved for the statistics sheet", cfg.Export.SheetName)
	}
	return nil
}
