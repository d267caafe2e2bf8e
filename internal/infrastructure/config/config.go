package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/pyme/backend/internal/domain/analytics"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings. Driver selects the
// backend: "postgres" for deployments, "sqlite" for single-file local runs
// and tests.
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite database file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. When Enabled is false the
// report cache degrades to a no-op and every dashboard request recomputes.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// CacheConfig holds report cache settings.
type CacheConfig struct {
	ReportTTL time.Duration
}

// RFMConfig holds the customer segmentation cutoffs.
type RFMConfig struct {
	RecentDays     int
	ColdDays       int
	LostDays       int
	FrequentOrders int
	BigSpender     float64
	FlatBandPct    float64
}

// AnalyticsConfig holds the tunable constants of the reporting engine.
// Decimal-valued settings are declared as float64 here because viper reads
// them that way; ToAnalytics converts once at startup.
type AnalyticsConfig struct {
	TaxRate               float64 // IGV
	IncomeTaxRate         float64
	LowStockThreshold     float64
	TargetCoverageDays    int
	ProjectionHorizonDays int
	TopProductsPerClient  int
	TopNDefault           int
	RFM                   RFMConfig
}

// ToAnalytics converts the configuration section into the domain config
// consumed by the calculators.
func (a AnalyticsConfig) ToAnalytics() analytics.Config {
	return analytics.Config{
		TaxRate:               decimal.NewFromFloat(a.TaxRate),
		IncomeTaxRate:         decimal.NewFromFloat(a.IncomeTaxRate),
		LowStockThreshold:     decimal.NewFromFloat(a.LowStockThreshold),
		TargetCoverageDays:    a.TargetCoverageDays,
		ProjectionHorizonDays: a.ProjectionHorizonDays,
		TopProductsPerClient:  a.TopProductsPerClient,
		TopNDefault:           a.TopNDefault,
		RFM: analytics.RFMThresholds{
			RecentDays:     a.RFM.RecentDays,
			ColdDays:       a.RFM.ColdDays,
			LostDays:       a.RFM.LostDays,
			FrequentOrders: a.RFM.FrequentOrders,
			BigSpender:     decimal.NewFromFloat(a.RFM.BigSpender),
			FlatBandPct:    decimal.NewFromFloat(a.RFM.FlatBandPct),
		},
	}
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PYME_ prefix (e.g., PYME_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("PYME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Cache: CacheConfig{
			ReportTTL: v.GetDuration("cache.report_ttl"),
		},
		Analytics: AnalyticsConfig{
			TaxRate:               v.GetFloat64("analytics.tax_rate"),
			IncomeTaxRate:         v.GetFloat64("analytics.income_tax_rate"),
			LowStockThreshold:     v.GetFloat64("analytics.low_stock_threshold"),
			TargetCoverageDays:    v.GetInt("analytics.target_coverage_days"),
			ProjectionHorizonDays: v.GetInt("analytics.projection_horizon_days"),
			TopProductsPerClient:  v.GetInt("analytics.top_products_per_client"),
			TopNDefault:           v.GetInt("analytics.top_n_default"),
			RFM: RFMConfig{
				RecentDays:     v.GetInt("analytics.rfm.recent_days"),
				ColdDays:       v.GetInt("analytics.rfm.cold_days"),
				LostDays:       v.GetInt("analytics.rfm.lost_days"),
				FrequentOrders: v.GetInt("analytics.rfm.frequent_orders"),
				BigSpender:     v.GetFloat64("analytics.rfm.big_spender"),
				FlatBandPct:    v.GetFloat64("analytics.rfm.flat_band_pct"),
			},
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pyme-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "pyme"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "pyme.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Cache.ReportTTL == 0 {
		cfg.Cache.ReportTTL = 5 * time.Minute
	}
	if cfg.Analytics.TaxRate == 0 {
		cfg.Analytics.TaxRate = 0.18
	}
	if cfg.Analytics.IncomeTaxRate == 0 {
		cfg.Analytics.IncomeTaxRate = 0.015
	}
	if cfg.Analytics.LowStockThreshold == 0 {
		cfg.Analytics.LowStockThreshold = 5
	}
	if cfg.Analytics.TargetCoverageDays == 0 {
		cfg.Analytics.TargetCoverageDays = 45
	}
	if cfg.Analytics.ProjectionHorizonDays == 0 {
		cfg.Analytics.ProjectionHorizonDays = 30
	}
	if cfg.Analytics.TopProductsPerClient == 0 {
		cfg.Analytics.TopProductsPerClient = 5
	}
	if cfg.Analytics.TopNDefault == 0 {
		cfg.Analytics.TopNDefault = 10
	}
	if cfg.Analytics.RFM.RecentDays == 0 {
		cfg.Analytics.RFM.RecentDays = 30
	}
	if cfg.Analytics.RFM.ColdDays == 0 {
		cfg.Analytics.RFM.ColdDays = 90
	}
	if cfg.Analytics.RFM.LostDays == 0 {
		cfg.Analytics.RFM.LostDays = 180
	}
	if cfg.Analytics.RFM.FrequentOrders == 0 {
		cfg.Analytics.RFM.FrequentOrders = 5
	}
	if cfg.Analytics.RFM.BigSpender == 0 {
		cfg.Analytics.RFM.BigSpender = 1000
	}
	if cfg.Analytics.RFM.FlatBandPct == 0 {
		cfg.Analytics.RFM.FlatBandPct = 5
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be 'postgres' or 'sqlite', got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Analytics.TaxRate < 0 || c.Analytics.TaxRate >= 1 {
		return fmt.Errorf("analytics.tax_rate must be in [0, 1), got %f", c.Analytics.TaxRate)
	}
	if c.Analytics.IncomeTaxRate < 0 || c.Analytics.IncomeTaxRate >= 1 {
		return fmt.Errorf("analytics.income_tax_rate must be in [0, 1), got %f", c.Analytics.IncomeTaxRate)
	}
	if c.Analytics.ProjectionHorizonDays < 0 {
		return fmt.Errorf("analytics.projection_horizon_days cannot be negative")
	}
	if c.Analytics.RFM.RecentDays >= c.Analytics.RFM.ColdDays || c.Analytics.RFM.ColdDays >= c.Analytics.RFM.LostDays {
		return fmt.Errorf("analytics.rfm thresholds must satisfy recent_days < cold_days < lost_days")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Driver == "postgres" {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
