package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config maps the whole application configuration.
type Config struct {
	// Client settings used by the client commands
	Client struct {
		BaseURL   string        `mapstructure:"base_url"`
		Timeout   time.Duration `mapstructure:"timeout"`
		UserAgent string        `mapstructure:"user_agent"`
	} `mapstructure:"client"`

	Download struct {
		Dir string `mapstructure:"dir"` // where exported reports are written
	} `mapstructure:"download"`

	Status struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"status"`

	App struct {
		// Timezone interprets date-time values entered without an offset
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"app"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"monitor"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // text or json
	} `mapstructure:"log"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://10.226.49.29:8080")
	v.SetDefault("client.timeout", 20*time.Second)
	v.SetDefault("client.user_agent", "itrules-cli/1.0")
	v.SetDefault("download.dir", ".")
	v.SetDefault("status.ttl", 5*time.Second)
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.name", "itrules.db")
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval_minutes", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig loads the configuration through the global viper instance:
// ./configs/config.yaml if present, then environment overrides such as
// CLIENT_BASE_URL, then defaults.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), "./configs")
}

// Load reads the configuration into v, looking for config.yaml in the given
// directories. A missing file is not an error.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Debug("config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"base_url": cfg.Client.BaseURL,
		"port":     cfg.Server.Port,
		"db":       cfg.Database.Name,
		"monitor":  cfg.Monitor.Enabled,
	}).Debug("configuration loaded")

	return &cfg, nil
}

// Location resolves App.Timezone. "Local" and the empty string give the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.App.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// MonitorInterval is the pause between two monitor passes.
func (c *Config) MonitorInterval() time.Duration {
	if c.Monitor.IntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Monitor.IntervalMinutes) * time.Minute
}

// ConfigureLogger applies the log section to logger.
func (c *Config) ConfigureLogger(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(c.Log.Format) {
	case "json":
		logger.SetFormatter(new(logrus.JSONFormatter))
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	return nil
}
