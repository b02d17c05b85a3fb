package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/thermalogd/internal/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDelaySec     = 2
	DefaultAttempts     = 10
	DefaultDataDir      = "logs"
	DefaultMaxFileSize  = 4000
	DefaultMaxFileCount = 10
	DefaultLogLevel     = "info"

	configFileName = "config"
	configFileType = "json"
)

type Config struct {
	DelaySec     int    `mapstructure:"delay_sec"`
	Attempts     int    `mapstructure:"attempts"`
	DataDir      string `mapstructure:"data_dir"`
	MaxFileSize  int64  `mapstructure:"max_file_size"`
	MaxFileCount int    `mapstructure:"max_file_count"`
	LogLevel     string `mapstructure:"log_level"`
	ZonePath     string `mapstructure:"zone_path"`
	Telemetry    bool   `mapstructure:"telemetry"`
	Database     string `mapstructure:"database"`
}

// Load resolves configuration from command line flags layered over a JSON
// config file layered over defaults, then applies the resolved log level
// globally.
func Load() (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("thermalogd", pflag.ContinueOnError)
	logLevel := flags.String("log-level", "", "Configure level of log display (debug, info, warning, error)")
	configFile := flags.String("config-file", "", "The path to the configuration file")
	dataDir := flags.String("data-dir", "", "The directory to write data files into")
	telemetry := flags.Bool("telemetry", false, "Record samples to the telemetry database")
	database := flags.String("database", "", "The path to the telemetry database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("delay_sec", DefaultDelaySec)
	v.SetDefault("attempts", DefaultAttempts)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("max_file_count", DefaultMaxFileCount)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("zone_path", "")
	v.SetDefault("telemetry", false)
	v.SetDefault("database", "")

	// An explicitly named config file must exist; the default search is
	// allowed to come up empty.
	switch {
	case *configFile != "":
		v.SetConfigFile(expandPath(*configFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	case os.Getenv("THERMALOGD_CONFIG") != "":
		v.SetConfigFile(os.Getenv("THERMALOGD_CONFIG"))
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	default:
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/thermalogd")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Command line flags override config file values
	if *logLevel != "" {
		v.Set("log_level", strings.ToLower(*logLevel))
	}
	if *dataDir != "" {
		v.Set("data_dir", *dataDir)
	}
	if flags.Changed("telemetry") {
		v.Set("telemetry", *telemetry)
	}
	if *database != "" {
		v.Set("database", *database)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(config.ZerologLevel())

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.DelaySec <= 0 {
		return errFactory.WithData(errors.ErrInvalidDelay, c.DelaySec)
	}
	if c.Attempts <= 0 {
		return errFactory.WithData(errors.ErrInvalidAttempts, c.Attempts)
	}
	if c.DataDir == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "data_dir not set")
	}
	if c.MaxFileSize <= 0 || c.MaxFileCount < 1 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "invalid rotation bounds")
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// ZerologLevel maps the configured log level onto zerolog's scale.
// Validate has already rejected unknown names.
func (c *Config) ZerologLevel() zerolog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return zerolog.InfoLevel
}

func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
