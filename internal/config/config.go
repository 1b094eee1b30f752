package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything the binaries need. Values resolve in the usual
// order: defaults, then an optional sync-ingest.yaml, then SYNC_* env vars,
// then command-line flags.
type Config struct {
	Addr           string `mapstructure:"addr"`
	DBPath         string `mapstructure:"db-path"`
	ChunkSize      int    `mapstructure:"chunk-size"`
	QueueCapacity  int    `mapstructure:"queue-capacity"`
	PersistRetries uint64 `mapstructure:"persist-retries"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
}

// RegisterFlags declares the shared flags on a command's flag set so Load
// can bind them.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("addr", ":8080", "listen address for the API server")
	flags.String("db-path", "sync.db", "path to the sqlite database")
	flags.Int("chunk-size", 100, "records persisted per storage write")
	flags.Int("queue-capacity", 64, "buffered chunk tasks before submission blocks")
	flags.Uint64("persist-retries", 0, "extra persist attempts before a chunk is failed")
	flags.String("log-level", "info", "debug, info, warn, error or none")
	flags.String("log-format", "text", "text or json")
}

// Load resolves the configuration. A missing config file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db-path", "sync.db")
	v.SetDefault("chunk-size", 100)
	v.SetDefault("queue-capacity", 64)
	v.SetDefault("persist-retries", 0)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")

	v.SetConfigName("sync-ingest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
