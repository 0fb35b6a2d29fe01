package config

import (
	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Pipeline sizing. Zero worker counts mean one worker per CPU,
	// resolved by the pipeline itself.
	BlockSize     int `env:"PAYTOY_BLOCK_SIZE"     envDefault:"65536"`
	ParserWorkers int `env:"PAYTOY_PARSER_WORKERS" envDefault:"0"`
	Shards        int `env:"PAYTOY_SHARDS"         envDefault:"0"`
	ChannelDepth  int `env:"PAYTOY_CHANNEL_DEPTH"  envDefault:"64"`

	// Logging
	LogLevel  string `env:"PAYTOY_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"PAYTOY_LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
