package config_test

import (
	"testing"

	"github.com/vladcebo/paytoy/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.BlockSize != 64*1024 {
		t.Fatalf("expected default block size 65536, got %d", cfg.BlockSize)
	}

	if cfg.ParserWorkers != 0 || cfg.Shards != 0 {
		t.Fatalf("expected worker counts to default to 0 (one per CPU), got parsers=%d shards=%d",
			cfg.ParserWorkers, cfg.Shards)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAYTOY_BLOCK_SIZE", "1024")
	t.Setenv("PAYTOY_PARSER_WORKERS", "3")
	t.Setenv("PAYTOY_SHARDS", "5")
	t.Setenv("PAYTOY_CHANNEL_DEPTH", "16")
	t.Setenv("PAYTOY_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.BlockSize != 1024 {
		t.Fatalf("expected block size override, got %d", cfg.BlockSize)
	}

	if cfg.ParserWorkers != 3 || cfg.Shards != 5 {
		t.Fatalf("expected worker overrides, got parsers=%d shards=%d", cfg.ParserWorkers, cfg.Shards)
	}

	if cfg.ChannelDepth != 16 {
		t.Fatalf("expected channel depth override, got %d", cfg.ChannelDepth)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level override, got %s", cfg.LogLevel)
	}
}

func TestLoadInvalidInt(t *testing.T) {
	t.Setenv("PAYTOY_BLOCK_SIZE", "not-a-number")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid block size")
	}
}
