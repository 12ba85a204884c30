package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the devnet configuration, read from the environment with an
// optional .env file for local runs.
type Config struct {
	ListenAddr     string        `env:"HOTPOTATO_LISTEN" envDefault:":8080"`
	DeadlineBlocks uint64        `env:"HOTPOTATO_DEADLINE_BLOCKS" envDefault:"10"`
	AllowSelfPass  bool          `env:"HOTPOTATO_ALLOW_SELF_PASS" envDefault:"false"`
	BlockInterval  time.Duration `env:"HOTPOTATO_BLOCK_INTERVAL" envDefault:"6s"`
	StatePath      string        `env:"HOTPOTATO_STATE_PATH"` // empty = in-memory
	Debug          bool          `env:"HOTPOTATO_DEBUG" envDefault:"false"`
}

func loadConfig() (Config, error) {
	// missing .env is fine; the environment alone is enough
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DeadlineBlocks == 0 {
		return Config{}, fmt.Errorf("HOTPOTATO_DEADLINE_BLOCKS must be positive")
	}
	if cfg.BlockInterval <= 0 {
		return Config{}, fmt.Errorf("HOTPOTATO_BLOCK_INTERVAL must be positive")
	}
	return cfg, nil
}
