package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the engine-level configuration dagbuild.toml carries: client
// defaults and scheduler limits. The pipeline's own task graph is never
// part of this file — that stays Go code the caller writes (see
// examples/etlpipeline), per the CLI's "thin adapter" role.
type Config struct {
	SQLitePath  string `toml:"sqlite_path"`
	LogLevel    string `toml:"log_level"`
	MaxParallel int    `toml:"max_parallel"`
	WorkDir     string `toml:"work_dir"`
}

func defaultConfig() Config {
	return Config{
		SQLitePath:  "dagbuild.db",
		LogLevel:    "info",
		MaxParallel: 1,
		WorkDir:     ".",
	}
}

// loadConfig reads path (grounded on emergent-company-specmcp's
// internal/config BurntSushi/toml usage) layered over defaultConfig. A
// missing file is not an error — dagbuild.toml is optional.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
