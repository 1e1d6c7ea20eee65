package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/wighawag/rocketh-go/internal/domain/config"
)

// loadEnvFiles loads .env then .env.local. Variables already set in the process
// environment win, and .env.local doesn't override .env.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				slog.Warn("failed to load env file", "file", envFile, "error", err)
			}
		}
	}
}

// loadFoundryConfig loads and parses foundry.toml if it exists.
// Returns (nil, nil) when foundry.toml does not exist.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	// Process RPC endpoints. Unset variables are left for the network resolver
	// to report, only when that network is actually used.
	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	return &cfg, nil
}

// foundryOutDir returns the out directory of the default profile
func foundryOutDir(cfg *config.FoundryConfig) string {
	if cfg == nil {
		return ""
	}
	if profile, ok := cfg.Profile["default"]; ok {
		return profile.OutPath
	}
	return ""
}
