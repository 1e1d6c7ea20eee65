package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/wighawag/rocketh-go/internal/domain/config"
)

// RockethFile is the project configuration file name
const RockethFile = "rocketh.toml"

// loadRockethConfig loads and parses rocketh.toml if it exists.
// Returns (nil, nil) when rocketh.toml does not exist.
func loadRockethConfig(projectRoot string) (*config.RockethConfig, error) {
	path := filepath.Join(projectRoot, RockethFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.RockethConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", RockethFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", RockethFile, undecoded)
	}

	// Expand environment variables in network and sender string fields
	for name, network := range cfg.Networks {
		url, err := expandEnv(network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", name, err)
		}
		network.RPCURL = url
		cfg.Networks[name] = network
	}
	for name, sender := range cfg.Senders {
		key, err := expandEnv(sender.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("sender %s: %w", name, err)
		}
		addr, err := expandEnv(sender.Address)
		if err != nil {
			return nil, fmt.Errorf("sender %s: %w", name, err)
		}
		sender.PrivateKey = key
		sender.Address = addr
		cfg.Senders[name] = sender
	}

	return &cfg, nil
}
