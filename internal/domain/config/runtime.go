package config

import (
	"time"
)

// Output formats
const (
	OutputText = ""
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified
	Sender  string   // Sender name from rocketh.toml, empty for the default

	// Artifacts
	ArtifactsDir string
	Build        bool

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         string // OutputText, OutputJSON or OutputYAML
	Timeout        time.Duration
	PollInterval   time.Duration

	// Config source tracking
	ConfigSource string // "rocketh.toml", "foundry.toml" or "" when neither exists

	// Resolved configurations
	FoundryConfig *FoundryConfig
	RockethConfig *RockethConfig
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId" yaml:"chainId"`
	Name    string `json:"name" yaml:"name"`
	RPCURL  string `json:"rpcUrl" yaml:"rpcUrl"`
	// Local networks (anvil, hardhat) are broadcast to without confirmation
	Local bool `json:"local" yaml:"local"`
}
