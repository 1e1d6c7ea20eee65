package config

// RockethConfig is the content of rocketh.toml
type RockethConfig struct {
	// Artifacts directory, relative to the project root
	Artifacts string `toml:"artifacts"`
	// Build runs `forge build` before reading artifacts
	Build bool `toml:"build"`
	// DataDir holds the deployment registry, relative to the project root
	DataDir string `toml:"data_dir"`
	// DefaultSender is used when no sender flag is given
	DefaultSender string `toml:"default_sender"`

	Networks map[string]NetworkConfig `toml:"networks"`
	Senders  map[string]SenderConfig  `toml:"senders"`
}

// NetworkConfig is a [networks.<name>] section
type NetworkConfig struct {
	RPCURL  string `toml:"rpc_url"`
	ChainID uint64 `toml:"chain_id"`
	Local   bool   `toml:"local"`
}

type SenderType string

var (
	SenderTypePrivateKey SenderType = "private_key"
	SenderTypeAddress    SenderType = "address"
)

// SenderConfig is a [senders.<name>] section
type SenderConfig struct {
	Type       SenderType `toml:"type"`
	Address    string     `toml:"address,omitempty"`
	PrivateKey string     `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}
