package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wighawag/rocketh-go/internal/domain/config"
)

// Chain IDs of development nodes (anvil, hardhat, ganache)
var localChainIDs = map[uint64]bool{
	31337: true,
	1337:  true,
}

// NetworkResolver resolves network names to configurations. Names are looked
// up in rocketh.toml [networks] first, then foundry.toml [rpc_endpoints]; a
// value that looks like a URL is used as is.
type NetworkResolver struct {
	rocketh *config.RockethConfig
	foundry *config.FoundryConfig
}

// NewNetworkResolver creates a new network resolver. Either config may be nil.
func NewNetworkResolver(rocketh *config.RockethConfig, foundry *config.FoundryConfig) *NetworkResolver {
	return &NetworkResolver{rocketh: rocketh, foundry: foundry}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	if r.rocketh != nil {
		if nc, ok := r.rocketh.Networks[networkName]; ok {
			if nc.RPCURL == "" {
				return nil, fmt.Errorf("network '%s' has no rpc_url in %s", networkName, RockethFile)
			}
			return &config.Network{
				Name:    networkName,
				RPCURL:  nc.RPCURL,
				ChainID: nc.ChainID,
				Local:   nc.Local || isLocal(nc.RPCURL, nc.ChainID),
			}, nil
		}
	}

	if r.foundry != nil {
		if rpcURL, ok := r.foundry.RpcEndpoints[networkName]; ok {
			if rpcURL == "" || strings.Contains(rpcURL, "${") {
				return nil, fmt.Errorf("network '%s': rpc endpoint is unset, export %s", networkName, GenerateEnvVarName(networkName))
			}
			return &config.Network{
				Name:   networkName,
				RPCURL: rpcURL,
				Local:  isLocal(rpcURL, 0),
			}, nil
		}
	}

	if isURL(networkName) {
		return &config.Network{
			Name:   hostName(networkName),
			RPCURL: networkName,
			Local:  isLocal(networkName, 0),
		}, nil
	}

	known := r.Names()
	if len(known) == 0 {
		return nil, fmt.Errorf("network '%s' not found: no networks configured", networkName)
	}
	return nil, fmt.Errorf("network '%s' not found, available: %s", networkName, strings.Join(known, ", "))
}

// Names returns every configured network name, sorted
func (r *NetworkResolver) Names() []string {
	seen := make(map[string]bool)
	if r.rocketh != nil {
		for name := range r.rocketh.Networks {
			seen[name] = true
		}
	}
	if r.foundry != nil {
		for name := range r.foundry.RpcEndpoints {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return u.Host != ""
	}
	return false
}

func hostName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

func isLocal(rpcURL string, chainID uint64) bool {
	if localChainIDs[chainID] {
		return true
	}
	u, err := url.Parse(rpcURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	return false
}
