package models

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Deployment represents a contract deployment record, keyed by its logical name
type Deployment struct {
	// Core identification
	Name         string `json:"name"`         // e.g., "Token", "TokenV2"
	ContractName string `json:"contractName"` // Artifact reference, e.g., "ERC20Token"
	ChainID      uint64 `json:"chainId"`

	// On-chain location
	Address         common.Address `json:"address"`
	TransactionHash common.Hash    `json:"transactionHash"`

	// Constructor arguments in order, as given by the caller
	Args []any `json:"args"`
	// Hex ABI encoding of Args
	ConstructorArgs string `json:"constructorArgs,omitempty"`

	// Artifact snapshot, enough to rebuild the contract handle
	ABI          json.RawMessage `json:"abi,omitempty"`
	ArtifactPath string          `json:"artifactPath,omitempty"`
	BytecodeHash string          `json:"bytecodeHash,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that doesn't share slices with d
func (d *Deployment) Clone() *Deployment {
	clone := *d
	if d.Args != nil {
		clone.Args = append([]any(nil), d.Args...)
	}
	if d.ABI != nil {
		clone.ABI = append(json.RawMessage(nil), d.ABI...)
	}
	return &clone
}

// MarshalYAML reuses the JSON field names and encodings. JSON is valid YAML, so
// decoding it into a node keeps the key order.
func (d *Deployment) MarshalYAML() (any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	blockStyle(root)
	return root, nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
