package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDeploymentClone(t *testing.T) {
	dep := &Deployment{Name: "Token", Args: []any{"a"}, ABI: json.RawMessage(`[]`)}
	clone := dep.Clone()

	clone.Args[0] = "b"
	clone.ABI[0] = '{'
	assert.Equal(t, "a", dep.Args[0])
	assert.Equal(t, json.RawMessage(`[]`), dep.ABI)
}

func TestDeploymentMarshalYAML(t *testing.T) {
	dep := &Deployment{
		Name:         "Token",
		ContractName: "ERC20",
		ChainID:      31337,
		Address:      common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Args:         []any{"Token"},
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	out, err := yaml.Marshal(dep)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "name: Token\n")
	assert.Contains(t, text, "contractName: ERC20\n")
	assert.Contains(t, text, "chainId: 31337\n")
	assert.NotContains(t, text, "{")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "Token", back["name"])
	assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", back["address"])
}
