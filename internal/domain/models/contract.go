package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BytecodeObject represents bytecode information in a compiler artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap,omitempty"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

// UnmarshalJSON also accepts a bare hex string, as written by hardhat
func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		*b = BytecodeObject{Object: hex}
		return nil
	}
	type plain BytecodeObject
	return json.Unmarshal(data, (*plain)(b))
}

// ArtifactFile is the on-disk shape of an artifact. Foundry writes the bytecode at the
// top level, solc standard JSON nests it under evm.
type ArtifactFile struct {
	ContractName string          `json:"contractName,omitempty"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     BytecodeObject  `json:"bytecode"`
	Evm          struct {
		Bytecode BytecodeObject `json:"bytecode"`
	} `json:"evm"`
	Metadata struct {
		Compiler struct {
			Version string `json:"version"`
		} `json:"compiler"`
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// BytecodeHex returns the creation bytecode, whichever layout the file uses
func (f *ArtifactFile) BytecodeHex() string {
	if f.Bytecode.Object != "" && f.Bytecode.Object != "0x" {
		return f.Bytecode.Object
	}
	return f.Evm.Bytecode.Object
}

// Artifact is a parsed contract artifact ready for deployment
type Artifact struct {
	Name            string
	Path            string // Source path, e.g., "src/Token.sol"
	ArtifactPath    string // Relative path of the artifact file
	CompilerVersion string
	RawABI          json.RawMessage
	ABI             abi.ABI
	Bytecode        []byte
}

// NewArtifact parses an artifact file into an Artifact
func NewArtifact(name string, file *ArtifactFile) (*Artifact, error) {
	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", name, err)
	}

	code := strings.TrimPrefix(file.BytecodeHex(), "0x")
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", name)
	}

	return &Artifact{
		Name:            name,
		CompilerVersion: file.Metadata.Compiler.Version,
		RawABI:          file.ABI,
		ABI:             parsed,
		Bytecode:        common.FromHex(code),
	}, nil
}

// CreationData returns bytecode followed by the packed constructor arguments
func (a *Artifact) CreationData(args ...any) ([]byte, error) {
	if len(a.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no bytecode", a.Name)
	}
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor args for %s: %w", a.Name, err)
	}
	data := make([]byte, 0, len(a.Bytecode)+len(packed))
	data = append(data, a.Bytecode...)
	return append(data, packed...), nil
}

// BytecodeHash returns the keccak256 of the creation bytecode
func (a *Artifact) BytecodeHash() string {
	return crypto.Keccak256Hash(a.Bytecode).Hex()
}

// ContractInstance is a handle on a contract at a known address
type ContractInstance struct {
	Name    string
	Address common.Address
	ABI     abi.ABI
}

// NewContractInstance builds an instance from a raw JSON ABI
func NewContractInstance(name string, rawABI json.RawMessage, address common.Address) (*ContractInstance, error) {
	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", name, err)
	}
	return &ContractInstance{Name: name, Address: address, ABI: parsed}, nil
}

// Pack encodes a method call
func (c *ContractInstance) Pack(method string, args ...any) ([]byte, error) {
	if _, ok := c.ABI.Methods[method]; !ok {
		return nil, fmt.Errorf("method %s not found on %s", method, c.Name)
	}
	data, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", c.Name, method, err)
	}
	return data, nil
}

// Unpack decodes the return data of a method call
func (c *ContractInstance) Unpack(method string, data []byte) ([]any, error) {
	out, err := c.ABI.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s.%s: %w", c.Name, method, err)
	}
	return out, nil
}
