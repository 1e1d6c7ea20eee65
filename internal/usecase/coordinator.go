package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// Coordinator deploys contracts, records them by name and sends transactions through
// the injected chain client.
type Coordinator struct {
	artifacts ArtifactSource
	registry  DeploymentRegistry
	client    ChainClient
	progress  ProgressSink
	log       *slog.Logger
}

// NewCoordinator creates a coordinator. Artifacts, registry and client are required.
func NewCoordinator(
	artifacts ArtifactSource,
	registry DeploymentRegistry,
	client ChainClient,
	progress ProgressSink,
	log *slog.Logger,
) (*Coordinator, error) {
	if artifacts == nil {
		return nil, fmt.Errorf("%w: artifact source is required", domain.ErrMissingCollaborator)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: deployment registry is required", domain.ErrMissingCollaborator)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: chain client is required", domain.ErrMissingCollaborator)
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		artifacts: artifacts,
		registry:  registry,
		client:    client,
		progress:  progress,
		log:       log,
	}, nil
}

// InstantiateContract returns a handle on an already deployed contract
func (c *Coordinator) InstantiateContract(name string, contractABI abi.ABI, address common.Address) *models.ContractInstance {
	return &models.ContractInstance{Name: name, Address: address, ABI: contractABI}
}

// GetDeployedContract rebuilds the handle of a recorded deployment.
// Returns domain.ErrNotFound when name has no record.
func (c *Coordinator) GetDeployedContract(ctx context.Context, name string) (*models.ContractInstance, error) {
	dep, err := c.registry.Deployment(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.instanceFromDeployment(ctx, dep)
}

// FetchReceipt returns the receipt of a mined transaction
func (c *Coordinator) FetchReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, hash)
}

// Balance returns the latest balance of account
func (c *Coordinator) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.client.BalanceAt(ctx, account, nil)
}

// TransactionCount returns the latest mined nonce of account
func (c *Coordinator) TransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	return c.client.NonceAt(ctx, account, nil)
}

// HasCode reports whether runtime code exists at address
func (c *Coordinator) HasCode(ctx context.Context, address common.Address) (bool, error) {
	code, err := c.client.CodeAt(ctx, address)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return len(code) > 0, nil
}

// Deployment returns the record stored under name, domain.ErrNotFound if none
func (c *Coordinator) Deployment(ctx context.Context, name string) (*models.Deployment, error) {
	return c.registry.Deployment(ctx, name)
}

// Artifact resolves a contract name through the artifact source
func (c *Coordinator) Artifact(ctx context.Context, contractName string) (*models.Artifact, error) {
	return c.artifacts.ContractInfo(ctx, contractName)
}

// ListDeployments returns all recorded deployments
func (c *Coordinator) ListDeployments(ctx context.Context) ([]*models.Deployment, error) {
	return c.registry.ListDeployments(ctx)
}

// instanceFromDeployment prefers the ABI stored in the record and falls back to the
// artifact source for records registered without one.
func (c *Coordinator) instanceFromDeployment(ctx context.Context, dep *models.Deployment) (*models.ContractInstance, error) {
	if len(dep.ABI) > 0 {
		return models.NewContractInstance(dep.Name, dep.ABI, dep.Address)
	}
	artifact, err := c.artifacts.ContractInfo(ctx, dep.ContractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact for %s: %w", dep.Name, err)
	}
	return c.InstantiateContract(dep.Name, artifact.ABI, dep.Address), nil
}

// lookupDeployment returns nil without error when name has no record
func (c *Coordinator) lookupDeployment(ctx context.Context, name string) (*models.Deployment, error) {
	dep, err := c.registry.Deployment(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment %s: %w", name, err)
	}
	return dep, nil
}
