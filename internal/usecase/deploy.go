package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// DeployResult is returned by the deploy operations
type DeployResult struct {
	Contract        *models.ContractInstance
	TransactionHash common.Hash
	// Nil when an existing deployment was reused
	Receipt *types.Receipt
	// Deployed is false when an existing deployment was reused
	Deployed   bool
	Deployment *models.Deployment
}

// Deploy creates contractName with args, waits for inclusion and records the result
// under name, replacing any previous record.
func (c *Coordinator) Deploy(ctx context.Context, name string, opts domain.TxOptions, contractName string, args ...any) (*DeployResult, error) {
	c.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageBuilding,
		Message: fmt.Sprintf("Preparing %s (%s)", name, contractName),
	})

	artifact, err := c.artifacts.ContractInfo(ctx, contractName)
	if err != nil {
		return nil, err
	}
	data, err := artifact.CreationData(args...)
	if err != nil {
		return nil, err
	}

	opts.To = nil
	opts.Data = data
	hash, err := c.send(ctx, opts)
	if err != nil {
		return nil, err
	}
	receipt, err := c.waitSuccess(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("receipt of %s has no contract address", hash.Hex())
	}

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	dep := &models.Deployment{
		Name:            name,
		ContractName:    contractName,
		ChainID:         chainID.Uint64(),
		Address:         receipt.ContractAddress,
		TransactionHash: hash,
		Args:            args,
		ConstructorArgs: hexutil.Encode(data[len(artifact.Bytecode):]),
		ABI:             artifact.RawABI,
		ArtifactPath:    artifact.ArtifactPath,
		BytecodeHash:    artifact.BytecodeHash(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := c.registry.RegisterDeployment(ctx, name, dep); err != nil {
		return nil, fmt.Errorf("failed to register deployment %s: %w", name, err)
	}

	c.log.Info("contract deployed",
		"name", name,
		"contract", contractName,
		"address", dep.Address.Hex(),
		"tx", hash.Hex(),
		"gasUsed", receipt.GasUsed,
	)

	return &DeployResult{
		Contract:        c.InstantiateContract(name, artifact.ABI, dep.Address),
		TransactionHash: hash,
		Receipt:         receipt,
		Deployed:        true,
		Deployment:      dep,
	}, nil
}

// DeployIfNeverDeployed reuses the recorded deployment of name when there is one,
// without comparing anything, and deploys otherwise.
func (c *Coordinator) DeployIfNeverDeployed(ctx context.Context, name string, opts domain.TxOptions, contractName string, args ...any) (*DeployResult, error) {
	dep, err := c.lookupDeployment(ctx, name)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return c.Deploy(ctx, name, opts, contractName, args...)
	}
	c.log.Debug("reusing deployment", "name", name, "address", dep.Address.Hex())
	c.progress.Info(fmt.Sprintf("Reusing %s at %s", name, dep.Address.Hex()))
	return c.existing(ctx, dep)
}

// DeployIfDifferent deploys when FetchIfDifferent reports a difference on fields and
// reuses the recorded deployment otherwise.
func (c *Coordinator) DeployIfDifferent(ctx context.Context, fields []domain.CompareField, name string, opts domain.TxOptions, contractName string, args ...any) (*DeployResult, error) {
	different, err := c.FetchIfDifferent(ctx, fields, name, opts, contractName, args...)
	if err != nil {
		return nil, err
	}
	if different {
		return c.Deploy(ctx, name, opts, contractName, args...)
	}

	dep, err := c.lookupDeployment(ctx, name)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		// Not reachable through FetchIfDifferent, which reports a difference for unknown names
		return nil, fmt.Errorf("deployment %s: %w", name, domain.ErrNotFound)
	}
	c.log.Debug("no difference, reusing deployment", "name", name, "address", dep.Address.Hex())
	c.progress.Info(fmt.Sprintf("No change, reusing %s at %s", name, dep.Address.Hex()))
	return c.existing(ctx, dep)
}

// InstantiateAndRegisterContract records a contract deployed by other means. No
// transaction is sent.
func (c *Coordinator) InstantiateAndRegisterContract(ctx context.Context, name string, address common.Address, txHash common.Hash, contractName string, args ...any) (*models.ContractInstance, error) {
	artifact, err := c.artifacts.ContractInfo(ctx, contractName)
	if err != nil {
		return nil, err
	}

	dep := &models.Deployment{
		Name:            name,
		ContractName:    contractName,
		Address:         address,
		TransactionHash: txHash,
		Args:            args,
		ABI:             artifact.RawABI,
		ArtifactPath:    artifact.ArtifactPath,
		BytecodeHash:    artifact.BytecodeHash(),
		CreatedAt:       time.Now().UTC(),
	}
	if packed, err := artifact.ABI.Pack("", args...); err == nil {
		dep.ConstructorArgs = hexutil.Encode(packed)
	} else {
		c.log.Warn("constructor arguments don't match the artifact, recording them unencoded", "name", name, "contract", contractName, "error", err)
	}
	if chainID, err := c.client.ChainID(ctx); err == nil {
		dep.ChainID = chainID.Uint64()
	} else {
		c.log.Warn("could not read chain ID for registration", "name", name, "error", err)
	}

	if err := c.registry.RegisterDeployment(ctx, name, dep); err != nil {
		return nil, fmt.Errorf("failed to register deployment %s: %w", name, err)
	}
	return c.InstantiateContract(name, artifact.ABI, address), nil
}

func (c *Coordinator) existing(ctx context.Context, dep *models.Deployment) (*DeployResult, error) {
	instance, err := c.instanceFromDeployment(ctx, dep)
	if err != nil {
		return nil, err
	}
	return &DeployResult{
		Contract:        instance,
		TransactionHash: dep.TransactionHash,
		Deployment:      dep,
	}, nil
}
