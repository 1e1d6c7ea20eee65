package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// ArtifactSource resolves contract names to compiled artifacts
type ArtifactSource interface {
	ContractInfo(ctx context.Context, contractName string) (*models.Artifact, error)
	ContractNames(ctx context.Context) []string
}

// DeploymentRegistry stores deployment records keyed by logical name
type DeploymentRegistry interface {
	// Deployment returns domain.ErrNotFound when name was never registered
	Deployment(ctx context.Context, name string) (*models.Deployment, error)
	RegisterDeployment(ctx context.Context, name string, deployment *models.Deployment) error
	ListDeployments(ctx context.Context) ([]*models.Deployment, error)
}

// TransactionArgs is an unsigned transaction handed to the node for signing
type TransactionArgs struct {
	From     common.Address
	To       *common.Address
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Nonce    *uint64
	Data     []byte
}

// ChainClient is the subset of an Ethereum client the coordinator delegates to
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)

	// SendTransaction asks the node to sign and send (eth_sendTransaction)
	SendTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error)
	// SendSignedTransaction broadcasts a locally signed transaction
	SendSignedTransaction(ctx context.Context, tx *types.Transaction) error

	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	NonceAt(ctx context.Context, account common.Address, block *big.Int) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages
const (
	StageBuilding     = "building"
	StageBroadcasting = "broadcasting"
	StageWaiting      = "waiting"
	StageCompleted    = "completed"
)

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// Confirmer asks the user to confirm an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
