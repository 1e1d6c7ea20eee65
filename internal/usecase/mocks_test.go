package usecase_test

import (
	"bytes"
	"context"
	"log/slog"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

const (
	counterABI = `[
		{"type":"constructor","inputs":[{"name":"initial","type":"uint256"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"get","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
	]`
	counterBytecode = "0x6080604052348015600f57600080fd5b50"

	// Well-known anvil development keys
	deployerKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	deployerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	otherKey     = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

var testChainID = big.NewInt(31337)

// MockArtifactSource is a mock implementation of ArtifactSource
type MockArtifactSource struct {
	mock.Mock
}

func (m *MockArtifactSource) ContractInfo(ctx context.Context, contractName string) (*models.Artifact, error) {
	args := m.Called(ctx, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactSource) ContractNames(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) SendTransaction(ctx context.Context, txArgs usecase.TransactionArgs) (common.Hash, error) {
	args := m.Called(ctx, txArgs)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockChainClient) SendSignedTransaction(ctx context.Context, tx *types.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockChainClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*types.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockChainClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockChainClient) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) NonceAt(ctx context.Context, account common.Address, block *big.Int) (uint64, error) {
	args := m.Called(ctx, account, block)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	args := m.Called(ctx, msg, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	args := m.Called(ctx, account, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// memRegistry is an in-memory DeploymentRegistry
type memRegistry struct {
	mu          sync.Mutex
	deployments map[string]*models.Deployment
	writes      int
}

func newMemRegistry() *memRegistry {
	return &memRegistry{deployments: make(map[string]*models.Deployment)}
}

func (r *memRegistry) Deployment(_ context.Context, name string) (*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dep, ok := r.deployments[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return dep.Clone(), nil
}

func (r *memRegistry) RegisterDeployment(_ context.Context, name string, dep *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deployments[name] = dep.Clone()
	r.writes++
	return nil
}

func (r *memRegistry) ListDeployments(_ context.Context) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Deployment
	for _, dep := range r.deployments {
		out = append(out, dep.Clone())
	}
	return out, nil
}

// recordingProgress keeps what the coordinator reports
type recordingProgress struct {
	mu     sync.Mutex
	stages []string
	infos  []string
	errors []string
}

func (p *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, event.Stage)
}

func (p *recordingProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, message)
}

func (p *recordingProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}

type fixture struct {
	artifacts *MockArtifactSource
	client    *MockChainClient
	registry  *memRegistry
	artifact  *models.Artifact
	progress  *recordingProgress
	logs      *bytes.Buffer
	coord     *usecase.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	artifact, err := models.NewArtifact("Counter", &models.ArtifactFile{
		ABI:      []byte(counterABI),
		Bytecode: models.BytecodeObject{Object: counterBytecode},
	})
	require.NoError(t, err)

	f := &fixture{
		artifacts: new(MockArtifactSource),
		client:    new(MockChainClient),
		registry:  newMemRegistry(),
		artifact:  artifact,
		progress:  &recordingProgress{},
		logs:      &bytes.Buffer{},
	}
	log := slog.New(slog.NewTextHandler(f.logs, nil))
	f.coord, err = usecase.NewCoordinator(f.artifacts, f.registry, f.client, f.progress, log)
	require.NoError(t, err)
	return f
}

func keySender(t *testing.T, hexKey string) domain.Sender {
	t.Helper()
	sender, err := domain.KeySender(hexKey)
	require.NoError(t, err)
	return sender
}

// signedTx builds a signed legacy transaction as a previous deployment would have sent it
func signedTx(t *testing.T, hexKey string, value *big.Int, gas uint64, data []byte) *types.Transaction {
	t.Helper()
	sender := keySender(t, hexKey)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1_000_000_000),
		Gas:      gas,
		Value:    value,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(testChainID), sender.PrivateKey())
	require.NoError(t, err)
	return signed
}

func successReceipt(hash common.Hash, contract common.Address) *types.Receipt {
	return &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		TxHash:          hash,
		ContractAddress: contract,
		GasUsed:         120_000,
		BlockNumber:     big.NewInt(7),
	}
}
