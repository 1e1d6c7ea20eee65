package adapters

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/wire"
	"github.com/wighawag/rocketh-go/internal/adapters/blockchain"
	"github.com/wighawag/rocketh-go/internal/adapters/interactive"
	"github.com/wighawag/rocketh-go/internal/adapters/progress"
	"github.com/wighawag/rocketh-go/internal/adapters/repository/contracts"
	"github.com/wighawag/rocketh-go/internal/adapters/repository/deployments"
	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// ErrNoNetwork is returned when a chain or registry is needed but no network is selected
var ErrNoNetwork = errors.New("no network selected: use --network or set ROCKETH_NETWORK")

// ProvideDeploymentRegistry opens the registry of the selected network
func ProvideDeploymentRegistry(cfg *config.RuntimeConfig) (*deployments.FileRepository, error) {
	if cfg.Network == nil {
		return nil, ErrNoNetwork
	}
	return deployments.NewFileRepository(cfg.DataDir, cfg.Network.Name)
}

// ProvideContractsRepository provides the artifact index
func ProvideContractsRepository(cfg *config.RuntimeConfig, log *slog.Logger) *contracts.Repository {
	return contracts.NewRepository(contracts.Options{
		ProjectRoot:  cfg.ProjectRoot,
		ArtifactsDir: cfg.ArtifactsDir,
		Build:        cfg.Build,
	}, log)
}

// ProvideChainClient connects to the selected network. The chain id is not
// checked here so commands that only read the registry work offline.
func ProvideChainClient(cfg *config.RuntimeConfig, log *slog.Logger) (*blockchain.Client, func(), error) {
	if cfg.Network == nil {
		return nil, nil, ErrNoNetwork
	}
	client, err := blockchain.Connect(context.Background(), cfg.Network.RPCURL, cfg.PollInterval, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// RepositorySet provides file-based implementations
var RepositorySet = wire.NewSet(
	ProvideDeploymentRegistry,
	wire.Bind(new(usecase.DeploymentRegistry), new(*deployments.FileRepository)),

	ProvideContractsRepository,
	wire.Bind(new(usecase.ArtifactSource), new(*contracts.Repository)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	ProvideChainClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	BlockchainSet,
	InteractiveSet,
	ProgressSet,
)
