package app

import (
	"log/slog"

	"github.com/wighawag/rocketh-go/internal/adapters/blockchain"
	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// App is the main application container shared by the commands
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector  usecase.DeploymentSelector
	Confirmer usecase.Confirmer
	Progress  usecase.ProgressSink
	Client    *blockchain.Client

	// Use cases
	Coordinator *usecase.Coordinator
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.DeploymentSelector,
	confirmer usecase.Confirmer,
	progress usecase.ProgressSink,
	client *blockchain.Client,
	coordinator *usecase.Coordinator,
) (*App, error) {
	return &App{
		Config:      cfg,
		Log:         log,
		Selector:    selector,
		Confirmer:   confirmer,
		Progress:    progress,
		Client:      client,
		Coordinator: coordinator,
	}, nil
}
