//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/wighawag/rocketh-go/internal/adapters"
	"github.com/wighawag/rocketh-go/internal/config"
	"github.com/wighawag/rocketh-go/internal/logging"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewCoordinator,

		// App
		NewApp,
	)
	return nil, nil, nil
}
