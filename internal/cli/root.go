package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wighawag/rocketh-go/internal/app"
	"github.com/wighawag/rocketh-go/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// runKey holds the per-execution cleanup state
	runKey contextKey = "run"
)

// runState collects what must be released once the command returns, whether it
// failed or not.
type runState struct {
	cleanups []func()
}

func (s *runState) add(f func()) {
	s.cleanups = append(s.cleanups, f)
}

func (s *runState) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

// Execute runs the root command and releases the app afterwards
func Execute(ctx context.Context, rootCmd *cobra.Command) error {
	state := &runState{}
	defer state.close()
	return rootCmd.ExecuteContext(context.WithValue(ctx, runKey, state))
}

// skipsApp reports commands that run without project configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return !cmd.Runnable()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rocketh",
		Short: "Deploy and track smart contracts by name",
		Long: `rocketh deploys compiled contracts, records each deployment under a logical
name and sends transactions to recorded contracts.

Deployments are kept per network in <data_dir>/deployments/<network>/deployments.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			// Find project root
			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			// Set up viper
			v := config.SetupViper(projectRoot, cmd)

			// Initialize app with DI
			appInstance, cleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := cmd.Context()
			state, _ := ctx.Value(runKey).(*runState)
			if state == nil {
				// Not run through Execute, resources live until exit
				state = &runState{}
			}
			state.add(cleanup)
			if stopper, ok := appInstance.Progress.(interface{ Stop() }); ok {
				state.add(stopper.Stop)
			}

			if appInstance.Config.Output != "" {
				color.NoColor = true
			}

			// Store app in context
			ctx = context.WithValue(ctx, appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				state.add(cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("network", "n", "", "Network name from rocketh.toml or foundry.toml, or an RPC URL")
	flags.StringP("sender", "s", "", "Sender name from rocketh.toml [senders]")
	flags.String("from", "", "Send from this address, signed by the node")
	flags.String("private-key", "", "Sign locally with this private key (accepts ${ENV_VAR})")
	flags.StringP("output", "o", "", "Output format: text, json or yaml")
	flags.Duration("timeout", 0, "Abort after this long (default 5m)")
	flags.Duration("poll-interval", 0, "Receipt polling interval (default 1s)")
	flags.String("project-root", "", "Project directory (default: nearest rocketh.toml or foundry.toml)")
	flags.String("artifacts", "", "Artifacts directory (default: foundry out dir)")
	flags.String("data-dir", "", "Deployment data directory (default .rocketh)")
	flags.Bool("build", false, "Run forge build before reading artifacts")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "contract",
		Title: "Contract Interaction Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Chain Query Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewDiffCmd(), NewRegisterCmd(), NewListCmd(), NewShowCmd()} {
		c.GroupID = "deployment"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewSendCmd(), NewCallCmd(), NewEstimateGasCmd()} {
		c.GroupID = "contract"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewReceiptCmd(), NewBalanceCmd(), NewNonceCmd()} {
		c.GroupID = "chain"
		rootCmd.AddCommand(c)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, errors.New("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, errors.New("invalid app instance")
	}

	return app, nil
}
