package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/app"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

type deployOutput struct {
	Name            string `json:"name" yaml:"name"`
	Contract        string `json:"contract" yaml:"contract"`
	Address         string `json:"address" yaml:"address"`
	TransactionHash string `json:"transactionHash" yaml:"transactionHash"`
	Deployed        bool   `json:"deployed" yaml:"deployed"`
	GasUsed         uint64 `json:"gasUsed,omitempty" yaml:"gasUsed,omitempty"`
}

func newDeployOutput(name, contractName string, result *usecase.DeployResult) deployOutput {
	out := deployOutput{
		Name:            name,
		Contract:        contractName,
		Address:         result.Contract.Address.Hex(),
		TransactionHash: result.TransactionHash.Hex(),
		Deployed:        result.Deployed,
	}
	if result.Receipt != nil {
		out.GasUsed = result.Receipt.GasUsed
	}
	return out
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <name> [constructor-args...]",
		Short: "Deploy a contract and record it under a name",
		Long: `Deploy a compiled contract and record the result under <name>.

Constructor arguments are given in order. Arrays and tuples are written as JSON.
By default every run deploys and replaces the record. --if-never-deployed reuses
an existing record, --if-different redeploys only when the given fields of the
new transaction differ from the recorded one.`,
		Example: `  # Deploy Counter under the name Counter
  rocketh deploy Counter -n anvil --from 0xf39F...

  # Deploy an ERC20 under a custom name
  rocketh deploy Token 1000000 --contract ERC20 -n sepolia -s deployer

  # Redeploy only when bytecode or arguments changed
  rocketh deploy Token 1000000 --contract ERC20 --if-different data`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return runDeploy(cmd, app, args)
		},
	}

	cmd.Flags().StringP("contract", "c", "", "Artifact name (defaults to <name>)")
	cmd.Flags().Bool("if-never-deployed", false, "Reuse the recorded deployment if there is one")
	cmd.Flags().StringSlice("if-different", nil, "Redeploy only if these fields changed (data, input, gas, gasPrice, value, from)")
	addTxFlags(cmd)

	return cmd
}

// runDeploy works out whether a transaction is needed before asking to broadcast,
// so reusing a recorded deployment never prompts.
func runDeploy(cmd *cobra.Command, a *app.App, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	contractName, _ := flags.GetString("contract")
	ifNeverDeployed, _ := flags.GetBool("if-never-deployed")
	ifDifferent, _ := flags.GetStringSlice("if-different")

	if ifNeverDeployed && len(ifDifferent) > 0 {
		return fmt.Errorf("--if-never-deployed and --if-different are mutually exclusive")
	}
	fields, err := domain.ParseCompareFields(ifDifferent...)
	if err != nil {
		return err
	}

	name := args[0]
	if contractName == "" {
		contractName = name
	}

	artifact, err := a.Coordinator.Artifact(ctx, contractName)
	if err != nil {
		return err
	}
	ctorArgs, err := abiargs.ParseArgs(artifact.ABI.Constructor.Inputs, args[1:])
	if err != nil {
		return fmt.Errorf("invalid constructor arguments: %w", err)
	}

	sender, err := requireSender(cmd, a)
	if err != nil {
		return err
	}
	opts, err := txOptions(cmd, sender)
	if err != nil {
		return err
	}

	if err := a.Client.CheckChainID(ctx, a.Config.Network.ChainID); err != nil {
		return err
	}

	redeploy := true
	switch {
	case ifNeverDeployed:
		_, err := a.Coordinator.Deployment(ctx, name)
		switch {
		case err == nil:
			redeploy = false
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
	case len(fields) > 0:
		redeploy, err = a.Coordinator.FetchIfDifferent(ctx, fields, name, opts, contractName, ctorArgs...)
		if err != nil {
			return err
		}
	}

	var result *usecase.DeployResult
	if redeploy {
		if err := confirmRemote(ctx, a, fmt.Sprintf("Deploy %s as %s", contractName, name)); err != nil {
			return err
		}
		result, err = a.Coordinator.Deploy(ctx, name, opts, contractName, ctorArgs...)
	} else {
		result, err = a.Coordinator.DeployIfNeverDeployed(ctx, name, opts, contractName, ctorArgs...)
	}
	if err != nil {
		return err
	}

	out := newDeployOutput(name, contractName, result)
	if handled, err := render.Structured(cmd.OutOrStdout(), a.Config.Output, out); handled || err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if result.Deployed {
		fmt.Fprintln(w, render.FormatSuccess(fmt.Sprintf("Deployed %s at %s", name, out.Address)))
		fmt.Fprintf(w, "   tx: %s (gas used: %d)\n", out.TransactionHash, out.GasUsed)
	} else {
		fmt.Fprintf(w, "%s %s already deployed at %s\n", color.New(color.FgCyan).Sprint("↺"), name, out.Address)
	}
	return nil
}
