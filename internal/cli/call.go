package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/app"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

type callOutput struct {
	Contract string   `json:"contract" yaml:"contract"`
	Method   string   `json:"method" yaml:"method"`
	Result   []string `json:"result,omitempty" yaml:"result,omitempty"`
	Gas      uint64   `json:"gas,omitempty" yaml:"gas,omitempty"`
}

// callTarget is what call and estimate-gas share
type callTarget struct {
	instance *models.ContractInstance
	method   string
	args     []any
	opts     []domain.CallOption
}

func addCallFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("contract", "c", "", "Artifact providing the ABI when targeting an address")
	cmd.Flags().String("value", "", "Value to attach, e.g. 1ether")
	cmd.Flags().Uint64("gas", 0, "Gas cap")
	cmd.Flags().Int64("block", -1, "Block number (latest when omitted)")
}

func parseCallTarget(cmd *cobra.Command, a *app.App, args []string) (*callTarget, error) {
	ctx := cmd.Context()
	contractName, _ := cmd.Flags().GetString("contract")

	instance, err := contractHandle(ctx, a, args[0], contractName)
	if err != nil {
		return nil, err
	}
	callArgs, err := methodArgs(instance, args[1], args[2:])
	if err != nil {
		return nil, err
	}
	target := &callTarget{instance: instance, method: args[1], args: callArgs}

	sender, err := resolveSender(cmd, a)
	if err != nil {
		return nil, err
	}
	if !sender.IsZero() {
		target.opts = append(target.opts, domain.WithFrom(sender.Address()))
	}
	if raw, _ := cmd.Flags().GetString("value"); raw != "" {
		value, err := abiargs.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --value: %w", err)
		}
		target.opts = append(target.opts, domain.WithValue(value))
	}
	if gas, _ := cmd.Flags().GetUint64("gas"); gas != 0 {
		target.opts = append(target.opts, domain.WithGas(gas))
	}
	if block, _ := cmd.Flags().GetInt64("block"); block >= 0 {
		target.opts = append(target.opts, domain.WithBlock(big.NewInt(block)))
	}
	return target, nil
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <deployment|address> <method> [args...]",
		Short: "Call a read-only contract method",
		Example: `  rocketh call Token balanceOf 0x7099... -n sepolia
  rocketh call Counter number --block 120`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			target, err := parseCallTarget(cmd, app, args)
			if err != nil {
				return err
			}

			values, err := app.Coordinator.Call(cmd.Context(), target.instance, target.method, target.args, target.opts...)
			if err != nil {
				return err
			}

			out := callOutput{Contract: target.instance.Name, Method: target.method}
			for _, v := range values {
				out.Result = append(out.Result, abiargs.FormatValue(v))
			}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out.Result, "\n"))
			return nil
		},
	}
	addCallFlags(cmd)
	return cmd
}

// NewEstimateGasCmd creates the estimate-gas command
func NewEstimateGasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "estimate-gas <deployment|address> <method> [args...]",
		Aliases: []string{"estimate"},
		Short:   "Estimate the gas a method call would use",
		Example: `  rocketh estimate-gas Token transfer 0x7099... 1000 -s deployer`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			target, err := parseCallTarget(cmd, app, args)
			if err != nil {
				return err
			}

			gas, err := app.Coordinator.EstimateGas(cmd.Context(), target.instance, target.method, target.args, target.opts...)
			if err != nil {
				return err
			}

			out := callOutput{Contract: target.instance.Name, Method: target.method, Gas: gas}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), gas)
			return nil
		},
	}
	addCallFlags(cmd)
	return cmd
}
