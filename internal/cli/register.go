package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var contractName string

	cmd := &cobra.Command{
		Use:   "register <name> <address> <tx-hash> [constructor-args...]",
		Short: "Record a contract deployed by other means",
		Long: `Record a contract that was deployed outside rocketh under <name>, using the
ABI of the --contract artifact. No transaction is sent.`,
		Example: `  rocketh register WETH 0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2 0x... --contract WETH9 -n mainnet`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			name := args[0]
			if !common.IsHexAddress(args[1]) {
				return fmt.Errorf("%w: %q", domain.ErrInvalidAddress, args[1])
			}
			address := common.HexToAddress(args[1])
			txHash := common.HexToHash(args[2])
			if contractName == "" {
				contractName = name
			}

			artifact, err := app.Coordinator.Artifact(ctx, contractName)
			if err != nil {
				return err
			}
			ctorArgs, err := abiargs.ParseArgs(artifact.ABI.Constructor.Inputs, args[3:])
			if err != nil {
				return fmt.Errorf("invalid constructor arguments: %w", err)
			}

			instance, err := app.Coordinator.InstantiateAndRegisterContract(ctx, name, address, txHash, contractName, ctorArgs...)
			if err != nil {
				return err
			}

			out := deployOutput{
				Name:            name,
				Contract:        contractName,
				Address:         instance.Address.Hex(),
				TransactionHash: txHash.Hex(),
			}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Registered %s at %s", name, out.Address)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractName, "contract", "c", "", "Artifact name (defaults to <name>)")

	return cmd
}
