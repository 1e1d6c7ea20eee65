package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
)

type receiptOutput struct {
	TransactionHash string               `json:"transactionHash" yaml:"transactionHash"`
	Status          string               `json:"status" yaml:"status"`
	BlockNumber     uint64               `json:"blockNumber" yaml:"blockNumber"`
	GasUsed         uint64               `json:"gasUsed" yaml:"gasUsed"`
	ContractAddress string               `json:"contractAddress,omitempty" yaml:"contractAddress,omitempty"`
	Events          []abiargs.DecodedLog `json:"events" yaml:"events"`
}

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	var contractName string

	cmd := &cobra.Command{
		Use:   "send <deployment|address> <method> [args...]",
		Short: "Send a transaction to a contract method",
		Long: `Call a state changing method and wait for the receipt. The target is a
deployment name, or an address with --contract naming the artifact providing the ABI.`,
		Example: `  rocketh send Counter increment -n anvil --from 0xf39F...
  rocketh send Token transfer 0x7099... 1000 -s deployer
  rocketh send 0x5FbD... setNumber 42 --contract Counter`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			instance, err := contractHandle(ctx, app, args[0], contractName)
			if err != nil {
				return err
			}
			method := args[1]
			callArgs, err := methodArgs(instance, method, args[2:])
			if err != nil {
				return err
			}

			sender, err := requireSender(cmd, app)
			if err != nil {
				return err
			}
			opts, err := txOptions(cmd, sender)
			if err != nil {
				return err
			}

			if err := confirmBroadcast(ctx, app, fmt.Sprintf("Send %s.%s", instance.Name, method)); err != nil {
				return err
			}

			receipt, err := app.Coordinator.Tx(ctx, opts, instance, method, callArgs...)
			if err != nil {
				return err
			}

			return renderReceipt(cmd, app, receipt)
		},
	}

	cmd.Flags().StringVarP(&contractName, "contract", "c", "", "Artifact providing the ABI when targeting an address")
	addTxFlags(cmd)

	return cmd
}
