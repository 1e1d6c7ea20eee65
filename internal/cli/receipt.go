package cli

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/app"
	"github.com/wighawag/rocketh-go/internal/cli/render"
)

// NewReceiptCmd creates the receipt command
func NewReceiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <tx-hash>",
		Short: "Show a transaction receipt with decoded events",
		Long: `Fetch the receipt of a mined transaction. Events emitted by recorded
deployments are decoded with their stored ABI.`,
		Example: `  rocketh receipt 0x3f1a... -n sepolia`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			receipt, err := app.Coordinator.FetchReceipt(cmd.Context(), common.HexToHash(args[0]))
			if err != nil {
				return err
			}
			return renderReceipt(cmd, app, receipt)
		},
	}
}

// renderReceipt decodes logs against the recorded deployments and prints the receipt
func renderReceipt(cmd *cobra.Command, a *app.App, receipt *types.Receipt) error {
	deployments, err := a.Coordinator.ListDeployments(cmd.Context())
	if err != nil {
		return err
	}
	events := abiargs.NewEventDecoder(deployments, a.Log).DecodeLogs(receipt.Logs)

	out := receiptOutput{
		TransactionHash: receipt.TxHash.Hex(),
		Status:          render.ReceiptStatus(receipt),
		GasUsed:         receipt.GasUsed,
		Events:          events,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.ContractAddress != (common.Address{}) {
		out.ContractAddress = receipt.ContractAddress.Hex()
	}
	if handled, err := render.Structured(cmd.OutOrStdout(), a.Config.Output, out); handled || err != nil {
		return err
	}
	return render.NewTransactionRenderer(cmd.OutOrStdout()).RenderReceipt(receipt, events)
}
