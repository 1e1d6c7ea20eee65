package cli

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/wighawag/rocketh-go/internal/cli/render"
)

type accountOutput struct {
	Account string  `json:"account" yaml:"account"`
	Balance string  `json:"balance,omitempty" yaml:"balance,omitempty"`
	Nonce   *uint64 `json:"nonce,omitempty" yaml:"nonce,omitempty"`
}

var weiPerEther = new(big.Float).SetInt(big.NewInt(1e18))

// formatEther renders a wei amount in ether with up to 18 decimals
func formatEther(wei *big.Int) string {
	f := new(big.Float).SetPrec(256).SetInt(wei)
	return f.Quo(f, weiPerEther).Text('f', -1)
}

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	var inWei bool

	cmd := &cobra.Command{
		Use:   "balance <address|deployment>",
		Short: "Show the balance of an account",
		Example: `  rocketh balance 0xf39F... -n anvil
  rocketh balance Token --wei`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			account, err := resolveAccount(ctx, app, args[0])
			if err != nil {
				return err
			}
			balance, err := app.Coordinator.Balance(ctx, account)
			if err != nil {
				return err
			}

			out := accountOutput{Account: account.Hex(), Balance: balance.String()}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}
			if inWei {
				fmt.Fprintln(cmd.OutOrStdout(), balance.String())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s ETH\n", formatEther(balance))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inWei, "wei", false, "Print the balance in wei")

	return cmd
}

// NewNonceCmd creates the nonce command
func NewNonceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "nonce <address|deployment>",
		Short:   "Show the transaction count of an account",
		Example: `  rocketh nonce 0xf39F... -n anvil`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			account, err := resolveAccount(ctx, app, args[0])
			if err != nil {
				return err
			}
			nonce, err := app.Coordinator.TransactionCount(ctx, account)
			if err != nil {
				return err
			}

			out := accountOutput{Account: account.Hex(), Nonce: &nonce}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), nonce)
			return nil
		},
	}
}
