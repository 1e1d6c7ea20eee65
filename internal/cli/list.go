package cli

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var contractName string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments of a network",
		Example: `  # List all deployments on sepolia
  rocketh list -n sepolia

  # List ERC20 deployments only
  rocketh list -n sepolia --contract ERC20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			deployments, err := app.Coordinator.ListDeployments(cmd.Context())
			if err != nil {
				return err
			}
			if contractName != "" {
				deployments = lo.Filter(deployments, func(d *models.Deployment, _ int) bool {
					return strings.EqualFold(d.ContractName, contractName)
				})
			}

			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, deployments); handled || err != nil {
				return err
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(app.Config.Network, deployments)
		},
	}

	cmd.Flags().StringVarP(&contractName, "contract", "c", "", "Filter by contract name")

	return cmd
}
