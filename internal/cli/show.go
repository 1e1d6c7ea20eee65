package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

type showOutput struct {
	Deployment *models.Deployment `json:"deployment" yaml:"deployment"`
	HasCode    *bool              `json:"hasCode,omitempty" yaml:"hasCode,omitempty"`
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var checkCode bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a recorded deployment",
		Long: `Show the record of a deployment. Without a name, pick one interactively.
With --check, also ask the node whether code exists at the recorded address.`,
		Example: `  rocketh show Token -n sepolia
  rocketh show -n sepolia --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var deployment *models.Deployment
			if len(args) == 1 {
				deployment, err = app.Coordinator.Deployment(ctx, args[0])
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no deployment named %q on %s", args[0], app.Config.Network.Name)
				}
				if err != nil {
					return err
				}
			} else {
				deployments, err := app.Coordinator.ListDeployments(ctx)
				if err != nil {
					return err
				}
				deployment, err = app.Selector.SelectDeployment(ctx, deployments, "Select deployment")
				if err != nil {
					return err
				}
			}

			var hasCode *bool
			if checkCode {
				present, err := app.Coordinator.HasCode(ctx, deployment.Address)
				if err != nil {
					return err
				}
				hasCode = &present
			}

			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, showOutput{deployment, hasCode}); handled || err != nil {
				return err
			}
			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(deployment, hasCode)
		},
	}

	cmd.Flags().BoolVar(&checkCode, "check", false, "Check that code exists at the recorded address")

	return cmd
}
