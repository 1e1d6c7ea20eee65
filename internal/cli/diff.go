package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/cli/render"
	"github.com/wighawag/rocketh-go/internal/domain"
)

type diffOutput struct {
	Name      string   `json:"name" yaml:"name"`
	Contract  string   `json:"contract" yaml:"contract"`
	Fields    []string `json:"fields" yaml:"fields"`
	Different bool     `json:"different" yaml:"different"`
}

// NewDiffCmd creates the diff command
func NewDiffCmd() *cobra.Command {
	var (
		contractName string
		fieldNames   []string
	)

	cmd := &cobra.Command{
		Use:   "diff <name> [constructor-args...]",
		Short: "Tell whether deploying now would differ from the recorded deployment",
		Long: `Compare a would-be deployment with the one recorded under <name>, without
sending anything. A name with no record is always different.`,
		Example: `  rocketh diff Token 1000000 --contract ERC20 --fields data,value`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fields, err := domain.ParseCompareFields(fieldNames...)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				fields = []domain.CompareField{domain.FieldData}
			}

			name := args[0]
			if contractName == "" {
				contractName = name
			}
			artifact, err := app.Coordinator.Artifact(ctx, contractName)
			if err != nil {
				return err
			}
			ctorArgs, err := abiargs.ParseArgs(artifact.ABI.Constructor.Inputs, args[1:])
			if err != nil {
				return fmt.Errorf("invalid constructor arguments: %w", err)
			}

			sender, err := resolveSender(cmd, app)
			if err != nil {
				return err
			}
			opts, err := txOptions(cmd, sender)
			if err != nil {
				return err
			}

			different, err := app.Coordinator.FetchIfDifferent(ctx, fields, name, opts, contractName, ctorArgs...)
			if err != nil {
				return err
			}

			out := diffOutput{Name: name, Contract: contractName, Different: different}
			for _, f := range fields {
				out.Fields = append(out.Fields, string(f))
			}
			if handled, err := render.Structured(cmd.OutOrStdout(), app.Config.Output, out); handled || err != nil {
				return err
			}

			if different {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning(fmt.Sprintf("%s differs from the recorded deployment", name)))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("%s is unchanged", name)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contractName, "contract", "c", "", "Artifact name (defaults to <name>)")
	cmd.Flags().StringSliceVar(&fieldNames, "fields", nil, "Fields to compare (default data)")
	addTxFlags(cmd)

	return cmd
}
