package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// Color styles for table format
var (
	chainHeader     = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold = color.New(color.BgCyan, color.FgBlack, color.Bold)
	nameStyle       = color.New(color.FgGreen, color.Bold)
	contractStyle   = color.New(color.FgYellow)
	addressStyle    = color.New(color.FgWhite)
	timestampStyle  = color.New(color.Faint)
)

// DeploymentsRenderer renders deployment lists as a table
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders the deployments of one network, in registry order
func (r *DeploymentsRenderer) RenderDeploymentList(network *config.Network, deployments []*models.Deployment) error {
	if len(deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	if network != nil {
		label := fmt.Sprintf(" ⛓ %-10s", "network:")
		value := network.Name
		if network.ChainID != 0 {
			value = fmt.Sprintf("%s (%d)", network.Name, network.ChainID)
		}
		fmt.Fprintf(r.out, "%s%s\n\n", chainHeader.Sprint(label), chainHeaderBold.Sprintf(" %-30s", value))
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	t.Style().Format.Header = text.FormatUpper
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
		{Number: 5, Align: text.AlignLeft},
	})

	t.AppendHeader(table.Row{"Name", "Contract", "Address", "Transaction", "Deployed At"})
	for _, dep := range deployments {
		contract := dep.ContractName
		if contract == dep.Name {
			contract = ""
		}
		created := "-"
		if !dep.CreatedAt.IsZero() {
			created = dep.CreatedAt.Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{
			nameStyle.Sprint(dep.Name),
			contractStyle.Sprint(contract),
			addressStyle.Sprint(dep.Address.Hex()),
			ShortHash(dep.TransactionHash),
			timestampStyle.Sprint(created),
		})
	}
	t.Render()

	fmt.Fprintf(r.out, "\nTotal deployments: %d\n", len(deployments))
	return nil
}
