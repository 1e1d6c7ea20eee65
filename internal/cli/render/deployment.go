package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeployment renders detailed deployment information. hasCode is nil when
// the chain was not checked.
func (r *DeploymentRenderer) RenderDeployment(deployment *models.Deployment, hasCode *bool) error {
	// Header
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", deployment.Name)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	// Basic Info
	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", color.New(color.FgYellow).Sprint(deployment.ContractName))
	fmt.Fprintf(r.out, "  Address: %s\n", deployment.Address.Hex())
	if deployment.ChainID != 0 {
		fmt.Fprintf(r.out, "  Chain ID: %d\n", deployment.ChainID)
	}
	if hasCode != nil {
		status := color.New(color.FgGreen).Sprint("present")
		if !*hasCode {
			status = color.New(color.FgRed).Sprint("missing")
		}
		fmt.Fprintf(r.out, "  Code: %s\n", status)
	}

	// Transaction Info
	fmt.Fprintln(r.out, "\nTransaction:")
	fmt.Fprintf(r.out, "  Hash: %s\n", deployment.TransactionHash.Hex())
	if !deployment.CreatedAt.IsZero() {
		fmt.Fprintf(r.out, "  Recorded: %s\n", deployment.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	if len(deployment.Args) > 0 {
		fmt.Fprintln(r.out, "\nConstructor Arguments:")
		for i, arg := range deployment.Args {
			fmt.Fprintf(r.out, "  [%d] %s\n", i, abi.FormatValue(arg))
		}
	}

	// Artifact Info
	if deployment.ArtifactPath != "" || deployment.BytecodeHash != "" {
		fmt.Fprintln(r.out, "\nArtifact:")
		if deployment.ArtifactPath != "" {
			fmt.Fprintf(r.out, "  Path: %s\n", deployment.ArtifactPath)
		}
		if deployment.BytecodeHash != "" {
			fmt.Fprintf(r.out, "  Bytecode Hash: %s\n", deployment.BytecodeHash)
		}
	}

	return nil
}
