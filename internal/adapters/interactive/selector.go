package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/domain/models"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompts are disabled
var ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDeployment selects a deployment from a list
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments to select from")
	}

	// If only one match, return it directly
	if len(deployments) == 1 {
		return deployments[0], nil
	}

	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	options := formatDeploymentOptions(deployments)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(deploymentKeys(deployments)),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return deployments[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode confirms without asking.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// formatDeploymentOptions creates display strings for deployment selection
func formatDeploymentOptions(deployments []*models.Deployment) []string {
	options := make([]string, len(deployments))
	for i, dep := range deployments {
		name := color.New(color.FgWhite, color.Bold).Sprint(dep.Name)
		addr := color.New(color.FgBlue).Sprint(dep.Address.Hex())

		if dep.ContractName != "" && dep.ContractName != dep.Name {
			contract := color.New(color.FgYellow).Sprintf("[%s]", dep.ContractName)
			options[i] = fmt.Sprintf("%s %s (%s)", name, contract, addr)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, addr)
		}
	}
	return options
}

// deploymentKeys are the plain strings searched, without color codes
func deploymentKeys(deployments []*models.Deployment) []string {
	keys := make([]string, len(deployments))
	for i, dep := range deployments {
		keys[i] = strings.Join([]string{dep.Name, dep.ContractName, dep.Address.Hex()}, " ")
	}
	return keys
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer          = (*SelectorAdapter)(nil)
)
