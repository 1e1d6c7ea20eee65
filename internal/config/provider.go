package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wighawag/rocketh-go/internal/domain/config"
)

const (
	// DefaultDataDir is where deployments are recorded, relative to the project root
	DefaultDataDir = ".rocketh"
	// DefaultArtifactsDir is forge's default out directory
	DefaultArtifactsDir = "out"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Sender:         v.GetString("sender"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Output:         strings.ToLower(v.GetString("output")),
		Timeout:        v.GetDuration("timeout"),
		PollInterval:   v.GetDuration("poll_interval"),
		Build:          v.GetBool("build"),
	}

	switch cfg.Output {
	case config.OutputText, "text", config.OutputJSON, config.OutputYAML:
		if cfg.Output == "text" {
			cfg.Output = config.OutputText
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q (want text, json or yaml)", cfg.Output)
	}

	rockethConfig, err := loadRockethConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load rocketh config: %w", err)
	}
	cfg.RockethConfig = rockethConfig

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	switch {
	case rockethConfig != nil:
		cfg.ConfigSource = RockethFile
	case foundryConfig != nil:
		cfg.ConfigSource = "foundry.toml"
	}

	cfg.DataDir = resolveDir(projectRoot, v.GetString("data_dir"), rockethField(rockethConfig, func(c *config.RockethConfig) string { return c.DataDir }), DefaultDataDir)
	cfg.ArtifactsDir = resolveDir(projectRoot, v.GetString("artifacts"), rockethField(rockethConfig, func(c *config.RockethConfig) string { return c.Artifacts }), foundryOutDir(foundryConfig), DefaultArtifactsDir)
	if rockethConfig != nil && rockethConfig.Build && !v.IsSet("build") {
		cfg.Build = true
	}

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(rockethConfig, foundryConfig).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find rocketh.toml or
// foundry.toml, falling back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range []string{RockethFile, "foundry.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. Flags are bound with
// dashes replaced by underscores so ROCKETH_NON_INTERACTIVE and
// --non-interactive share a key.
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("ROCKETH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("output", config.OutputText)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

func rockethField(c *config.RockethConfig, get func(*config.RockethConfig) string) string {
	if c == nil {
		return ""
	}
	return get(c)
}

// resolveDir returns the first non-empty candidate, made absolute against root
func resolveDir(root string, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if filepath.IsAbs(c) {
			return c
		}
		return filepath.Join(root, c)
	}
	return root
}
