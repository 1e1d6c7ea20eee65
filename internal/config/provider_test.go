package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wighawag/rocketh-go/internal/domain/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestViper(t *testing.T, root string, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("network", "", "")
	cmd.Flags().String("sender", "", "")
	cmd.Flags().String("output", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	cmd.Flags().Bool("build", false, "")
	cmd.Flags().Duration("timeout", 5*time.Minute, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestProviderDefaults(t *testing.T) {
	root := t.TempDir()
	cmd := newTestViper(t, root)

	cfg, err := Provider(SetupViper(root, cmd))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultDataDir), cfg.DataDir)
	assert.Equal(t, filepath.Join(root, DefaultArtifactsDir), cfg.ArtifactsDir)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, config.OutputText, cfg.Output)
	assert.Nil(t, cfg.Network)
	assert.Empty(t, cfg.ConfigSource)
	assert.False(t, cfg.NonInteractive)
}

func TestProviderRockethToml(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TEST_SEPOLIA_URL", "https://sepolia.example.org")
	writeFile(t, root, "rocketh.toml", `
artifacts = "artifacts"
data_dir = "deployments-data"
build = true
default_sender = "deployer"

[networks.sepolia]
rpc_url = "${TEST_SEPOLIA_URL}"
chain_id = 11155111

[networks.anvil]
rpc_url = "http://127.0.0.1:8545"

[senders.deployer]
type = "address"
address = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
`)
	writeFile(t, root, "foundry.toml", `
[profile.default]
src = "src"
out = "forge-out"
`)

	cmd := newTestViper(t, root, "--network", "sepolia", "--non-interactive", "--output", "JSON")
	cfg, err := Provider(SetupViper(root, cmd))
	require.NoError(t, err)

	assert.Equal(t, RockethFile, cfg.ConfigSource)
	assert.Equal(t, filepath.Join(root, "artifacts"), cfg.ArtifactsDir)
	assert.Equal(t, filepath.Join(root, "deployments-data"), cfg.DataDir)
	assert.True(t, cfg.Build)
	assert.True(t, cfg.NonInteractive)
	assert.Equal(t, config.OutputJSON, cfg.Output)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, "sepolia", cfg.Network.Name)
	assert.Equal(t, "https://sepolia.example.org", cfg.Network.RPCURL)
	assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
	assert.False(t, cfg.Network.Local)
	require.NotNil(t, cfg.FoundryConfig)
}

func TestProviderFoundryOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "foundry.toml", `
[profile.default]
out = "build"

[rpc_endpoints]
local = "http://localhost:8545"
`)
	cmd := newTestViper(t, root, "--network", "local")
	cfg, err := Provider(SetupViper(root, cmd))
	require.NoError(t, err)

	assert.Equal(t, "foundry.toml", cfg.ConfigSource)
	assert.Equal(t, filepath.Join(root, "build"), cfg.ArtifactsDir)
	require.NotNil(t, cfg.Network)
	assert.True(t, cfg.Network.Local)
}

func TestProviderEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ROCKETH_NON_INTERACTIVE", "true")
	t.Setenv("ROCKETH_OUTPUT", "yaml")

	cfg, err := Provider(SetupViper(root, newTestViper(t, root)))
	require.NoError(t, err)
	assert.True(t, cfg.NonInteractive)
	assert.Equal(t, config.OutputYAML, cfg.Output)
}

func TestProviderErrors(t *testing.T) {
	t.Run("bad output", func(t *testing.T) {
		root := t.TempDir()
		_, err := Provider(SetupViper(root, newTestViper(t, root, "--output", "xml")))
		assert.ErrorContains(t, err, "unsupported output format")
	})

	t.Run("unknown network", func(t *testing.T) {
		root := t.TempDir()
		_, err := Provider(SetupViper(root, newTestViper(t, root, "--network", "mainnet")))
		assert.ErrorContains(t, err, "network 'mainnet' not found")
	})

	t.Run("unset env var in rocketh.toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "rocketh.toml", `
[networks.sepolia]
rpc_url = "${ROCKETH_TEST_SURELY_UNSET_VAR}"
`)
		_, err := Provider(SetupViper(root, newTestViper(t, root)))
		assert.ErrorContains(t, err, "ROCKETH_TEST_SURELY_UNSET_VAR is not set")
	})

	t.Run("unknown key in rocketh.toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "rocketh.toml", `artifact = "out"`)
		_, err := Provider(SetupViper(root, newTestViper(t, root)))
		assert.ErrorContains(t, err, "unknown keys")
	})
}

func TestLoadEnvFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env", "ROCKETH_TEST_DOTENV=from-env\n")
	t.Setenv("ROCKETH_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("ROCKETH_TEST_DOTENV"))

	loadEnvFiles(root)
	assert.Equal(t, "from-env", os.Getenv("ROCKETH_TEST_DOTENV"))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rocketh.toml", "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	got, err := FindProjectRoot()
	require.NoError(t, err)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedGot, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, resolvedRoot, resolvedGot)
}
