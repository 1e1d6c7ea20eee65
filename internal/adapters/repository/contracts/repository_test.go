package contracts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wighawag/rocketh-go/internal/adapters/repository/contracts"
	"github.com/wighawag/rocketh-go/internal/domain"
)

const (
	counterABI = `[{"type":"constructor","inputs":[{"name":"initial","type":"uint256"}],"stateMutability":"nonpayable"}]`

	foundryCounter = `{
		"abi": ` + counterABI + `,
		"bytecode": {"object": "0x6080604052"},
		"metadata": {
			"compiler": {"version": "0.8.24+commit.e11b9ed9"},
			"settings": {"compilationTarget": {"src/Counter.sol": "Counter"}}
		}
	}`
	foundryToken = `{
		"abi": [],
		"bytecode": {"object": "0x60806040"},
		"metadata": {"settings": {"compilationTarget": {"src/Token.sol": "Token"}}}
	}`
	foundryOtherToken = `{
		"abi": [],
		"bytecode": {"object": "0x60806041"},
		"metadata": {"settings": {"compilationTarget": {"src/legacy/Token.sol": "Token"}}}
	}`
	foundryInterface = `{
		"abi": [],
		"bytecode": {"object": "0x"},
		"metadata": {"settings": {"compilationTarget": {"src/IToken.sol": "IToken"}}}
	}`
	solcGreeter = `{
		"contractName": "Greeter",
		"abi": [],
		"evm": {"bytecode": {"object": "6080604053"}}
	}`
	hardhatStore = `{
		"contractName": "Store",
		"abi": [],
		"bytecode": "0x6080604054"
	}`
	unlinked = `{
		"abi": [],
		"bytecode": {"object": "0x73__$abcdef$__"},
		"metadata": {"settings": {"compilationTarget": {"src/UsesLib.sol": "UsesLib"}}}
	}`
)

func writeArtifact(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newRepo(t *testing.T) (*contracts.Repository, string) {
	t.Helper()
	root := t.TempDir()
	writeArtifact(t, root, "out/Counter.sol/Counter.json", foundryCounter)
	writeArtifact(t, root, "out/Token.sol/Token.json", foundryToken)
	writeArtifact(t, root, "out/legacy/Token.sol/Token.json", foundryOtherToken)
	writeArtifact(t, root, "out/IToken.sol/IToken.json", foundryInterface)
	writeArtifact(t, root, "out/Greeter.json", solcGreeter)
	writeArtifact(t, root, "out/Store.json", hardhatStore)
	writeArtifact(t, root, "out/UsesLib.sol/UsesLib.json", unlinked)
	writeArtifact(t, root, "out/build-info/abc.json", `{"id":"abc"}`)
	writeArtifact(t, root, "out/notes.txt", "ignored")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contracts.NewRepository(contracts.Options{ProjectRoot: root}, log), root
}

func TestRepositoryContractInfo(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	t.Run("foundry artifact", func(t *testing.T) {
		artifact, err := repo.ContractInfo(ctx, "Counter")
		require.NoError(t, err)
		assert.Equal(t, "Counter", artifact.Name)
		assert.Equal(t, "src/Counter.sol", artifact.Path)
		assert.Equal(t, filepath.Join("out", "Counter.sol", "Counter.json"), artifact.ArtifactPath)
		assert.Equal(t, "0.8.24+commit.e11b9ed9", artifact.CompilerVersion)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, artifact.Bytecode)
		assert.NotNil(t, artifact.ABI.Constructor.Inputs)
	})

	t.Run("solc and hardhat layouts", func(t *testing.T) {
		greeter, err := repo.ContractInfo(ctx, "Greeter")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x53}, greeter.Bytecode)

		store, err := repo.ContractInfo(ctx, "Store")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x54}, store.Bytecode)
	})

	t.Run("ambiguous name needs the source path", func(t *testing.T) {
		_, err := repo.ContractInfo(ctx, "Token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "src/Token.sol:Token")
		assert.Contains(t, err.Error(), "src/legacy/Token.sol:Token")

		artifact, err := repo.ContractInfo(ctx, "src/legacy/Token.sol:Token")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x41}, artifact.Bytecode)
	})

	t.Run("unknown name suggests close matches", func(t *testing.T) {
		_, err := repo.ContractInfo(ctx, "Countr")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)

		var notFound *domain.ContractNotFoundErr
		require.True(t, errors.As(err, &notFound))
		assert.Contains(t, notFound.Suggestions, "Counter")
	})

	t.Run("interfaces and unlinked artifacts are skipped", func(t *testing.T) {
		_, err := repo.ContractInfo(ctx, "IToken")
		assert.ErrorIs(t, err, domain.ErrContractNotFound)

		_, err = repo.ContractInfo(ctx, "UsesLib")
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})
}

func TestRepositoryContractNames(t *testing.T) {
	repo, _ := newRepo(t)
	assert.Equal(t, []string{"Counter", "Greeter", "Store", "Token"}, repo.ContractNames(context.Background()))
}

func TestRepositoryMissingDir(t *testing.T) {
	repo := contracts.NewRepository(contracts.Options{ProjectRoot: t.TempDir(), ArtifactsDir: "artifacts"}, nil)

	_, err := repo.ContractInfo(context.Background(), "Counter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifacts directory not found")
	assert.Empty(t, repo.ContractNames(context.Background()))
}
