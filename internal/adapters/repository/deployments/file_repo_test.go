package deployments_test

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wighawag/rocketh-go/internal/adapters/repository/deployments"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("register and retrieve deployment", func(t *testing.T) {
		tmpDir := t.TempDir()
		repo, err := deployments.NewFileRepository(tmpDir, "anvil")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "deployments", "anvil", "deployments.json"), repo.Path())

		dep := &models.Deployment{
			ContractName:    "Counter",
			ChainID:         31337,
			Address:         common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
			TransactionHash: common.HexToHash("0x01"),
			Args:            []any{big.NewInt(42)},
			ABI:             json.RawMessage(`[]`),
			CreatedAt:       time.Now().UTC(),
		}
		require.NoError(t, repo.RegisterDeployment(ctx, "Counter", dep))

		got, err := repo.Deployment(ctx, "Counter")
		require.NoError(t, err)
		assert.Equal(t, "Counter", got.Name)
		assert.Equal(t, dep.Address, got.Address)
		assert.Equal(t, dep.TransactionHash, got.TransactionHash)

		// Returned records are copies
		got.Address = common.Address{}
		again, err := repo.Deployment(ctx, "Counter")
		require.NoError(t, err)
		assert.Equal(t, dep.Address, again.Address)
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir(), "anvil")
		require.NoError(t, err)

		_, err = repo.Deployment(ctx, "Token")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("re-registering replaces the record", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir(), "anvil")
		require.NoError(t, err)

		require.NoError(t, repo.RegisterDeployment(ctx, "Counter", &models.Deployment{
			Address: common.HexToAddress("0x01"),
		}))
		require.NoError(t, repo.RegisterDeployment(ctx, "Counter", &models.Deployment{
			Address: common.HexToAddress("0x02"),
		}))

		all, err := repo.ListDeployments(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, common.HexToAddress("0x02"), all[0].Address)
	})

	t.Run("persists across instances", func(t *testing.T) {
		tmpDir := t.TempDir()
		repo, err := deployments.NewFileRepository(tmpDir, "sepolia")
		require.NoError(t, err)

		huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
		require.True(t, ok)
		require.NoError(t, repo.RegisterDeployment(ctx, "Token", &models.Deployment{
			ContractName: "ERC20",
			ChainID:      11155111,
			Address:      common.HexToAddress("0x03"),
			Args:         []any{"Token", huge},
		}))

		reopened, err := deployments.NewFileRepository(tmpDir, "sepolia")
		require.NoError(t, err)
		got, err := reopened.Deployment(ctx, "Token")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), got.ChainID)
		require.Len(t, got.Args, 2)
		assert.Equal(t, "Token", got.Args[0])
		assert.Equal(t, json.Number(huge.String()), got.Args[1])

		_, err = os.Stat(filepath.Join(tmpDir, "deployments", "sepolia", "deployments.json.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("networks are isolated", func(t *testing.T) {
		tmpDir := t.TempDir()
		anvil, err := deployments.NewFileRepository(tmpDir, "anvil")
		require.NoError(t, err)
		require.NoError(t, anvil.RegisterDeployment(ctx, "Counter", &models.Deployment{}))

		sepolia, err := deployments.NewFileRepository(tmpDir, "sepolia")
		require.NoError(t, err)
		_, err = sepolia.Deployment(ctx, "Counter")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list is ordered by creation", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir(), "anvil")
		require.NoError(t, err)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.RegisterDeployment(ctx, "B", &models.Deployment{CreatedAt: base.Add(time.Hour)}))
		require.NoError(t, repo.RegisterDeployment(ctx, "A", &models.Deployment{CreatedAt: base.Add(2 * time.Hour)}))
		require.NoError(t, repo.RegisterDeployment(ctx, "C", &models.Deployment{CreatedAt: base}))

		all, err := repo.ListDeployments(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(all))
		for _, dep := range all {
			names = append(names, dep.Name)
		}
		assert.Equal(t, []string{"C", "B", "A"}, names)
	})

	t.Run("corrupt file fails to load", func(t *testing.T) {
		tmpDir := t.TempDir()
		dir := filepath.Join(tmpDir, "deployments", "anvil")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "deployments.json"), []byte("{not json"), 0644))

		_, err := deployments.NewFileRepository(tmpDir, "anvil")
		assert.Error(t, err)
	})

	t.Run("null entry fails to load", func(t *testing.T) {
		tmpDir := t.TempDir()
		dir := filepath.Join(tmpDir, "deployments", "anvil")
		require.NoError(t, os.MkdirAll(dir, 0755))
		registry := `{"Counter": {"address": "0x0000000000000000000000000000000000000001"}, "Ghost": null}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "deployments.json"), []byte(registry), 0644))

		var err error
		require.NotPanics(t, func() {
			_, err = deployments.NewFileRepository(tmpDir, "anvil")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Ghost")
	})

	t.Run("nil record is rejected", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir(), "anvil")
		require.NoError(t, err)
		assert.Error(t, repo.RegisterDeployment(ctx, "Counter", nil))

		_, err = repo.Deployment(ctx, "Counter")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir(), "anvil")
		require.NoError(t, err)
		assert.Error(t, repo.RegisterDeployment(ctx, "", &models.Deployment{}))
	})
}
