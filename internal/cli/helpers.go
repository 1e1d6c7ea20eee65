package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	abiargs "github.com/wighawag/rocketh-go/internal/adapters/abi"
	"github.com/wighawag/rocketh-go/internal/app"
	"github.com/wighawag/rocketh-go/internal/config"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// ErrCancelled is returned when the user declines a broadcast
var ErrCancelled = errors.New("cancelled by user")

// addTxFlags registers the transaction override flags
func addTxFlags(cmd *cobra.Command) {
	cmd.Flags().String("value", "", "Value to send, e.g. 1ether, 20gwei or a wei amount")
	cmd.Flags().Uint64("gas", 0, "Gas limit (estimated when omitted)")
	cmd.Flags().String("gas-price", "", "Gas price, e.g. 2gwei (queried when omitted)")
	cmd.Flags().Uint64("nonce", 0, "Nonce (pending nonce when omitted)")
}

// txOptions builds transaction options from the tx flags and the resolved sender
func txOptions(cmd *cobra.Command, sender domain.Sender) (domain.TxOptions, error) {
	opts := domain.TxOptions{From: sender}
	flags := cmd.Flags()

	if raw, _ := flags.GetString("value"); raw != "" {
		value, err := abiargs.ParseAmount(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid --value: %w", err)
		}
		opts.Value = value
	}
	if raw, _ := flags.GetString("gas-price"); raw != "" {
		price, err := abiargs.ParseAmount(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid --gas-price: %w", err)
		}
		opts.GasPrice = price
	}
	opts.Gas, _ = flags.GetUint64("gas")
	if flags.Changed("nonce") {
		nonce, _ := flags.GetUint64("nonce")
		opts.Nonce = domain.Uint64Ptr(nonce)
	}
	return opts, nil
}

// resolveSender reads the sender flags, falling back to the configured default sender
func resolveSender(cmd *cobra.Command, a *app.App) (domain.Sender, error) {
	from, _ := cmd.Flags().GetString("from")
	key, _ := cmd.Flags().GetString("private-key")
	return config.ResolveSender(a.Config, config.SenderFlags{
		Name:       a.Config.Sender,
		From:       from,
		PrivateKey: key,
	})
}

// requireSender is resolveSender for commands that broadcast
func requireSender(cmd *cobra.Command, a *app.App) (domain.Sender, error) {
	sender, err := resolveSender(cmd, a)
	if err != nil {
		return sender, err
	}
	if sender.IsZero() {
		return sender, fmt.Errorf("%w: no sender, use --sender, --from, --private-key or set default_sender in rocketh.toml", domain.ErrInvalidSender)
	}
	return sender, nil
}

// confirmBroadcast checks the node serves the configured chain and, on non-local
// networks, asks before sending anything.
func confirmBroadcast(ctx context.Context, a *app.App, action string) error {
	if err := a.Client.CheckChainID(ctx, a.Config.Network.ChainID); err != nil {
		return err
	}
	return confirmRemote(ctx, a, action)
}

// confirmRemote asks for confirmation unless the network is local
func confirmRemote(ctx context.Context, a *app.App, action string) error {
	network := a.Config.Network
	if network.Local {
		return nil
	}

	chainID, err := a.Client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	ok, err := a.Confirmer.Confirm(ctx, fmt.Sprintf("%s on %s (chain %s)", action, network.Name, chainID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// contractHandle resolves ref to a contract instance. ref is a deployment name, or an
// address combined with --contract naming the artifact that provides the ABI.
func contractHandle(ctx context.Context, a *app.App, ref, contractName string) (*models.ContractInstance, error) {
	if common.IsHexAddress(ref) {
		if contractName == "" {
			return nil, fmt.Errorf("--contract is required when targeting an address")
		}
		artifact, err := a.Coordinator.Artifact(ctx, contractName)
		if err != nil {
			return nil, err
		}
		return a.Coordinator.InstantiateContract(contractName, artifact.ABI, common.HexToAddress(ref)), nil
	}

	instance, err := a.Coordinator.GetDeployedContract(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no deployment named %q on %s", ref, a.Config.Network.Name)
	}
	return instance, err
}

// methodArgs parses raw CLI arguments against the inputs of method
func methodArgs(instance *models.ContractInstance, method string, raw []string) ([]any, error) {
	m, ok := instance.ABI.Methods[method]
	if !ok {
		names := lo.Keys(instance.ABI.Methods)
		sort.Strings(names)
		return nil, fmt.Errorf("method %s not found on %s, available: %s", method, instance.Name, strings.Join(names, ", "))
	}
	return abiargs.ParseArgs(m.Inputs, raw)
}

// resolveAccount accepts an address or a deployment name
func resolveAccount(ctx context.Context, a *app.App, ref string) (common.Address, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	dep, err := a.Coordinator.Deployment(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, fmt.Errorf("%q is neither an address nor a deployment name", ref)
		}
		return common.Address{}, err
	}
	return dep.Address, nil
}
