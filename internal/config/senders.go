package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/config"
)

// SenderFlags are the sender overrides given on the command line
type SenderFlags struct {
	Name       string // --sender, a [senders.<name>] entry
	From       string // --from, an address signed for by the node
	PrivateKey string // --private-key
}

// ResolveSender turns command line flags, or the configured default sender,
// into a domain sender. An explicit private key wins over an address, which wins
// over a named sender. A zero sender and no error are returned when nothing is
// configured.
func ResolveSender(cfg *config.RuntimeConfig, flags SenderFlags) (domain.Sender, error) {
	if flags.PrivateKey != "" {
		key, err := expandEnv(flags.PrivateKey)
		if err != nil {
			return domain.Sender{}, fmt.Errorf("--private-key: %w", err)
		}
		return domain.KeySender(key)
	}
	if flags.From != "" {
		return addressSender(flags.From)
	}

	name := flags.Name
	if name == "" {
		name = cfg.Sender
	}
	if name == "" && cfg.RockethConfig != nil {
		name = cfg.RockethConfig.DefaultSender
	}
	if name == "" {
		return domain.Sender{}, nil
	}

	var senders map[string]config.SenderConfig
	if cfg.RockethConfig != nil {
		senders = cfg.RockethConfig.Senders
	}
	sc, ok := senders[name]
	if !ok {
		return domain.Sender{}, fmt.Errorf("%w: sender '%s' not configured, available: [%s]",
			domain.ErrInvalidSender, name, strings.Join(senderNames(senders), ", "))
	}
	return senderFromConfig(name, sc)
}

func senderFromConfig(name string, sc config.SenderConfig) (domain.Sender, error) {
	switch sc.Type {
	case config.SenderTypePrivateKey:
		if sc.PrivateKey == "" {
			return domain.Sender{}, fmt.Errorf("%w: sender '%s' has no private_key", domain.ErrInvalidSender, name)
		}
		sender, err := domain.KeySender(sc.PrivateKey)
		if err != nil {
			return domain.Sender{}, fmt.Errorf("sender '%s': %w", name, err)
		}
		if sc.Address != "" && !strings.EqualFold(sender.Address().Hex(), sc.Address) {
			return domain.Sender{}, fmt.Errorf("%w: sender '%s' address %s does not match its key (%s)",
				domain.ErrInvalidSender, name, sc.Address, sender.Address().Hex())
		}
		return sender, nil
	case config.SenderTypeAddress, "":
		if sc.Address == "" {
			return domain.Sender{}, fmt.Errorf("%w: sender '%s' has no address", domain.ErrInvalidSender, name)
		}
		sender, err := addressSender(sc.Address)
		if err != nil {
			return domain.Sender{}, fmt.Errorf("sender '%s': %w", name, err)
		}
		return sender, nil
	default:
		return domain.Sender{}, fmt.Errorf("%w: sender '%s' has unknown type %q", domain.ErrInvalidSender, name, sc.Type)
	}
}

func addressSender(raw string) (domain.Sender, error) {
	if !common.IsHexAddress(raw) {
		return domain.Sender{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	return domain.AddressSender(common.HexToAddress(raw)), nil
}

func senderNames(senders map[string]config.SenderConfig) []string {
	names := make([]string, 0, len(senders))
	for name := range senders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
