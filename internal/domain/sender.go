package domain

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SenderKind tells how a transaction gets signed
type SenderKind int

const (
	// SenderNone is the zero value, not usable for sending
	SenderNone SenderKind = iota
	// SenderAddress lets the node sign (unlocked or wallet-backed account)
	SenderAddress
	// SenderPrivateKey signs locally with a raw key
	SenderPrivateKey
)

func (k SenderKind) String() string {
	switch k {
	case SenderAddress:
		return "address"
	case SenderPrivateKey:
		return "private-key"
	default:
		return "none"
	}
}

// Sender identifies who sends a transaction. Build it with AddressSender or KeySender.
type Sender struct {
	kind    SenderKind
	address common.Address
	key     *ecdsa.PrivateKey
}

// AddressSender returns a sender whose transactions are signed by the client.
func AddressSender(address common.Address) Sender {
	return Sender{kind: SenderAddress, address: address}
}

// KeySender parses a hex private key (with or without 0x) into a locally signing sender.
func KeySender(hexKey string) (Sender, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return Sender{}, fmt.Errorf("%w: invalid private key: %v", ErrInvalidSender, err)
	}
	return PrivateKeySender(key), nil
}

// PrivateKeySender wraps an already parsed key.
func PrivateKeySender(key *ecdsa.PrivateKey) Sender {
	return Sender{
		kind:    SenderPrivateKey,
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}
}

// Kind returns the signing mode
func (s Sender) Kind() SenderKind { return s.kind }

// Address returns the sending account, derived from the key for key senders.
func (s Sender) Address() common.Address { return s.address }

// PrivateKey returns the key for SenderPrivateKey, nil otherwise.
func (s Sender) PrivateKey() *ecdsa.PrivateKey { return s.key }

// IsZero reports whether no sender was configured
func (s Sender) IsZero() bool { return s.kind == SenderNone }

// Validate returns ErrInvalidSender when the sender can't be used.
func (s Sender) Validate() error {
	switch s.kind {
	case SenderAddress:
		if s.address == (common.Address{}) {
			return fmt.Errorf("%w: zero address", ErrInvalidSender)
		}
	case SenderPrivateKey:
		if s.key == nil {
			return fmt.Errorf("%w: missing private key", ErrInvalidSender)
		}
	default:
		return fmt.Errorf("%w: no sender configured", ErrInvalidSender)
	}
	return nil
}

func (s Sender) String() string {
	if s.kind == SenderNone {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s)", s.address.Hex(), s.kind)
}
