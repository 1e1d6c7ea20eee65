package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxOptions are the per-call transaction settings. Zero or nil fields are resolved
// from the chain when needed.
type TxOptions struct {
	From     Sender
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Nonce    *uint64

	// Only used for raw sends without a contract
	To   *common.Address
	Data []byte
}

// CallOptions configure read-only calls and gas estimation
type CallOptions struct {
	From  common.Address
	Block *big.Int
	Value *big.Int
	Gas   uint64
}

// CallOption mutates CallOptions
type CallOption func(*CallOptions)

// WithFrom sets the caller address
func WithFrom(from common.Address) CallOption {
	return func(o *CallOptions) { o.From = from }
}

// WithBlock pins the call to a block number; nil means latest
func WithBlock(block *big.Int) CallOption {
	return func(o *CallOptions) { o.Block = block }
}

// WithValue attaches value to the call
func WithValue(value *big.Int) CallOption {
	return func(o *CallOptions) { o.Value = value }
}

// WithGas caps the gas of the call
func WithGas(gas uint64) CallOption {
	return func(o *CallOptions) { o.Gas = gas }
}

// NewCallOptions applies opts over the defaults
func NewCallOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Uint64Ptr is a helper for optional nonces
func Uint64Ptr(v uint64) *uint64 {
	return &v
}
