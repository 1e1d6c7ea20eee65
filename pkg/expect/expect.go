// Package expect holds assertions for Go tests that drive contracts on a chain.
package expect

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/wighawag/rocketh-go/internal/domain"
)

// revertCode is the JSON-RPC error code nodes use for execution reverted
const revertCode = 3

var throwMarkers = []string{"revert", "invalid opcode", "invalid jump", "out of gas"}

// IsThrow reports whether err is the failure of a transaction or call on chain
func IsThrow(err error) bool {
	if err == nil {
		return false
	}
	var failed *domain.TransactionFailedError
	if errors.As(err, &failed) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertCode {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range throwMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Throw asserts that err is a revert, a failed transaction or an out-of-gas error.
func Throw(t assert.TestingT, err error, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if err == nil {
		return assert.Fail(t, "expected a throw, got no error", msgAndArgs...)
	}
	if !IsThrow(err) {
		return assert.Fail(t, "expected a throw, got: "+err.Error(), msgAndArgs...)
	}
	return true
}

// ThrowFunc runs fn and asserts on the error it returns
func ThrowFunc(t assert.TestingT, fn func() error, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return Throw(t, fn(), msgAndArgs...)
}
