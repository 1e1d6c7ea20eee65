package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrMissingCollaborator is returned when a required dependency is nil at setup time
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrUnknownField is returned when a comparison field name is not recognised
	ErrUnknownField = errors.New("unknown comparison field")

	// ErrTransactionFailed is returned when a mined transaction has a failing status
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInvalidSender is returned when a sender can't be parsed or is empty
	ErrInvalidSender = errors.New("invalid sender")

	// ErrContractNotFound is returned when an artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// FieldNotResolvedError is returned when a comparison field has no value on the
// candidate transaction.
type FieldNotResolvedError struct {
	Field CompareField
}

func (e *FieldNotResolvedError) Error() string {
	return fmt.Sprintf("field %s not specified in new transaction, can't compare", e.Field)
}

// TransactionFailedError carries the receipt of a transaction that was mined with a
// failing status.
type TransactionFailedError struct {
	Receipt *types.Receipt
}

func (e *TransactionFailedError) Error() string {
	if e.Receipt == nil {
		return ErrTransactionFailed.Error()
	}
	return fmt.Sprintf("transaction %s failed in block %v (gas used: %d)",
		e.Receipt.TxHash.Hex(), e.Receipt.BlockNumber, e.Receipt.GasUsed)
}

func (e *TransactionFailedError) Unwrap() error {
	return ErrTransactionFailed
}

// ContractNotFoundErr is returned by artifact sources, with close matches when available.
type ContractNotFoundErr struct {
	Name        string
	Suggestions []string
}

func (e *ContractNotFoundErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("contract not found: %s", e.Name)
	}
	return fmt.Sprintf("contract not found: %s (did you mean %v?)", e.Name, e.Suggestions)
}

func (e *ContractNotFoundErr) Unwrap() error {
	return ErrContractNotFound
}
