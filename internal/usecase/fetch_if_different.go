package usecase

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain"
)

// FetchIfDifferent reports whether deploying contractName with opts and args under name
// would produce a transaction that differs from the recorded one on any of fields.
//
// A name with no record is always different. When the recorded transaction can't be
// fetched (pruned node, RPC failure) the answer is false, so nothing gets redeployed
// on missing history.
func (c *Coordinator) FetchIfDifferent(ctx context.Context, fields []domain.CompareField, name string, opts domain.TxOptions, contractName string, args ...any) (bool, error) {
	dep, err := c.lookupDeployment(ctx, name)
	if err != nil {
		return false, err
	}
	if dep == nil {
		return true, nil
	}

	prior, _, err := c.client.TransactionByHash(ctx, dep.TransactionHash)
	if err != nil || prior == nil {
		c.log.Warn("previous deployment transaction unavailable, assuming no difference",
			"name", name, "tx", dep.TransactionHash.Hex(), "error", err)
		return false, nil
	}

	candidate := candidateTx{opts: opts}
	if domain.NeedsPayload(fields) {
		artifact, err := c.artifacts.ContractInfo(ctx, contractName)
		if err != nil {
			return false, err
		}
		data, err := artifact.CreationData(args...)
		if err != nil {
			return false, err
		}
		candidate.data = data
	}

	for _, field := range fields {
		next, ok := candidate.value(field)
		if !ok {
			return false, &domain.FieldNotResolvedError{Field: field}
		}
		if !equalField(next, priorValue(prior, field)) {
			c.log.Debug("deployment differs", "name", name, "field", field)
			return true, nil
		}
	}
	return false, nil
}

// candidateTx resolves field values of the transaction a deploy would send
type candidateTx struct {
	opts domain.TxOptions
	data []byte
}

func (t candidateTx) value(field domain.CompareField) (any, bool) {
	switch field {
	case domain.FieldData, domain.FieldInput:
		return t.data, t.data != nil
	case domain.FieldGas:
		return t.opts.Gas, t.opts.Gas != 0
	case domain.FieldGasPrice:
		return t.opts.GasPrice, t.opts.GasPrice != nil
	case domain.FieldValue:
		return t.opts.Value, t.opts.Value != nil
	case domain.FieldFrom:
		return t.opts.From.Address(), !t.opts.From.IsZero()
	default:
		return nil, false
	}
}

func priorValue(tx *types.Transaction, field domain.CompareField) any {
	switch field {
	case domain.FieldData, domain.FieldInput:
		return tx.Data()
	case domain.FieldGas:
		return tx.Gas()
	case domain.FieldGasPrice:
		return tx.GasPrice()
	case domain.FieldValue:
		return tx.Value()
	case domain.FieldFrom:
		from, err := senderOf(tx)
		if err != nil {
			return nil
		}
		return from
	default:
		return nil
	}
}

// senderOf recovers the signer of a mined transaction
func senderOf(tx *types.Transaction) (common.Address, error) {
	if !tx.Protected() {
		return types.Sender(types.HomesteadSigner{}, tx)
	}
	return types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
}

func equalField(a, b any) bool {
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && y != nil && x.Cmp(y) == 0
	default:
		return a == b
	}
}
