package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// Tx sends a state-changing transaction. With a contract, To and Data come from the
// contract address and the packed method call; without one, opts.To and opts.Data are
// sent as is. A receipt with failing status is returned as *domain.TransactionFailedError.
func (c *Coordinator) Tx(ctx context.Context, opts domain.TxOptions, contract *models.ContractInstance, method string, args ...any) (*types.Receipt, error) {
	if contract != nil {
		data, err := contract.Pack(method, args...)
		if err != nil {
			return nil, err
		}
		to := contract.Address
		opts.To = &to
		opts.Data = data
	}

	hash, err := c.send(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.waitSuccess(ctx, hash)
}

// send dispatches on the sender kind and returns the transaction hash
func (c *Coordinator) send(ctx context.Context, opts domain.TxOptions) (common.Hash, error) {
	if err := opts.From.Validate(); err != nil {
		return common.Hash{}, err
	}

	c.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageBroadcasting,
		Message: fmt.Sprintf("Sending transaction from %s", opts.From.Address().Hex()),
	})

	switch opts.From.Kind() {
	case domain.SenderPrivateKey:
		hash, err := c.sendSigned(ctx, opts)
		if err != nil {
			c.progress.Error(err.Error())
		}
		return hash, err
	default:
		hash, err := c.client.SendTransaction(ctx, TransactionArgs{
			From:     opts.From.Address(),
			To:       opts.To,
			Gas:      opts.Gas,
			GasPrice: opts.GasPrice,
			Value:    opts.Value,
			Nonce:    opts.Nonce,
			Data:     opts.Data,
		})
		if err != nil {
			err = fmt.Errorf("failed to send transaction: %w", err)
			c.progress.Error(err.Error())
			return common.Hash{}, err
		}
		c.log.Debug("transaction sent", "hash", hash.Hex(), "from", opts.From.Address().Hex(), "mode", "node")
		return hash, nil
	}
}

// sendSigned resolves nonce, gas price and gas, signs locally and broadcasts
func (c *Coordinator) sendSigned(ctx context.Context, opts domain.TxOptions) (common.Hash, error) {
	from := opts.From.Address()

	var nonce uint64
	if opts.Nonce != nil {
		nonce = *opts.Nonce
	} else {
		n, err := c.client.PendingNonceAt(ctx, from)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
		}
		nonce = n
	}

	gasPrice := opts.GasPrice
	if gasPrice == nil {
		p, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
		}
		gasPrice = p
	}

	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}

	gas := opts.Gas
	if gas == 0 {
		g, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       opts.To,
			GasPrice: gasPrice,
			Value:    value,
			Data:     opts.Data,
		})
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gas = g
	}

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       opts.To,
		Value:    value,
		Data:     opts.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), opts.From.PrivateKey())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendSignedTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send signed transaction: %w", err)
	}
	c.log.Debug("transaction sent", "hash", signed.Hash().Hex(), "from", from.Hex(), "nonce", nonce, "mode", "raw")
	return signed.Hash(), nil
}

// waitSuccess waits for the receipt and turns a failing status into an error
func (c *Coordinator) waitSuccess(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageWaiting,
		Message: fmt.Sprintf("Waiting for %s", hash.Hex()),
		Spinner: true,
	})

	receipt, err := c.client.WaitMined(ctx, hash)
	if err != nil {
		err = fmt.Errorf("failed to get receipt for %s: %w", hash.Hex(), err)
		c.progress.Error(err.Error())
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		failed := &domain.TransactionFailedError{Receipt: receipt}
		c.progress.Error(failed.Error())
		return receipt, failed
	}
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return receipt, nil
}
