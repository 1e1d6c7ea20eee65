package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// DefaultPollInterval is how often WaitMined asks for the receipt
const DefaultPollInterval = time.Second

// Client implements usecase.ChainClient on top of ethclient. Unsigned sends go through
// the raw rpc client since ethclient has no eth_sendTransaction.
type Client struct {
	rpc          *rpc.Client
	eth          *ethclient.Client
	pollInterval time.Duration
	log          *slog.Logger

	mu      sync.Mutex
	chainID *big.Int
}

// NewClient wraps an existing rpc connection
func NewClient(rpcClient *rpc.Client, pollInterval time.Duration, log *slog.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		rpc:          rpcClient,
		eth:          ethclient.NewClient(rpcClient),
		pollInterval: pollInterval,
		log:          log,
	}
}

// Connect opens a connection to rpcURL. HTTP endpoints are not contacted until
// the first request.
func Connect(ctx context.Context, rpcURL string, pollInterval time.Duration, log *slog.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewClient(rpcClient, pollInterval, log), nil
}

// Dial connects to rpcURL and checks the node serves expectedChainID.
// An expectedChainID of 0 accepts whatever the node reports.
func Dial(ctx context.Context, rpcURL string, expectedChainID uint64, pollInterval time.Duration, log *slog.Logger) (*Client, error) {
	c, err := Connect(ctx, rpcURL, pollInterval, log)
	if err != nil {
		return nil, err
	}
	if err := c.CheckChainID(ctx, expectedChainID); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// CheckChainID fails when the node serves another chain than expected.
// An expected value of 0 only checks the node answers.
func (c *Client) CheckChainID(ctx context.Context, expected uint64) error {
	networkChainID, err := c.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if expected != 0 && networkChainID.Uint64() != expected {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", expected, networkChainID.Uint64())
	}
	return nil
}

// Close releases the connection
func (c *Client) Close() {
	c.rpc.Close()
}

// ChainID returns the chain id, cached after the first successful call
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	c.chainID = id
	return new(big.Int).Set(id), nil
}

// sendTxArgs is the eth_sendTransaction parameter object
type sendTxArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Nonce    *hexutil.Uint64 `json:"nonce,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
}

func toSendTxArgs(args usecase.TransactionArgs) sendTxArgs {
	out := sendTxArgs{
		From:     args.From,
		To:       args.To,
		GasPrice: (*hexutil.Big)(args.GasPrice),
		Value:    (*hexutil.Big)(args.Value),
		Data:     args.Data,
	}
	if args.Gas != 0 {
		gas := hexutil.Uint64(args.Gas)
		out.Gas = &gas
	}
	if args.Nonce != nil {
		nonce := hexutil.Uint64(*args.Nonce)
		out.Nonce = &nonce
	}
	return out
}

// SendTransaction asks the node to sign and broadcast with the account in args.From
func (c *Client) SendTransaction(ctx context.Context, args usecase.TransactionArgs) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", toSendTxArgs(args)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// SendSignedTransaction broadcasts a locally signed transaction
func (c *Client) SendSignedTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.eth.SendTransaction(ctx, tx)
}

// TransactionByHash returns a transaction and whether it is still pending
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return c.eth.TransactionByHash(ctx, hash)
}

// TransactionReceipt returns ethereum.NotFound while the transaction is pending
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, hash)
}

// WaitMined polls for the receipt of hash until it is available or ctx is done
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		c.log.Debug("transaction not yet mined", "hash", hash.Hex())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// PendingNonceAt returns the next nonce including pending transactions
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.eth.PendingNonceAt(ctx, account)
}

// NonceAt returns the nonce at block, latest when nil
func (c *Client) NonceAt(ctx context.Context, account common.Address, block *big.Int) (uint64, error) {
	return c.eth.NonceAt(ctx, account, block)
}

// SuggestGasPrice returns the node's legacy gas price
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

// EstimateGas estimates the gas of msg
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.eth.EstimateGas(ctx, msg)
}

// CallContract executes msg against block without creating a transaction
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, block)
}

// BalanceAt returns the balance at block, latest when nil
func (c *Client) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, block)
}

// CodeAt returns the runtime code at address
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	return c.eth.CodeAt(ctx, address, nil)
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
