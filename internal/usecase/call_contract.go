package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// Call invokes a read-only method and returns its decoded outputs
func (c *Coordinator) Call(ctx context.Context, contract *models.ContractInstance, method string, args []any, opts ...domain.CallOption) ([]any, error) {
	msg, o, err := callMsg(contract, method, args, opts)
	if err != nil {
		return nil, err
	}

	out, err := c.client.CallContract(ctx, msg, o.Block)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s failed: %w", contract.Name, method, err)
	}
	return contract.Unpack(method, out)
}

// EstimateGas estimates the gas a method call would use
func (c *Coordinator) EstimateGas(ctx context.Context, contract *models.ContractInstance, method string, args []any, opts ...domain.CallOption) (uint64, error) {
	msg, _, err := callMsg(contract, method, args, opts)
	if err != nil {
		return 0, err
	}

	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("gas estimation for %s.%s failed: %w", contract.Name, method, err)
	}
	return gas, nil
}

func callMsg(contract *models.ContractInstance, method string, args []any, opts []domain.CallOption) (ethereum.CallMsg, domain.CallOptions, error) {
	if contract == nil {
		return ethereum.CallMsg{}, domain.CallOptions{}, fmt.Errorf("contract is required")
	}
	data, err := contract.Pack(method, args...)
	if err != nil {
		return ethereum.CallMsg{}, domain.CallOptions{}, err
	}

	o := domain.NewCallOptions(opts...)
	to := contract.Address
	return ethereum.CallMsg{
		From:  o.From,
		To:    &to,
		Gas:   o.Gas,
		Value: o.Value,
		Data:  data,
	}, o, nil
}
