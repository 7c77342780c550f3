package backpack

import (
	"context"
	"github.com/shopspring/decimal"
)

// GetBalances returns the balances of the account owning the key pair.
func (b *Backpack) GetBalances(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.getPrivate(ctx, pathCapital, InstructionBalanceQuery, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Balances is GetBalances decoded per asset.
func (b *Backpack) Balances(ctx context.Context) (map[string]Balance, error) {
	result := make(map[string]Balance)
	if err := b.getPrivate(ctx, pathCapital, InstructionBalanceQuery, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SpotBalance returns the total (available, locked and staked) amount of every asset held.
func (b *Backpack) SpotBalance(ctx context.Context) (map[string]decimal.Decimal, error) {
	balances, err := b.Balances(ctx)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]decimal.Decimal, len(balances))
	for asset, balance := range balances {
		total := balance.Total()
		if total.IsZero() {
			continue
		}
		ret[asset] = total
	}
	return ret, nil
}
