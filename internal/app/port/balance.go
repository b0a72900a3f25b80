package port

import (
	"context"

	"chain_probe/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// BalanceService fetches native balances from the probed node.
type BalanceService interface {
	// GetBalance returns the balance of a single wallet.
	GetBalance(ctx context.Context, address string) (entity.Balance, error)

	// GetBalances fetches every address concurrently. Failed wallets are
	// reported in the second return value instead of failing the whole call.
	GetBalances(ctx context.Context, addresses []string) ([]entity.Balance, []entity.BalanceError)
}

// PriceProvider returns the fiat exchange rate of one Ether.
type PriceProvider interface {
	GetNativePrice(ctx context.Context) (rate decimal.Decimal, currency string, err error)
}
