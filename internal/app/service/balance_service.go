package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"chain_probe/internal/app/port"
	"chain_probe/internal/domain/entity"
	"chain_probe/internal/infrastructure/configloader"
	"chain_probe/internal/pkg/wei"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const getBalanceMethod = "eth_getBalance"

var _ port.BalanceService = (*BalanceServiceImpl)(nil)

var (
	// ErrInvalidAddress is returned for strings that are not 20-byte hex addresses.
	ErrInvalidAddress = errors.New("invalid wallet address")
	// ErrNoWallets is returned when no address was given and the wallet file is empty.
	ErrNoWallets = errors.New("no wallets to query")
)

// BalanceServiceImpl implements port.BalanceService.
type BalanceServiceImpl struct {
	transport      port.Transport
	walletProvider port.WalletProvider
	priceProvider  port.PriceProvider
	logger         port.Logger
	limiter        *rate.Limiter
	maxConcurrent  int
	display        configloader.DisplayConfig
}

// NewBalanceService creates a balance service. walletProvider and
// priceProvider may be nil; without a price provider no fiat value is set.
func NewBalanceService(
	transport port.Transport,
	walletProvider port.WalletProvider,
	priceProvider port.PriceProvider,
	logger port.Logger,
	cfg *configloader.Config,
) *BalanceServiceImpl {
	maxConcurrent := cfg.RPCClient.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	limit := rate.Inf
	if cfg.RPCClient.RateLimit > 0 {
		limit = rate.Limit(cfg.RPCClient.RateLimit)
	}
	burst := cfg.RPCClient.BurstLimit
	if burst <= 0 {
		burst = 1
	}
	return &BalanceServiceImpl{
		transport:      transport,
		walletProvider: walletProvider,
		priceProvider:  priceProvider,
		logger:         logger,
		limiter:        rate.NewLimiter(limit, burst),
		maxConcurrent:  maxConcurrent,
		display:        cfg.Display,
	}
}

type fiatRate struct {
	rate     decimal.Decimal
	currency string
}

// GetBalance returns the balance of a single wallet.
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, address string) (entity.Balance, error) {
	amount, err := s.fetchBalance(ctx, address)
	if err != nil {
		return entity.Balance{}, err
	}
	return s.describe(address, amount, s.lookupRate(ctx)), nil
}

// GetBalances fetches every address concurrently. An empty list falls back to
// the wallet provider. Results keep the order of addresses; failures are
// reported per wallet.
func (s *BalanceServiceImpl) GetBalances(ctx context.Context, addresses []string) ([]entity.Balance, []entity.BalanceError) {
	if len(addresses) == 0 {
		var err error
		addresses, err = s.trackedAddresses()
		if err != nil {
			return nil, []entity.BalanceError{{Message: err.Error()}}
		}
	}

	fiat := s.lookupRate(ctx)

	var (
		amounts = make([]*wei.Value, len(addresses))
		errs    []entity.BalanceError
		errMu   sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, addr := range addresses {
		g.Go(func() error {
			amount, err := s.fetchBalance(gctx, addr)
			if err != nil {
				s.logger.Warn("Failed to fetch balance", "address", addr, "error", err)
				errMu.Lock()
				errs = append(errs, entity.BalanceError{WalletAddress: addr, Message: err.Error()})
				errMu.Unlock()
				return nil
			}
			amounts[i] = &amount
			return nil
		})
	}
	_ = g.Wait()

	balances := make([]entity.Balance, 0, len(addresses))
	for i, amount := range amounts {
		if amount == nil {
			continue
		}
		balances = append(balances, s.describe(addresses[i], *amount, fiat))
	}

	s.logger.Info("Fetched balances", "requested", len(addresses), "succeeded", len(balances), "failed", len(errs))
	return balances, errs
}

func (s *BalanceServiceImpl) trackedAddresses() ([]string, error) {
	if s.walletProvider == nil {
		return nil, ErrNoWallets
	}
	wallets, err := s.walletProvider.GetWallets()
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}
	if len(wallets) == 0 {
		return nil, ErrNoWallets
	}
	addresses := make([]string, len(wallets))
	for i, w := range wallets {
		addresses[i] = w.Address
	}
	return addresses, nil
}

func (s *BalanceServiceImpl) fetchBalance(ctx context.Context, address string) (wei.Value, error) {
	if !common.IsHexAddress(address) {
		return wei.Value{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return wei.Value{}, err
	}

	var result hexutil.Big
	if err := s.transport.CallContext(ctx, &result, getBalanceMethod, common.HexToAddress(address), "latest"); err != nil {
		return wei.Value{}, fmt.Errorf("%s %s: %w", getBalanceMethod, address, err)
	}
	return wei.FromBig((*big.Int)(&result)), nil
}

// lookupRate returns nil when prices are disabled or unavailable; balances
// are still reported without a fiat value.
func (s *BalanceServiceImpl) lookupRate(ctx context.Context) *fiatRate {
	if s.priceProvider == nil {
		return nil
	}
	r, currency, err := s.priceProvider.GetNativePrice(ctx)
	if err != nil {
		s.logger.Warn("Exchange rate unavailable, skipping fiat values", "error", err)
		return nil
	}
	return &fiatRate{rate: r, currency: currency}
}

func (s *BalanceServiceImpl) describe(address string, amount wei.Value, fiat *fiatRate) entity.Balance {
	unit := amount.SelectDisplayUnit(s.display.PrecisionDigits)
	b := entity.Balance{
		WalletAddress: address,
		Amount:        amount,
		Hex:           amount.ToHex(),
		DisplayUnit:   unit.Name(),
		Formatted:     amount.Format(unit, s.display.Decimals, wei.WithUnitSuffix()),
	}
	if fiat != nil {
		b.FiatValue = amount.ExchangeValue(fiat.rate, s.display.ExchangeDecimals)
		b.FiatCurrency = fiat.currency
	}
	return b
}
