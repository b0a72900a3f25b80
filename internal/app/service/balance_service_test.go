package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chain_probe/internal/domain/entity"
	"chain_probe/internal/infrastructure/configloader"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	richWallet  = "0x1111111111111111111111111111111111111111"
	gweiWallet  = "0x2222222222222222222222222222222222222222"
	emptyWallet = "0x3333333333333333333333333333333333333333"
	downWallet  = "0x4444444444444444444444444444444444444444"
)

// balanceNode answers eth_getBalance from a fixed table keyed by address.
func balanceNode() *fakeTransport {
	balances := map[common.Address]string{
		common.HexToAddress(richWallet):  `"0x14d1120d7b160000"`,
		common.HexToAddress(gweiWallet):  `"0x3b9aca00"`,
		common.HexToAddress(emptyWallet): `"0x0"`,
	}
	return &fakeTransport{respond: func(method string, args []interface{}) (string, error) {
		if method != getBalanceMethod || len(args) != 2 {
			return "", errors.New("unexpected call")
		}
		addr, ok := args[0].(common.Address)
		if !ok {
			return "", errors.New("address argument must be common.Address")
		}
		if raw, ok := balances[addr]; ok {
			return raw, nil
		}
		return "", errors.New("node unavailable")
	}}
}

type fixedPrice struct {
	rate string
	err  error
}

func (p fixedPrice) GetNativePrice(context.Context) (decimal.Decimal, string, error) {
	if p.err != nil {
		return decimal.Decimal{}, "", p.err
	}
	return decimal.RequireFromString(p.rate), "usd", nil
}

type fixedWallets []entity.Wallet

func (w fixedWallets) GetWallets() ([]entity.Wallet, error) { return w, nil }

func testConfig() *configloader.Config {
	cfg := &configloader.Config{}
	cfg.RPCClient.MaxConcurrentRequests = 2
	cfg.Display.Decimals = 6
	cfg.Display.ExchangeDecimals = 2
	return cfg
}

func TestGetBalance(t *testing.T) {
	require := require.New(t)

	transport := balanceNode()
	svc := NewBalanceService(transport, nil, fixedPrice{rate: "2000"}, nopLogger{}, testConfig())

	b, err := svc.GetBalance(context.Background(), richWallet)
	require.NoError(err)
	require.Equal(richWallet, b.WalletAddress)
	require.Equal("1500000000000000000", b.Amount.BigInt().String())
	require.Equal("0x14d1120d7b160000", b.Hex)
	require.Equal("Ether", b.DisplayUnit)
	require.Equal("1.5 Ether", b.Formatted)
	require.Equal("3000.00", b.FiatValue)
	require.Equal("usd", b.FiatCurrency)

	calls := transport.recorded()
	require.Len(calls, 1)
	require.Equal("latest", calls[0].args[1])
}

func TestGetBalanceDisplayUnits(t *testing.T) {
	svc := NewBalanceService(balanceNode(), nil, nil, nopLogger{}, testConfig())

	b, err := svc.GetBalance(context.Background(), gweiWallet)
	require.NoError(t, err)
	require.Equal(t, "Gwei", b.DisplayUnit)
	require.Equal(t, "1 Gwei", b.Formatted)
	require.Empty(t, b.FiatValue)

	b, err = svc.GetBalance(context.Background(), emptyWallet)
	require.NoError(t, err)
	require.Equal(t, "0x0", b.Hex)
	require.Equal(t, "Ether", b.DisplayUnit)
	require.Equal(t, "0 Ether", b.Formatted)
}

func TestGetBalanceInvalidAddress(t *testing.T) {
	transport := balanceNode()
	svc := NewBalanceService(transport, nil, nil, nopLogger{}, testConfig())

	_, err := svc.GetBalance(context.Background(), "0x1234")
	require.ErrorIs(t, err, ErrInvalidAddress)
	require.Empty(t, transport.recorded())
}

func TestGetBalancePriceFailureKeepsBalance(t *testing.T) {
	svc := NewBalanceService(balanceNode(), nil, fixedPrice{err: errors.New("rate limited")}, nopLogger{}, testConfig())

	b, err := svc.GetBalance(context.Background(), richWallet)
	require.NoError(t, err)
	require.Equal(t, "1.5 Ether", b.Formatted)
	require.Empty(t, b.FiatValue)
	require.Empty(t, b.FiatCurrency)
}

func TestGetBalancesKeepsOrderAndReportsFailures(t *testing.T) {
	require := require.New(t)

	svc := NewBalanceService(balanceNode(), nil, fixedPrice{rate: "2000"}, nopLogger{}, testConfig())

	addresses := []string{emptyWallet, downWallet, richWallet, "garbage", gweiWallet}
	balances, errs := svc.GetBalances(context.Background(), addresses)

	got := make([]string, len(balances))
	for i, b := range balances {
		got[i] = b.WalletAddress
	}
	require.Equal([]string{emptyWallet, richWallet, gweiWallet}, got)

	require.Len(errs, 2)
	failed := map[string]string{}
	for _, e := range errs {
		failed[e.WalletAddress] = e.Message
	}
	require.Contains(failed[downWallet], "node unavailable")
	require.True(strings.Contains(failed["garbage"], ErrInvalidAddress.Error()))
}

func TestGetBalancesFallsBackToWallets(t *testing.T) {
	wallets := fixedWallets{{Address: richWallet}, {Address: gweiWallet}}
	svc := NewBalanceService(balanceNode(), wallets, nil, nopLogger{}, testConfig())

	balances, errs := svc.GetBalances(context.Background(), nil)
	require.Empty(t, errs)
	require.Len(t, balances, 2)
	require.Equal(t, richWallet, balances[0].WalletAddress)
}

func TestGetBalancesWithoutWallets(t *testing.T) {
	svc := NewBalanceService(balanceNode(), fixedWallets{}, nil, nopLogger{}, testConfig())

	balances, errs := svc.GetBalances(context.Background(), nil)
	require.Nil(t, balances)
	require.Len(t, errs, 1)
	require.Equal(t, ErrNoWallets.Error(), errs[0].Message)
}
