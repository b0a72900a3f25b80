package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chain_probe/internal/domain/entity"
	"chain_probe/internal/infrastructure/configloader"
	"chain_probe/internal/pkg/wei"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type countingDetector struct {
	calls     int
	detection entity.ChainDetection
	err       error
}

func (d *countingDetector) Check(context.Context) (entity.ChainDetection, error) {
	d.calls++
	return d.detection, d.err
}

type stubBalances struct {
	single   []string
	got      []string
	balances []entity.Balance
	errs     []entity.BalanceError
	err      error
}

func (s *stubBalances) GetBalance(_ context.Context, address string) (entity.Balance, error) {
	s.single = append(s.single, address)
	if s.err != nil {
		return entity.Balance{}, s.err
	}
	for _, b := range s.balances {
		if b.WalletAddress == address {
			return b, nil
		}
	}
	return entity.Balance{WalletAddress: address}, nil
}

func (s *stubBalances) GetBalances(_ context.Context, addresses []string) ([]entity.Balance, []entity.BalanceError) {
	s.got = addresses
	return s.balances, s.errs
}

func testConfig() *configloader.Config {
	cfg := &configloader.Config{}
	cfg.Cache.ChainTTLMinutes = 5
	cfg.Cache.CleanupIntervalMinutes = 10
	cfg.Display.Decimals = 6
	return cfg
}

func newTestRouter(detector *countingDetector, balances *stubBalances) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	return SetupRouter(Handlers{
		Chain:    NewChainHandler(detector, cfg, nopLogger{}),
		Balances: NewBalanceHandler(balances),
		Convert:  NewConvertHandler(cfg),
	}, zap.NewNop())
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetChainCachesDetection(t *testing.T) {
	require := require.New(t)

	detector := &countingDetector{detection: entity.ChainDetection{Chain: "mainnet", ChainID: 1}}
	router := newTestRouter(detector, &stubBalances{})

	for i := 0; i < 2; i++ {
		w := get(t, router, "/api/v1/chain")
		require.Equal(http.StatusOK, w.Code)
		require.JSONEq(`{"chain":"mainnet","chainId":1}`, w.Body.String())
	}
	require.Equal(1, detector.calls)
}

func TestGetChainUnknownIsSuccess(t *testing.T) {
	router := newTestRouter(&countingDetector{detection: entity.UnknownChain}, &stubBalances{})

	w := get(t, router, "/api/v1/chain")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"chain":"unknown","chainId":0}`, w.Body.String())
}

func TestGetChainTransportError(t *testing.T) {
	detector := &countingDetector{err: errors.New("dial tcp: connection refused")}
	router := newTestRouter(detector, &stubBalances{})

	w := get(t, router, "/api/v1/chain")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "connection refused")

	get(t, router, "/api/v1/chain")
	require.Equal(t, 2, detector.calls, "failures must not be cached")
}

func TestGetBalances(t *testing.T) {
	require := require.New(t)

	addr := "0x1111111111111111111111111111111111111111"
	balances := &stubBalances{balances: []entity.Balance{{
		WalletAddress: addr,
		Amount:        wei.MustNew("1.5", wei.Ether),
		Hex:           "0x14d1120d7b160000",
		DisplayUnit:   "Ether",
		Formatted:     "1.5 Ether",
	}}}
	router := newTestRouter(&countingDetector{}, balances)

	w := get(t, router, "/api/v1/balances?address="+addr)
	require.Equal(http.StatusOK, w.Code)
	require.Equal([]string{addr}, balances.single)
	require.Nil(balances.got)

	var resp APIBalancesResponse
	require.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(resp.Data.Balances, 1)
	require.Equal("1500000000000000000", resp.Data.Balances[0].Amount.BigInt().String())
	require.Contains(w.Body.String(), `"wei":"1500000000000000000"`)
}

func TestGetBalancesMultipleAddresses(t *testing.T) {
	first := "0x1111111111111111111111111111111111111111"
	second := "0x2222222222222222222222222222222222222222"
	balances := &stubBalances{balances: []entity.Balance{{WalletAddress: first}, {WalletAddress: second}}}
	router := newTestRouter(&countingDetector{}, balances)

	w := get(t, router, "/api/v1/balances?address="+first+"&address="+second)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{first, second}, balances.got)
	require.Empty(t, balances.single)
}

func TestGetBalanceSingleAddressFailure(t *testing.T) {
	addr := "0x1111111111111111111111111111111111111111"
	balances := &stubBalances{err: errors.New("eth_getBalance: node down")}
	router := newTestRouter(&countingDetector{}, balances)

	w := get(t, router, "/api/v1/balances?address="+addr)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp APIBalancesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Data.Balances)
	require.Equal(t, []entity.BalanceError{{WalletAddress: addr, Message: "eth_getBalance: node down"}}, resp.ServiceErrors)
}

func TestGetBalancesRejectsBadAddress(t *testing.T) {
	balances := &stubBalances{}
	router := newTestRouter(&countingDetector{}, balances)

	w := get(t, router, "/api/v1/balances?address=0xnope")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Nil(t, balances.got)
	require.Empty(t, balances.single)
}

func TestGetBalancesAllFailed(t *testing.T) {
	balances := &stubBalances{errs: []entity.BalanceError{{WalletAddress: "0x1", Message: "node down"}}}
	router := newTestRouter(&countingDetector{}, balances)

	w := get(t, router, "/api/v1/balances")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), `"balances":[]`)
}

func TestConvert(t *testing.T) {
	router := newTestRouter(&countingDetector{}, &stubBalances{})

	tests := []struct {
		name   string
		target string
		code   int
		result string
	}{
		{"wei to ether", "/api/v1/convert?value=1500000000000000000", http.StatusOK, "1.5"},
		{"exact", "/api/v1/convert?value=1500000000000000000&decimals=5&exact=true", http.StatusOK, "1.50000"},
		{"gwei to wei", "/api/v1/convert?value=2.5&from=gwei&to=wei", http.StatusOK, "2500000000"},
		{"hex input", "/api/v1/convert?value=0xff&to=wei", http.StatusOK, "255"},
		{"rounded", "/api/v1/convert?value=1234567&from=gwei&decimals=3", http.StatusOK, "0.001"},
		{"missing value", "/api/v1/convert", http.StatusBadRequest, ""},
		{"bad unit", "/api/v1/convert?value=1&from=doge", http.StatusBadRequest, ""},
		{"bad number", "/api/v1/convert?value=abc", http.StatusBadRequest, ""},
		{"bad decimals", "/api/v1/convert?value=1&decimals=-1", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.target)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			var conv APIConversion
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
			require.Equal(t, tt.result, conv.Result)
		})
	}
}

func TestUnitsAndMetrics(t *testing.T) {
	router := newTestRouter(&countingDetector{}, &stubBalances{})

	w := get(t, router, "/api/v1/units")
	require.Equal(t, http.StatusOK, w.Code)
	var units []APIUnit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &units))
	require.Len(t, units, 7)
	require.Equal(t, APIUnit{Name: "Ether", Exponent: 18, Multiple: "1000000000000000000"}, units[0])

	w = get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
}
