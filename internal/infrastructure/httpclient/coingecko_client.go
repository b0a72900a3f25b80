package httpclient

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"chain_probe/internal/app/port"
	"chain_probe/internal/infrastructure/configloader"
	"chain_probe/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ port.PriceProvider = (*CoinGeckoClient)(nil)

// ErrPriceUnavailable is returned when the API answers without a rate for
// the configured coin and currency.
var ErrPriceUnavailable = errors.New("price unavailable")

// CoinGeckoClient implements port.PriceProvider using the CoinGecko
// simple/price endpoint. Rates are cached for the configured TTL.
type CoinGeckoClient struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	coinID     string
	vsCurrency string
	timeout    time.Duration
	cache      *cache.Cache
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a client from the coingecko and cache sections
// of cfg.
func NewCoinGeckoClient(cfg *configloader.Config, logger *zap.Logger) *CoinGeckoClient {
	ttl := time.Duration(cfg.Cache.PriceTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &CoinGeckoClient{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(cfg.CoinGecko.BaseURL, "/"),
		apiKey:     cfg.CoinGecko.APIKey,
		coinID:     strings.ToLower(cfg.CoinGecko.CoinID),
		vsCurrency: strings.ToLower(cfg.CoinGecko.VsCurrency),
		timeout:    time.Duration(cfg.CoinGecko.ClientTimeoutSeconds) * time.Second,
		cache:      cache.New(ttl, cleanup),
		logger:     logger.Named("CoinGeckoClient"),
	}
}

func (c *CoinGeckoClient) cacheKey() string {
	return c.coinID + ":" + c.vsCurrency
}

// GetNativePrice returns the price of one coin in the configured currency.
func (c *CoinGeckoClient) GetNativePrice(ctx context.Context) (decimal.Decimal, string, error) {
	if cached, ok := c.cache.Get(c.cacheKey()); ok {
		metrics.PriceRequestsTotal.WithLabelValues("cache", "success").Inc()
		return cached.(decimal.Decimal), c.vsCurrency, nil
	}

	rate, err := c.fetchPrice(ctx)
	if err != nil {
		metrics.PriceRequestsTotal.WithLabelValues("api", "error").Inc()
		return decimal.Decimal{}, "", err
	}
	metrics.PriceRequestsTotal.WithLabelValues("api", "success").Inc()
	c.cache.SetDefault(c.cacheKey(), rate)
	return rate, c.vsCurrency, nil
}

func (c *CoinGeckoClient) fetchPrice(ctx context.Context) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("ids", c.coinID)
	query.Set("vs_currencies", c.vsCurrency)
	requestURL := c.baseURL + "/simple/price?" + query.Encode()

	c.logger.Debug("Requesting price from CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
			return decimal.Decimal{}, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return decimal.Decimal{}, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return decimal.Decimal{}, fmt.Errorf("CoinGecko API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	return parseSimplePrice(rawBody, c.coinID, c.vsCurrency)
}

// parseSimplePrice extracts body[coinID][currency] without going through
// float64.
func parseSimplePrice(body []byte, coinID, currency string) (decimal.Decimal, error) {
	var prices map[string]map[string]stdjson.Number
	if err := json.Unmarshal(body, &prices); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}
	raw, ok := prices[coinID][currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s in %s", ErrPriceUnavailable, coinID, currency)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q for %s: %w", raw.String(), coinID, err)
	}
	return rate, nil
}
