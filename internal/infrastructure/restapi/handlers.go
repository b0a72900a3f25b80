package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"chain_probe/internal/app/port"
	"chain_probe/internal/domain/entity"
	"chain_probe/internal/infrastructure/configloader"
	"chain_probe/internal/pkg/wei"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const detectionCacheKey = "detection"

// APIError is the body of every non-2xx response.
type APIError struct {
	Error string `json:"error"`
}

// APIBalancesResponse is the body of GET /balances.
type APIBalancesResponse struct {
	Data struct {
		Balances []entity.Balance `json:"balances"`
	} `json:"data"`
	ServiceErrors []entity.BalanceError `json:"service_errors,omitempty"`
	StatusMessage string                `json:"status_message"`
}

// APIConversion is the body of GET /convert.
type APIConversion struct {
	Value  string `json:"value"`
	From   string `json:"from"`
	To     string `json:"to"`
	Wei    string `json:"wei"`
	Hex    string `json:"hex"`
	Result string `json:"result"`
}

// APIUnit describes one row of the unit table.
type APIUnit struct {
	Name     string `json:"name"`
	Exponent int32  `json:"exponent"`
	Multiple string `json:"multiple"`
}

// ChainHandler serves chain detection results.
type ChainHandler struct {
	detector port.ChainDetector
	cache    *cache.Cache
	logger   port.Logger
}

// NewChainHandler creates a handler that caches detections for the chain TTL
// of cfg. Only successful detections are cached.
func NewChainHandler(detector port.ChainDetector, cfg *configloader.Config, logger port.Logger) *ChainHandler {
	ttl := time.Duration(cfg.Cache.ChainTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &ChainHandler{
		detector: detector,
		cache:    cache.New(ttl, cleanup),
		logger:   logger,
	}
}

// GetChainHandler handles GET /chain.
func (h *ChainHandler) GetChainHandler(c *gin.Context) {
	if cached, ok := h.cache.Get(detectionCacheKey); ok {
		c.JSON(http.StatusOK, cached.(entity.ChainDetection))
		return
	}

	detection, err := h.detector.Check(c.Request.Context())
	if err != nil {
		h.logger.Error("Chain detection failed", "error", err)
		c.JSON(http.StatusBadGateway, APIError{Error: "chain detection failed: " + err.Error()})
		return
	}
	h.cache.SetDefault(detectionCacheKey, detection)
	c.JSON(http.StatusOK, detection)
}

// BalanceHandler serves wallet balances.
type BalanceHandler struct {
	balanceService port.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(bs port.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: bs}
}

// GetBalancesHandler handles GET /balances?address=0x..&address=0x..
// A single address is looked up directly; without addresses the tracked
// wallet list is used.
func (h *BalanceHandler) GetBalancesHandler(c *gin.Context) {
	addresses := c.QueryArray("address")
	for _, addr := range addresses {
		if !common.IsHexAddress(addr) {
			c.JSON(http.StatusBadRequest, APIError{Error: "invalid address: " + addr})
			return
		}
	}

	var (
		balances      []entity.Balance
		serviceErrors []entity.BalanceError
	)
	if len(addresses) == 1 {
		b, err := h.balanceService.GetBalance(c.Request.Context(), addresses[0])
		if err != nil {
			serviceErrors = []entity.BalanceError{{WalletAddress: addresses[0], Message: err.Error()}}
		} else {
			balances = []entity.Balance{b}
		}
	} else {
		balances, serviceErrors = h.balanceService.GetBalances(c.Request.Context(), addresses)
	}

	var response APIBalancesResponse
	response.Data.Balances = balances
	if response.Data.Balances == nil {
		response.Data.Balances = []entity.Balance{}
	}
	response.ServiceErrors = serviceErrors

	status := http.StatusOK
	switch {
	case len(serviceErrors) > 0 && len(balances) == 0:
		response.StatusMessage = "Failed to retrieve any balances."
		status = http.StatusBadGateway
	case len(serviceErrors) > 0:
		response.StatusMessage = "Balances retrieved. Some wallets encountered errors."
	default:
		response.StatusMessage = "Balances retrieved successfully."
	}
	c.JSON(status, response)
}

// ConvertHandler converts amounts between units.
type ConvertHandler struct {
	defaultDecimals int32
}

// NewConvertHandler creates a new ConvertHandler.
func NewConvertHandler(cfg *configloader.Config) *ConvertHandler {
	return &ConvertHandler{defaultDecimals: cfg.Display.Decimals}
}

// GetConvertHandler handles GET /convert?value=&from=&to=&decimals=&exact=
// from defaults to wei, to defaults to ether.
func (h *ConvertHandler) GetConvertHandler(c *gin.Context) {
	raw := c.Query("value")
	if raw == "" {
		c.JSON(http.StatusBadRequest, APIError{Error: "value is required"})
		return
	}
	from, ok := wei.ParseUnit(c.DefaultQuery("from", "wei"))
	if !ok {
		c.JSON(http.StatusBadRequest, APIError{Error: "unknown unit: " + c.Query("from")})
		return
	}
	to, ok := wei.ParseUnit(c.DefaultQuery("to", "ether"))
	if !ok {
		c.JSON(http.StatusBadRequest, APIError{Error: "unknown unit: " + c.Query("to")})
		return
	}

	decimals := h.defaultDecimals
	if d := c.Query("decimals"); d != "" {
		parsed, err := strconv.ParseInt(d, 10, 32)
		if err != nil || parsed < 0 || parsed > 36 {
			c.JSON(http.StatusBadRequest, APIError{Error: "decimals must be an integer between 0 and 36"})
			return
		}
		decimals = int32(parsed)
	}

	var opts []wei.FormatOption
	if exact, _ := strconv.ParseBool(c.Query("exact")); exact {
		opts = append(opts, wei.Exact())
	}

	amount, err := wei.New(raw, from)
	if err != nil {
		if errors.Is(err, wei.ErrInvalidNumericInput) {
			c.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, APIConversion{
		Value:  raw,
		From:   from.Name(),
		To:     to.Name(),
		Wei:    amount.BigInt().String(),
		Hex:    amount.ToHex(),
		Result: amount.Format(to, decimals, opts...),
	})
}

// GetUnitsHandler handles GET /units.
func GetUnitsHandler(c *gin.Context) {
	units := wei.Units()
	out := make([]APIUnit, len(units))
	for i, u := range units {
		out[i] = APIUnit{Name: u.Name(), Exponent: u.Exponent(), Multiple: u.Multiple().String()}
	}
	c.JSON(http.StatusOK, out)
}
