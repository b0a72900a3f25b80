package configloader

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"chain_probe/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// NodeConfig describes the node being probed.
type NodeConfig struct {
	entity.NodeDefinition    `yaml:",inline"`
	ConnectionTimeoutSeconds int `yaml:"connectionTimeoutSeconds"`
	RPCCallTimeoutSeconds    int `yaml:"rpcCallTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	Enabled              bool   `yaml:"enabled"`
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	ClientTimeoutSeconds int    `yaml:"clientTimeoutSeconds"`
	CoinID               string `yaml:"coinId"`
	VsCurrency           string `yaml:"vsCurrency"`
}

// CacheConfig holds TTLs of the in-memory caches.
type CacheConfig struct {
	ChainTTLMinutes        int `yaml:"chainTTLMinutes"`
	PriceTTLMinutes        int `yaml:"priceTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// RPCClientConfig limits the load put on the node.
type RPCClientConfig struct {
	RateLimit             float64 `yaml:"rateLimit"`
	BurstLimit            int     `yaml:"burstLimit"`
	MaxConcurrentRequests int     `yaml:"maxConcurrentRequests"`
}

// WalletsConfig points at the tracked wallet list.
type WalletsConfig struct {
	File string `yaml:"file"`
}

// DisplayConfig controls how amounts are rendered.
type DisplayConfig struct {
	PrecisionDigits  int32 `yaml:"precisionDigits"`
	Decimals         int32 `yaml:"decimals"`
	ExchangeDecimals int32 `yaml:"exchangeDecimals"`
}

// defaultDisplay is in place before decoding, so an explicit 0 survives.
var defaultDisplay = DisplayConfig{Decimals: 6, ExchangeDecimals: 2}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Node      NodeConfig           `yaml:"node"`
	Logging   LoggingConfig        `yaml:"logging"`
	CoinGecko CoinGeckoConfig      `yaml:"coingecko"`
	Cache     CacheConfig          `yaml:"cache"`
	RPCClient RPCClientConfig      `yaml:"rpcClient"`
	Wallets   WalletsConfig        `yaml:"wallets"`
	Display   DisplayConfig        `yaml:"display"`
	Chains    []entity.ChainRecord `yaml:"chains"`
}

// Load reads the YAML configuration file from the given path, expands ${VAR}
// references, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes configuration from YAML bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Config{Display: defaultDisplay}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
		logrus.Infof("server.port not set, defaulting to %s", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 10
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Server.IdleTimeoutSeconds <= 0 {
		c.Server.IdleTimeoutSeconds = 60
	}

	if c.Node.Name == "" {
		c.Node.Name = "default"
	}
	if c.Node.ConnectionTimeoutSeconds <= 0 {
		c.Node.ConnectionTimeoutSeconds = 10
		logrus.Infof("node.connectionTimeoutSeconds not set, defaulting to %d", c.Node.ConnectionTimeoutSeconds)
	}
	if c.Node.RPCCallTimeoutSeconds <= 0 {
		c.Node.RPCCallTimeoutSeconds = 10
		logrus.Infof("node.rpcCallTimeoutSeconds not set, defaulting to %d", c.Node.RPCCallTimeoutSeconds)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.CoinGecko.ClientTimeoutSeconds <= 0 {
		c.CoinGecko.ClientTimeoutSeconds = 10
	}
	if c.CoinGecko.CoinID == "" {
		c.CoinGecko.CoinID = "ethereum"
	}
	if c.CoinGecko.VsCurrency == "" {
		c.CoinGecko.VsCurrency = "usd"
	}

	if c.Cache.ChainTTLMinutes <= 0 {
		c.Cache.ChainTTLMinutes = 60
	}
	if c.Cache.PriceTTLMinutes <= 0 {
		c.Cache.PriceTTLMinutes = 5
	}
	if c.Cache.CleanupIntervalMinutes <= 0 {
		c.Cache.CleanupIntervalMinutes = 10
	}

	if c.RPCClient.RateLimit <= 0 {
		c.RPCClient.RateLimit = 20
		logrus.Infof("rpcClient.rateLimit not set, defaulting to %.0f req/s", c.RPCClient.RateLimit)
	}
	if c.RPCClient.BurstLimit <= 0 {
		c.RPCClient.BurstLimit = 5
	}
	if c.RPCClient.MaxConcurrentRequests <= 0 {
		c.RPCClient.MaxConcurrentRequests = 10
	}

	if c.Wallets.File == "" {
		c.Wallets.File = "data/wallets.txt"
	}

	if c.Display.Decimals < 0 {
		c.Display.Decimals = defaultDisplay.Decimals
	}
	if c.Display.ExchangeDecimals < 0 {
		c.Display.ExchangeDecimals = defaultDisplay.ExchangeDecimals
	}
	if c.Display.PrecisionDigits < 0 {
		c.Display.PrecisionDigits = 0
	}
}

// Validate checks the fields defaults cannot fill in.
func (c *Config) Validate() error {
	urls := c.Node.RPCURLs()
	if c.Node.PrimaryRPCURL == "" {
		return fmt.Errorf("node.primaryRpcUrl is required")
	}
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("node %s: invalid url %q: %w", c.Node.Name, raw, err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "ws", "wss":
		default:
			return fmt.Errorf("node %s: invalid url scheme %q (expected http, https, ws or wss)", c.Node.Name, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("node %s: invalid url %q (missing host)", c.Node.Name, raw)
		}
	}

	for i, chain := range c.Chains {
		if chain.Name == "" {
			return fmt.Errorf("chains[%d]: name is required", i)
		}
		if len(chain.ReferenceBlockHash) != 66 || !strings.HasPrefix(chain.ReferenceBlockHash, "0x") {
			return fmt.Errorf("chains[%d] %s: referenceBlockHash must be a 0x-prefixed 32-byte hex string", i, chain.Name)
		}
	}
	return nil
}
