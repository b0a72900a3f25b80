package service

import (
	"context"
	"encoding/json"

	"chain_probe/internal/app/port"
	"chain_probe/internal/domain/entity"
	"chain_probe/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	getBlockByNumberMethod = "eth_getBlockByNumber"
	// Genesis: its hash is fixed for the lifetime of a chain.
	referenceBlockNumber = "0x0"
)

// chainDetectorImpl implements port.ChainDetector.
type chainDetectorImpl struct {
	transport port.Transport
	registry  port.ChainRegistry
	logger    port.Logger
}

// NewChainDetector creates a detector that classifies the node behind transport.
func NewChainDetector(transport port.Transport, registry port.ChainRegistry, logger port.Logger) port.ChainDetector {
	return &chainDetectorImpl{
		transport: transport,
		registry:  registry,
		logger:    logger,
	}
}

// Check issues exactly one request for the reference block and classifies the
// returned hash. Transport errors are returned as-is; a response that cannot
// be matched, including a null or malformed one, yields entity.UnknownChain.
func (d *chainDetectorImpl) Check(ctx context.Context) (entity.ChainDetection, error) {
	var raw json.RawMessage
	if err := d.transport.CallContext(ctx, &raw, getBlockByNumberMethod, referenceBlockNumber, false); err != nil {
		return entity.ChainDetection{}, err
	}

	hash := referenceHash(raw)
	detection := entity.UnknownChain
	if rec, ok := d.registry.Lookup(hash); ok {
		detection = entity.ChainDetection{Chain: rec.Name, ChainID: rec.ChainID}
	}

	metrics.ChainDetectionsTotal.WithLabelValues(detection.Chain).Inc()
	d.logger.Debug("Chain detected", "chain", detection.Chain, "chain_id", detection.ChainID, "reference_hash", hash)
	return detection, nil
}

// referenceHash extracts the block hash from a raw eth_getBlockByNumber
// result. Anything unexpected yields "".
func referenceHash(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var block struct {
		Hash string `json:"hash"`
	}
	if err := jsonAPI.Unmarshal(raw, &block); err != nil {
		return ""
	}
	return block.Hash
}
