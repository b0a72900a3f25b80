package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chain_probe/internal/app/port"
	"chain_probe/internal/domain/entity"
	"chain_probe/internal/infrastructure/configloader"
)

var _ port.TransportProvider = (*EVMTransportProvider)(nil)

// EVMTransportProvider implements the port.TransportProvider interface.
type EVMTransportProvider struct {
	transports        map[string]*EVMTransport
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	dial              dialFunc
}

// NewEVMTransportProvider creates a provider that dials each node once and
// caches the resulting transport.
func NewEVMTransportProvider(cfg *configloader.Config, logger port.Logger) *EVMTransportProvider {
	return &EVMTransportProvider{
		transports:        make(map[string]*EVMTransport),
		logger:            logger,
		connectionTimeout: time.Duration(cfg.Node.ConnectionTimeoutSeconds) * time.Second,
		rpcCallTimeout:    time.Duration(cfg.Node.RPCCallTimeoutSeconds) * time.Second,
		dial:              dialRPC,
	}
}

// GetTransport returns the cached transport for node, dialing it on first use.
func (p *EVMTransportProvider) GetTransport(ctx context.Context, node entity.NodeDefinition) (port.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if t, exists := p.transports[node.Name]; exists {
		p.logger.Debug("Returning cached RPC transport", "node", node.Name)
		return t, nil
	}

	p.logger.Info("Dialing RPC node", "node", node.Name, "rpc_primary", node.PrimaryRPCURL)
	t, err := newEVMTransport(node, p.connectionTimeout, p.rpcCallTimeout, p.dial)
	if err != nil {
		p.logger.Error("Failed to dial RPC node", "node", node.Name, "error", err)
		return nil, fmt.Errorf("failed to create RPC transport for %s: %w", node.Name, err)
	}

	p.transports[node.Name] = t
	p.logger.Info("Connected to RPC node", "node", node.Name, "url", t.URL())
	return t, nil
}

// Close closes every cached transport.
func (p *EVMTransportProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, t := range p.transports {
		t.Close()
		delete(p.transports, name)
	}
}
