package client

import (
	"context"
	"fmt"
	"time"

	"chain_probe/internal/app/port"
	"chain_probe/internal/domain/entity"
	"chain_probe/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
)

var _ port.Transport = (*EVMTransport)(nil)

// rpcCaller is the subset of *rpc.Client used by EVMTransport.
type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// EVMTransport implements port.Transport on top of a go-ethereum RPC client.
// Every call is bounded by rpcCallTimeout and recorded in the rpc metrics.
type EVMTransport struct {
	rpcClient      rpcCaller
	node           entity.NodeDefinition
	url            string
	rpcCallTimeout time.Duration
}

type dialFunc func(ctx context.Context, rawurl string) (rpcCaller, error)

func dialRPC(ctx context.Context, rawurl string) (rpcCaller, error) {
	return rpc.DialContext(ctx, rawurl)
}

// NewEVMTransport dials the node, trying the primary URL first and then each
// fallback in order.
func NewEVMTransport(node entity.NodeDefinition, connectionTimeout, rpcCallTimeout time.Duration) (*EVMTransport, error) {
	return newEVMTransport(node, connectionTimeout, rpcCallTimeout, dialRPC)
}

func newEVMTransport(node entity.NodeDefinition, connectionTimeout, rpcCallTimeout time.Duration, dial dialFunc) (*EVMTransport, error) {
	rpcURLs := node.RPCURLs()
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("node %s has no rpc urls", node.Name)
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		c, err := dial(ctx, rpcURL)
		cancel()

		if err == nil {
			return &EVMTransport{
				rpcClient:      c,
				node:           node,
				url:            rpcURL,
				rpcCallTimeout: rpcCallTimeout,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for node %s: %w", node.Name, lastErr)
}

// CallContext performs a single JSON-RPC call. Errors from the node are
// returned unwrapped.
func (t *EVMTransport) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if t.rpcCallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.rpcCallTimeout)
		defer cancel()
	}

	timer := prometheus.NewTimer(metrics.RPCRequestDuration.WithLabelValues(method))
	err := t.rpcClient.CallContext(ctx, result, method, args...)
	timer.ObserveDuration()

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, status).Inc()
	return err
}

// URL returns the endpoint the transport is connected to.
func (t *EVMTransport) URL() string {
	return t.url
}

// Close releases the underlying connection.
func (t *EVMTransport) Close() {
	t.rpcClient.Close()
}
