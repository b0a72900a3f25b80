package port

import (
	"context"

	"chain_probe/internal/domain/entity"
)

// Transport performs a single JSON-RPC request/response exchange. The result
// of a successful call is decoded into result; a failed call returns an error.
// *rpc.Client from go-ethereum satisfies this interface.
type Transport interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// TransportProvider hands out transports for node definitions.
type TransportProvider interface {
	GetTransport(ctx context.Context, node entity.NodeDefinition) (Transport, error)
}
