package port

import (
	"context"

	"chain_probe/internal/domain/entity"
)

// ChainRegistry is a read-only table of known chains keyed by reference block hash.
type ChainRegistry interface {
	// Lookup finds the record whose reference block hash equals hash, ignoring case.
	Lookup(hash string) (entity.ChainRecord, bool)

	// Records returns every known record in a stable order.
	Records() []entity.ChainRecord
}

// ChainDetector classifies the chain a node is connected to.
type ChainDetector interface {
	Check(ctx context.Context) (entity.ChainDetection, error)
}
