package entity

// UnknownChainName is reported when the node's reference block hash matches no known chain.
const UnknownChainName = "unknown"

// ChainRecord associates the hash of a chain's reference (genesis) block with
// the chain's display name and numeric chain id.
type ChainRecord struct {
	ReferenceBlockHash string `json:"referenceBlockHash" yaml:"referenceBlockHash"`
	Name               string `json:"name" yaml:"name"`
	ChainID            uint64 `json:"chainId" yaml:"chainId"`
	NativeSymbol       string `json:"nativeSymbol" yaml:"nativeSymbol"`
}

// ChainDetection is the outcome of classifying a node. An unknown chain is a
// valid outcome, not an error.
type ChainDetection struct {
	Chain   string `json:"chain"`
	ChainID uint64 `json:"chainId"`
}

// UnknownChain is the detection result used when no record matches.
var UnknownChain = ChainDetection{Chain: UnknownChainName, ChainID: 0}

// IsKnown reports whether the detection matched a registry record.
func (d ChainDetection) IsKnown() bool {
	return d.Chain != UnknownChainName
}
