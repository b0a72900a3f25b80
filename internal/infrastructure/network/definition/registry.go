package definition

import (
	"strings"

	"chain_probe/internal/domain/entity"

	"github.com/ethereum/go-ethereum/params"
)

// Known chains, identified by the hash of their genesis block.
var (
	Mainnet = entity.ChainRecord{
		ReferenceBlockHash: params.MainnetGenesisHash.Hex(),
		Name:               "mainnet",
		ChainID:            params.MainnetChainConfig.ChainID.Uint64(),
		NativeSymbol:       "ETH",
	}
	Morden = entity.ChainRecord{
		ReferenceBlockHash: "0x0cd786a2425d16f152c658316c423e6ce1181e15c3295826d7c9904cba9ce303",
		Name:               "morden",
		ChainID:            2,
		NativeSymbol:       "ETH",
	}
	Ropsten = entity.ChainRecord{
		ReferenceBlockHash: "0x41941023680923e0fe4d74a34bdac8141f2540e3ae90623718e47d66d1ca4a2d",
		Name:               "ropsten",
		ChainID:            3,
		NativeSymbol:       "ETH",
	}
	Rinkeby = entity.ChainRecord{
		ReferenceBlockHash: "0x6341fd3daf94b748c72ced5a5b26028f2474f5f00d824504e4fa37a75767e177",
		Name:               "rinkeby",
		ChainID:            4,
		NativeSymbol:       "ETH",
	}
	Goerli = entity.ChainRecord{
		ReferenceBlockHash: "0xbf7e331f7f7c1dd2e05159666b3bf8bc7a8a3a9eb1d518969eab529dd9b88c1a",
		Name:               "goerli",
		ChainID:            5,
		NativeSymbol:       "ETH",
	}
	Kovan = entity.ChainRecord{
		ReferenceBlockHash: "0xa3c565fc15c7478862d50ccd6561e3c06b24cc509bf388941c25ea985ce32cb9",
		Name:               "kovan",
		ChainID:            42,
		NativeSymbol:       "ETH",
	}
	Sepolia = entity.ChainRecord{
		ReferenceBlockHash: params.SepoliaGenesisHash.Hex(),
		Name:               "sepolia",
		ChainID:            params.SepoliaChainConfig.ChainID.Uint64(),
		NativeSymbol:       "ETH",
	}
	Holesky = entity.ChainRecord{
		ReferenceBlockHash: params.HoleskyGenesisHash.Hex(),
		Name:               "holesky",
		ChainID:            params.HoleskyChainConfig.ChainID.Uint64(),
		NativeSymbol:       "ETH",
	}
)

var knownChains = []entity.ChainRecord{
	Mainnet,
	Morden,
	Ropsten,
	Rinkeby,
	Goerli,
	Kovan,
	Sepolia,
	Holesky,
}

// ChainRegistry is the static lookup table of known chains. It is read-only
// after construction and safe for concurrent use.
type ChainRegistry struct {
	records []entity.ChainRecord
	byHash  map[string]entity.ChainRecord
}

// NewChainRegistry builds a registry over the known chains plus any extra
// records. Extra records win over built-in ones with the same hash.
func NewChainRegistry(extra ...entity.ChainRecord) *ChainRegistry {
	r := &ChainRegistry{
		byHash: make(map[string]entity.ChainRecord, len(knownChains)+len(extra)),
	}
	index := make(map[string]int, len(knownChains)+len(extra))
	for _, rec := range append(append([]entity.ChainRecord{}, knownChains...), extra...) {
		key := normalizeHash(rec.ReferenceBlockHash)
		if i, exists := index[key]; exists {
			r.records[i] = rec
		} else {
			index[key] = len(r.records)
			r.records = append(r.records, rec)
		}
		r.byHash[key] = rec
	}
	return r
}

// Lookup finds the chain whose reference block hash equals hash, ignoring case
// and surrounding whitespace.
func (r *ChainRegistry) Lookup(hash string) (entity.ChainRecord, bool) {
	if r == nil {
		return entity.ChainRecord{}, false
	}
	rec, ok := r.byHash[normalizeHash(hash)]
	return rec, ok
}

// Records returns the registry contents in registration order.
func (r *ChainRegistry) Records() []entity.ChainRecord {
	if r == nil {
		return []entity.ChainRecord{}
	}
	recordsCopy := make([]entity.ChainRecord, len(r.records))
	copy(recordsCopy, r.records)
	return recordsCopy
}

// GetByChainID returns the first record with the given chain id.
func (r *ChainRegistry) GetByChainID(chainID uint64) (entity.ChainRecord, bool) {
	if r == nil {
		return entity.ChainRecord{}, false
	}
	for _, rec := range r.records {
		if rec.ChainID == chainID {
			return rec, true
		}
	}
	return entity.ChainRecord{}, false
}

func normalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}
