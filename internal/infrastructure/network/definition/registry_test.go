package definition

import (
	"strings"
	"testing"

	"chain_probe/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

const mainnetGenesis = "0xd4e56740f876aef8c010b86a40d5f56745a118d0906a34e69aec8c0db1cb8fa3"

func TestBuiltInRecords(t *testing.T) {
	require := require.New(t)

	require.Equal(mainnetGenesis, Mainnet.ReferenceBlockHash)
	require.Equal(uint64(1), Mainnet.ChainID)
	require.Equal(uint64(11155111), Sepolia.ChainID)
	require.Equal(uint64(17000), Holesky.ChainID)

	r := NewChainRegistry()
	records := r.Records()
	require.Len(records, len(knownChains))
	require.Equal(Mainnet, records[0])

	seen := make(map[string]struct{})
	for _, rec := range records {
		require.Len(rec.ReferenceBlockHash, 66, rec.Name)
		require.Equal(strings.ToLower(rec.ReferenceBlockHash), rec.ReferenceBlockHash)
		_, dup := seen[rec.ReferenceBlockHash]
		require.False(dup, "duplicate hash for %s", rec.Name)
		seen[rec.ReferenceBlockHash] = struct{}{}
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	require := require.New(t)
	r := NewChainRegistry()

	rec, ok := r.Lookup(mainnetGenesis)
	require.True(ok)
	require.Equal("mainnet", rec.Name)

	rec, ok = r.Lookup(strings.ToUpper(mainnetGenesis))
	require.True(ok)
	require.Equal("mainnet", rec.Name)

	rec, ok = r.Lookup("  " + Goerli.ReferenceBlockHash + "\n")
	require.True(ok)
	require.Equal(uint64(5), rec.ChainID)
}

func TestLookupMisses(t *testing.T) {
	r := NewChainRegistry()
	for _, hash := range []string{"", "0x", "not-a-hash", strings.TrimPrefix(mainnetGenesis, "0x"), mainnetGenesis + "00"} {
		_, ok := r.Lookup(hash)
		require.False(t, ok, hash)
	}

	var nilRegistry *ChainRegistry
	_, ok := nilRegistry.Lookup(mainnetGenesis)
	require.False(t, ok)
	require.Empty(t, nilRegistry.Records())
}

func TestExtraRecords(t *testing.T) {
	require := require.New(t)

	devnet := entity.ChainRecord{
		ReferenceBlockHash: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		Name:               "devnet",
		ChainID:            1337,
	}
	renamedMainnet := Mainnet
	renamedMainnet.Name = "ethereum"

	r := NewChainRegistry(devnet, renamedMainnet)
	require.Len(r.Records(), len(knownChains)+1)

	rec, ok := r.Lookup(strings.ToLower(devnet.ReferenceBlockHash))
	require.True(ok)
	require.Equal("devnet", rec.Name)

	rec, ok = r.Lookup(mainnetGenesis)
	require.True(ok)
	require.Equal("ethereum", rec.Name)
	require.Equal("ethereum", r.Records()[0].Name)

	rec, ok = r.GetByChainID(1337)
	require.True(ok)
	require.Equal("devnet", rec.Name)
	_, ok = r.GetByChainID(999999)
	require.False(ok)
}

func TestRecordsReturnsCopy(t *testing.T) {
	r := NewChainRegistry()
	records := r.Records()
	records[0].Name = "mutated"
	require.Equal(t, "mainnet", r.Records()[0].Name)
}
