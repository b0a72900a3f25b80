package walletloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"chain_probe/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// InvalidLine describes a line of the wallet file that was skipped.
type InvalidLine struct {
	Number int
	Text   string
}

// LoadWallets reads wallet addresses from filePath, one per line. Blank lines
// and lines starting with '#' are ignored. Addresses are returned in checksum
// form, deduplicated, in file order.
func LoadWallets(filePath string) ([]entity.Wallet, []InvalidLine, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open wallet file %s: %w", filePath, err)
	}
	defer file.Close()

	wallets, invalid, err := ParseWallets(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error scanning wallet file %s: %w", filePath, err)
	}
	return wallets, invalid, nil
}

// ParseWallets reads wallet addresses from r.
func ParseWallets(r io.Reader) ([]entity.Wallet, []InvalidLine, error) {
	var (
		wallets []entity.Wallet
		invalid []InvalidLine
		seen    = make(map[common.Address]struct{})
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "0x") || !common.IsHexAddress(line) {
			invalid = append(invalid, InvalidLine{Number: lineNum, Text: line})
			continue
		}
		addr := common.HexToAddress(line)
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		wallets = append(wallets, entity.Wallet{Address: addr.Hex()})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return wallets, invalid, nil
}
