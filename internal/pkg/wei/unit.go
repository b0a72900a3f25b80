package wei

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a named power-of-ten multiple of the atomic unit.
type Unit struct {
	name     string
	exponent int32
}

// Denominations of value, largest first.
var (
	Ether  = Unit{name: "Ether", exponent: 18}
	Finney = Unit{name: "Finney", exponent: 15}
	Szabo  = Unit{name: "Szabo", exponent: 12}
	Gwei   = Unit{name: "Gwei", exponent: 9}
	Mwei   = Unit{name: "Mwei", exponent: 6}
	Kwei   = Unit{name: "Kwei", exponent: 3}
	Wei    = Unit{name: "Wei", exponent: 0}
)

var unitTable = [...]Unit{Ether, Finney, Szabo, Gwei, Mwei, Kwei, Wei}

var unitAliases = map[string]Unit{
	"eth":        Ether,
	"milliether": Finney,
	"microether": Szabo,
	"shannon":    Gwei,
	"nanoether":  Gwei,
	"lovelace":   Mwei,
	"picoether":  Mwei,
	"babbage":    Kwei,
	"femtoether": Kwei,
}

// Units returns the unit table ordered from largest to smallest.
// The returned slice is a copy.
func Units() []Unit {
	units := make([]Unit, len(unitTable))
	copy(units, unitTable[:])
	return units
}

// ParseUnit resolves a unit by name, case-insensitively. Common aliases
// ("eth", "shannon", ...) are accepted.
func ParseUnit(name string) (Unit, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, u := range unitTable {
		if strings.ToLower(u.name) == name {
			return u, true
		}
	}
	u, ok := unitAliases[name]
	return u, ok
}

// Name returns the display name of the unit.
func (u Unit) Name() string { return u.name }

// Exponent returns the power of ten this unit represents.
func (u Unit) Exponent() int32 { return u.exponent }

// Multiple returns the number of atomic units in one u.
func (u Unit) Multiple() decimal.Decimal {
	return decimal.New(1, u.exponent)
}

// MultipleBig is Multiple as a big.Int.
func (u Unit) MultipleBig() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(u.exponent)), nil)
}

// IsAtomic reports whether u is the atomic unit.
func (u Unit) IsAtomic() bool { return u.exponent == 0 }

func (u Unit) String() string { return u.name }
