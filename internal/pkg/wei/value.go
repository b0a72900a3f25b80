// Package wei implements an immutable, unit-aware amount of the atomic unit
// of an EVM chain. Arithmetic is exact: magnitudes are arbitrary-precision
// integers backed by shopspring/decimal.
package wei

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidNumericInput is returned when a value cannot be parsed as a number.
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	// ErrDivisionByZero is returned by Divide when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Value is an integral number of wei. The zero value is a valid zero amount.
// Values are never mutated; every operation returns a new Value.
type Value struct {
	magnitude decimal.Decimal
}

// Zero is the distinguished zero amount. It is not the only representation
// of zero: any Value whose magnitude is 0 is equal to it.
var Zero = Value{magnitude: decimal.Zero}

// New builds a Value from a number, a numeric string or an arbitrary-precision
// value expressed in unit. Non-atomic inputs are scaled by the unit multiple
// and rounded to an integer with round-half-down.
func New(value interface{}, unit Unit) (Value, error) {
	d, err := toDecimal(value)
	if err != nil {
		return Value{}, err
	}
	if !unit.IsAtomic() {
		d = roundHalfDown(d.Mul(unit.Multiple()), 0)
	}
	return Value{magnitude: roundHalfDown(d, 0)}, nil
}

// MustNew is like New but panics on invalid input. Intended for constants.
func MustNew(value interface{}, unit Unit) Value {
	v, err := New(value, unit)
	if err != nil {
		panic(err)
	}
	return v
}

// FromBig wraps an integer amount of wei. A nil pointer yields Zero.
func FromBig(amount *big.Int) Value {
	if amount == nil {
		return Zero
	}
	return Value{magnitude: decimal.NewFromBigInt(amount, 0)}
}

// maxExponent bounds the decimal exponent of any input. Rescaling a value
// with a larger exponent costs time and memory proportional to it.
const maxExponent = 256

func toDecimal(value interface{}) (decimal.Decimal, error) {
	d, err := decimalOf(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: exponent %d out of range", ErrInvalidNumericInput, exp)
	}
	return d, nil
}

func decimalOf(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case Value:
		return v.magnitude, nil
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: nil decimal", ErrInvalidNumericInput)
		}
		return *v, nil
	case *big.Int:
		if v == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: nil big.Int", ErrInvalidNumericInput)
		}
		return decimal.NewFromBigInt(v, 0), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(v)), nil
	case uint16:
		return decimal.NewFromInt(int64(v)), nil
	case uint32:
		return decimal.NewFromInt(int64(v)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return parseNumeric(string(v))
	case string:
		return parseNumeric(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidNumericInput, value)
	}
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrInvalidNumericInput, f)
	}
	return decimal.NewFromFloat(f), nil
}

// parseNumeric accepts decimal ("1.5", "-2", "1e18") and hexadecimal
// ("0xff", "-0xFF") strings.
func parseNumeric(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := false
	digits := s
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		n, ok := new(big.Int).SetString(digits[2:], 16)
		if !ok || strings.HasPrefix(digits[2:], "-") || strings.HasPrefix(digits[2:], "+") {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidNumericInput, raw)
		}
		if neg {
			n.Neg(n)
		}
		return decimal.NewFromBigInt(n, 0), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidNumericInput, raw)
	}
	return d, nil
}

// Multiply returns v * scalar, rounded back to an integer with round-half-down.
func (v Value) Multiply(scalar interface{}) (Value, error) {
	s, err := toDecimal(scalar)
	if err != nil {
		return Value{}, err
	}
	return New(v.magnitude.Mul(s), Wei)
}

// Divide returns v / scalar truncated toward zero.
func (v Value) Divide(scalar interface{}) (Value, error) {
	s, err := toDecimal(scalar)
	if err != nil {
		return Value{}, err
	}
	if s.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	q, _ := v.magnitude.QuoRem(s, 0)
	return New(q, Wei)
}

// Plus returns v + other.
func (v Value) Plus(other Value) Value {
	return Value{magnitude: v.magnitude.Add(other.magnitude)}
}

// Minus returns v - other.
func (v Value) Minus(other Value) Value {
	return Value{magnitude: v.magnitude.Sub(other.magnitude)}
}

// Subtract is an alias for Minus.
func (v Value) Subtract(other Value) Value {
	return v.Minus(other)
}

// Neg returns -v.
func (v Value) Neg() Value {
	return Value{magnitude: v.magnitude.Neg()}
}

// Abs returns |v|.
func (v Value) Abs() Value {
	return Value{magnitude: v.magnitude.Abs()}
}

// ToUnit returns the exact, unrounded amount of unit in v.
func (v Value) ToUnit(unit Unit) decimal.Decimal {
	if unit.IsAtomic() {
		return v.magnitude
	}
	return v.magnitude.Shift(-unit.exponent)
}

// ToHex renders the magnitude as 0x-prefixed lowercase hex; negative values
// get a leading "-" and zero is "0x0".
func (v Value) ToHex() string {
	return hexutil.EncodeBig(v.BigInt())
}

// BigInt returns the magnitude as a new big.Int.
func (v Value) BigInt() *big.Int {
	return v.magnitude.BigInt()
}

// Decimal returns the magnitude.
func (v Value) Decimal() decimal.Decimal {
	return v.magnitude
}

type formatConfig struct {
	suffix bool
	exact  bool
}

// FormatOption tweaks Format output.
type FormatOption func(*formatConfig)

// WithUnitSuffix appends the unit name, e.g. "1.5 Ether".
func WithUnitSuffix() FormatOption {
	return func(c *formatConfig) { c.suffix = true }
}

// Exact keeps all requested fractional digits, trailing zeros included.
func Exact() FormatOption {
	return func(c *formatConfig) { c.exact = true }
}

// Format converts v to unit and renders it with decimals fractional digits
// (round-half-up). Trailing zeros are trimmed unless Exact is given.
func (v Value) Format(unit Unit, decimals int32, opts ...FormatOption) string {
	var cfg formatConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if decimals < 0 {
		decimals = 0
	}

	s := roundHalfUp(v.ToUnit(unit), decimals).StringFixed(decimals)
	if !cfg.exact {
		s = trimFraction(s)
	}
	if cfg.suffix {
		s += " " + unit.Name()
	}
	return s
}

// String formats v in Ether with up to 18 fractional digits.
func (v Value) String() string {
	return v.Format(Ether, 18)
}

// ExchangeValue converts v to Ether, multiplies by rate and renders the
// product with exactly decimals fractional digits.
func (v Value) ExchangeValue(rate decimal.Decimal, decimals int32) string {
	if decimals < 0 {
		decimals = 0
	}
	return v.ToUnit(Ether).Mul(rate).StringFixed(decimals)
}

// SelectDisplayUnit picks the largest candidate whose multiple, divided by
// 10^precisionDigits, does not exceed v. Candidates must be ordered largest
// first and default to the full unit table. Zero selects Ether; when nothing
// qualifies the atomic unit is returned.
func (v Value) SelectDisplayUnit(precisionDigits int32, candidates ...Unit) Unit {
	if v.IsZero() {
		return Ether
	}
	if len(candidates) == 0 {
		candidates = unitTable[:]
	}
	for _, u := range candidates {
		if u.Multiple().Shift(-precisionDigits).LessThanOrEqual(v.magnitude) {
			return u
		}
	}
	return Wei
}

// Equals reports whether v and other hold the same amount.
func (v Value) Equals(other Value) bool { return v.magnitude.Equal(other.magnitude) }

// Cmp returns -1, 0 or +1 as v is less than, equal to or greater than other.
func (v Value) Cmp(other Value) int { return v.magnitude.Cmp(other.magnitude) }

func (v Value) LessThan(other Value) bool { return v.magnitude.LessThan(other.magnitude) }

func (v Value) LessThanOrEqual(other Value) bool {
	return v.magnitude.LessThanOrEqual(other.magnitude)
}

func (v Value) GreaterThan(other Value) bool { return v.magnitude.GreaterThan(other.magnitude) }

func (v Value) GreaterThanOrEqual(other Value) bool {
	return v.magnitude.GreaterThanOrEqual(other.magnitude)
}

// IsPositive reports v > 0.
func (v Value) IsPositive() bool { return v.magnitude.IsPositive() }

// IsNegative reports v < 0.
func (v Value) IsNegative() bool { return v.magnitude.IsNegative() }

// IsZero reports v == 0.
func (v Value) IsZero() bool { return v.magnitude.IsZero() }

// MarshalJSON encodes v as a quoted base-10 integer.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.BigInt().String())
}

// UnmarshalJSON accepts a JSON string (decimal or 0x hex) or number of wei.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidNumericInput, string(data))
		}
		s = n.String()
	}
	parsed, err := New(s, Wei)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
