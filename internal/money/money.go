// Package money provides exact-decimal currency arithmetic for the engine.
//
// The teacher's bank-service shells out to COBOL for decimal-safe cents
// arithmetic (bank-service/go/cobol.go's DollarsToCents/CentsToDollars,
// manual string parsing to avoid float imprecision). This package keeps that
// "never touch binary floating point" discipline but drops the COBOL
// subprocess — there is no COBOL binary in this module's domain — in favor
// of github.com/shopspring/decimal, a real arbitrary-precision decimal
// library already present in the example pack's dependency graph.
package money

import "github.com/shopspring/decimal"

// Amount is an exact decimal currency value. The zero Amount is zero.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{}

// FromInt builds an Amount from a whole-unit integer (e.g. FromInt(100) is
// "100" currency units — bets and bankrolls in this system are always whole
// units, per spec.md's int-valued bet amounts).
func FromInt(units int64) Amount {
	return Amount{d: decimal.NewFromInt(units)}
}

// FromString parses a decimal string such as "150" or "150.50".
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d: d}, nil
}

// MustFromString is FromString, panicking on a malformed literal — used
// only for compile-time-known constants (rule-set defaults, test fixtures).
func MustFromString(s string) Amount {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }

// MulRat multiplies by a rational payout ratio such as 1.5 (3:2) or 1.2 (6:5).
// The result is not rounded to a whole currency unit — callers that need a
// settleable amount (blackjack payouts) must round it with RoundPayout.
func (a Amount) MulRat(ratio decimal.Decimal) Amount {
	return Amount{d: a.d.Mul(ratio)}
}

// RoundPayout rounds to the nearest whole currency unit using banker's
// rounding, the same rule Half() uses for surrender — spec.md §4.8 requires
// banker's rounding "after payout ratios are applied" (e.g. a 25 bet at 3:2
// is 37.5, which rounds to 38).
func (a Amount) RoundPayout() Amount {
	return Amount{d: a.d.RoundBank(0)}
}

// Half returns half of the amount, rounded to the nearest whole currency
// unit using banker's rounding, per spec.md §4.8's surrender-half-bet rule.
func (a Amount) Half() Amount {
	return Amount{d: a.d.Div(decimal.NewFromInt(2)).RoundBank(0)}
}

// FloorHalf returns half of the amount, rounded down, per spec.md §4.4's
// insurance-ceiling default (floor(main_bet/2)) — a distinct rounding rule
// from Half's banker's rounding, which spec.md §4.8 reserves for surrender.
func (a Amount) FloorHalf() Amount {
	return Amount{d: a.d.Div(decimal.NewFromInt(2)).Floor()}
}

func (a Amount) Cmp(b Amount) int    { return a.d.Cmp(b.d) }
func (a Amount) IsNegative() bool    { return a.d.IsNegative() }
func (a Amount) IsZero() bool        { return a.d.IsZero() }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }
func (a Amount) LessThan(b Amount) bool    { return a.d.LessThan(b.d) }

// String renders the amount as a decimal string, the serialization form
// spec.md §4.11 requires for bankroll/insurance_bet.
func (a Amount) String() string {
	return a.d.String()
}

// MarshalJSON serializes as a JSON string, never a float, so no client can
// reintroduce binary floating-point error by round-tripping through JSON.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.d.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string decimal literal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	a.d = d
	return nil
}

// Decimal exposes the underlying decimal.Decimal for statistics computations
// that need division/ratio math beyond Amount's currency-safe operations.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}
