package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are not positive plain decimals.
var ErrInvalidAmount = errors.New("amount must be a positive decimal number")

var amountRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Amount is a fixed-point quantity that remembers how many decimal places
// it was written with. "12.340" keeps three places, "5" keeps none.
type Amount struct {
	value  decimal.Decimal
	places int32
}

// ParseAmount parses a plain decimal literal. Exponents, signs, NaN and
// infinities are rejected, as are zero and negative values.
func ParseAmount(s string) (Amount, error) {
	if !amountRe.MatchString(s) {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	var places int32
	if exp := d.Exponent(); exp < 0 {
		places = -exp
	}
	return Amount{value: d, places: places}, nil
}

// MustParseAmount is ParseAmount for literals known to be valid.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount with exactly its own decimal places.
func (a Amount) String() string {
	return a.value.StringFixed(a.places)
}

// Places is the number of decimal places the amount was written with.
func (a Amount) Places() int32 { return a.places }

// Decimal exposes the numeric value.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// IsZero reports whether the amount was never set.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// Equal compares numeric value only: 5.00 equals 5.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
