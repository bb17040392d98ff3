package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

var (
	dzero    = decimal.Zero
	dhundred = decimal.NewFromInt(100)
)

func DecimalZero() Decimal {
	return dzero
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

// Percentage returns part/whole*100 rounded to the given number of places.
// A zero whole gives zero.
func Percentage(part, whole *Uint, places int32) Decimal {
	if whole.IsZero() {
		return dzero
	}
	return DecimalFromUint(part).Mul(dhundred).Div(DecimalFromUint(whole)).Round(places)
}
