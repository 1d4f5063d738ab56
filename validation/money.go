package validation

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

var moneyContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfEven
	return c
}()

// RoundAmount rounds a monetary amount half-even to two decimals
func RoundAmount(v float64) (float64, error) {
	d, _, err := apd.NewFromString(strconv.FormatFloat(v, 'f', -1, 64))
	if err != nil {
		return 0, err
	}
	var out apd.Decimal
	if _, err := moneyContext.Quantize(&out, d, -2); err != nil {
		return 0, err
	}
	return out.Float64()
}
