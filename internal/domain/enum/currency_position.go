package enum

// CurrencyPosition is where the currency symbol is placed around an amount
type CurrencyPosition string

const (
	CurrencyPositionBefore CurrencyPosition = "before"
	CurrencyPositionAfter  CurrencyPosition = "after"
)

// Valid reports whether p is a known position.
func (p CurrencyPosition) Valid() bool {
	return p == CurrencyPositionBefore || p == CurrencyPositionAfter
}
