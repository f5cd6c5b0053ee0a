package entity

// ReceiptForeignLine is the per-currency block printed under the payments.
type ReceiptForeignLine struct {
	CurrencyID      uint    `json:"currency_id"`
	CurrencyName    string  `json:"currency_name"`
	CurrencySymbol  string  `json:"currency_symbol"`
	Total           float64 `json:"total"`
	FormattedAmount string  `json:"formatted_amount"`
	Rate            float64 `json:"rate"`
	RateLabel       string  `json:"rate_label"`
	ManualRate      bool    `json:"manual_rate"`
}

// ReceiptPayment is a single payment line on a receipt.
type ReceiptPayment struct {
	Method          string  `json:"method"`
	Amount          float64 `json:"amount"`
	FormattedAmount string  `json:"formatted_amount"`
	ForeignAmount   string  `json:"foreign_amount,omitempty"`
}

// Receipt is a value object composed from an order at print time.
// It is not persisted.
type Receipt struct {
	OrderName       string               `json:"order_name"`
	Date            string               `json:"date"`
	CurrencyName    string               `json:"currency_name"`
	Total           float64              `json:"total"`
	FormattedTotal  string               `json:"formatted_total"`
	Payments        []ReceiptPayment     `json:"payments"`
	ForeignPayments []ReceiptForeignLine `json:"foreign_payments"`
}
