package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RateUsage is one exchange rate applied by a foreign payment.
type RateUsage struct {
	Rate           float64 `json:"rate"`
	ManuallyEdited bool    `json:"manually_edited"`
}

// OrderCurrencyDetail summarizes an order's payments in one foreign currency.
type OrderCurrencyDetail struct {
	CurrencyID         uint        `json:"currency_id"`
	CurrencyName       string      `json:"currency_name"`
	CurrencySymbol     string      `json:"currency_symbol"`
	TotalForeignAmount float64     `json:"total_foreign_amount"`
	TotalBaseAmount    float64     `json:"total_base_amount"`
	PaymentCount       int         `json:"payment_count"`
	AverageRate        float64     `json:"average_rate"`
	RatesUsed          []RateUsage `json:"rates_used"`
	ManualEdits        int         `json:"manual_edits"`
}

// SessionCurrencyDetail summarizes a session's payments in one foreign currency.
type SessionCurrencyDetail struct {
	CurrencyID         uint    `json:"currency_id"`
	CurrencyName       string  `json:"currency_name"`
	CurrencySymbol     string  `json:"currency_symbol"`
	TotalForeignAmount float64 `json:"total_foreign_amount"`
	TotalBaseAmount    float64 `json:"total_base_amount"`
	PaymentCount       int     `json:"payment_count"`
	OrderCount         int     `json:"order_count"`
	ManualEdits        int     `json:"manual_edits"`
}

// OrderBreakdown maps currency id to its detail. Stored as a JSON object keyed by id.
type OrderBreakdown map[uint]OrderCurrencyDetail

// SessionBreakdown maps currency id to its detail. Stored as a JSON object keyed by id.
type SessionBreakdown map[uint]SessionCurrencyDetail

// CurrencyIDs returns the breakdown keys.
func (b OrderBreakdown) CurrencyIDs() []uint {
	ids := make([]uint, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	return ids
}

func (b OrderBreakdown) Value() (driver.Value, error) {
	return jsonValue(b)
}

func (b *OrderBreakdown) Scan(value interface{}) error {
	out := OrderBreakdown{}
	if err := jsonScan(value, &out); err != nil {
		return err
	}
	*b = out
	return nil
}

func (b SessionBreakdown) Value() (driver.Value, error) {
	return jsonValue(b)
}

func (b *SessionBreakdown) Scan(value interface{}) error {
	out := SessionBreakdown{}
	if err := jsonScan(value, &out); err != nil {
		return err
	}
	*b = out
	return nil
}

func jsonValue[M ~map[uint]V, V any](m M) (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonScan(value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("breakdown: unsupported column type %T", value)
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dest)
}
