package entity

import (
	"testing"

	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestCurrencyDecimalPlaces(t *testing.T) {
	cases := []struct {
		rounding string
		want     int32
	}{
		{"0.01", 2},
		{"0.001", 3},
		{"1", 0},
		{"0.05", 1},
		{"0", 2},
		{"-0.01", 2},
		{"10", 0},
	}
	for _, tc := range cases {
		c := Currency{Rounding: decimal.RequireFromString(tc.rounding)}
		assert.Equal(t, tc.want, c.DecimalPlaces(), "rounding %s", tc.rounding)
	}
}

func TestCurrencyFormat(t *testing.T) {
	eur := Currency{Symbol: "€", Rounding: decimal.RequireFromString("0.01"), Position: enum.CurrencyPositionAfter}
	usd := Currency{Symbol: "$", Rounding: decimal.RequireFromString("0.01"), Position: enum.CurrencyPositionBefore}
	jpy := Currency{Symbol: "¥", Rounding: decimal.NewFromInt(1), Position: enum.CurrencyPositionBefore}

	assert.Equal(t, "100.00 €", eur.Format(decimal.NewFromInt(100)))
	assert.Equal(t, "$ 108.70", usd.Format(decimal.RequireFromString("108.695652")))
	assert.Equal(t, "¥ 1235", jpy.Format(decimal.RequireFromString("1234.5")))
	assert.NotContains(t, usd.Format(decimal.NewFromInt(1)), "\u00a0", "plain space only")
}

func TestOrderBreakdownValueScan(t *testing.T) {
	b := OrderBreakdown{
		2: {CurrencyID: 2, CurrencyName: "EUR", TotalForeignAmount: 100, TotalBaseAmount: 108.7, PaymentCount: 1,
			AverageRate: 0.92, RatesUsed: []RateUsage{{Rate: 0.92}}},
	}

	v, err := b.Value()
	require.NoError(t, err)

	var out OrderBreakdown
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, b, out)
}

func TestBreakdownEmptyValues(t *testing.T) {
	v, err := OrderBreakdown(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var s SessionBreakdown
	require.NoError(t, s.Scan(nil))
	assert.NotNil(t, s)
	assert.Empty(t, s)

	require.NoError(t, s.Scan("null"))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}

func TestPaymentIsForeign(t *testing.T) {
	p := PosPayment{}
	assert.False(t, p.IsForeign(1))
	assert.False(t, p.HasCurrency())

	p.PaymentCurrencyID = uintPtr(1)
	assert.False(t, p.IsForeign(1))

	p.PaymentCurrencyID = uintPtr(2)
	assert.True(t, p.IsForeign(1))
}

func TestPaymentWatchedFieldsEqual(t *testing.T) {
	base := PosPayment{
		Amount:                decimal.NewFromInt(10),
		PaymentCurrencyID:     uintPtr(2),
		PaymentCurrencyAmount: decimal.RequireFromString("9.2"),
		ExchangeRate:          decimal.RequireFromString("0.92"),
	}
	same := base
	same.PaymentCurrencyID = uintPtr(2)
	same.PaymentDate = same.PaymentDate.AddDate(0, 0, 1)
	assert.True(t, base.WatchedFieldsEqual(&same))

	changed := base
	changed.RateManuallyEdited = true
	assert.False(t, base.WatchedFieldsEqual(&changed))

	cleared := base
	cleared.PaymentCurrencyID = nil
	assert.False(t, base.WatchedFieldsEqual(&cleared))

	rate := base
	rate.ExchangeRate = decimal.RequireFromString("0.93")
	assert.False(t, base.WatchedFieldsEqual(&rate))
}

func TestPaymentSerialize(t *testing.T) {
	p := PosPayment{ID: 5, OrderID: 3, Amount: decimal.RequireFromString("108.7"), ExchangeRate: decimal.NewFromInt(1)}

	payload := p.Serialize()

	assert.Nil(t, payload.PaymentCurrencyID)
	assert.Equal(t, 108.7, payload.Amount)
	assert.Equal(t, uint(3), payload.PosOrderID)
}

func TestConfiguredCurrencyIDs(t *testing.T) {
	cfg := PosConfig{CurrencyID: 1, Currencies: []Currency{{ID: 2}, {ID: 1}, {ID: 3}}}

	assert.Equal(t, []uint{1, 2, 3}, cfg.ConfiguredCurrencyIDs())
	assert.Equal(t, []uint{2, 1, 3}, cfg.CurrencyIDs())
}

func TestOrderForeignPayments(t *testing.T) {
	o := PosOrder{CurrencyID: 1, Payments: []PosPayment{
		{ID: 1},
		{ID: 2, PaymentCurrencyID: uintPtr(1)},
		{ID: 3, PaymentCurrencyID: uintPtr(2)},
	}}

	foreign := o.ForeignPayments()

	require.Len(t, foreign, 1)
	assert.Equal(t, uint(3), foreign[0].ID)
}

func TestListAction(t *testing.T) {
	a := NewListAction("Foreign Currency Payments", []PosPayment{{ID: 1}}, "payment_currency_id")

	assert.Equal(t, ActionKindList, a.Kind)
	assert.Equal(t, "pos.payment", a.Model)
	assert.Len(t, a.Payments, 1)
	assert.Nil(t, a.Notification)
}

func TestExportForUIWithoutDetails(t *testing.T) {
	o := &PosOrder{
		ID:          7,
		Name:        "Order-7",
		CurrencyID:  1,
		AmountTotal: decimal.RequireFromString("12.50"),
		Payments:    []PosPayment{{ID: 1, OrderID: 7, Amount: decimal.RequireFromString("12.50")}},
	}

	payload := o.ExportForUI()

	assert.NotNil(t, payload.ForeignCurrencyDetails)
	assert.Empty(t, payload.ForeignCurrencyDetails)
	assert.False(t, payload.HasForeignPayments)
	assert.Equal(t, 12.5, payload.AmountTotal)
	require.Len(t, payload.Payments, 1)
	assert.Nil(t, payload.Payments[0].PaymentCurrencyID)
}
