package request

// UpdateMultiCurrencyRequest represents the multi-currency settings of a POS configuration
type UpdateMultiCurrencyRequest struct {
	Enabled         bool   `json:"multi_currency_enabled"`
	CurrencyIDs     []uint `json:"multi_currency_ids" binding:"omitempty,dive,gt=0"`
	AllowRateEdit   bool   `json:"multi_currency_allow_rate_edit"`
	RateEditGroupID *uint  `json:"multi_currency_rate_edit_group_id" binding:"omitempty,gt=0"`
}

// LoadPosDataRequest lists the currencies the client already holds
type LoadPosDataRequest struct {
	LoadedCurrencyIDs []uint `json:"loaded_currency_ids"`
}

// StatisticsRequest asks for the foreign-currency statistics of a session
type StatisticsRequest struct {
	SessionID uint `json:"session_id"`
}
