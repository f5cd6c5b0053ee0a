package entity

import "time"

// PosConfig is a point-of-sale configuration with its multi-currency settings
type PosConfig struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CompanyID  uint      `gorm:"not null;index" json:"company_id"`
	CurrencyID uint      `gorm:"not null" json:"currency_id"`
	Currency   *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`

	MultiCurrencyEnabled         bool       `gorm:"not null" json:"multi_currency_enabled"`
	Currencies                   []Currency `gorm:"many2many:pos_config_currencies;" json:"multi_currency_ids"`
	MultiCurrencyAllowRateEdit   bool       `gorm:"not null" json:"multi_currency_allow_rate_edit"`
	MultiCurrencyRateEditGroupID *uint      `json:"multi_currency_rate_edit_group_id"`
	RateEditGroup                *Group     `gorm:"foreignKey:MultiCurrencyRateEditGroupID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the PosConfig model
func (PosConfig) TableName() string {
	return "pos_configs"
}

// CurrencyIDs returns the ids of the allowed additional currencies
func (c *PosConfig) CurrencyIDs() []uint {
	ids := make([]uint, 0, len(c.Currencies))
	for _, cur := range c.Currencies {
		ids = append(ids, cur.ID)
	}
	return ids
}

// ConfiguredCurrencyIDs is the allowed set plus the base currency, base first.
func (c *PosConfig) ConfiguredCurrencyIDs() []uint {
	ids := []uint{c.CurrencyID}
	for _, cur := range c.Currencies {
		if cur.ID != c.CurrencyID {
			ids = append(ids, cur.ID)
		}
	}
	return ids
}
