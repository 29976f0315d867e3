package model

import "gorm.io/datatypes"

// Shipping provider identifiers
const (
	ShippingProviderShippo   = "shippo"
	ShippingProviderEasyPost = "easypost"
	ShippingProviderStub     = "stub"
)

// ShippingConfig is a tenant's rate-shopping setup. APIKeyEnc is stored
// encrypted with the platform master key.
type ShippingConfig struct {
	BaseModel
	TenantID int    `gorm:"uniqueIndex;not null" json:"tenantId"`
	Provider string `gorm:"type:enum('shippo','easypost','stub');default:'stub'" json:"provider"`
	TestMode bool   `gorm:"default:true" json:"testMode"`

	APIKeyEnc string `gorm:"type:text" json:"-"`

	FromAddress   datatypes.JSON `gorm:"type:json" json:"fromAddress"`
	DefaultParcel datatypes.JSON `gorm:"type:json" json:"defaultParcel"`
}

// TableName specifies the table name for ShippingConfig model
func (ShippingConfig) TableName() string {
	return "shipping_configs"
}
