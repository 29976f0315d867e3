package model

// StripeKeys holds a tenant's payment processor credentials. Secret values
// are sealed with the platform master key before they reach this row; the
// publishable keys are plaintext by nature.
type StripeKeys struct {
	BaseModel
	TenantID int `gorm:"uniqueIndex;not null" json:"tenantId"`

	TestSecretKeyEnc string `gorm:"type:text" json:"-"`
	LiveSecretKeyEnc string `gorm:"type:text" json:"-"`
	WebhookSecretEnc string `gorm:"type:text" json:"-"`

	TestPublishableKey string `gorm:"type:varchar(255)" json:"testPublishableKey"`
	LivePublishableKey string `gorm:"type:varchar(255)" json:"livePublishableKey"`
}

// TableName specifies the table name for StripeKeys model
func (StripeKeys) TableName() string {
	return "stripe_keys"
}

// SecretForMode returns the sealed secret key for "test" or "live".
func (k *StripeKeys) SecretForMode(mode string) string {
	if mode == "live" {
		return k.LiveSecretKeyEnc
	}
	return k.TestSecretKeyEnc
}
