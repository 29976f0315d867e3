package keys

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"offerhub/internal/model"
)

// Store reads and writes tenant credentials, sealing secrets on the way in
// and unsealing on the way out. Handlers never touch sealed values directly.
type Store struct {
	db     *gorm.DB
	sealer *Sealer
}

// NewStore creates a Store over the given database and sealer.
func NewStore(db *gorm.DB, sealer *Sealer) *Store {
	return &Store{db: db, sealer: sealer}
}

// Get returns the tenant's key row, or nil when none exists yet.
func (s *Store) Get(tenantID int) (*model.StripeKeys, error) {
	var keys model.StripeKeys
	if err := s.db.Where("tenant_id = ?", tenantID).First(&keys).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &keys, nil
}

// SecretKey returns the decrypted Stripe secret for "test" or "live".
func (s *Store) SecretKey(tenantID int, mode string) (string, error) {
	keys, err := s.Get(tenantID)
	if err != nil {
		return "", err
	}
	if keys == nil {
		return "", fmt.Errorf("no keys configured for tenant %d", tenantID)
	}
	sealed := keys.SecretForMode(mode)
	if sealed == "" {
		return "", fmt.Errorf("no %s secret key configured", mode)
	}
	return s.sealer.Open(sealed)
}

// WebhookSecret returns the decrypted webhook signing secret.
func (s *Store) WebhookSecret(tenantID int) (string, error) {
	keys, err := s.Get(tenantID)
	if err != nil {
		return "", err
	}
	if keys == nil || keys.WebhookSecretEnc == "" {
		return "", fmt.Errorf("no webhook secret configured")
	}
	return s.sealer.Open(keys.WebhookSecretEnc)
}

// Update is the set of writable credential fields. Nil fields are left
// untouched; empty strings clear the stored value.
type Update struct {
	TestSecretKey      *string
	LiveSecretKey      *string
	WebhookSecret      *string
	TestPublishableKey *string
	LivePublishableKey *string
}

// Save upserts the tenant's key row, sealing every secret field that is
// not already in the sealed envelope.
func (s *Store) Save(tenantID int, update Update) (*model.StripeKeys, error) {
	keys, err := s.Get(tenantID)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = &model.StripeKeys{TenantID: tenantID}
	}

	if err := s.applySecret(update.TestSecretKey, &keys.TestSecretKeyEnc); err != nil {
		return nil, err
	}
	if err := s.applySecret(update.LiveSecretKey, &keys.LiveSecretKeyEnc); err != nil {
		return nil, err
	}
	if err := s.applySecret(update.WebhookSecret, &keys.WebhookSecretEnc); err != nil {
		return nil, err
	}
	if update.TestPublishableKey != nil {
		keys.TestPublishableKey = *update.TestPublishableKey
	}
	if update.LivePublishableKey != nil {
		keys.LivePublishableKey = *update.LivePublishableKey
	}

	if err := s.db.Save(keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) applySecret(value *string, dst *string) error {
	if value == nil {
		return nil
	}
	if *value == "" {
		*dst = ""
		return nil
	}
	if IsSealed(*value) {
		// Already wrapped, store as-is.
		*dst = *value
		return nil
	}
	sealed, err := s.sealer.Seal(*value)
	if err != nil {
		return err
	}
	*dst = sealed
	return nil
}

// MaskedView is the admin-facing shape of a key row. Secrets appear as
// stars plus the last characters of the plaintext.
type MaskedView struct {
	TestSecretKey      string `json:"testSecretKey"`
	LiveSecretKey      string `json:"liveSecretKey"`
	WebhookSecret      string `json:"webhookSecret"`
	TestPublishableKey string `json:"testPublishableKey"`
	LivePublishableKey string `json:"livePublishableKey"`
}

// Masked decrypts each secret and masks it for display.
func (s *Store) Masked(keys *model.StripeKeys) MaskedView {
	view := MaskedView{
		TestPublishableKey: keys.TestPublishableKey,
		LivePublishableKey: keys.LivePublishableKey,
	}
	view.TestSecretKey = s.maskSealed(keys.TestSecretKeyEnc)
	view.LiveSecretKey = s.maskSealed(keys.LiveSecretKeyEnc)
	view.WebhookSecret = s.maskSealed(keys.WebhookSecretEnc)
	return view
}

func (s *Store) maskSealed(sealed string) string {
	if sealed == "" {
		return ""
	}
	plain, err := s.sealer.Open(sealed)
	if err != nil {
		// Undecryptable rows still show up, just fully masked.
		return "********"
	}
	return Mask(plain, 4)
}
