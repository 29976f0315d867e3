package stripe_keys

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72/client"

	"offerhub/api/v1/middleware"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
)

// UpdateRequest represents key update request. Nil fields are untouched;
// empty strings clear the stored value.
type UpdateRequest struct {
	TestSecretKey      *string `json:"testSecretKey"`
	LiveSecretKey      *string `json:"liveSecretKey"`
	WebhookSecret      *string `json:"webhookSecret"`
	TestPublishableKey *string `json:"testPublishableKey"`
	LivePublishableKey *string `json:"livePublishableKey"`
}

// Handler handles tenant credential management
type Handler struct {
	keyStore *keys.Store
	logger   *logrus.Entry
}

// NewHandler creates a new keys handler
func NewHandler(keyStore *keys.Store, logger *logrus.Entry) *Handler {
	return &Handler{
		keyStore: keyStore,
		logger:   logger.WithField("component", "stripe-keys"),
	}
}

// Get handles GET /api/v1/admin/keys
// Secrets are always masked in responses; there is no unmasked read path.
func (h *Handler) Get(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	row, err := h.keyStore.Get(tenant.ID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch keys", err))
		return
	}
	if row == nil {
		httpx.OK(c, gin.H{"configured": false})
		return
	}

	httpx.OK(c, gin.H{
		"configured": true,
		"keys":       h.keyStore.Masked(row),
	})
}

// Update handles PUT /api/v1/admin/keys
func (h *Handler) Update(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	if err := validateKeyPrefixes(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	row, err := h.keyStore.Save(tenant.ID, keys.Update{
		TestSecretKey:      req.TestSecretKey,
		LiveSecretKey:      req.LiveSecretKey,
		WebhookSecret:      req.WebhookSecret,
		TestPublishableKey: req.TestPublishableKey,
		LivePublishableKey: req.LivePublishableKey,
	})
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to save keys", err))
		return
	}

	h.logger.WithField("client_id", tenant.ClientID).Info("✓ keys updated")
	httpx.OK(c, gin.H{"configured": true, "keys": h.keyStore.Masked(row)})
}

// Verify handles POST /api/v1/admin/verify
// Checks the stored credentials: publishable key prefix, a live call to
// the payment processor's account endpoint, and the webhook secret's
// usability for signature construction.
func (h *Handler) Verify(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)
	mode := c.DefaultQuery("mode", "test")
	if mode != "test" && mode != "live" {
		httpx.FailErr(c, httpx.ErrParamInvalid("mode must be test or live"))
		return
	}

	row, err := h.keyStore.Get(tenant.ID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch keys", err))
		return
	}
	if row == nil {
		httpx.FailErr(c, httpx.ErrStateConflict("no keys configured"))
		return
	}

	result := gin.H{
		"clientId":         tenant.ClientID,
		"mode":             mode,
		"publishableKeyOk": false,
		"secretKeyOk":      false,
		"webhookSecretOk":  false,
	}
	notes := []string{}

	pk := row.TestPublishableKey
	if mode == "live" {
		pk = row.LivePublishableKey
	}
	result["publishableKeyOk"] = strings.HasPrefix(pk, "pk_"+mode+"_")

	if secret, err := h.keyStore.SecretKey(tenant.ID, mode); err != nil {
		notes = append(notes, "No secret key stored/decrypted.")
	} else {
		sc := &client.API{}
		sc.Init(secret, nil)
		if account, err := sc.Account.Get(); err != nil {
			notes = append(notes, fmt.Sprintf("Account lookup failed: %s", truncateNote(err.Error())))
		} else {
			result["secretKeyOk"] = true
			result["stripeAccount"] = account.ID
			notes = append(notes, fmt.Sprintf("Stripe account verified: %s", account.ID))
		}
	}

	if whSecret, err := h.keyStore.WebhookSecret(tenant.ID); err != nil {
		notes = append(notes, "Webhook secret missing.")
	} else if webhookSecretUsable(whSecret) {
		result["webhookSecretOk"] = true
		notes = append(notes, "Webhook secret format is valid.")
	} else {
		notes = append(notes, "Webhook secret format is invalid.")
	}

	result["notes"] = notes
	httpx.OK(c, result)
}

func validateKeyPrefixes(req *UpdateRequest) error {
	check := func(v *string, prefix, name string) error {
		if v == nil || *v == "" || keys.IsSealed(*v) {
			return nil
		}
		if !strings.HasPrefix(*v, prefix) {
			return fmt.Errorf("%s must start with %s", name, prefix)
		}
		return nil
	}
	if err := check(req.TestSecretKey, "sk_test_", "testSecretKey"); err != nil {
		return err
	}
	if err := check(req.LiveSecretKey, "sk_live_", "liveSecretKey"); err != nil {
		return err
	}
	if err := check(req.WebhookSecret, "whsec_", "webhookSecret"); err != nil {
		return err
	}
	if err := check(req.TestPublishableKey, "pk_test_", "testPublishableKey"); err != nil {
		return err
	}
	return check(req.LivePublishableKey, "pk_live_", "livePublishableKey")
}

// webhookSecretUsable constructs a sample v1 signature the way webhook
// verification does. It never calls out; it only proves the secret can
// sign.
func webhookSecretUsable(secret string) bool {
	if secret == "" {
		return false
	}
	signedPayload := fmt.Sprintf("%d.%s", time.Now().Unix(), `{"ping":"ok"}`)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	return len(hex.EncodeToString(mac.Sum(nil))) == 64
}

func truncateNote(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
