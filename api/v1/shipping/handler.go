package shipping

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"offerhub/api/v1/middleware"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/model"
	"offerhub/internal/shipping"
)

// ConfigRequest represents shipping config update request
type ConfigRequest struct {
	Provider      string          `json:"provider"`
	TestMode      *bool           `json:"testMode"`
	APIKey        *string         `json:"apiKey"`
	FromAddress   json.RawMessage `json:"fromAddress"`
	DefaultParcel json.RawMessage `json:"defaultParcel"`
}

// RatesRequest represents rate shopping request
type RatesRequest struct {
	To     shipping.Address `json:"to" binding:"required"`
	Parcel *shipping.Parcel `json:"parcel"`
}

// LabelRequest represents label purchase request
type LabelRequest struct {
	RateID  string `json:"rateId" binding:"required"`
	OrderID int    `json:"orderId"`
}

// Handler handles shipping configuration and rate shopping
type Handler struct {
	db     *gorm.DB
	sealer *keys.Sealer
	logger *logrus.Entry
}

// NewHandler creates a new shipping handler
func NewHandler(db *gorm.DB, sealer *keys.Sealer, logger *logrus.Entry) *Handler {
	return &Handler{
		db:     db,
		sealer: sealer,
		logger: logger.WithField("component", "shipping"),
	}
}

// GetConfig handles GET /api/v1/admin/shipping-config
func (h *Handler) GetConfig(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	cfg, err := h.loadConfig(tenant.ID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch shipping config", err))
		return
	}
	if cfg == nil {
		httpx.OK(c, gin.H{"provider": model.ShippingProviderStub, "configured": false})
		return
	}

	httpx.OK(c, gin.H{
		"provider":      cfg.Provider,
		"testMode":      cfg.TestMode,
		"apiKey":        h.maskedKey(cfg),
		"fromAddress":   cfg.FromAddress,
		"defaultParcel": cfg.DefaultParcel,
		"configured":    true,
	})
}

// UpdateConfig handles PUT /api/v1/admin/shipping-config
func (h *Handler) UpdateConfig(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	cfg, err := h.loadConfig(tenant.ID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch shipping config", err))
		return
	}
	if cfg == nil {
		cfg = &model.ShippingConfig{
			TenantID: tenant.ID,
			Provider: model.ShippingProviderStub,
			TestMode: true,
		}
	}

	if req.Provider != "" {
		cfg.Provider = req.Provider
	}
	if req.TestMode != nil {
		cfg.TestMode = *req.TestMode
	}
	if req.APIKey != nil && *req.APIKey != "" {
		if err := shipping.ValidateKeyFormat(cfg.Provider, *req.APIKey); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
			return
		}
		sealed, err := h.sealer.Seal(*req.APIKey)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to seal api key", err))
			return
		}
		cfg.APIKeyEnc = sealed
	}
	if req.FromAddress != nil {
		cfg.FromAddress = datatypes.JSON(req.FromAddress)
	}
	if req.DefaultParcel != nil {
		cfg.DefaultParcel = datatypes.JSON(req.DefaultParcel)
	}

	if err := h.db.Save(cfg).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to save shipping config", err))
		return
	}

	httpx.OKMsg(c, "shipping config saved", gin.H{"provider": cfg.Provider})
}

// Rates handles POST /api/v1/admin/shipping/rates
func (h *Handler) Rates(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	cfg, provider, ok := h.provider(c, tenant.ID)
	if !ok {
		return
	}

	var from shipping.Address
	if len(cfg.FromAddress) > 0 {
		if err := json.Unmarshal(cfg.FromAddress, &from); err != nil {
			httpx.FailErr(c, httpx.ErrStateConflict("stored from address is malformed"))
			return
		}
	}

	parcel := shipping.Parcel{}
	if req.Parcel != nil {
		parcel = *req.Parcel
	} else if len(cfg.DefaultParcel) > 0 {
		if err := json.Unmarshal(cfg.DefaultParcel, &parcel); err != nil {
			httpx.FailErr(c, httpx.ErrStateConflict("stored default parcel is malformed"))
			return
		}
	}

	rates, err := provider.GetRates(c.Request.Context(), from, req.To, parcel)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("rate shopping failed", err))
		return
	}
	httpx.OK(c, gin.H{"provider": provider.Name(), "rates": rates})
}

// Label handles POST /api/v1/admin/shipping/label
func (h *Handler) Label(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	_, provider, ok := h.provider(c, tenant.ID)
	if !ok {
		return
	}

	label, err := provider.CreateLabel(c.Request.Context(), req.RateID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("label purchase failed", err))
		return
	}

	// Attach tracking to the order when one was named.
	if req.OrderID > 0 {
		updates := map[string]interface{}{
			"tracking_number": label.TrackingNumber,
			"carrier":         label.Carrier,
		}
		if err := h.db.Model(&model.Order{}).
			Where("tenant_id = ? AND id = ?", tenant.ID, req.OrderID).
			Updates(updates).Error; err != nil {
			h.logger.WithError(err).WithField("order_id", req.OrderID).Warn("failed to attach tracking to order")
		}
	}

	httpx.OK(c, label)
}

// Test handles POST /api/v1/admin/shipping/test
// Verifies the stored credentials by running a rate request against the
// provider with the tenant's own from-address.
func (h *Handler) Test(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	cfg, provider, ok := h.provider(c, tenant.ID)
	if !ok {
		return
	}

	var from shipping.Address
	if len(cfg.FromAddress) > 0 {
		if err := json.Unmarshal(cfg.FromAddress, &from); err != nil {
			httpx.FailErr(c, httpx.ErrStateConflict("stored from address is malformed"))
			return
		}
	}

	rates, err := provider.GetRates(c.Request.Context(), from, from, shipping.Parcel{Weight: 16})
	if err != nil {
		httpx.OK(c, gin.H{"ok": false, "provider": provider.Name(), "error": err.Error()})
		return
	}
	httpx.OK(c, gin.H{"ok": true, "provider": provider.Name(), "rateCount": len(rates)})
}

func (h *Handler) loadConfig(tenantID int) (*model.ShippingConfig, error) {
	var cfg model.ShippingConfig
	if err := h.db.Where("tenant_id = ?", tenantID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (h *Handler) provider(c *gin.Context, tenantID int) (*model.ShippingConfig, shipping.Provider, bool) {
	cfg, err := h.loadConfig(tenantID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch shipping config", err))
		return nil, nil, false
	}
	if cfg == nil {
		cfg = &model.ShippingConfig{Provider: model.ShippingProviderStub, TestMode: true}
	}

	apiKey := ""
	if cfg.APIKeyEnc != "" {
		apiKey, err = h.sealer.Open(cfg.APIKeyEnc)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to unseal api key", err))
			return nil, nil, false
		}
	}

	provider, err := shipping.ForProvider(cfg.Provider, apiKey)
	if err != nil {
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
		return nil, nil, false
	}
	return cfg, provider, true
}

func (h *Handler) maskedKey(cfg *model.ShippingConfig) string {
	if cfg.APIKeyEnc == "" {
		return ""
	}
	plain, err := h.sealer.Open(cfg.APIKeyEnc)
	if err != nil {
		return "********"
	}
	return keys.Mask(plain, 4)
}
