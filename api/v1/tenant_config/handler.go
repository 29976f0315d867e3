package tenant_config

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"offerhub/api/v1/middleware"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/model"
)

// Handler handles per-tenant configuration. Entries live in the shared
// app_config table namespaced as "<clientID>:<key>", scoped to the running
// environment; credentials are delegated to the key store.
type Handler struct {
	db          *gorm.DB
	keyStore    *keys.Store
	environment string
	logger      *logrus.Entry
}

// NewHandler creates a new tenant config handler
func NewHandler(db *gorm.DB, keyStore *keys.Store, environment string, logger *logrus.Entry) *Handler {
	return &Handler{
		db:          db,
		keyStore:    keyStore,
		environment: environment,
		logger:      logger.WithField("component", "tenant-config"),
	}
}

func (h *Handler) entries(clientID string) (map[string]string, error) {
	var rows []model.AppConfig
	prefix := clientID + ":"
	err := h.db.
		Where("config_key LIKE ? AND environment = ?", prefix+"%", h.environment).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	config := make(map[string]string, len(rows))
	for _, row := range rows {
		config[strings.TrimPrefix(row.ConfigKey, prefix)] = row.Value
	}
	return config, nil
}

// Get handles GET /api/v1/admin/tenant-config
// Returns the tenant's config entries plus the masked credential view.
func (h *Handler) Get(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	config, err := h.entries(tenant.ClientID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch tenant config", err))
		return
	}

	resp := gin.H{
		"clientId":     tenant.ClientID,
		"environment":  h.environment,
		"tenantConfig": config,
	}

	row, err := h.keyStore.Get(tenant.ID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch keys", err))
		return
	}
	if row != nil {
		resp["keys"] = h.keyStore.Masked(row)
	}

	httpx.OK(c, resp)
}

// Update handles PUT /api/v1/admin/tenant-config
// Upserts arbitrary string entries. Credential fields belong to the keys
// endpoint and are rejected here so secrets never land unsealed.
func (h *Handler) Update(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("body must be a string map"))
		return
	}
	if len(body) == 0 {
		httpx.FailErr(c, httpx.ErrParamMissing("empty payload"))
		return
	}

	updated := make([]string, 0, len(body))
	for key, value := range body {
		if isCredentialField(key) {
			httpx.FailErr(c, httpx.ErrParamIllegal("credential fields must go through /admin/keys"))
			return
		}
		row := model.AppConfig{
			ConfigKey:   tenant.ClientID + ":" + key,
			Environment: h.environment,
			Value:       value,
		}
		err := h.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "config_key"}, {Name: "environment"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&row).Error
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to save tenant config", err))
			return
		}
		updated = append(updated, key)
	}

	httpx.OK(c, gin.H{"updated": updated, "environment": h.environment})
}

// PublicGet handles GET /public/tenant-config
// Whitelists the safe subset a landing page needs at checkout time.
func (h *Handler) PublicGet(c *gin.Context) {
	clientID := c.GetHeader("X-Client-Id")
	if clientID == "" {
		clientID = c.Query("clientId")
	}
	if clientID == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("clientId required"))
		return
	}

	var tenant model.Tenant
	if err := h.db.Where("client_id = ?", clientID).First(&tenant).Error; err != nil {
		httpx.OK(c, gin.H{"clientId": clientID, "exists": false, "config": gin.H{}})
		return
	}

	config := gin.H{"clientId": clientID}
	if row, err := h.keyStore.Get(tenant.ID); err == nil && row != nil {
		// Publishable keys are public by nature.
		config["testPublishableKey"] = row.TestPublishableKey
		config["livePublishableKey"] = row.LivePublishableKey
	}

	httpx.OK(c, gin.H{
		"environment": h.environment,
		"exists":      true,
		"config":      config,
	})
}

func isCredentialField(key string) bool {
	if strings.HasPrefix(key, "stripe_") || strings.HasPrefix(key, "sk_") ||
		strings.HasPrefix(key, "pk_") || strings.HasPrefix(key, "wh_") {
		return true
	}
	switch key {
	case "shippo_api_key", "easypost_api_key", "webhook_secret":
		return true
	}
	return false
}
