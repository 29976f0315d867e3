package app_config

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"offerhub/internal/httpx"
	"offerhub/internal/model"
)

// UpsertRequest represents app config upsert request
type UpsertRequest struct {
	ConfigKey   string `json:"configKey" binding:"required"`
	Environment string `json:"environment"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Handler handles platform-level configuration entries. Reads merge the
// "global" scope with the running environment, environment winning.
type Handler struct {
	db          *gorm.DB
	environment string
	logger      *logrus.Entry
}

// NewHandler creates a new app config handler
func NewHandler(db *gorm.DB, environment string, logger *logrus.Entry) *Handler {
	return &Handler{
		db:          db,
		environment: environment,
		logger:      logger.WithField("component", "app-config"),
	}
}

// merged returns global entries overlaid by the current environment.
// Tenant-namespaced entries (containing ":") are excluded.
func (h *Handler) merged() (map[string]string, error) {
	load := func(env string) ([]model.AppConfig, error) {
		var rows []model.AppConfig
		err := h.db.
			Where("environment = ? AND config_key NOT LIKE ?", env, "%:%").
			Find(&rows).Error
		return rows, err
	}

	globals, err := load(model.EnvironmentGlobal)
	if err != nil {
		return nil, err
	}
	envRows, err := load(h.environment)
	if err != nil {
		return nil, err
	}

	config := make(map[string]string, len(globals)+len(envRows))
	for _, row := range globals {
		config[row.ConfigKey] = row.Value
	}
	for _, row := range envRows {
		config[row.ConfigKey] = row.Value
	}
	return config, nil
}

// List handles GET /api/v1/admin/app-config
// ?merged=true returns the effective map; otherwise raw rows for editing.
func (h *Handler) List(c *gin.Context) {
	if c.Query("merged") == "true" {
		config, err := h.merged()
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to load app config", err))
			return
		}
		httpx.OK(c, gin.H{"environment": h.environment, "config": config})
		return
	}

	var rows []model.AppConfig
	query := h.db.Where("config_key NOT LIKE ?", "%:%")
	if env := c.Query("environment"); env != "" {
		query = query.Where("environment = ?", env)
	}
	if err := query.Order("config_key ASC").Find(&rows).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to load app config", err))
		return
	}
	httpx.OK(c, gin.H{"items": rows, "total": len(rows)})
}

// Get handles GET /api/v1/admin/app-config/:key
func (h *Handler) Get(c *gin.Context) {
	env := c.DefaultQuery("environment", h.environment)

	var row model.AppConfig
	err := h.db.Where("config_key = ? AND environment = ?", c.Param("key"), env).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("config entry not found"))
		} else {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to load config entry", err))
		}
		return
	}
	httpx.OK(c, row)
}

// Upsert handles PUT /api/v1/admin/app-config
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}
	if strings.Contains(req.ConfigKey, ":") {
		httpx.FailErr(c, httpx.ErrParamIllegal("tenant-scoped keys go through /admin/tenant-config"))
		return
	}
	if req.Environment == "" {
		req.Environment = model.EnvironmentGlobal
	}

	row := model.AppConfig{
		ConfigKey:   req.ConfigKey,
		Environment: req.Environment,
		Value:       req.Value,
		Description: req.Description,
	}
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}, {Name: "environment"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description"}),
	}).Create(&row).Error
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to save config entry", err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"config_key":  req.ConfigKey,
		"environment": req.Environment,
	}).Info("✓ app config saved")
	httpx.OK(c, row)
}

// PublicGet handles GET /public/config
// Returns the merged non-secret platform config landing pages bootstrap
// from.
func (h *Handler) PublicGet(c *gin.Context) {
	config, err := h.merged()
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to load app config", err))
		return
	}

	// Drop anything that smells like a credential.
	public := make(map[string]string, len(config))
	for k, v := range config {
		if strings.Contains(k, "secret") || strings.Contains(k, "key") {
			continue
		}
		public[k] = v
	}

	httpx.OK(c, gin.H{"environment": h.environment, "config": public})
}
