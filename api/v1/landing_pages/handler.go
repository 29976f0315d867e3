package landing_pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"offerhub/api/v1/middleware"
	"offerhub/internal/catalog"
	"offerhub/internal/config"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/model"
	"offerhub/internal/publisher"
	"offerhub/internal/template"
	"offerhub/internal/ws"
)

// ListRequest represents list landing pages request
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Name     string `form:"name"`
	Status   string `form:"status"`
	Template string `form:"template"`
}

// PageRequest is the writable landing page shape shared by create and
// update. JSON columns pass through as raw messages; the renderer is the
// one that interprets them.
type PageRequest struct {
	Name         string `json:"name"`
	SEOPrefix    string `json:"seoPrefix"`
	TemplateType string `json:"templateType"`
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	Guarantee    string `json:"guarantee"`

	Products        json.RawMessage `json:"products"`
	LayoutOptions   json.RawMessage `json:"layoutOptions"`
	AnalyticsPixels json.RawMessage `json:"analyticsPixels"`
	CustomFields    json.RawMessage `json:"customFields"`

	CustomCSS *string `json:"customCss"`
	CustomJS  *string `json:"customJs"`
}

// Handler handles landing pages API
type Handler struct {
	db       *gorm.DB
	cfg      *config.Config
	keyStore *keys.Store
	logger   *logrus.Entry
}

// NewHandler creates a new landing pages handler
func NewHandler(db *gorm.DB, cfg *config.Config, keyStore *keys.Store, logger *logrus.Entry) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		keyStore: keyStore,
		logger:   logger.WithField("component", "landing-pages"),
	}
}

// List handles GET /api/v1/admin/landing-pages
func (h *Handler) List(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 15
	}

	query := h.db.Model(&model.LandingPage{}).Where("tenant_id = ?", tenant.ID)
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Template != "" {
		query = query.Where("template_type = ?", req.Template)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to count landing pages", err))
		return
	}

	var pages []model.LandingPage
	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Offset(offset).
		Limit(req.PageSize).
		Order("id DESC").
		Find(&pages).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch landing pages", err))
		return
	}

	httpx.OKItems(c, pages, total, req.Page, req.PageSize)
}

// Create handles POST /api/v1/admin/landing-pages
func (h *Handler) Create(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if req.Name == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("name is required"))
		return
	}

	page := model.LandingPage{
		TenantID: tenant.ID,
		PageID:   uuid.NewString(),
		Status:   model.LandingPageStatusDraft,
	}
	applyRequest(&page, &req)
	if page.TemplateType == "" {
		page.TemplateType = template.TypeSingleHero
	}

	if page.SEOPrefix != "" {
		if err := h.checkSlugFree(tenant.ID, page.SEOPrefix, 0); err != nil {
			httpx.FailErr(c, httpx.ErrAlreadyExists(err.Error()))
			return
		}
	}

	if err := h.db.Create(&page).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create landing page", err))
		return
	}

	if err := ws.PublishLandingPageEvent("add", page); err != nil {
		h.logger.WithError(err).Warn("failed to publish add event")
	}

	httpx.OK(c, page)
}

// Get handles GET /api/v1/admin/landing-pages/:id
func (h *Handler) Get(c *gin.Context) {
	page, ok := h.loadPage(c)
	if !ok {
		return
	}
	httpx.OK(c, page)
}

// Update handles PUT /api/v1/admin/landing-pages/:id
func (h *Handler) Update(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)
	page, ok := h.loadPage(c)
	if !ok {
		return
	}

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	applyRequest(page, &req)

	if page.SEOPrefix != "" {
		if err := h.checkSlugFree(tenant.ID, page.SEOPrefix, page.ID); err != nil {
			httpx.FailErr(c, httpx.ErrAlreadyExists(err.Error()))
			return
		}
	}

	if err := h.db.Save(page).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to update landing page", err))
		return
	}

	if err := ws.PublishLandingPageEvent("update", page); err != nil {
		h.logger.WithError(err).Warn("failed to publish update event")
	}

	httpx.OK(c, page)
}

// Delete handles DELETE /api/v1/admin/landing-pages/:id
func (h *Handler) Delete(c *gin.Context) {
	page, ok := h.loadPage(c)
	if !ok {
		return
	}

	if err := h.db.Delete(page).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to delete landing page", err))
		return
	}

	if err := ws.PublishLandingPageEvent("delete", gin.H{"id": page.ID, "pageId": page.PageID}); err != nil {
		h.logger.WithError(err).Warn("failed to publish delete event")
	}

	httpx.OKMsg(c, "landing page deleted", nil)
}

// Preview handles POST /api/v1/admin/landing-pages/:id/preview
func (h *Handler) Preview(c *gin.Context) {
	h.render(c, publisher.ModePreview)
}

// Publish handles POST /api/v1/admin/landing-pages/:id/publish
func (h *Handler) Publish(c *gin.Context) {
	h.render(c, publisher.ModePublish)
}

func (h *Handler) render(c *gin.Context, mode publisher.Mode) {
	tenant, _ := middleware.TenantFromContext(c)
	page, ok := h.loadPage(c)
	if !ok {
		return
	}

	pub := h.publisher(tenant, c.DefaultQuery("mode", "test"))
	result, err := pub.Run(c.Request.Context(), tenant, page, mode)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to render page", err))
		return
	}

	if mode == publisher.ModePublish {
		now := time.Now()
		page.Status = model.LandingPageStatusPublished
		page.PublishedAt = &now
		page.PublishedURL = result.URL
		if err := h.db.Save(page).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to record publish", err))
			return
		}
		if err := ws.PublishLandingPageEvent("publish", page); err != nil {
			h.logger.WithError(err).Warn("failed to publish publish event")
		}
	}

	httpx.OK(c, gin.H{
		"url":        result.URL,
		"renderedAt": result.Rendered.Format(time.RFC3339),
	})
}

// publisher builds a render pipeline bound to the tenant's catalog. When
// no Stripe keys are configured yet the resolver runs against a fetcher
// that fails every lookup, so slots render their error fragments instead
// of the request failing outright.
func (h *Handler) publisher(tenant *model.Tenant, stripeMode string) *publisher.Publisher {
	var fetcher catalog.ProductFetcher
	secret, err := h.keyStore.SecretKey(tenant.ID, stripeMode)
	if err != nil {
		h.logger.WithError(err).WithField("client_id", tenant.ClientID).Warn("no catalog credentials")
		fetcher = unresolvedFetcher{}
	} else {
		fetcher = catalog.NewStripeFetcher(secret)
	}

	resolver := catalog.NewResolver(fetcher, h.logger)
	return publisher.New(resolver, publisher.Options{
		PreviewRoot:     h.cfg.Publish.PreviewRoot,
		PublishRoot:     h.cfg.Publish.PublishRoot,
		BaseURL:         h.cfg.Publish.BaseURL,
		PreviewBaseURL:  h.cfg.Publish.PreviewBaseURL,
		CDNBase:         h.cfg.Publish.CDNBase,
		InvalidateCache: publisher.DefaultCacheInvalidator(),
	}, h.logger)
}

type unresolvedFetcher struct{}

func (unresolvedFetcher) Fetch(productID string) (*template.Product, error) {
	return nil, fmt.Errorf("catalog credentials not configured")
}

// loadPage fetches the page addressed by :id, scoped to the request tenant.
func (h *Handler) loadPage(c *gin.Context) (*model.LandingPage, bool) {
	tenant, _ := middleware.TenantFromContext(c)

	clause, value := pageLookup(c.Param("id"))

	var page model.LandingPage
	err := h.db.Where("tenant_id = ?", tenant.ID).Where(clause, value).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("landing page not found"))
		} else {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch landing page", err))
		}
		return nil, false
	}
	return &page, true
}

// pageLookup picks the filter for a :id path param: purely numeric values
// address the row id, anything else the external page ID.
func pageLookup(param string) (string, interface{}) {
	if id, err := strconv.Atoi(param); err == nil {
		return "id = ?", id
	}
	return "page_id = ?", param
}

func (h *Handler) checkSlugFree(tenantID int, slug string, excludeID int) error {
	var count int64
	query := h.db.Model(&model.LandingPage{}).
		Where("tenant_id = ? AND seo_prefix = ?", tenantID, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("seo prefix %q is already in use", slug)
	}
	return nil
}

func applyRequest(page *model.LandingPage, req *PageRequest) {
	if req.Name != "" {
		page.Name = req.Name
	}
	if req.SEOPrefix != "" {
		page.SEOPrefix = req.SEOPrefix
	}
	if req.TemplateType != "" {
		page.TemplateType = req.TemplateType
	}
	if req.HeroTitle != "" {
		page.HeroTitle = req.HeroTitle
	}
	if req.HeroSubtitle != "" {
		page.HeroSubtitle = req.HeroSubtitle
	}
	if req.Guarantee != "" {
		page.Guarantee = req.Guarantee
	}
	if req.Products != nil {
		page.Products = datatypes.JSON(req.Products)
	}
	if req.LayoutOptions != nil {
		page.LayoutOptions = datatypes.JSON(req.LayoutOptions)
	}
	if req.AnalyticsPixels != nil {
		page.AnalyticsPixels = datatypes.JSON(req.AnalyticsPixels)
	}
	if req.CustomFields != nil {
		page.CustomFields = datatypes.JSON(req.CustomFields)
	}
	if req.CustomCSS != nil {
		page.CustomCSS = *req.CustomCSS
	}
	if req.CustomJS != nil {
		page.CustomJS = *req.CustomJS
	}
}
