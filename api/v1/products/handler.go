package products

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"offerhub/api/v1/middleware"
	"offerhub/internal/catalog"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
)

// CreateRequest represents create product request
type CreateRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
	PriceCents  int64             `json:"priceCents"`
}

// UpdateRequest represents update product request
type UpdateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
}

// PriceRequest represents replace price request
type PriceRequest struct {
	AmountCents int64 `json:"amountCents" binding:"required"`
}

// Handler handles the product catalog API. The catalog lives in each
// tenant's Stripe account, so every operation goes through a client built
// from that tenant's secret key.
type Handler struct {
	keyStore *keys.Store
	logger   *logrus.Entry
}

// NewHandler creates a new products handler
func NewHandler(keyStore *keys.Store, logger *logrus.Entry) *Handler {
	return &Handler{
		keyStore: keyStore,
		logger:   logger.WithField("component", "products"),
	}
}

// service builds a catalog service for the request tenant, honoring the
// ?mode=test|live switch.
func (h *Handler) service(c *gin.Context) (*catalog.Service, bool) {
	tenant, _ := middleware.TenantFromContext(c)
	secret, err := h.keyStore.SecretKey(tenant.ID, c.DefaultQuery("mode", "test"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrStateConflict("catalog credentials not configured"))
		return nil, false
	}
	return catalog.NewService(secret), true
}

// List handles GET /api/v1/admin/products
func (h *Handler) List(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	items, err := svc.List(c.DefaultQuery("status", "active"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to list products", err))
		return
	}
	httpx.OK(c, gin.H{"items": items, "total": len(items)})
}

// Get handles GET /api/v1/admin/products/:id
func (h *Handler) Get(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	product, err := svc.Get(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrNotFound("product not found"))
		return
	}
	httpx.OK(c, product)
}

// Create handles POST /api/v1/admin/products
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	svc, ok := h.service(c)
	if !ok {
		return
	}

	product, err := svc.Create(catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Metadata:    req.Metadata,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to create product", err))
		return
	}
	httpx.OK(c, product)
}

// Update handles PUT /api/v1/admin/products/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	svc, ok := h.service(c)
	if !ok {
		return
	}

	product, err := svc.Update(c.Param("id"), catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Metadata:    req.Metadata,
	})
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to update product", err))
		return
	}
	httpx.OK(c, product)
}

// Delete handles DELETE /api/v1/admin/products/:id
// Products with payment history cannot be hard-deleted, so this archives.
func (h *Handler) Delete(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	if err := svc.Archive(c.Param("id")); err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to archive product", err))
		return
	}
	httpx.OKMsg(c, "product archived", nil)
}

// ReplacePrice handles PUT /api/v1/admin/prices/:id
// Prices are immutable upstream; this deactivates the old one and creates
// a replacement on the same product.
func (h *Handler) ReplacePrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}
	if req.AmountCents <= 0 {
		httpx.FailErr(c, httpx.ErrParamInvalid("amountCents must be positive"))
		return
	}

	svc, ok := h.service(c)
	if !ok {
		return
	}

	price, err := svc.ReplacePrice(c.Param("id"), req.AmountCents)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to replace price", err))
		return
	}
	httpx.OK(c, price)
}
