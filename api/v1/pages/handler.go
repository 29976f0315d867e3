package pages

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"offerhub/internal/cache"
	"offerhub/internal/catalog"
	"offerhub/internal/config"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/model"
	"offerhub/internal/publisher"
	"offerhub/internal/template"
)

// Handler serves published landing pages to visitors. Documents are
// rendered on request and cached in Redis, so an edit shows up after the
// next publish invalidates the key.
type Handler struct {
	db       *gorm.DB
	cfg      *config.Config
	keyStore *keys.Store
	logger   *logrus.Entry
}

// NewHandler creates a new public pages handler
func NewHandler(db *gorm.DB, cfg *config.Config, keyStore *keys.Store, logger *logrus.Entry) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		keyStore: keyStore,
		logger:   logger.WithField("component", "pages"),
	}
}

// Serve handles GET /pages/:client/:seo
func (h *Handler) Serve(c *gin.Context) {
	clientID := c.Param("client")
	slug := c.Param("seo")

	if html, err := cache.GetPage(c.Request.Context(), clientID, slug); err != nil {
		h.logger.WithError(err).Warn("page cache read failed")
	} else if html != "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	var tenant model.Tenant
	if err := h.db.Where("client_id = ?", clientID).First(&tenant).Error; err != nil {
		httpx.FailErr(c, httpx.ErrNotFound("page not found"))
		return
	}
	if tenant.Status == model.TenantStatusSuspended {
		httpx.FailErr(c, httpx.ErrForbidden("page unavailable"))
		return
	}

	var page model.LandingPage
	err := h.db.
		Where("tenant_id = ? AND status = ? AND (seo_prefix = ? OR page_id = ?)",
			tenant.ID, model.LandingPageStatusPublished, slug, slug).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("page not found"))
		} else {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch page", err))
		}
		return
	}

	html := h.render(&tenant, &page)

	ttl := time.Duration(h.cfg.Publish.CacheSeconds) * time.Second
	if ttl > 0 {
		if err := cache.SetPage(c.Request.Context(), clientID, slug, html, ttl); err != nil {
			h.logger.WithError(err).Warn("page cache write failed")
		}
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) render(tenant *model.Tenant, page *model.LandingPage) string {
	var fetcher catalog.ProductFetcher
	secret, err := h.keyStore.SecretKey(tenant.ID, "live")
	if err != nil {
		h.logger.WithError(err).WithField("client_id", tenant.ClientID).Warn("no catalog credentials")
		fetcher = unresolvedFetcher{}
	} else {
		fetcher = catalog.NewStripeFetcher(secret)
	}

	resolver := catalog.NewResolver(fetcher, h.logger)
	pub := publisher.New(resolver, publisher.Options{
		CDNBase: h.cfg.Publish.CDNBase,
	}, h.logger)
	return pub.Render(page)
}

type unresolvedFetcher struct{}

func (unresolvedFetcher) Fetch(productID string) (*template.Product, error) {
	return nil, fmt.Errorf("catalog credentials not configured")
}
