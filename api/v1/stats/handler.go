package stats

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72/client"

	"offerhub/api/v1/middleware"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/stats"
)

// Handler handles dashboard stats API
type Handler struct {
	service  *stats.Service
	keyStore *keys.Store
	logger   *logrus.Entry
}

// NewHandler creates a new stats handler
func NewHandler(service *stats.Service, keyStore *keys.Store, logger *logrus.Entry) *Handler {
	return &Handler{
		service:  service,
		keyStore: keyStore,
		logger:   logger.WithField("component", "stats"),
	}
}

func (h *Handler) stripeClient(c *gin.Context) (*client.API, string, bool) {
	tenant, _ := middleware.TenantFromContext(c)
	mode := c.DefaultQuery("mode", "live")
	if mode != "test" && mode != "live" {
		httpx.FailErr(c, httpx.ErrParamInvalid("mode must be test or live"))
		return nil, "", false
	}

	secret, err := h.keyStore.SecretKey(tenant.ID, mode)
	if err != nil {
		httpx.FailErr(c, httpx.ErrStateConflict("stats credentials not configured"))
		return nil, "", false
	}

	sc := &client.API{}
	sc.Init(secret, nil)
	return sc, mode, true
}

// Get handles GET /api/v1/admin/stats?range=7
func (h *Handler) Get(c *gin.Context) {
	tenant, _ := middleware.TenantFromContext(c)

	rangeDays, _ := strconv.Atoi(c.DefaultQuery("range", "30"))

	sc, mode, ok := h.stripeClient(c)
	if !ok {
		return
	}

	summary, err := h.service.Collect(c.Request.Context(), sc, tenant.ClientID, mode, rangeDays)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to collect stats", err))
		return
	}
	httpx.OK(c, summary)
}

// Transactions handles GET /api/v1/admin/stats/transactions?limit=10
func (h *Handler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sc, _, ok := h.stripeClient(c)
	if !ok {
		return
	}

	txs, err := h.service.RecentTransactions(sc, limit)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to list transactions", err))
		return
	}
	httpx.OK(c, gin.H{"items": txs, "total": len(txs)})
}
