package orders

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"offerhub/api/v1/middleware"
	"offerhub/internal/httpx"
	"offerhub/internal/model"
)

// ListRequest represents list orders request
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Status   string `form:"status"`
	Email    string `form:"email"`
	From     string `form:"from"` // inclusive, YYYY-MM-DD
	To       string `form:"to"`   // inclusive, YYYY-MM-DD
}

// UpdateRequest represents order fulfillment update request
type UpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	Carrier        *string `json:"carrier"`
}

// Handler handles orders API
type Handler struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// NewHandler creates a new orders handler
func NewHandler(db *gorm.DB, logger *logrus.Entry) *Handler {
	return &Handler{
		db:     db,
		logger: logger.WithField("component", "orders"),
	}
}

// List handles GET /api/v1/admin/orders
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

	query := h.db.Model(&model.Order{}).Where("tenant_id = ?", tenant.ID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Email != "" {
		query = query.Where("customer_email LIKE ?", "%"+req.Email+"%")
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("from must be YYYY-MM-DD"))
			return
		}
		query = query.Where("created_at >= ?", from)
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("to must be YYYY-MM-DD"))
			return
		}
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to count orders", err))
		return
	}

	var orders []model.Order
	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Offset(offset).
		Limit(req.PageSize).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch orders", err))
		return
	}

	httpx.OKItems(c, orders, total, req.Page, req.PageSize)
}

// Get handles GET /api/v1/admin/orders/:id
func (h *Handler) Get(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	httpx.OK(c, order)
}

// Update handles PUT /api/v1/admin/orders/:id
func (h *Handler) Update(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	if req.Status != nil {
		if !validStatus(*req.Status) {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid order status"))
			return
		}
		// Stamp ShippedAt on the pending -> shipped transition.
		if *req.Status == model.OrderStatusShipped && order.Status != model.OrderStatusShipped {
			now := time.Now()
			order.ShippedAt = &now
		}
		order.Status = *req.Status
	}
	if req.TrackingNumber != nil {
		order.TrackingNumber = *req.TrackingNumber
	}
	if req.Carrier != nil {
		order.Carrier = *req.Carrier
	}

	if err := h.db.Save(order).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to update order", err))
		return
	}

	httpx.OK(c, order)
}

func (h *Handler) loadOrder(c *gin.Context) (*model.Order, bool) {
	tenant, _ := middleware.TenantFromContext(c)

	clause, value := orderLookup(c.Param("id"))

	var order model.Order
	err := h.db.Where("tenant_id = ?", tenant.ID).Where(clause, value).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("order not found"))
		} else {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch order", err))
		}
		return nil, false
	}
	return &order, true
}

// orderLookup picks the filter for a :id path param: purely numeric values
// address the row id, anything else the order number. Matching both columns
// in one predicate is unsafe; MySQL would coerce a non-numeric param down to
// its leading digits and compare that against id.
func orderLookup(param string) (string, interface{}) {
	if id, err := strconv.Atoi(param); err == nil {
		return "id = ?", id
	}
	return "order_number = ?", param
}

func validStatus(status string) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
		return true
	}
	return false
}
