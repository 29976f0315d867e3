package middleware

import (
	"errors"

	"offerhub/internal/httpx"
	"offerhub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const tenantContextKey = "tenant"

// TenantRequired resolves the X-Client-Id header to a tenant row and stores
// it in the request context. Sessions bound to a tenant (tokenTenantId > 0)
// may only act on their own tenant; platform operators carry tenant 0 and
// can act on any.
func TenantRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-Id")
		if clientID == "" {
			httpx.FailErr(c, httpx.ErrParamMissing("missing X-Client-Id header"))
			c.Abort()
			return
		}

		var tenant model.Tenant
		if err := db.Where("client_id = ?", clientID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("unknown client"))
			} else {
				httpx.FailErr(c, httpx.ErrDatabaseError("failed to resolve client", err))
			}
			c.Abort()
			return
		}

		if tenant.Status == model.TenantStatusSuspended {
			httpx.FailErr(c, httpx.ErrForbidden("tenant is suspended"))
			c.Abort()
			return
		}

		if tokenTenantID := c.GetInt("tokenTenantId"); tokenTenantID != 0 && tokenTenantID != tenant.ID {
			httpx.FailErr(c, httpx.ErrForbidden("token not valid for this client"))
			c.Abort()
			return
		}

		c.Set(tenantContextKey, &tenant)
		c.Next()
	}
}

// TenantFromContext returns the tenant resolved by TenantRequired.
func TenantFromContext(c *gin.Context) (*model.Tenant, bool) {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil, false
	}
	tenant, ok := v.(*model.Tenant)
	return tenant, ok
}
