package model

import (
	"time"

	"gorm.io/datatypes"
)

// Order fulfillment status
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is one checkout captured for a tenant. Amounts are integer cents.
type Order struct {
	BaseModel
	TenantID    int    `gorm:"not null;index" json:"tenantId"`
	OrderNumber string `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderNumber"`

	CustomerName  string         `gorm:"type:varchar(255)" json:"customerName"`
	CustomerEmail string         `gorm:"type:varchar(255);index" json:"customerEmail"`
	ShippingAddr  datatypes.JSON `gorm:"type:json" json:"shippingAddress"`
	Items         datatypes.JSON `gorm:"type:json" json:"items"`

	AmountTotal int64  `gorm:"not null;default:0" json:"amountTotal"`
	Currency    string `gorm:"type:varchar(8);default:'usd'" json:"currency"`

	Status         string     `gorm:"type:enum('pending','shipped','delivered','cancelled');default:'pending';index" json:"status"`
	TrackingNumber string     `gorm:"type:varchar(128)" json:"trackingNumber"`
	Carrier        string     `gorm:"type:varchar(64)" json:"carrier"`
	ShippedAt      *time.Time `json:"shippedAt"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}
