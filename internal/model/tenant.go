package model

// TenantStatus represents tenant account status
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant represents one merchant account. ClientID is the external
// identifier carried on every admin request (X-Client-Id header).
type Tenant struct {
	BaseModel
	ClientID string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"clientId"`
	Name     string       `gorm:"type:varchar(255);not null" json:"name"`
	Email    string       `gorm:"type:varchar(255)" json:"email"`
	Status   TenantStatus `gorm:"type:enum('active','suspended');default:'active'" json:"status"`
}

// TableName specifies the table name for Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
