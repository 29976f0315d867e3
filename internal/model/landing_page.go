package model

import (
	"time"

	"gorm.io/datatypes"
)

// Landing page lifecycle status
const (
	LandingPageStatusDraft     = "draft"
	LandingPageStatusPublished = "published"
)

// LandingPage stores one tenant landing page configuration. The JSON columns
// hold exactly the structures the template renderer consumes, so a page row
// deserializes straight into a render config.
type LandingPage struct {
	BaseModel
	TenantID int    `gorm:"not null;index" json:"tenantId"`
	PageID   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"pageId"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`

	// SEOPrefix is the path segment the published page is served under:
	// /pages/<client>/<seo_prefix>/. Falls back to PageID when empty.
	SEOPrefix string `gorm:"type:varchar(255)" json:"seoPrefix"`

	TemplateType string `gorm:"type:varchar(64);default:'single-product-hero'" json:"templateType"`
	HeroTitle    string `gorm:"type:varchar(512)" json:"heroTitle"`
	HeroSubtitle string `gorm:"type:varchar(512)" json:"heroSubtitle"`
	Guarantee    string `gorm:"type:text" json:"guarantee"`

	Products        datatypes.JSON `gorm:"type:json" json:"products"`
	LayoutOptions   datatypes.JSON `gorm:"type:json" json:"layoutOptions"`
	AnalyticsPixels datatypes.JSON `gorm:"type:json" json:"analyticsPixels"`
	CustomFields    datatypes.JSON `gorm:"type:json" json:"customFields"`

	CustomCSS string `gorm:"type:text" json:"customCss"`
	CustomJS  string `gorm:"type:text" json:"customJs"`

	Status       string     `gorm:"type:enum('draft','published');default:'draft'" json:"status"`
	PublishedAt  *time.Time `json:"publishedAt"`
	PublishedURL string     `gorm:"type:varchar(2048)" json:"publishedUrl"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for LandingPage model
func (LandingPage) TableName() string {
	return "landing_pages"
}

// Slug returns the path segment the page publishes under.
func (lp *LandingPage) Slug() string {
	if lp.SEOPrefix != "" {
		return lp.SEOPrefix
	}
	return lp.PageID
}
