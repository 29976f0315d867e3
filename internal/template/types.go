package template

import "time"

// Template type discriminators. Unknown values fall back to TypeSingleHero.
const (
	TypeSingleHero   = "single-product-hero"
	TypeThreeTier    = "three-tier-pricing"
	TypeFourTier     = "four-tier-pricing"
	TypeFiveTier     = "five-tier-pricing"
	TypeSalesLetter  = "sales-letter"
	TypeVideoSales   = "video-sales"
	TypeEmailCapture = "email-capture-lead"
	TypeSubscription = "subscription-focus"
	TypeConfigurable = "configurable-product"
	TypeCustom       = "custom"
)

// DefaultCDNBase is where versioned template assets live. Deployed pages
// reference <base>/<template_type>/styles.css and scripts.js, so the path
// layout must stay stable.
const DefaultCDNBase = "https://cdn.offerhub.io/templates/v1"

// Options carries the render-time dependencies that would otherwise be
// implicit reads of the environment. Now is the clock used for the footer
// year; leaving it nil uses time.Now.
type Options struct {
	Now     func() time.Time
	CDNBase string
}

// Config is one landing page's full rendering input. It is read-only to the
// renderer; a single Config produces the same document on every call.
type Config struct {
	TemplateType string        `json:"template_type"`
	HeroTitle    string        `json:"hero_title"`
	HeroSubtitle string        `json:"hero_subtitle"`
	Guarantee    string        `json:"guarantee"`
	Products     []ProductSlot `json:"products"`
	Layout       LayoutOptions `json:"layout_options"`

	// CustomCSS and CustomJS are emitted verbatim into the document. The
	// tenant writing them is the page's own operator, so they are trusted
	// and deliberately not escaped or sanitized.
	CustomCSS string `json:"custom_css"`
	CustomJS  string `json:"custom_js"`

	Analytics    Pixels      `json:"analytics_pixels"`
	CustomFields []FormField `json:"custom_fields"`
}

// ProductSlot is one position in the page's ordered product list. Product is
// resolved externally before rendering; a nil Product renders as an inline
// error fragment in that slot only.
type ProductSlot struct {
	DisplayOrder         int      `json:"display_order"`
	TierLabel            string   `json:"tier_label"`
	Featured             bool     `json:"is_featured"`
	DescriptionOverride  string   `json:"custom_description_override"`
	RegularPriceOverride *int64   `json:"regular_price_override"`
	Product              *Product `json:"_product"`
}

// Product is the external catalog snapshot embedded into a slot. LowestPrice
// is in minor currency units (cents).
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	LowestPrice int64             `json:"lowest_price"`
	Metadata    map[string]string `json:"metadata"`
}

// ColorScheme holds the two brand colors exposed as CSS custom properties.
type ColorScheme struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

// LayoutOptions are the recognized layout_options keys. ShowBenefits is a
// pointer so that an absent key defaults to true.
type LayoutOptions struct {
	ColorScheme      *ColorScheme `json:"color_scheme"`
	CountdownMinutes int          `json:"countdown_minutes"`
	ShowBenefits     *bool        `json:"show_benefits"`
	HeroBadges       []string     `json:"hero_badges"`
	ShowTestimonials bool         `json:"show_testimonials"`
	ShowFAQ          bool         `json:"show_faq"`
}

// Pixels holds optional analytics IDs. Empty values emit nothing.
type Pixels struct {
	Google string `json:"google"`
	Meta   string `json:"meta"`
}

// Form field types recognized by the configurable-product template.
const (
	FieldText     = "text"
	FieldDropdown = "dropdown"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
	FieldTextarea = "textarea"
)

// FormField describes one custom input on a configurable-product page.
type FormField struct {
	FieldID   string   `json:"field_id"`
	Label     string   `json:"label"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	MaxLength int      `json:"max_length"`
	Options   []string `json:"options"`
}

func (l LayoutOptions) showBenefits() bool {
	if l.ShowBenefits == nil {
		return true
	}
	return *l.ShowBenefits
}

func (l LayoutOptions) colors() ColorScheme {
	cs := ColorScheme{Primary: "#007bff", Accent: "#28a745"}
	if l.ColorScheme != nil {
		if l.ColorScheme.Primary != "" {
			cs.Primary = l.ColorScheme.Primary
		}
		if l.ColorScheme.Accent != "" {
			cs.Accent = l.ColorScheme.Accent
		}
	}
	return cs
}

func (l LayoutOptions) countdownMinutes() int {
	if l.CountdownMinutes <= 0 {
		return 5
	}
	return l.CountdownMinutes
}
