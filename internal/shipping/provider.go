// Package shipping is the rate-shopping layer. Each carrier aggregator is a
// Provider; tenants pick one in their shipping configuration and the admin
// API routes rate, label and tracking calls through it.
package shipping

import "context"

// Address is a normalized postal address shared by all providers.
type Address struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Parcel is a normalized package spec. Dimensions are inches, weight ounces.
type Parcel struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Rate is one shippable option returned by a provider.
type Rate struct {
	RateID        string `json:"rate_id"`
	Provider      string `json:"provider"`
	Carrier       string `json:"carrier"`
	Service       string `json:"service"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimated_days"`
}

// Label is a purchased shipping label.
type Label struct {
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	LabelURL       string `json:"label_url"`
	AmountCents    int64  `json:"amount_cents"`
}

// TrackingInfo is the current tracking state of a shipment.
type TrackingInfo struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	StatusDetail   string `json:"status_detail"`
}

// Provider is one shipping aggregator integration.
type Provider interface {
	// Name returns the provider identifier stored in tenant config.
	Name() string
	// GetRates shops rates for one parcel between two addresses.
	GetRates(ctx context.Context, from, to Address, parcel Parcel) ([]Rate, error)
	// CreateLabel purchases a previously returned rate.
	CreateLabel(ctx context.Context, rateID string) (*Label, error)
	// GetTracking fetches the shipment state for a tracking number.
	GetTracking(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error)
}
