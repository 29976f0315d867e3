package shipping

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Stub is a deterministic in-process provider for tenants that have not
// connected a real aggregator yet. Rates and labels are fabricated but
// stable, so checkout flows can be exercised end to end in dev.
type Stub struct{}

// NewStub returns the stub provider.
func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return "stub" }

// GetRates returns two fixed options priced off the parcel weight.
func (s *Stub) GetRates(ctx context.Context, from, to Address, parcel Parcel) ([]Rate, error) {
	weight := parcel.Weight
	if weight <= 0 {
		weight = 1
	}
	base := int64(weight * 50)
	return []Rate{
		{
			RateID:        fmt.Sprintf("stub-ground-%s", to.Zip),
			Provider:      s.Name(),
			Carrier:       "USPS",
			Service:       "Ground Advantage",
			AmountCents:   499 + base,
			Currency:      "USD",
			EstimatedDays: 5,
		},
		{
			RateID:        fmt.Sprintf("stub-priority-%s", to.Zip),
			Provider:      s.Name(),
			Carrier:       "USPS",
			Service:       "Priority Mail",
			AmountCents:   899 + base,
			Currency:      "USD",
			EstimatedDays: 2,
		},
	}, nil
}

// CreateLabel fabricates a label for any stub rate ID.
func (s *Stub) CreateLabel(ctx context.Context, rateID string) (*Label, error) {
	if rateID == "" {
		return nil, fmt.Errorf("rate id is required")
	}
	return &Label{
		TrackingNumber: fmt.Sprintf("STUB%010d", hashString(rateID)%10000000000),
		Carrier:        "USPS",
		LabelURL:       "https://example.invalid/labels/" + rateID + ".pdf",
		AmountCents:    499,
	}, nil
}

// GetTracking reports every stub shipment as in transit.
func (s *Stub) GetTracking(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	return &TrackingInfo{
		TrackingNumber: trackingNumber,
		Status:         "TRANSIT",
		StatusDetail:   "Package is moving through the network",
	}, nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
