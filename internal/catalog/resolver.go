// Package catalog resolves the product references configured on a landing
// page into the catalog snapshots the template renderer consumes. Products
// and prices live in the tenant's Stripe account; this package is the only
// place that talks to it.
package catalog

import (
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"offerhub/internal/template"
)

// SlotConfig is one product reference as stored on a landing page. It mirrors
// the persisted JSON; Resolve turns it into a renderer ProductSlot.
type SlotConfig struct {
	ProductID            string `json:"product_id"`
	DisplayOrder         int    `json:"display_order"`
	TierLabel            string `json:"tier_label"`
	Featured             bool   `json:"is_featured"`
	DescriptionOverride  string `json:"custom_description_override"`
	RegularPriceOverride *int64 `json:"regular_price_override"`
}

// ProductFetcher loads one catalog snapshot by product id.
type ProductFetcher interface {
	Fetch(productID string) (*template.Product, error)
}

// Resolver maps slot configs to renderer slots. A fetch failure leaves that
// slot's Product nil so the renderer shows its inline error fragment; the
// other slots are unaffected.
type Resolver struct {
	fetcher ProductFetcher
	logger  *logrus.Entry
}

// NewResolver creates a resolver over the given fetcher.
func NewResolver(fetcher ProductFetcher, logger *logrus.Entry) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logger.WithField("component", "catalog-resolver"),
	}
}

// Resolve builds renderer slots for every config entry, attaching whatever
// snapshots could be fetched.
func (r *Resolver) Resolve(slots []SlotConfig) []template.ProductSlot {
	resolved := make([]template.ProductSlot, 0, len(slots))
	for _, sc := range slots {
		slot := template.ProductSlot{
			DisplayOrder:         sc.DisplayOrder,
			TierLabel:            sc.TierLabel,
			Featured:             sc.Featured,
			DescriptionOverride:  sc.DescriptionOverride,
			RegularPriceOverride: sc.RegularPriceOverride,
		}

		if sc.ProductID != "" {
			product, err := r.fetcher.Fetch(sc.ProductID)
			if err != nil {
				r.logger.WithError(err).WithField("productId", sc.ProductID).
					Warn("failed to resolve product, slot will render as error")
			} else {
				slot.Product = product
			}
		}

		resolved = append(resolved, slot)
	}
	return resolved
}

// StripeFetcher loads snapshots from a tenant's Stripe account.
type StripeFetcher struct {
	sc *client.API
}

// NewStripeFetcher builds a fetcher over the tenant's secret key.
func NewStripeFetcher(secretKey string) *StripeFetcher {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeFetcher{sc: sc}
}

// Fetch loads the product plus its lowest active price.
func (f *StripeFetcher) Fetch(productID string) (*template.Product, error) {
	product, err := f.sc.Products.Get(productID, &stripe.ProductParams{})
	if err != nil {
		return nil, err
	}

	var lowest int64
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	iter := f.sc.Prices.List(params)
	for iter.Next() {
		price := iter.Price()
		if lowest == 0 || price.UnitAmount < lowest {
			lowest = price.UnitAmount
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return &template.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Images:      product.Images,
		LowestPrice: lowest,
		Metadata:    product.Metadata,
	}, nil
}
