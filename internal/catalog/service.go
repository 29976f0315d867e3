package catalog

import (
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// AdminPrice is one price as shown in the admin console.
type AdminPrice struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Recurring  bool   `json:"recurring"`
	Active     bool   `json:"active"`
}

// AdminProduct is one catalog product as shown in the admin console.
type AdminProduct struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Active      bool              `json:"active"`
	Metadata    map[string]string `json:"metadata"`
	Prices      []AdminPrice      `json:"prices"`
}

// CreateProductInput is the admin create/update payload.
type CreateProductInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
	PriceCents  int64             `json:"price_cents"`
	Currency    string            `json:"currency"`
	Recurring   bool              `json:"recurring"`
}

// Service is the admin-facing catalog CRUD over a tenant's Stripe account.
type Service struct {
	sc *client.API
}

// NewService builds a catalog service over the tenant's secret key.
func NewService(secretKey string) *Service {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Service{sc: sc}
}

// List returns products filtered by status: "active", "archived" or "all".
func (s *Service) List(status string) ([]AdminProduct, error) {
	params := &stripe.ProductListParams{}
	switch status {
	case "archived":
		params.Active = stripe.Bool(false)
	case "all":
		// no filter
	default:
		params.Active = stripe.Bool(true)
	}

	var products []AdminProduct
	iter := s.sc.Products.List(params)
	for iter.Next() {
		p, err := s.adminProduct(iter.Product())
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns one product with its prices.
func (s *Service) Get(productID string) (AdminProduct, error) {
	product, err := s.sc.Products.Get(productID, &stripe.ProductParams{})
	if err != nil {
		return AdminProduct{}, err
	}
	return s.adminProduct(product)
}

// Create adds a product and, when PriceCents is set, its initial price.
func (s *Service) Create(input CreateProductInput) (AdminProduct, error) {
	params := &stripe.ProductParams{
		Name:        stripe.String(input.Name),
		Description: stripe.String(input.Description),
		Images:      stripe.StringSlice(input.Images),
	}
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	product, err := s.sc.Products.New(params)
	if err != nil {
		return AdminProduct{}, fmt.Errorf("failed to create product: %w", err)
	}

	if input.PriceCents > 0 {
		if _, err := s.newPrice(product.ID, input); err != nil {
			return AdminProduct{}, err
		}
	}

	return s.adminProduct(product)
}

// Update modifies a product's display fields and metadata.
func (s *Service) Update(productID string, input CreateProductInput) (AdminProduct, error) {
	params := &stripe.ProductParams{}
	if input.Name != "" {
		params.Name = stripe.String(input.Name)
	}
	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}
	if len(input.Images) > 0 {
		params.Images = stripe.StringSlice(input.Images)
	}
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	product, err := s.sc.Products.Update(productID, params)
	if err != nil {
		return AdminProduct{}, fmt.Errorf("failed to update product: %w", err)
	}
	return s.adminProduct(product)
}

// Archive deactivates a product so it stops appearing on pages. Products
// referenced by past orders are never hard-deleted.
func (s *Service) Archive(productID string) error {
	_, err := s.sc.Products.Update(productID, &stripe.ProductParams{
		Active: stripe.Bool(false),
	})
	if err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}
	return nil
}

// ReplacePrice deactivates the old price and creates a new one with the
// given amount. Stripe prices are immutable, so an amount change is always
// a swap.
func (s *Service) ReplacePrice(priceID string, amountCents int64) (AdminPrice, error) {
	old, err := s.sc.Prices.Get(priceID, &stripe.PriceParams{})
	if err != nil {
		return AdminPrice{}, err
	}

	if _, err := s.sc.Prices.Update(priceID, &stripe.PriceParams{
		Active: stripe.Bool(false),
	}); err != nil {
		return AdminPrice{}, fmt.Errorf("failed to deactivate price: %w", err)
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(old.Product.ID),
		UnitAmount: stripe.Int64(amountCents),
		Currency:   stripe.String(string(old.Currency)),
	}
	if old.Recurring != nil {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval: stripe.String(string(old.Recurring.Interval)),
		}
	}

	created, err := s.sc.Prices.New(params)
	if err != nil {
		return AdminPrice{}, fmt.Errorf("failed to create replacement price: %w", err)
	}
	return adminPrice(created), nil
}

func (s *Service) newPrice(productID string, input CreateProductInput) (*stripe.Price, error) {
	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(input.PriceCents),
		Currency:   stripe.String(currency),
	}
	if input.Recurring {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval: stripe.String("month"),
		}
	}

	price, err := s.sc.Prices.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create price: %w", err)
	}
	return price, nil
}

func (s *Service) adminProduct(product *stripe.Product) (AdminProduct, error) {
	out := AdminProduct{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Images:      product.Images,
		Active:      product.Active,
		Metadata:    product.Metadata,
	}

	iter := s.sc.Prices.List(&stripe.PriceListParams{
		Product: stripe.String(product.ID),
	})
	for iter.Next() {
		out.Prices = append(out.Prices, adminPrice(iter.Price()))
	}
	if err := iter.Err(); err != nil {
		return AdminProduct{}, fmt.Errorf("failed to list prices: %w", err)
	}
	return out, nil
}

func adminPrice(price *stripe.Price) AdminPrice {
	return AdminPrice{
		ID:         price.ID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Recurring:  price.Recurring != nil,
		Active:     price.Active,
	}
}
