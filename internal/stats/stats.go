// Package stats aggregates dashboard numbers from a tenant's Stripe
// account. Results are cached in Redis for a short TTL since the admin UI
// refreshes them aggressively.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"offerhub/internal/cache"
)

// Summary is the dashboard stats payload for one range.
type Summary struct {
	RangeDays    int    `json:"rangeDays"`
	PeriodStart  int64  `json:"periodStart"`
	PeriodEnd    int64  `json:"periodEnd"`
	Orders       int    `json:"orders"`
	RevenueCents int64  `json:"revenueCents"`
	Currency     string `json:"currency"`
	Customers    int    `json:"customers"`
	Products     int    `json:"products"`
}

// Transaction is one recent charge for the dashboard activity feed.
type Transaction struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Created     int64  `json:"created"`
}

// Store caches computed summaries. RedisStore is the production
// implementation; tests substitute an in-memory one.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore backs Store with the shared Redis client.
type RedisStore struct{}

func (RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := cache.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return cache.Client.Set(ctx, key, value, ttl).Err()
}

// Service computes tenant stats from Stripe.
type Service struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Entry
}

// NewService creates a stats service. store may be nil to disable caching.
func NewService(store Store, ttl time.Duration, logger *logrus.Entry) *Service {
	return &Service{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.WithField("component", "stats"),
	}
}

// ClampRange bounds a requested range to 1..90 days, defaulting to 30.
func ClampRange(rangeDays int) int {
	if rangeDays <= 0 {
		return 30
	}
	if rangeDays > 90 {
		return 90
	}
	return rangeDays
}

func cacheKey(clientID, mode string, rangeDays int) string {
	return fmt.Sprintf("stats:%s:%s:%d", clientID, mode, rangeDays)
}

// Collect returns the summary for the trailing rangeDays window, serving
// from cache when a fresh entry exists. sc must be initialized with the
// tenant's secret key.
func (s *Service) Collect(ctx context.Context, sc *client.API, clientID, mode string, rangeDays int) (*Summary, error) {
	rangeDays = ClampRange(rangeDays)
	key := cacheKey(clientID, mode, rangeDays)

	if s.store != nil {
		if raw, err := s.store.Get(ctx, key); err != nil {
			s.logger.WithError(err).Warn("stats cache read failed")
		} else if raw != "" {
			var cached Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.collect(sc, rangeDays)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.store.Set(ctx, key, string(data), s.ttl); err != nil {
				s.logger.WithError(err).Warn("stats cache write failed")
			}
		}
	}
	return summary, nil
}

func (s *Service) collect(sc *client.API, rangeDays int) (*Summary, error) {
	now := s.now().Unix()
	since := now - int64(rangeDays)*86400

	summary := &Summary{
		RangeDays:   rangeDays,
		PeriodStart: since,
		PeriodEnd:   now,
	}

	customers := make(map[string]struct{})
	currency := ""

	params := &stripe.CheckoutSessionListParams{}
	params.Limit = stripe.Int64(100)
	params.Filters.AddFilter("created[gte]", "", strconv.FormatInt(since, 10))

	it := sc.CheckoutSessions.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess.Status != stripe.CheckoutSessionStatusComplete {
			continue
		}
		if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
			sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			continue
		}
		summary.Orders++
		summary.RevenueCents += sess.AmountTotal
		if currency == "" && sess.Currency != "" {
			currency = string(sess.Currency)
		}
		switch {
		case sess.Customer != nil && sess.Customer.ID != "":
			customers[sess.Customer.ID] = struct{}{}
		case sess.CustomerDetails != nil && sess.CustomerDetails.Email != "":
			customers[strings.ToLower(strings.TrimSpace(sess.CustomerDetails.Email))] = struct{}{}
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list checkout sessions: %w", err)
	}

	summary.Customers = len(customers)
	if currency == "" {
		currency = "usd"
	}
	summary.Currency = strings.ToUpper(currency)

	productParams := &stripe.ProductListParams{Active: stripe.Bool(true)}
	productParams.Limit = stripe.Int64(100)
	pit := sc.Products.List(productParams)
	for pit.Next() {
		summary.Products++
	}
	if err := pit.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return summary, nil
}

// RecentTransactions returns the latest charges for the activity feed.
func (s *Service) RecentTransactions(sc *client.API, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	params := &stripe.ChargeListParams{}
	params.Limit = stripe.Int64(int64(limit))

	txs := make([]Transaction, 0, limit)
	it := sc.Charges.List(params)
	for it.Next() {
		ch := it.Charge()
		tx := Transaction{
			ID:          ch.ID,
			AmountCents: ch.Amount,
			Currency:    strings.ToUpper(string(ch.Currency)),
			Status:      string(ch.Status),
			Description: ch.Description,
			Created:     ch.Created,
		}
		if ch.BillingDetails != nil {
			tx.Email = ch.BillingDetails.Email
		}
		txs = append(txs, tx)
		if len(txs) >= limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	return txs, nil
}
