// Package publisher is the server-side consumer of the template renderer.
// It resolves a landing page's product slots, renders the document, writes
// it under the preview or publish root and returns the public URL.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"offerhub/internal/cache"
	"offerhub/internal/catalog"
	"offerhub/internal/model"
	"offerhub/internal/template"
)

// Mode selects the output root and URL base.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePublish Mode = "publish"
)

// Options configures a Publisher.
type Options struct {
	PreviewRoot    string
	PublishRoot    string
	BaseURL        string
	PreviewBaseURL string
	CDNBase        string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
	// InvalidateCache may be nil when Redis is not wired (pagegen CLI).
	InvalidateCache func(ctx context.Context, clientID, slug string) error
}

// Result describes one completed render.
type Result struct {
	URL      string
	Path     string
	HTML     string
	Rendered time.Time
}

// Publisher renders landing pages to static documents.
type Publisher struct {
	resolver *catalog.Resolver
	opts     Options
	logger   *logrus.Entry
}

// New creates a Publisher over the given slot resolver.
func New(resolver *catalog.Resolver, opts Options, logger *logrus.Entry) *Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{
		resolver: resolver,
		opts:     opts,
		logger:   logger.WithField("component", "publisher"),
	}
}

// BuildConfig deserializes a landing page row into a render config and
// resolves its product slots. Malformed JSON columns fall back to their
// zero values rather than failing the whole render.
func (p *Publisher) BuildConfig(page *model.LandingPage) template.Config {
	cfg := template.Config{
		TemplateType: page.TemplateType,
		HeroTitle:    page.HeroTitle,
		HeroSubtitle: page.HeroSubtitle,
		Guarantee:    page.Guarantee,
		CustomCSS:    page.CustomCSS,
		CustomJS:     page.CustomJS,
	}

	var slots []catalog.SlotConfig
	if len(page.Products) > 0 {
		if err := json.Unmarshal(page.Products, &slots); err != nil {
			p.logger.WithError(err).WithField("page_id", page.PageID).Warn("malformed products column")
		}
	}
	cfg.Products = p.resolver.Resolve(slots)

	decodeColumn(page.LayoutOptions, &cfg.Layout, p.logger, page.PageID, "layout_options")
	decodeColumn(page.AnalyticsPixels, &cfg.Analytics, p.logger, page.PageID, "analytics_pixels")
	decodeColumn(page.CustomFields, &cfg.CustomFields, p.logger, page.PageID, "custom_fields")

	return cfg
}

func decodeColumn(raw []byte, dst interface{}, logger *logrus.Entry, pageID, column string) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"page_id": pageID,
			"column":  column,
		}).Warn("malformed json column")
	}
}

// Render produces the document for a page without touching disk. Used by
// the public serve route and the preview endpoint.
func (p *Publisher) Render(page *model.LandingPage) string {
	cfg := p.BuildConfig(page)
	return template.Render(cfg, template.Options{
		Now:     p.opts.Now,
		CDNBase: p.opts.CDNBase,
	})
}

// Run renders the page and writes it to the mode's root as
// <root>/tenants/<client>/<slug>/index.html, then drops the Redis cache
// entry so the next public request picks up the new document.
func (p *Publisher) Run(ctx context.Context, tenant *model.Tenant, page *model.LandingPage, mode Mode) (*Result, error) {
	html := p.Render(page)
	slug := page.Slug()

	root, base := p.opts.PublishRoot, p.opts.BaseURL
	if mode == ModePreview {
		root, base = p.opts.PreviewRoot, p.opts.PreviewBaseURL
	}

	dir := filepath.Join(root, "tenants", tenant.ClientID, slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create page directory: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return nil, fmt.Errorf("write page: %w", err)
	}

	url := fmt.Sprintf("%s/pages/%s/%s", strings.TrimRight(base, "/"), tenant.ClientID, slug)

	if p.opts.InvalidateCache != nil {
		if err := p.opts.InvalidateCache(ctx, tenant.ClientID, slug); err != nil {
			// Stale cache self-heals at TTL expiry; the publish still counts.
			p.logger.WithError(err).Warn("page cache invalidation failed")
		}
	}

	p.logger.WithFields(logrus.Fields{
		"client_id": tenant.ClientID,
		"slug":      slug,
		"mode":      string(mode),
	}).Info("✓ page rendered")

	return &Result{
		URL:      url,
		Path:     path,
		HTML:     html,
		Rendered: p.opts.Now(),
	}, nil
}

// DefaultCacheInvalidator adapts the shared Redis page cache to Options.
func DefaultCacheInvalidator() func(ctx context.Context, clientID, slug string) error {
	return cache.InvalidatePage
}
