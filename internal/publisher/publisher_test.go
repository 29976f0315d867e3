package publisher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"offerhub/internal/catalog"
	"offerhub/internal/model"
	"offerhub/internal/template"
)

type fakeFetcher map[string]*template.Product

func (f fakeFetcher) Fetch(productID string) (*template.Product, error) {
	if p, ok := f[productID]; ok {
		return p, nil
	}
	return nil, os.ErrNotExist
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func testPublisher(t *testing.T, invalidate func(ctx context.Context, clientID, slug string) error) *Publisher {
	t.Helper()
	fetcher := fakeFetcher{
		"prod_basic": {
			ID:          "prod_basic",
			Name:        "Basic Plan",
			Description: "Entry tier",
			LowestPrice: 2999,
		},
	}
	resolver := catalog.NewResolver(fetcher, testLogger())
	root := t.TempDir()
	return New(resolver, Options{
		PreviewRoot:     filepath.Join(root, "preview"),
		PublishRoot:     filepath.Join(root, "live"),
		BaseURL:         "https://pages.test",
		PreviewBaseURL:  "https://preview.test",
		CDNBase:         "https://cdn.test/v1",
		Now:             func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
		InvalidateCache: invalidate,
	}, testLogger())
}

func testPage() *model.LandingPage {
	return &model.LandingPage{
		TenantID:     1,
		PageID:       "pg-1",
		Name:         "Spring Offer",
		SEOPrefix:    "spring-offer",
		TemplateType: template.TypeSingleHero,
		HeroTitle:    "Spring Sale",
		Products:     datatypes.JSON(`[{"product_id":"prod_basic","display_order":1}]`),
	}
}

func TestRunWritesDocumentAndReturnsURL(t *testing.T) {
	var invalidated []string
	p := testPublisher(t, func(ctx context.Context, clientID, slug string) error {
		invalidated = append(invalidated, clientID+"/"+slug)
		return nil
	})
	tenant := &model.Tenant{ClientID: "acme"}

	res, err := p.Run(context.Background(), tenant, testPage(), ModePublish)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.URL != "https://pages.test/pages/acme/spring-offer" {
		t.Errorf("URL = %q", res.URL)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read published file: %v", err)
	}
	if string(data) != res.HTML {
		t.Error("file content differs from returned HTML")
	}
	if !strings.Contains(res.HTML, "Spring Sale") {
		t.Error("rendered document missing hero title")
	}
	if !strings.Contains(res.HTML, "$29.99") {
		t.Error("rendered document missing resolved price")
	}
	if !strings.Contains(res.Path, filepath.Join("live", "tenants", "acme", "spring-offer")) {
		t.Errorf("published under wrong root: %s", res.Path)
	}
	if len(invalidated) != 1 || invalidated[0] != "acme/spring-offer" {
		t.Errorf("cache invalidation calls = %v", invalidated)
	}
}

func TestRunPreviewUsesPreviewRootAndBase(t *testing.T) {
	p := testPublisher(t, nil)
	tenant := &model.Tenant{ClientID: "acme"}

	res, err := p.Run(context.Background(), tenant, testPage(), ModePreview)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(res.URL, "https://preview.test/") {
		t.Errorf("preview URL = %q", res.URL)
	}
	if !strings.Contains(res.Path, filepath.Join("preview", "tenants", "acme")) {
		t.Errorf("preview written under wrong root: %s", res.Path)
	}
}

func TestRenderMatchesStandaloneRenderer(t *testing.T) {
	p := testPublisher(t, nil)
	page := testPage()

	got := p.Render(page)

	cfg := p.BuildConfig(page)
	want := template.Render(cfg, template.Options{
		Now:     func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
		CDNBase: "https://cdn.test/v1",
	})
	if got != want {
		t.Error("server render differs from direct renderer output for same config")
	}
}

func TestBuildConfigToleratesMalformedColumns(t *testing.T) {
	p := testPublisher(t, nil)
	page := testPage()
	page.LayoutOptions = datatypes.JSON(`{not json`)
	page.Products = datatypes.JSON(`also not json`)

	cfg := p.BuildConfig(page)
	if len(cfg.Products) != 0 {
		t.Errorf("expected no slots from malformed products, got %d", len(cfg.Products))
	}
	// The page still renders.
	if html := p.Render(page); !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("render failed for page with malformed columns")
	}
}

func TestSlugFallsBackToPageID(t *testing.T) {
	p := testPublisher(t, nil)
	page := testPage()
	page.SEOPrefix = ""

	res, err := p.Run(context.Background(), &model.Tenant{ClientID: "acme"}, page, ModePublish)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasSuffix(res.URL, "/pages/acme/pg-1") {
		t.Errorf("URL = %q, want page id slug", res.URL)
	}
}
