package template

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	return Options{Now: fixedClock, CDNBase: "https://cdn.test/v1"}
}

func productSlot(id, name string, price int64, order int) ProductSlot {
	return ProductSlot{
		DisplayOrder: order,
		Product: &Product{
			ID:          id,
			Name:        name,
			Description: "A fine product",
			Images:      []string{"https://img.test/" + id + ".jpg"},
			LowestPrice: price,
			Metadata:    map[string]string{"benefits": "Fast shipping|Great support"},
		},
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := Config{
		TemplateType: TypeSingleHero,
		HeroTitle:    "Big Sale",
		HeroSubtitle: "Act now",
		Guarantee:    "30 days money back",
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		Layout:       LayoutOptions{ShowTestimonials: true, ShowFAQ: true},
	}

	first := Render(cfg, testOptions())
	for i := 0; i < 5; i++ {
		if got := Render(cfg, testOptions()); got != first {
			t.Fatalf("Render() not deterministic on call %d", i+2)
		}
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	products := []ProductSlot{
		productSlot("prod_b", "B", 1000, 2),
		productSlot("prod_a", "A", 1000, 1),
	}
	cfg := Config{TemplateType: TypeThreeTier, Products: products}

	Render(cfg, testOptions())

	if products[0].Product.ID != "prod_b" || products[1].Product.ID != "prod_a" {
		t.Error("Render() reordered the caller's product slice")
	}
}

func TestProductSortIsStable(t *testing.T) {
	cfg := Config{
		TemplateType: TypeThreeTier,
		Products: []ProductSlot{
			productSlot("prod_A", "A", 1000, 2),
			productSlot("prod_B", "B", 1000, 2),
			productSlot("prod_C", "C", 1000, 1),
		},
	}

	html := Render(cfg, testOptions())

	posA := strings.Index(html, "prod_A")
	posB := strings.Index(html, "prod_B")
	posC := strings.Index(html, "prod_C")

	if posC < 0 || posA < 0 || posB < 0 {
		t.Fatal("expected all three products in output")
	}
	if !(posC < posA && posA < posB) {
		t.Errorf("expected order C, A, B; positions C=%d A=%d B=%d", posC, posA, posB)
	}
}

func TestHeroTitleIsEscaped(t *testing.T) {
	cfg := Config{
		TemplateType: TypeSingleHero,
		HeroTitle:    "<script>alert(1)</script>",
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
	}

	html := Render(cfg, testOptions())

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("hero title reached the document unescaped")
	}
	if !strings.Contains(html, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("expected escaped hero title in output")
	}
}

func TestUnknownTemplateTypeFallsBackToSingleHero(t *testing.T) {
	products := []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)}

	known := Render(Config{TemplateType: TypeSingleHero, HeroTitle: "T", Products: products}, testOptions())
	unknown := Render(Config{TemplateType: "does-not-exist", HeroTitle: "T", Products: products}, testOptions())
	missing := Render(Config{HeroTitle: "T", Products: products}, testOptions())

	if unknown != known {
		t.Error("unknown template_type should render identically to single-product-hero")
	}
	if missing != known {
		t.Error("missing template_type should render identically to single-product-hero")
	}
}

func TestDocumentShell(t *testing.T) {
	cfg := Config{
		TemplateType: TypeThreeTier,
		HeroTitle:    "Three Tiers",
		Guarantee:    "Ironclad guarantee",
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		CustomCSS:    ".hero { background: url('x.png'); }",
		CustomJS:     "console.log('loaded');",
		Layout:       LayoutOptions{ShowTestimonials: true, ShowFAQ: true},
	}

	html := Render(cfg, testOptions())

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Error("document must start with doctype")
	}
	if !strings.HasSuffix(html, "</html>") {
		t.Error("document must end with closing html tag")
	}
	for _, want := range []string{
		`<title>Three Tiers</title>`,
		`https://cdn.test/v1/base/styles.css`,
		`https://cdn.test/v1/three-tier-pricing/styles.css`,
		`https://cdn.test/v1/three-tier-pricing/scripts.js`,
		`--primary-color: #007bff;`,
		`--accent-color: #28a745;`,
		// Custom CSS/JS are verbatim, not escaped.
		`.hero { background: url('x.png'); }`,
		`<script>console.log('loaded');</script>`,
		`Our Guarantee`,
		`What Our Customers Say`,
		`Frequently Asked Questions`,
		`&copy; 2025 All rights reserved.`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestDefaultTitleAndColors(t *testing.T) {
	cfg := Config{Products: []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)}}

	html := Render(cfg, testOptions())

	if !strings.Contains(html, "<title>Special Offer</title>") {
		t.Error("empty hero title should fall back to 'Special Offer'")
	}
	if !strings.Contains(html, "#007bff") || !strings.Contains(html, "#28a745") {
		t.Error("missing default brand colors")
	}
}

func TestColorSchemeOverride(t *testing.T) {
	cfg := Config{
		Products: []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		Layout: LayoutOptions{
			ColorScheme: &ColorScheme{Primary: "#111111"},
		},
	}

	html := Render(cfg, testOptions())

	if !strings.Contains(html, "--primary-color: #111111;") {
		t.Error("primary color override not applied")
	}
	// Unset accent channel keeps its default.
	if !strings.Contains(html, "--accent-color: #28a745;") {
		t.Error("missing accent default when only primary is overridden")
	}
}

func TestAnalyticsSnippets(t *testing.T) {
	cfg := Config{
		Products:  []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		Analytics: Pixels{Google: "G-TEST123"},
	}

	html := Render(cfg, testOptions())

	if !strings.Contains(html, "googletagmanager.com/gtag/js?id=G-TEST123") {
		t.Error("missing Google Analytics snippet")
	}
	if strings.Contains(html, "fbevents.js") {
		t.Error("Meta Pixel snippet emitted with no pixel ID")
	}

	cfg.Analytics = Pixels{Meta: "987654"}
	html = Render(cfg, testOptions())
	if !strings.Contains(html, "fbq('init', '987654');") {
		t.Error("missing Meta Pixel snippet")
	}
	if strings.Contains(html, "googletagmanager") {
		t.Error("GA snippet emitted with no measurement ID")
	}
}

func TestOptionalSectionsOmitted(t *testing.T) {
	cfg := Config{Products: []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)}}

	html := Render(cfg, testOptions())

	for _, absent := range []string{"Our Guarantee", "What Our Customers Say", "Frequently Asked Questions"} {
		if strings.Contains(html, absent) {
			t.Errorf("section %q should be omitted by default", absent)
		}
	}
}

func TestFooterYearUsesInjectedClock(t *testing.T) {
	cfg := Config{Products: []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)}}
	opts := Options{
		Now:     func() time.Time { return time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC) },
		CDNBase: "https://cdn.test/v1",
	}

	if !strings.Contains(Render(cfg, opts), "&copy; 2031") {
		t.Error("footer year should come from the injected clock")
	}
}
