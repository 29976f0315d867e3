package template

import (
	"strings"
	"testing"
)

func TestSingleHeroLayout(t *testing.T) {
	cfg := Config{
		TemplateType: TypeSingleHero,
		HeroTitle:    "Widget",
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
	}

	html := Render(cfg, testOptions())

	for _, want := range []string{
		`class="hero hero-single"`,
		`<div class="price">$29.99</div>`,
		`checkout('prod_1')`,
		`✓ Fast shipping`,
		`✓ Great support`,
		`https://img.test/prod_1.jpg`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("single hero missing %q", want)
		}
	}
}

func TestSingleHeroUnresolvedProduct(t *testing.T) {
	cfg := Config{
		TemplateType: TypeSingleHero,
		Products:     []ProductSlot{{DisplayOrder: 0}},
	}

	html := Render(cfg, testOptions())

	if !strings.Contains(html, `<div class="error">Product not found</div>`) {
		t.Error("unresolved product should render the inline error fragment")
	}
}

func TestShowBenefitsDisabled(t *testing.T) {
	off := false
	cfg := Config{
		TemplateType: TypeSingleHero,
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		Layout:       LayoutOptions{ShowBenefits: &off},
	}

	if strings.Contains(Render(cfg, testOptions()), "benefits-list") {
		t.Error("benefits list emitted with show_benefits=false")
	}
}

func TestMalformedBenefitsMetadata(t *testing.T) {
	slot := productSlot("prod_1", "Widget", 2999, 0)
	slot.Product.Metadata = nil

	cfg := Config{TemplateType: TypeSingleHero, Products: []ProductSlot{slot}}

	if strings.Contains(Render(cfg, testOptions()), "benefits-list") {
		t.Error("missing benefits metadata should render zero benefits")
	}
}

func TestThreeTierUnresolvedSlotIsolation(t *testing.T) {
	cfg := Config{
		TemplateType: TypeThreeTier,
		Products: []ProductSlot{
			productSlot("prod_1", "Basic", 1999, 1),
			{DisplayOrder: 2}, // unresolved
			productSlot("prod_3", "Pro", 4999, 3),
		},
	}

	html := Render(cfg, testOptions())

	if got := strings.Count(html, `<div class="error">Product not found</div>`); got != 1 {
		t.Errorf("expected exactly 1 error fragment, got %d", got)
	}
	for _, want := range []string{"checkout('prod_1')", "checkout('prod_3')", "$19.99", "$49.99"} {
		if !strings.Contains(html, want) {
			t.Errorf("sibling card content %q lost to unresolved slot", want)
		}
	}
}

func TestTierGridCapsProductCount(t *testing.T) {
	var slots []ProductSlot
	for i := 0; i < 6; i++ {
		slots = append(slots, productSlot("prod_"+string(rune('a'+i)), "P", 1000, i))
	}

	threeTier := Render(Config{TemplateType: TypeThreeTier, Products: slots}, testOptions())
	if got := strings.Count(threeTier, "checkout('prod_"); got != 3 {
		t.Errorf("three-tier should cap at 3 cards, got %d", got)
	}

	fiveTier := Render(Config{TemplateType: TypeFiveTier, Products: slots}, testOptions())
	if got := strings.Count(fiveTier, "checkout('prod_"); got != 5 {
		t.Errorf("five-tier should cap at 5 cards, got %d", got)
	}
}

func TestTierLabelFallsBackToProductName(t *testing.T) {
	labeled := productSlot("prod_1", "Widget", 1999, 1)
	labeled.TierLabel = "Starter"
	unlabeled := productSlot("prod_2", "Gadget", 3999, 2)

	html := Render(Config{TemplateType: TypeThreeTier, Products: []ProductSlot{labeled, unlabeled}}, testOptions())

	if !strings.Contains(html, `<h3 class="tier-label">Starter</h3>`) {
		t.Error("tier label override not used")
	}
	if !strings.Contains(html, `<h3 class="tier-label">Gadget</h3>`) {
		t.Error("tier label should fall back to product name")
	}
}

func TestFeaturedBadge(t *testing.T) {
	slot := productSlot("prod_1", "Widget", 1999, 1)
	slot.Featured = true

	html := Render(Config{TemplateType: TypeThreeTier, Products: []ProductSlot{slot}}, testOptions())

	if !strings.Contains(html, `<div class="featured-badge">Most Popular</div>`) {
		t.Error("featured slot missing its badge")
	}
}

func TestFourTierPadsToFourSlots(t *testing.T) {
	cfg := Config{
		TemplateType: TypeFourTier,
		Products: []ProductSlot{
			productSlot("prod_1", "Basic", 1999, 1),
			productSlot("prod_2", "Plus", 2999, 2),
		},
	}

	html := Render(cfg, testOptions())

	if got := strings.Count(html, `class="tier-card`); got != 4 {
		t.Errorf("four-tier must render exactly 4 grid slots, got %d", got)
	}
	if got := strings.Count(html, "tier-empty"); got != 2 {
		t.Errorf("expected 2 empty cells, got %d", got)
	}
}

func TestFourTierDiscountMath(t *testing.T) {
	cfg := Config{
		TemplateType: TypeFourTier,
		Products:     []ProductSlot{productSlot("prod_1", "Basic", 1999, 1)},
	}

	html := Render(cfg, testOptions())

	// regular = round(1999 * 1.5) = 2999, savings = 1000, pct = round(1000/2999*100) = 33
	if !strings.Contains(html, `<span class="regular-price">$29.99</span>`) {
		t.Error("computed regular price should be 29.99")
	}
	if !strings.Contains(html, `<span class="price">$19.99</span>`) {
		t.Error("missing actual price")
	}
	if !strings.Contains(html, `Save $10.00 (33% off)`) {
		t.Error("wrong savings or discount percentage")
	}
}

func TestFourTierRegularPriceOverride(t *testing.T) {
	override := int64(4999)
	slot := productSlot("prod_1", "Basic", 1999, 1)
	slot.RegularPriceOverride = &override

	html := Render(Config{TemplateType: TypeFourTier, Products: []ProductSlot{slot}}, testOptions())

	if !strings.Contains(html, `<span class="regular-price">$49.99</span>`) {
		t.Error("regular price override not applied")
	}
	if !strings.Contains(html, `Save $30.00 (60% off)`) {
		t.Error("savings should be computed from the override")
	}
}

func TestFourTierThirdSlotPreselected(t *testing.T) {
	var slots []ProductSlot
	for i := 0; i < 4; i++ {
		slots = append(slots, productSlot("prod_"+string(rune('a'+i)), "P", 1000, i))
	}

	html := Render(Config{TemplateType: TypeFourTier, Products: slots}, testOptions())

	if got := strings.Count(html, "package-option selected"); got != 1 {
		t.Fatalf("expected exactly 1 preselected card, got %d", got)
	}
	selected := strings.Index(html, "package-option selected")
	third := strings.Index(html, "prod_c")
	if third < 0 || selected > third {
		t.Error("the third slot should carry the selected class")
	}
}

func TestFourTierCountdown(t *testing.T) {
	cfg := Config{
		TemplateType: TypeFourTier,
		Products:     []ProductSlot{productSlot("prod_1", "Basic", 1999, 1)},
	}

	html := Render(cfg, testOptions())
	if !strings.Contains(html, ">05:00</span>") || !strings.Contains(html, "var remaining = 5 * 60;") {
		t.Error("countdown should default to 5 minutes")
	}

	cfg.Layout.CountdownMinutes = 12
	html = Render(cfg, testOptions())
	if !strings.Contains(html, ">12:00</span>") || !strings.Contains(html, "var remaining = 12 * 60;") {
		t.Error("countdown_minutes not honored")
	}
	if !strings.Contains(html, "Offer has ended, but you can still order") {
		t.Error("countdown script should swap messaging on expiry")
	}
}

func TestSalesLetterLayout(t *testing.T) {
	slot := productSlot("prod_1", "Widget", 9900, 0)
	slot.DescriptionOverride = "The letter lead paragraph"

	html := Render(Config{TemplateType: TypeSalesLetter, HeroTitle: "Dear Reader", Products: []ProductSlot{slot}}, testOptions())

	for _, want := range []string{
		`class="sales-letter"`,
		`<p class="lead">The letter lead paragraph</p>`,
		`$99.00`,
		`checkout('prod_1')`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("sales letter missing %q", want)
		}
	}
}

func TestVideoSalesLayout(t *testing.T) {
	html := Render(Config{
		TemplateType: TypeVideoSales,
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
	}, testOptions())

	if !strings.Contains(html, `class="video-placeholder"`) {
		t.Error("video template missing placeholder block")
	}
	if !strings.Contains(html, "$29.99") {
		t.Error("video template missing price")
	}
}

func TestEmailCaptureNeedsNoProduct(t *testing.T) {
	html := Render(Config{TemplateType: TypeEmailCapture, HeroTitle: "Free Guide"}, testOptions())

	if strings.Contains(html, "Product not found") {
		t.Error("email capture must not depend on products")
	}
	if !strings.Contains(html, `type="email"`) {
		t.Error("email capture missing its form input")
	}
}

func TestSubscriptionShowsMonthlyPrice(t *testing.T) {
	html := Render(Config{
		TemplateType: TypeSubscription,
		Products:     []ProductSlot{productSlot("prod_1", "Membership", 1499, 0)},
	}, testOptions())

	if !strings.Contains(html, `$14.99<span class="price-period">/month</span>`) {
		t.Error("subscription price missing /month suffix")
	}
	if !strings.Contains(html, `class="benefit-card"`) {
		t.Error("subscription template missing benefit cards")
	}
}

func TestCustomTemplateHasNoSlotLimit(t *testing.T) {
	var slots []ProductSlot
	for i := 0; i < 8; i++ {
		slots = append(slots, productSlot("prod_"+string(rune('a'+i)), "P", 1000, i))
	}

	html := Render(Config{TemplateType: TypeCustom, Products: slots}, testOptions())

	if got := strings.Count(html, `class="product-card"`); got != 8 {
		t.Errorf("custom template should render every slot, got %d of 8", got)
	}
}

func TestPriceFormattingAcrossTemplates(t *testing.T) {
	slots := []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)}
	for _, tt := range []string{
		TypeSingleHero, TypeThreeTier, TypeFourTier, TypeFiveTier,
		TypeSalesLetter, TypeVideoSales, TypeSubscription, TypeConfigurable, TypeCustom,
	} {
		html := Render(Config{TemplateType: tt, Products: slots}, testOptions())
		if !strings.Contains(html, "29.99") {
			t.Errorf("%s: lowest_price=2999 should display as 29.99", tt)
		}
	}
}

func TestConfigurableFormFields(t *testing.T) {
	cfg := Config{
		TemplateType: TypeConfigurable,
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		CustomFields: []FormField{
			{FieldID: "engraving", Label: "Engraving", Type: FieldText, Required: true},
			{FieldID: "size", Label: "Size", Type: FieldDropdown, Options: []string{"S", "M", "L"}},
			{FieldID: "color", Label: "Color", Type: FieldRadio, Options: []string{"Red", "Blue"}},
			{FieldID: "gift", Label: "Gift wrap", Type: FieldCheckbox},
			{FieldID: "notes", Label: "Notes", Type: FieldTextarea},
			{FieldID: "bogus", Label: "Bogus", Type: "slider"},
		},
	}

	html := Render(cfg, testOptions())

	for _, want := range []string{
		`<input type="text" id="engraving" name="engraving" maxlength="100" required>`,
		`<select id="size" name="size">`,
		`<option value="M">M</option>`,
		`type="radio" name="color" value="Blue"`,
		`<input type="checkbox" id="gift" name="gift">`,
		`<textarea id="notes" name="notes"></textarea>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("configurable form missing %q", want)
		}
	}
	if strings.Contains(html, "bogus") {
		t.Error("unknown field type should render nothing")
	}
}

func TestTextFieldMaxLength(t *testing.T) {
	cfg := Config{
		TemplateType: TypeConfigurable,
		Products:     []ProductSlot{productSlot("prod_1", "Widget", 2999, 0)},
		CustomFields: []FormField{
			{FieldID: "short", Label: "Short", Type: FieldText, MaxLength: 20},
		},
	}

	if !strings.Contains(Render(cfg, testOptions()), `maxlength="20"`) {
		t.Error("text field max_length not honored")
	}
}
