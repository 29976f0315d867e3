package template

import (
	"fmt"
	"math"
	"strings"
)

// buildSingleHero renders the default hero layout around the first slot.
func buildSingleHero(slots []ProductSlot, title, subtitle string, layout LayoutOptions) string {
	if len(slots) == 0 || slots[0].Product == nil {
		return errorFragment
	}

	slot := slots[0]
	p := slot.Product
	description := slotDescription(slot)

	descHTML := ""
	if description != "" {
		descHTML = fmt.Sprintf(`<p class="product-description">%s</p>`, escapeHTML(description))
	}

	benefitsHTML := ""
	if layout.showBenefits() {
		benefitsHTML = benefitsList(benefits(p))
	}

	imageHTML := ""
	if img := firstImage(p); img != "" {
		imageHTML = fmt.Sprintf(`<div class="hero-image"><img src="%s" alt="%s"></div>`,
			escapeHTML(img), escapeHTML(p.Name))
	}

	return fmt.Sprintf(`
    <header class="hero hero-single">
        <div class="container">
            <div class="hero-content">
                <div class="hero-text">
                    <h1>%s</h1>
                    <p class="hero-subtitle">%s</p>
                    %s
                    %s
                    %s
                    <div class="price-cta">
                        <div class="price">$%s</div>
                        <button class="cta-button" onclick="checkout('%s')">
                            Buy Now
                        </button>
                    </div>
                </div>
                %s
            </div>
        </div>
    </header>
`, escapeHTML(title), escapeHTML(subtitle), heroBadges(layout.HeroBadges),
		descHTML, benefitsHTML, formatPrice(p.LowestPrice), escapeHTML(p.ID), imageHTML)
}

// buildTierGrid renders up to max pricing cards. Used by the three-tier and
// five-tier templates.
func buildTierGrid(slots []ProductSlot, max int, title, subtitle string, layout LayoutOptions) string {
	if len(slots) > max {
		slots = slots[:max]
	}

	var cards strings.Builder
	for _, slot := range slots {
		cards.WriteString(tierCard(slot, layout, ""))
	}

	return fmt.Sprintf(`
    <header class="hero hero-tiers">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            %s
        </div>
    </header>
    <section class="pricing-section">
        <div class="container">
            <div class="pricing-grid pricing-grid-%d">
%s            </div>
        </div>
    </section>
`, escapeHTML(title), escapeHTML(subtitle), heroBadges(layout.HeroBadges), max, cards.String())
}

// tierCard renders one pricing card. extraClass tags the card (e.g. the
// preselected four-tier package); an unresolved slot yields the error
// fragment so its siblings still render.
func tierCard(slot ProductSlot, layout LayoutOptions, extraClass string) string {
	if slot.Product == nil {
		return fmt.Sprintf("                <div class=\"tier-card%s\">%s</div>\n", extraClass, errorFragment)
	}

	p := slot.Product

	featuredHTML := ""
	if slot.Featured {
		featuredHTML = `<div class="featured-badge">Most Popular</div>`
	}

	imageHTML := ""
	if img := firstImage(p); img != "" {
		imageHTML = fmt.Sprintf(`<img class="tier-image" src="%s" alt="%s">`,
			escapeHTML(img), escapeHTML(p.Name))
	}

	benefitsHTML := ""
	if layout.showBenefits() {
		benefitsHTML = benefitsList(benefits(p))
	}

	return fmt.Sprintf(`                <div class="tier-card%s">
                    %s
                    %s
                    <h3 class="tier-label">%s</h3>
                    <div class="price">$%s</div>
                    %s
                    <button class="cta-button" onclick="checkout('%s')">Buy Now</button>
                </div>
`, extraClass, featuredHTML, imageHTML, escapeHTML(tierLabel(slot)),
		formatPrice(p.LowestPrice), benefitsHTML, escapeHTML(p.ID))
}

// regularPrice returns the struck-through comparison price for a four-tier
// card: the slot's override, or round(price * 1.5) when absent.
func regularPrice(slot ProductSlot, price int64) int64 {
	if slot.RegularPriceOverride != nil {
		return *slot.RegularPriceOverride
	}
	return int64(math.Round(float64(price) * 1.5))
}

// buildFourTier renders exactly four grid slots (padding with empty cells),
// a countdown banner, and the package-selection script. The third card is
// preselected.
func buildFourTier(slots []ProductSlot, title, subtitle string, layout LayoutOptions) string {
	// Pad to exactly 4 slots; missing slots render as empty grid cells.
	padded := make([]*ProductSlot, 4)
	for i := 0; i < 4 && i < len(slots); i++ {
		s := slots[i]
		padded[i] = &s
	}

	var cards strings.Builder
	for i, slot := range padded {
		if slot == nil {
			cards.WriteString("                <div class=\"tier-card tier-empty\"></div>\n")
			continue
		}
		if slot.Product == nil {
			cards.WriteString(fmt.Sprintf("                <div class=\"tier-card\">%s</div>\n", errorFragment))
			continue
		}

		p := slot.Product
		price := p.LowestPrice
		regular := regularPrice(*slot, price)
		savings := regular - price
		discountPct := int64(0)
		if regular > 0 {
			discountPct = int64(math.Round(float64(savings) / float64(regular) * 100))
		}

		selectedClass := ""
		checked := ""
		if i == 2 {
			selectedClass = " selected"
			checked = " checked"
		}

		benefitsHTML := ""
		if layout.showBenefits() {
			benefitsHTML = benefitsList(benefits(p))
		}

		cards.WriteString(fmt.Sprintf(`                <div class="tier-card package-option%s" data-product-id="%s" onclick="selectPackage(this)">
                    <input type="radio" name="package" value="%s"%s>
                    <h3 class="tier-label">%s</h3>
                    <div class="price-block">
                        <span class="regular-price">$%s</span>
                        <span class="price">$%s</span>
                    </div>
                    <div class="savings">Save $%s (%d%% off)</div>
                    %s
                </div>
`, selectedClass, escapeHTML(p.ID), escapeHTML(p.ID), checked,
			escapeHTML(tierLabel(*slot)), formatPrice(regular), formatPrice(price),
			formatPrice(savings), discountPct, benefitsHTML))
	}

	minutes := layout.countdownMinutes()

	return fmt.Sprintf(`
    <header class="hero hero-countdown">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            %s
            <div class="countdown-banner">
                <span class="countdown-label">Offer expires in</span>
                <span id="countdown-timer" class="countdown-timer">%02d:00</span>
            </div>
        </div>
    </header>
    <section class="pricing-section">
        <div class="container">
            <div class="pricing-grid pricing-grid-4">
%s            </div>
            <button class="cta-button cta-main" onclick="checkoutSelected()">Claim This Offer</button>
        </div>
    </section>
%s`, escapeHTML(title), escapeHTML(subtitle), heroBadges(layout.HeroBadges),
		minutes, cards.String(), countdownScript(minutes))
}

// countdownScript emits the client-side countdown and package selection
// logic as literal text. It runs in the published page's browser, never in
// the render path. The timer freezes at 00:00 and swaps the banner message.
func countdownScript(minutes int) string {
	return fmt.Sprintf(`    <script>
    (function() {
        var remaining = %d * 60;
        var el = document.getElementById('countdown-timer');
        var label = document.querySelector('.countdown-label');
        var tick = setInterval(function() {
            remaining--;
            if (remaining <= 0) {
                remaining = 0;
                clearInterval(tick);
                if (label) { label.textContent = 'Offer has ended, but you can still order'; }
            }
            var m = Math.floor(remaining / 60);
            var s = remaining %% 60;
            el.textContent = (m < 10 ? '0' + m : m) + ':' + (s < 10 ? '0' + s : s);
        }, 1000);
    })();
    function selectPackage(card) {
        var cards = document.querySelectorAll('.package-option');
        for (var i = 0; i < cards.length; i++) { cards[i].classList.remove('selected'); }
        card.classList.add('selected');
        var radio = card.querySelector('input[type=radio]');
        if (radio) { radio.checked = true; }
    }
    function checkoutSelected() {
        var radio = document.querySelector('input[name=package]:checked');
        if (radio) { checkout(radio.value); }
    }
    </script>
`, minutes)
}

// buildSalesLetter renders the long-form single-product copy layout.
func buildSalesLetter(slots []ProductSlot, title, subtitle string, layout LayoutOptions) string {
	if len(slots) == 0 || slots[0].Product == nil {
		return errorFragment
	}

	slot := slots[0]
	p := slot.Product
	description := slotDescription(slot)

	benefitsHTML := ""
	if layout.showBenefits() {
		benefitsHTML = benefitsList(benefits(p))
	}

	return fmt.Sprintf(`
    <article class="sales-letter">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            <p class="lead">%s</p>
            %s
            <div class="letter-cta">
                <div class="price">$%s</div>
                <button class="cta-button cta-large" onclick="checkout('%s')">
                    Yes, I Want This
                </button>
            </div>
        </div>
    </article>
`, escapeHTML(title), escapeHTML(subtitle), escapeHTML(description),
		benefitsHTML, formatPrice(p.LowestPrice), escapeHTML(p.ID))
}

// buildVideoSales renders the video placeholder plus price and CTA.
func buildVideoSales(slots []ProductSlot, title, subtitle string) string {
	if len(slots) == 0 || slots[0].Product == nil {
		return errorFragment
	}

	p := slots[0].Product

	return fmt.Sprintf(`
    <header class="hero hero-video">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            <div class="video-placeholder" id="video-container">
                <div class="video-play-button">▶</div>
            </div>
            <div class="price-cta">
                <div class="price">$%s</div>
                <button class="cta-button" onclick="checkout('%s')">Buy Now</button>
            </div>
        </div>
    </header>
`, escapeHTML(title), escapeHTML(subtitle), formatPrice(p.LowestPrice), escapeHTML(p.ID))
}

// buildEmailCapture renders the lead form. It has no product dependency.
func buildEmailCapture(title, subtitle string) string {
	return fmt.Sprintf(`
    <header class="hero hero-capture">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            <form class="capture-form" onsubmit="captureLead(event)">
                <input type="email" name="email" placeholder="Enter your email" required>
                <button type="submit" class="cta-button">Get Instant Access</button>
            </form>
        </div>
    </header>
`, escapeHTML(title), escapeHTML(subtitle))
}

// buildSubscription renders the recurring-price layout with benefit cards.
func buildSubscription(slots []ProductSlot, title, subtitle string, layout LayoutOptions) string {
	if len(slots) == 0 || slots[0].Product == nil {
		return errorFragment
	}

	p := slots[0].Product

	var benefitCards strings.Builder
	if layout.showBenefits() {
		for _, b := range benefits(p) {
			benefitCards.WriteString(fmt.Sprintf(`                <div class="benefit-card">✓ %s</div>
`, escapeHTML(b)))
		}
	}

	return fmt.Sprintf(`
    <header class="hero hero-subscription">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            <div class="price-cta">
                <div class="price">$%s<span class="price-period">/month</span></div>
                <button class="cta-button" onclick="checkout('%s')">Subscribe Now</button>
            </div>
            <div class="benefit-grid">
%s            </div>
        </div>
    </header>
`, escapeHTML(title), escapeHTML(subtitle), formatPrice(p.LowestPrice),
		escapeHTML(p.ID), benefitCards.String())
}

// buildConfigurable renders the hero plus a custom order form assembled from
// the page's field specs.
func buildConfigurable(slots []ProductSlot, title, subtitle string, fields []FormField) string {
	if len(slots) == 0 || slots[0].Product == nil {
		return errorFragment
	}

	p := slots[0].Product

	var fieldsHTML strings.Builder
	for _, f := range fields {
		fieldsHTML.WriteString(formField(f))
	}

	return fmt.Sprintf(`
    <header class="hero hero-configurable">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            <form class="custom-order-form" onsubmit="checkoutWithFields(event, '%s')">
%s                <div class="price-cta">
                    <div class="price">$%s</div>
                    <button type="submit" class="cta-button">Buy Now</button>
                </div>
            </form>
        </div>
    </header>
`, escapeHTML(title), escapeHTML(subtitle), escapeHTML(p.ID),
		fieldsHTML.String(), formatPrice(p.LowestPrice))
}

// buildCustom renders an unbounded uniform card list; the most permissive
// layout with no slot-count constraint.
func buildCustom(slots []ProductSlot, title, subtitle string, layout LayoutOptions) string {
	var cards strings.Builder
	for _, slot := range slots {
		if slot.Product == nil {
			cards.WriteString(fmt.Sprintf("                <div class=\"product-card\">%s</div>\n", errorFragment))
			continue
		}

		p := slot.Product

		imageHTML := ""
		if img := firstImage(p); img != "" {
			imageHTML = fmt.Sprintf(`<img src="%s" alt="%s">`, escapeHTML(img), escapeHTML(p.Name))
		}

		descHTML := ""
		if d := slotDescription(slot); d != "" {
			descHTML = fmt.Sprintf(`<p>%s</p>`, escapeHTML(d))
		}

		cards.WriteString(fmt.Sprintf(`                <div class="product-card">
                    %s
                    <h3>%s</h3>
                    %s
                    <div class="price">$%s</div>
                    <button class="cta-button" onclick="checkout('%s')">Buy Now</button>
                </div>
`, imageHTML, escapeHTML(tierLabel(slot)), descHTML, formatPrice(p.LowestPrice), escapeHTML(p.ID)))
	}

	return fmt.Sprintf(`
    <header class="hero hero-custom">
        <div class="container">
            <h1>%s</h1>
            <p class="hero-subtitle">%s</p>
            %s
        </div>
    </header>
    <section class="products-section">
        <div class="container">
            <div class="products-grid">
%s            </div>
        </div>
    </section>
`, escapeHTML(title), escapeHTML(subtitle), heroBadges(layout.HeroBadges), cards.String())
}
