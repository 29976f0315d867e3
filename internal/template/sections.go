package template

import (
	"fmt"
	"strings"
)

// errorFragment is what an unresolved product slot renders as. It is bounded
// to the slot; sibling slots keep rendering.
const errorFragment = `<div class="error">Product not found</div>`

// benefitsList renders the checked benefit items, or "" when there are none.
func benefitsList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<ul class="benefits-list">`)
	for _, b := range items {
		sb.WriteString(fmt.Sprintf(`<li>✓ %s</li>`, escapeHTML(b)))
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

// heroBadges renders the optional badge strip shown under the hero title.
func heroBadges(badges []string) string {
	if len(badges) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="hero-badges">`)
	for _, b := range badges {
		sb.WriteString(fmt.Sprintf(`<span class="hero-badge">%s</span>`, escapeHTML(b)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// guaranteeSection renders the shield badge plus the tenant's guarantee copy.
func guaranteeSection(guarantee string) string {
	return fmt.Sprintf(`
    <section class="guarantee-section">
        <div class="container">
            <div class="guarantee-badge">
                <svg width="64" height="64" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
                    <path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"></path>
                    <polyline points="9 12 11 14 15 10"></polyline>
                </svg>
            </div>
            <h3>Our Guarantee</h3>
            <p>%s</p>
        </div>
    </section>
`, escapeHTML(guarantee))
}

func testimonialsSection() string {
	return `
    <section class="testimonials-section">
        <div class="container">
            <h2>What Our Customers Say</h2>
            <div class="testimonials-grid">
                <div class="testimonial-card">
                    <p class="testimonial-text">"Amazing product! Exceeded all my expectations."</p>
                    <p class="testimonial-author">- Sarah M.</p>
                </div>
                <div class="testimonial-card">
                    <p class="testimonial-text">"Best purchase I've made this year. Highly recommend!"</p>
                    <p class="testimonial-author">- John D.</p>
                </div>
                <div class="testimonial-card">
                    <p class="testimonial-text">"Outstanding quality and great customer service."</p>
                    <p class="testimonial-author">- Emily R.</p>
                </div>
            </div>
        </div>
    </section>
`
}

func faqSection() string {
	return `
    <section class="faq-section">
        <div class="container">
            <h2>Frequently Asked Questions</h2>
            <div class="faq-list">
                <div class="faq-item">
                    <h3>How does shipping work?</h3>
                    <p>We ship within 1-2 business days. Tracking information will be emailed to you.</p>
                </div>
                <div class="faq-item">
                    <h3>What's your return policy?</h3>
                    <p>30-day money-back guarantee. No questions asked.</p>
                </div>
                <div class="faq-item">
                    <h3>Is this secure?</h3>
                    <p>Yes! All transactions are processed through Stripe with bank-level security.</p>
                </div>
            </div>
        </div>
    </section>
`
}

// analyticsScripts emits the GA and Meta Pixel snippets for whichever IDs are
// present. IDs are attribute/script-literal positions, so they are escaped.
func analyticsScripts(pixels Pixels) string {
	var scripts []string

	if pixels.Google != "" {
		id := escapeHTML(pixels.Google)
		scripts = append(scripts, fmt.Sprintf(`
    <!-- Google Analytics -->
    <script async src="https://www.googletagmanager.com/gtag/js?id=%s"></script>
    <script>
        window.dataLayer = window.dataLayer || [];
        function gtag(){dataLayer.push(arguments);}
        gtag('js', new Date());
        gtag('config', '%s');
    </script>
`, id, id))
	}

	if pixels.Meta != "" {
		scripts = append(scripts, fmt.Sprintf(`
    <!-- Meta Pixel -->
    <script>
        !function(f,b,e,v,n,t,s)
        {if(f.fbq)return;n=f.fbq=function(){n.callMethod?
        n.callMethod.apply(n,arguments):n.queue.push(arguments)};
        if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';
        n.queue=[];t=b.createElement(e);t.async=!0;
        t.src=v;s=b.getElementsByTagName(e)[0];
        s.parentNode.insertBefore(t,s)}(window, document,'script',
        'https://connect.facebook.net/en_US/fbevents.js');
        fbq('init', '%s');
        fbq('track', 'PageView');
    </script>
`, escapeHTML(pixels.Meta)))
	}

	return strings.Join(scripts, "\n")
}
