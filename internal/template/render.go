// Package template is the landing page rendering engine. Render is a pure
// function from one page configuration to a complete HTML document; the
// admin preview and the public page generator both call it and must get
// byte-identical output for identical input.
package template

import (
	"fmt"
	"strings"
	"time"
)

// Render produces the complete HTML document for one landing page. It never
// touches the network or shared state; the only time dependency is the clock
// carried in opts.
func Render(cfg Config, opts Options) string {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cdnBase := opts.CDNBase
	if cdnBase == "" {
		cdnBase = DefaultCDNBase
	}

	templateType := cfg.TemplateType
	if !knownType(templateType) {
		templateType = TypeSingleHero
	}

	sorted := sortSlots(cfg.Products)

	var content string
	switch templateType {
	case TypeThreeTier:
		content = buildTierGrid(sorted, 3, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	case TypeFourTier:
		content = buildFourTier(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	case TypeFiveTier:
		content = buildTierGrid(sorted, 5, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	case TypeSalesLetter:
		content = buildSalesLetter(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	case TypeVideoSales:
		content = buildVideoSales(sorted, cfg.HeroTitle, cfg.HeroSubtitle)
	case TypeEmailCapture:
		content = buildEmailCapture(cfg.HeroTitle, cfg.HeroSubtitle)
	case TypeSubscription:
		content = buildSubscription(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	case TypeConfigurable:
		content = buildConfigurable(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.CustomFields)
	case TypeCustom:
		content = buildCustom(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	default:
		content = buildSingleHero(sorted, cfg.HeroTitle, cfg.HeroSubtitle, cfg.Layout)
	}

	title := cfg.HeroTitle
	if title == "" {
		title = "Special Offer"
	}

	colors := cfg.Layout.colors()

	guaranteeHTML := ""
	if cfg.Guarantee != "" {
		guaranteeHTML = guaranteeSection(cfg.Guarantee)
	}

	testimonialsHTML := ""
	if cfg.Layout.ShowTestimonials {
		testimonialsHTML = testimonialsSection()
	}

	faqHTML := ""
	if cfg.Layout.ShowFAQ {
		faqHTML = faqSection()
	}

	customJSHTML := ""
	if cfg.CustomJS != "" {
		customJSHTML = fmt.Sprintf("<script>%s</script>", cfg.CustomJS)
	}

	doc := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>

    <!-- Base Styles -->
    <link rel="stylesheet" href="%s/base/styles.css">

    <!-- Template-specific Styles -->
    <link rel="stylesheet" href="%s/%s/styles.css">

    <style>
        :root {
            --primary-color: %s;
            --accent-color: %s;
        }
        %s
    </style>

    %s
</head>
<body>
    %s

    %s
    %s
    %s

    <footer class="footer">
        <div class="container">
            <p>&copy; %d All rights reserved.</p>
        </div>
    </footer>

    <!-- Base Scripts -->
    <script src="%s/base/scripts.js"></script>
    <script src="%s/%s/scripts.js"></script>

    %s
</body>
</html>`,
		escapeHTML(title),
		cdnBase,
		cdnBase, templateType,
		colors.Primary,
		colors.Accent,
		cfg.CustomCSS,
		analyticsScripts(cfg.Analytics),
		content,
		guaranteeHTML,
		testimonialsHTML,
		faqHTML,
		now().Year(),
		cdnBase,
		cdnBase, templateType,
		customJSHTML,
	)

	return strings.TrimSpace(doc)
}

func knownType(t string) bool {
	switch t {
	case TypeSingleHero, TypeThreeTier, TypeFourTier, TypeFiveTier,
		TypeSalesLetter, TypeVideoSales, TypeEmailCapture,
		TypeSubscription, TypeConfigurable, TypeCustom:
		return true
	}
	return false
}
