package template

import (
	"fmt"
	"sort"
	"strings"
)

// escapeHTML escapes the five characters that matter in text and attribute
// positions. CustomCSS/CustomJS never pass through here.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// formatPrice turns integer cents into a fixed two-decimal display string.
func formatPrice(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// benefits splits the pipe-delimited benefits metadata into a list.
// A missing or empty value is zero benefits, never an error.
func benefits(p *Product) []string {
	if p == nil || p.Metadata == nil {
		return nil
	}
	raw := p.Metadata["benefits"]
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, b := range parts {
		out = append(out, strings.TrimSpace(b))
	}
	return out
}

// sortSlots returns a new slice ordered by DisplayOrder ascending. The sort
// is stable so ties keep their configured relative order.
func sortSlots(slots []ProductSlot) []ProductSlot {
	sorted := make([]ProductSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})
	return sorted
}

// tierLabel picks the slot's override label, falling back to the product name.
func tierLabel(slot ProductSlot) string {
	if slot.TierLabel != "" {
		return slot.TierLabel
	}
	if slot.Product != nil {
		return slot.Product.Name
	}
	return ""
}

// slotDescription picks the slot's override description, falling back to the
// product description.
func slotDescription(slot ProductSlot) string {
	if slot.DescriptionOverride != "" {
		return slot.DescriptionOverride
	}
	if slot.Product != nil {
		return slot.Product.Description
	}
	return ""
}

func firstImage(p *Product) string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
