package template

import (
	"fmt"
	"strings"
)

// formField renders one custom input for the configurable-product template.
// An unknown field type renders as nothing rather than failing the page.
func formField(f FormField) string {
	required := ""
	if f.Required {
		required = " required"
	}

	id := escapeHTML(f.FieldID)
	label := escapeHTML(f.Label)

	switch f.Type {
	case FieldText:
		maxLen := f.MaxLength
		if maxLen <= 0 {
			maxLen = 100
		}
		return fmt.Sprintf(`                <div class="form-field">
                    <label for="%s">%s</label>
                    <input type="text" id="%s" name="%s" maxlength="%d"%s>
                </div>
`, id, label, id, id, maxLen, required)

	case FieldDropdown:
		var options strings.Builder
		for _, opt := range f.Options {
			escaped := escapeHTML(opt)
			options.WriteString(fmt.Sprintf(`                        <option value="%s">%s</option>
`, escaped, escaped))
		}
		return fmt.Sprintf(`                <div class="form-field">
                    <label for="%s">%s</label>
                    <select id="%s" name="%s"%s>
%s                    </select>
                </div>
`, id, label, id, id, required, options.String())

	case FieldRadio:
		var options strings.Builder
		for i, opt := range f.Options {
			escaped := escapeHTML(opt)
			options.WriteString(fmt.Sprintf(`                    <label class="radio-option">
                        <input type="radio" name="%s" value="%s" id="%s-%d"%s> %s
                    </label>
`, id, escaped, id, i, required, escaped))
		}
		return fmt.Sprintf(`                <div class="form-field">
                    <span class="field-label">%s</span>
%s                </div>
`, label, options.String())

	case FieldCheckbox:
		return fmt.Sprintf(`                <div class="form-field">
                    <label class="checkbox-option">
                        <input type="checkbox" id="%s" name="%s"%s> %s
                    </label>
                </div>
`, id, id, required, label)

	case FieldTextarea:
		return fmt.Sprintf(`                <div class="form-field">
                    <label for="%s">%s</label>
                    <textarea id="%s" name="%s"%s></textarea>
                </div>
`, id, label, id, id, required)
	}

	// Unknown field type: silently dropped.
	return ""
}
