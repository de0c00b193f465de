// ABOUTME: Schema-based HTML rendering for object detail and confirmation form fields.
// ABOUTME: Generates escaped, Tailwind-styled markup from column schemas and forms.

package admin

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/forms"
	"github.com/2389/actionadmin/plugins/core"
)

const inputClass = "mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border"

// RenderFormFields generates the inputs of a confirmation form, including
// inline validation errors.
func RenderFormFields(f forms.Form) template.HTML {
	var sb strings.Builder
	errs := f.Errors()

	for _, field := range f.Fields() {
		name := html.EscapeString(field.Name)
		value := f.Value(field.Name)
		label := field.Label
		if label == "" {
			label = actions.Humanize(field.Name)
		}

		sb.WriteString(`<div class="form-row">`)
		sb.WriteString(fmt.Sprintf(`<label for="id_%s" class="block text-sm font-medium text-gray-700">%s</label>`,
			name, html.EscapeString(label)))

		switch field.Kind {
		case forms.KindTextarea:
			sb.WriteString(fmt.Sprintf(`<textarea id="id_%s" name="%s"%s%s class="%s">%s</textarea>`,
				name, name, requiredAttr(field.Required), maxLengthAttr(field.MaxLength), inputClass,
				html.EscapeString(value)))

		case forms.KindCheckbox:
			checked := ""
			if isTruthy(value) {
				checked = " checked"
			}
			sb.WriteString(fmt.Sprintf(`<input type="checkbox" id="id_%s" name="%s"%s class="mt-1 rounded border-gray-300">`,
				name, name, checked))

		case forms.KindChoice:
			sb.WriteString(fmt.Sprintf(`<select id="id_%s" name="%s"%s class="%s">`,
				name, name, requiredAttr(field.Required), inputClass))
			sb.WriteString(`<option value="">Select...</option>`)
			for _, c := range field.Choices {
				selected := ""
				if c.Value == value {
					selected = " selected"
				}
				sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
					html.EscapeString(c.Value), selected, html.EscapeString(c.Label)))
			}
			sb.WriteString(`</select>`)

		default:
			sb.WriteString(fmt.Sprintf(`<input type="text" id="id_%s" name="%s" value="%s"%s%s class="%s">`,
				name, name, html.EscapeString(value), requiredAttr(field.Required), maxLengthAttr(field.MaxLength), inputClass))
		}

		if field.Help != "" {
			sb.WriteString(fmt.Sprintf(`<p class="help text-xs text-gray-500">%s</p>`, html.EscapeString(field.Help)))
		}
		if msg, ok := errs[field.Name]; ok {
			sb.WriteString(fmt.Sprintf(`<ul class="errorlist text-sm text-red-600"><li>%s</li></ul>`, html.EscapeString(msg)))
		}
		sb.WriteString(`</div>`)
	}

	return template.HTML(sb.String())
}

// RenderObjectDetail generates a definition list of an object's columns.
func RenderObjectDetail(schema core.ModelSchema, obj actions.Object) template.HTML {
	var sb strings.Builder

	sb.WriteString(`<div class="bg-white rounded-lg shadow overflow-hidden">`)
	sb.WriteString(`<dl class="divide-y divide-gray-200">`)

	for _, col := range schema.Columns {
		sb.WriteString(`<div class="px-6 py-4 grid grid-cols-3 gap-4">`)
		sb.WriteString(fmt.Sprintf(`<dt class="text-sm font-medium text-gray-500">%s</dt>`,
			html.EscapeString(columnTitle(col))))
		sb.WriteString(fmt.Sprintf(`<dd class="text-sm text-gray-900 col-span-2">%s</dd>`,
			formatDetailValue(cellValue(col, obj))))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</dl></div>`)
	return template.HTML(sb.String())
}

// Helper functions

func columnTitle(col core.Column) string {
	if col.Display != "" {
		return col.Display
	}
	return actions.Humanize(col.Name)
}

func cellValue(col core.Column, obj actions.Object) string {
	if col.Value == nil {
		return ""
	}
	return col.Value(obj)
}

func formatDetailValue(value string) string {
	if value == "" {
		return `<span class="text-gray-400">No value</span>`
	}
	return html.EscapeString(value)
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

func requiredAttr(required bool) string {
	if required {
		return " required"
	}
	return ""
}

func maxLengthAttr(n int) string {
	if n > 0 {
		return fmt.Sprintf(` maxlength="%d"`, n)
	}
	return ""
}
