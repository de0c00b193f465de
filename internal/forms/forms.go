// ABOUTME: Minimal declarative forms used by intermediate confirmation pages.
// ABOUTME: Binds submitted values, validates declared fields, and collects errors.

package forms

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Form is a bindable, validatable set of fields.
type Form interface {
	Bind(values url.Values)
	Valid() bool
	Fields() []Field
	Errors() map[string]string
	Value(name string) string
	Bool(name string) bool
}

// Kind selects the input widget for a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindChoice   Kind = "choice"
	KindCheckbox Kind = "checkbox"
)

// Choice is one option of a choice field.
type Choice struct {
	Value string
	Label string
}

// Field declares one form input.
type Field struct {
	Name      string
	Label     string
	Kind      Kind
	Required  bool
	MaxLength int
	Choices   []Choice
	Help      string
}

// Fields is the standard Form implementation: a list of declared fields
// plus the values and errors of the last bind.
type Fields struct {
	fields []Field
	values map[string]string
	errors map[string]string
	bound  bool
}

// New creates an unbound form with the given fields.
func New(fields ...Field) *Fields {
	return &Fields{
		fields: fields,
		values: make(map[string]string),
	}
}

// Empty creates a form with no fields; it is valid whenever it is bound.
func Empty() *Fields {
	return New()
}

// Initial pre-fills values for display on an unbound form.
func (f *Fields) Initial(values map[string]string) *Fields {
	for k, v := range values {
		f.values[k] = v
	}
	return f
}

func (f *Fields) Bind(values url.Values) {
	f.bound = true
	f.errors = nil
	f.values = make(map[string]string, len(f.fields))
	for _, fd := range f.fields {
		f.values[fd.Name] = strings.TrimSpace(values.Get(fd.Name))
	}
}

// Valid validates the bound values. An unbound form is never valid.
func (f *Fields) Valid() bool {
	if !f.bound {
		return false
	}
	f.errors = make(map[string]string)
	for _, fd := range f.fields {
		if msg := validate(fd, f.values[fd.Name]); msg != "" {
			f.errors[fd.Name] = msg
		}
	}
	return len(f.errors) == 0
}

func (f *Fields) Fields() []Field {
	return f.fields
}

func (f *Fields) Errors() map[string]string {
	return f.errors
}

func (f *Fields) Value(name string) string {
	return f.values[name]
}

// Bool reports whether a checkbox field was checked.
func (f *Fields) Bool(name string) bool {
	switch strings.ToLower(f.values[name]) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func validate(fd Field, v string) string {
	if v == "" {
		if fd.Required {
			return "This field is required."
		}
		return ""
	}
	if fd.MaxLength > 0 && utf8.RuneCountInString(v) > fd.MaxLength {
		return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", fd.MaxLength, utf8.RuneCountInString(v))
	}
	if fd.Kind == KindChoice {
		for _, c := range fd.Choices {
			if c.Value == v {
				return ""
			}
		}
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", v)
	}
	return ""
}
