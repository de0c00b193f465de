// ABOUTME: Tests for declarative form binding and validation.
// ABOUTME: Covers required, max length, choice, and checkbox handling.

package forms

import (
	"net/url"
	"strings"
	"testing"
)

func reasonForm() *Fields {
	return New(
		Field{Name: "reason", Label: "Reason", Kind: KindTextarea, Required: true, MaxLength: 10},
		Field{Name: "priority", Label: "Priority", Kind: KindChoice, Choices: []Choice{
			{Value: "high", Label: "High"},
			{Value: "low", Label: "Low"},
		}},
		Field{Name: "notify", Label: "Notify", Kind: KindCheckbox},
	)
}

func TestFields_UnboundIsInvalid(t *testing.T) {
	f := reasonForm()
	if f.Valid() {
		t.Error("Valid() = true for unbound form")
	}
}

func TestFields_Validation(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantValid bool
		wantError string
	}{
		{
			name:      "valid",
			values:    url.Values{"reason": {"late"}, "priority": {"high"}},
			wantValid: true,
		},
		{
			name:      "missing required",
			values:    url.Values{"priority": {"high"}},
			wantError: "reason",
		},
		{
			name:      "whitespace only is missing",
			values:    url.Values{"reason": {"   "}},
			wantError: "reason",
		},
		{
			name:      "too long",
			values:    url.Values{"reason": {strings.Repeat("x", 11)}},
			wantError: "reason",
		},
		{
			name:      "bad choice",
			values:    url.Values{"reason": {"ok"}, "priority": {"urgent"}},
			wantError: "priority",
		},
		{
			name:      "optional choice may be blank",
			values:    url.Values{"reason": {"ok"}},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reasonForm()
			f.Bind(tt.values)
			if got := f.Valid(); got != tt.wantValid {
				t.Fatalf("Valid() = %v, want %v (errors: %v)", got, tt.wantValid, f.Errors())
			}
			if tt.wantError != "" {
				if _, ok := f.Errors()[tt.wantError]; !ok {
					t.Errorf("Errors() = %v, want an error for %q", f.Errors(), tt.wantError)
				}
			}
		})
	}
}

func TestFields_Bool(t *testing.T) {
	f := reasonForm()
	f.Bind(url.Values{"reason": {"x"}, "notify": {"on"}})
	if !f.Bool("notify") {
		t.Error("Bool(notify) = false, want true")
	}
	f.Bind(url.Values{"reason": {"x"}})
	if f.Bool("notify") {
		t.Error("Bool(notify) = true after rebinding without it")
	}
}

func TestEmpty_ValidOnceBound(t *testing.T) {
	f := Empty()
	if f.Valid() {
		t.Error("Valid() = true before Bind")
	}
	f.Bind(url.Values{"apply": {"1"}})
	if !f.Valid() {
		t.Error("Valid() = false for bound empty form")
	}
}

func TestFields_Initial(t *testing.T) {
	f := reasonForm().Initial(map[string]string{"priority": "low"})
	if got := f.Value("priority"); got != "low" {
		t.Errorf("Value(priority) = %q, want low", got)
	}
}
