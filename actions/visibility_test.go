// ABOUTME: Tests for the built-in visibility predicates.
// ABOUTME: Covers the production flag and typed object predicates.

package actions

import (
	"net/http/httptest"
	"testing"

	"github.com/2389/actionadmin/internal/config"
)

type fakeObject struct {
	pk     int64
	hidden bool
}

func (o *fakeObject) PrimaryKey() int64 { return o.pk }
func (o *fakeObject) String() string    { return "fake" }

func TestHideInProd(t *testing.T) {
	defer config.SetProduction(false)
	vc := VisibilityContext{Request: httptest.NewRequest("GET", "/", nil)}

	config.SetProduction(true)
	if HideInProd(vc) {
		t.Error("HideInProd() = true in production")
	}

	config.SetProduction(false)
	if !HideInProd(vc) {
		t.Error("HideInProd() = false outside production")
	}
}

func TestNot(t *testing.T) {
	if Not(AlwaysVisible)(VisibilityContext{}) {
		t.Error("Not(AlwaysVisible) = true")
	}
}

func TestObjectIs(t *testing.T) {
	notHidden := ObjectIs(func(o *fakeObject) bool { return !o.hidden })

	if !notHidden(VisibilityContext{Object: &fakeObject{pk: 1}}) {
		t.Error("visible object reported hidden")
	}
	if notHidden(VisibilityContext{Object: &fakeObject{pk: 1, hidden: true}}) {
		t.Error("hidden object reported visible")
	}
	if notHidden(VisibilityContext{}) {
		t.Error("absent object reported visible")
	}
}
