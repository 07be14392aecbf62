package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title" validate:"omitempty,min=1"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","title":"Deck"}`))

	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "a@b.co" {
		t.Fatalf("unexpected email %q", dest.Email)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","bogus":true}`))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email"}`))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, ok := details["email"]; !ok {
		t.Fatalf("expected detail keyed by json name, got %v", details)
	}
}
