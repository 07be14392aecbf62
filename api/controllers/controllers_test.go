package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/api/middleware"
	"github.com/slideforge/slideforge-backend/internal/auth"
	"github.com/slideforge/slideforge-backend/internal/elements"
	"github.com/slideforge/slideforge-backend/internal/presentations"
)

type stubPresentations struct {
	detail *presentations.DetailDTO
	err    error
}

func (s stubPresentations) Create(ctx context.Context, userID uuid.UUID, req presentations.CreateRequest) (*presentations.SummaryDTO, error) {
	return nil, s.err
}

func (s stubPresentations) List(ctx context.Context, userID uuid.UUID) ([]presentations.SummaryDTO, error) {
	return nil, s.err
}

func (s stubPresentations) Get(ctx context.Context, userID, id uuid.UUID) (*presentations.DetailDTO, error) {
	return s.detail, s.err
}

func (s stubPresentations) Update(ctx context.Context, userID, id uuid.UUID, req presentations.UpdateRequest) (*presentations.SummaryDTO, error) {
	return nil, s.err
}

func (s stubPresentations) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.err
}

type stubElements struct {
	deleted []uuid.UUID
}

func (s *stubElements) Add(ctx context.Context, userID uuid.UUID, slideID int64, req elements.CreateRequest) (*elements.ElementDTO, error) {
	return &elements.ElementDTO{ID: uuid.New(), SlideID: slideID}, nil
}

func (s *stubElements) Update(ctx context.Context, userID, elementID uuid.UUID, req elements.UpdateRequest) (*elements.ElementDTO, error) {
	return &elements.ElementDTO{ID: elementID}, nil
}

func (s *stubElements) Delete(ctx context.Context, userID, elementID uuid.UUID) error {
	s.deleted = append(s.deleted, elementID)
	return nil
}

func authedRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error.Code
}

func TestPresentationGetRejectsMalformedID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/presentations/{presentationId}", PresentationGet(stubPresentations{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/presentations/not-a-uuid", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "NOT_FOUND" {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestPresentationGetRequiresCaller(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/presentations/{presentationId}", PresentationGet(stubPresentations{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presentations/"+uuid.NewString(), nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestElementDeleteReturnsNoContent(t *testing.T) {
	svc := &stubElements{}
	router := chi.NewRouter()
	router.Delete("/elements/{elementId}", ElementDelete(svc, nil))

	id := uuid.New()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/elements/"+id.String(), ""))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("expected delete call for %s, got %v", id, svc.deleted)
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	handler := AuthLogin(stubLogin{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.co","password":"pw","admin":true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %s", code)
	}
}

type stubLogin struct{}

func (stubLogin) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "ok"}, nil
}
