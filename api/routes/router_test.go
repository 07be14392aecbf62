package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/internal/auth"
	"github.com/slideforge/slideforge-backend/internal/elements"
	"github.com/slideforge/slideforge-backend/internal/presentations"
	"github.com/slideforge/slideforge-backend/internal/slides"
	pkgAuth "github.com/slideforge/slideforge-backend/pkg/auth"
	"github.com/slideforge/slideforge-backend/pkg/config"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUserChecker struct{ ok bool }

func (s stubUserChecker) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.ok, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "stub"}, nil
}

type stubPresentationsService struct{}

func (stubPresentationsService) Create(ctx context.Context, userID uuid.UUID, req presentations.CreateRequest) (*presentations.SummaryDTO, error) {
	return &presentations.SummaryDTO{ID: uuid.New(), UserID: userID}, nil
}

func (stubPresentationsService) List(ctx context.Context, userID uuid.UUID) ([]presentations.SummaryDTO, error) {
	return []presentations.SummaryDTO{}, nil
}

func (stubPresentationsService) Get(ctx context.Context, userID, id uuid.UUID) (*presentations.DetailDTO, error) {
	return &presentations.DetailDTO{ID: id, UserID: userID}, nil
}

func (stubPresentationsService) Update(ctx context.Context, userID, id uuid.UUID, req presentations.UpdateRequest) (*presentations.SummaryDTO, error) {
	return &presentations.SummaryDTO{ID: id, UserID: userID, Title: req.Title}, nil
}

func (stubPresentationsService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type stubSlidesService struct{}

func (stubSlidesService) Add(ctx context.Context, userID, presentationID uuid.UUID) (*slides.SlideDTO, error) {
	return &slides.SlideDTO{ID: 1, Position: 1}, nil
}

func (stubSlidesService) Update(ctx context.Context, userID uuid.UUID, slideID int64, req slides.UpdateRequest) (*slides.SlideDTO, error) {
	return &slides.SlideDTO{ID: slideID, Position: 1}, nil
}

func (stubSlidesService) Delete(ctx context.Context, userID uuid.UUID, slideID int64) error {
	return nil
}

type stubElementsService struct{}

func (stubElementsService) Add(ctx context.Context, userID uuid.UUID, slideID int64, req elements.CreateRequest) (*elements.ElementDTO, error) {
	return &elements.ElementDTO{ID: uuid.New(), SlideID: slideID}, nil
}

func (stubElementsService) Update(ctx context.Context, userID, elementID uuid.UUID, req elements.UpdateRequest) (*elements.ElementDTO, error) {
	return &elements.ElementDTO{ID: elementID}, nil
}

func (stubElementsService) Delete(ctx context.Context, userID, elementID uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "slideforge",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(users stubUserChecker) http.Handler {
	return NewRouter(Params{
		Config:        testConfig(),
		DBPinger:      stubPinger{},
		Users:         users,
		AuthSvc:       stubAuthService{},
		RegisterSvc:   stubRegisterService{},
		Presentations: stubPresentationsService{},
		Slides:        stubSlidesService{},
		Elements:      stubElementsService{},
	})
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	router := newTestRouter(stubUserChecker{ok: true})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(stubUserChecker{ok: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presentations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	router := newTestRouter(stubUserChecker{ok: true})
	cfg := testConfig()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presentations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterEndpointIsOpen(t *testing.T) {
	router := newTestRouter(stubUserChecker{ok: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"a@b.co","password":"long-enough-pw"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
