package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/slideforge/slideforge-backend/pkg/auth"
	"github.com/slideforge/slideforge-backend/pkg/config"
	"github.com/slideforge/slideforge-backend/pkg/db/models"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
	"github.com/slideforge/slideforge-backend/pkg/security"
)

type stubUserRepo struct {
	data map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{data: map[string]*models.User{}}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slideforge",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginReturnsTokenAndUser(t *testing.T) {
	password := "correct horse"
	repo := newStubUserRepo()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: mustHashPassword(t, password),
	}
	repo.data[user.Email] = user

	cfg := testJWTConfig()
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Alice@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user in response, got %+v", resp.User)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.UserID)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "bob@example.com",
		PasswordHash: mustHashPassword(t, "right"),
	}
	repo.data[user.Email] = user

	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: newStubUserRepo(), JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
