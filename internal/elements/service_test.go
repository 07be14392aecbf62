package elements

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/db/models"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
)

func setupElementsTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS presentations (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT 'Untitled presentation',
  thumbnail_url TEXT,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS slides (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT,
  content TEXT,
  position INTEGER NOT NULL,
  background_color TEXT NOT NULL DEFAULT '#FFFFFF',
  presentation_id TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS slide_elements (
  id TEXT PRIMARY KEY,
  slide_id INTEGER NOT NULL,
  element_type TEXT NOT NULL,
  pos_x INTEGER NOT NULL,
  pos_y INTEGER NOT NULL,
  width INTEGER NOT NULL,
  height INTEGER NOT NULL,
  content TEXT NOT NULL,
  font_size INTEGER
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return db.FromGorm(conn)
}

func seedSlide(t *testing.T, client *db.Client, userID uuid.UUID) int64 {
	t.Helper()

	presentationID := uuid.New()
	require.NoError(t, client.DB().Create(&models.Presentation{
		ID:     presentationID,
		Title:  "Deck",
		UserID: userID,
	}).Error)

	slide := &models.Slide{
		Position:        1,
		BackgroundColor: "#FFFFFF",
		PresentationID:  presentationID,
	}
	require.NoError(t, client.DB().Create(slide).Error)
	return slide.ID
}

func newElementsService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := setupElementsTestDB(t)
	svc, err := NewService(ServiceParams{DB: client})
	require.NoError(t, err)
	return svc, client
}

func TestAddAppliesEditorDefaults(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	element, err := svc.Add(context.Background(), owner, slideID, CreateRequest{ElementType: "text"})
	require.NoError(t, err)

	require.Equal(t, "text", element.ElementType)
	require.Equal(t, 100, element.PosX)
	require.Equal(t, 100, element.PosY)
	require.Equal(t, 400, element.Width)
	require.Equal(t, 150, element.Height)
	require.Equal(t, "New text", element.Content)
	require.Nil(t, element.FontSize)
}

func TestAddRejectsMissingElementType(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	_, err := svc.Add(context.Background(), owner, slideID, CreateRequest{ElementType: "  "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInvalidOperation, typed.Code())
}

func TestAddHonorsSuppliedGeometry(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	posX, posY, width, height, fontSize := 10, 20, 300, 80, 18
	content := "Chart caption"
	element, err := svc.Add(context.Background(), owner, slideID, CreateRequest{
		ElementType: "text",
		PosX:        &posX,
		PosY:        &posY,
		Width:       &width,
		Height:      &height,
		Content:     &content,
		FontSize:    &fontSize,
	})
	require.NoError(t, err)

	require.Equal(t, 10, element.PosX)
	require.Equal(t, 20, element.PosY)
	require.Equal(t, 300, element.Width)
	require.Equal(t, 80, element.Height)
	require.Equal(t, "Chart caption", element.Content)
	require.NotNil(t, element.FontSize)
	require.Equal(t, 18, *element.FontSize)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	element, err := svc.Add(context.Background(), owner, slideID, CreateRequest{ElementType: "text"})
	require.NoError(t, err)

	posX := 250
	updated, err := svc.Update(context.Background(), owner, element.ID, UpdateRequest{PosX: &posX})
	require.NoError(t, err)
	require.Equal(t, 250, updated.PosX)
	require.Equal(t, 100, updated.PosY)
	require.Equal(t, "New text", updated.Content)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	element, err := svc.Add(context.Background(), owner, slideID, CreateRequest{ElementType: "text"})
	require.NoError(t, err)

	posX := 1
	_, err = svc.Update(context.Background(), uuid.New(), element.ID, UpdateRequest{PosX: &posX})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.Update(context.Background(), owner, uuid.New(), UpdateRequest{PosX: &posX})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteIsUnconditional(t *testing.T) {
	svc, client := newElementsService(t)
	owner := uuid.New()
	slideID := seedSlide(t, client, owner)

	element, err := svc.Add(context.Background(), owner, slideID, CreateRequest{ElementType: "text"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner, element.ID))

	var count int64
	require.NoError(t, client.DB().Raw("SELECT COUNT(*) FROM slide_elements").Scan(&count).Error)
	require.Zero(t, count)
}
