package elements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// Repository encapsulates slide element persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an elements repo bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an element row.
func (r *Repository) Create(ctx context.Context, element *models.SlideElement) error {
	if element.ID == uuid.Nil {
		element.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(element).Error
}

// FindByID loads an element by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SlideElement, error) {
	var element models.SlideElement
	if err := r.db.WithContext(ctx).First(&element, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

// UpdateFields applies the given column updates to an element.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.SlideElement{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the element row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SlideElement{}, "id = ?", id).Error
}
