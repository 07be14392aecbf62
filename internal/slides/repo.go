package slides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// Repository encapsulates slide persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a slides repo bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a slide by its primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Slide, error) {
	var slide models.Slide
	if err := r.db.WithContext(ctx).First(&slide, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

// Create inserts a slide row.
func (r *Repository) Create(ctx context.Context, slide *models.Slide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}

// NextPosition returns max(position)+1 for the presentation, starting at 1.
func (r *Repository) NextPosition(ctx context.Context, presentationID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Slide{}).
		Where("presentation_id = ?", presentationID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// CountByPresentation returns the number of slides in a presentation.
func (r *Repository) CountByPresentation(ctx context.Context, presentationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Slide{}).
		Where("presentation_id = ?", presentationID).
		Count(&count).Error
	return count, err
}

// UpdateFields applies the given column updates to a slide.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Slide{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes a slide and its elements.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).
		Where("slide_id = ?", id).
		Delete(&models.SlideElement{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Slide{}, "id = ?", id).Error
}
