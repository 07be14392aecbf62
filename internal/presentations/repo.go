package presentations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// Repository encapsulates presentation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a presentations repo bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a presentation row.
func (r *Repository) Create(ctx context.Context, p *models.Presentation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID loads the bare presentation row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Presentation, error) {
	var p models.Presentation
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindDetail loads a presentation with slides ordered by position and their elements.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Presentation, error) {
	var p models.Presentation
	err := r.db.WithContext(ctx).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Slides.Elements").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns the caller's presentations, most recently updated first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Presentation, error) {
	var rows []models.Presentation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FirstSlide returns the lowest-position slide of a presentation, or nil.
func (r *Repository) FirstSlide(ctx context.Context, presentationID uuid.UUID) (*models.Slide, error) {
	var slide models.Slide
	err := r.db.WithContext(ctx).
		Preload("Elements").
		Where("presentation_id = ?", presentationID).
		Order("position ASC").
		First(&slide).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slide, nil
}

// UpdateTitle replaces the title and refreshes updated_at.
func (r *Repository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).
		Model(&models.Presentation{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// Touch bumps updated_at without changing any other column.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Presentation{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// Delete removes the presentation row; slides and elements cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Presentation{}, "id = ?", id).Error
}
