package slides

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/db/models"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
)

const newSlideTitle = "New slide"

// Service exposes slide lifecycle operations.
type Service interface {
	Add(ctx context.Context, userID, presentationID uuid.UUID) (*SlideDTO, error)
	Update(ctx context.Context, userID uuid.UUID, slideID int64, req UpdateRequest) (*SlideDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, slideID int64) error
}

// ServiceParams groups dependencies for the slides service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds a slides service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

// Add appends a slide at the next free ordinal of the presentation.
func (s *service) Add(ctx context.Context, userID, presentationID uuid.UUID) (*SlideDTO, error) {
	if err := s.authorizePresentation(ctx, userID, presentationID); err != nil {
		return nil, err
	}

	var slide *models.Slide
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		position, err := repo.NextPosition(ctx, presentationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute position")
		}

		title := newSlideTitle
		slide = &models.Slide{
			Title:           &title,
			Position:        position,
			BackgroundColor: "#FFFFFF",
			PresentationID:  presentationID,
		}
		if err := repo.Create(ctx, slide); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create slide")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromModel(slide), nil
}

// Update applies the supplied fields and always touches the parent
// presentation's updated_at.
func (s *service) Update(ctx context.Context, userID uuid.UUID, slideID int64, req UpdateRequest) (*SlideDTO, error) {
	slide, err := s.authorizeSlide(ctx, userID, slideID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.UpdateFields(ctx, slideID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update slide")
		}
		if err := touchPresentation(ctx, tx, slide.PresentationID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch presentation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := NewRepository(s.db.DB()).FindByID(ctx, slideID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload slide")
	}
	return fromModel(updated), nil
}

// Delete refuses to remove the last remaining slide of a presentation.
func (s *service) Delete(ctx context.Context, userID uuid.UUID, slideID int64) error {
	slide, err := s.authorizeSlide(ctx, userID, slideID)
	if err != nil {
		return err
	}

	repo := NewRepository(s.db.DB())
	count, err := repo.CountByPresentation(ctx, slide.PresentationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count slides")
	}
	if count <= 1 {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "cannot delete the last slide of a presentation")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Delete(ctx, slideID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete slide")
		}
		return nil
	})
}

func (s *service) authorizePresentation(ctx context.Context, userID, presentationID uuid.UUID) error {
	var p models.Presentation
	err := s.db.DB().WithContext(ctx).First(&p, "id = ?", presentationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "presentation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	if p.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "presentation belongs to another user")
	}
	return nil
}

func (s *service) authorizeSlide(ctx context.Context, userID uuid.UUID, slideID int64) (*models.Slide, error) {
	slide, err := NewRepository(s.db.DB()).FindByID(ctx, slideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load slide")
	}
	if err := s.authorizePresentation(ctx, userID, slide.PresentationID); err != nil {
		return nil, err
	}
	return slide, nil
}

func touchPresentation(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).
		Model(&models.Presentation{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
