package presentations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/db/models"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
)

const defaultTitle = "Untitled presentation"

// Geometry of the two placeholder elements seeded on every new presentation.
var (
	titlePlaceholder = models.SlideElement{
		ElementType: "text",
		PosX:        100,
		PosY:        100,
		Width:       1080,
		Height:      150,
		Content:     "Title slide",
	}
	subtitlePlaceholder = models.SlideElement{
		ElementType: "text",
		PosX:        100,
		PosY:        260,
		Width:       1080,
		Height:      100,
		Content:     "Subtitle",
	}
	titleFontSize    = 44
	subtitleFontSize = 28
)

// Service exposes presentation lifecycle operations scoped to one owner.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*SummaryDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]SummaryDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*DetailDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SummaryDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ServiceParams groups dependencies for the presentations service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds a presentations service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

// Create transactionally inserts the presentation, its first slide and the
// two placeholder text elements.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*SummaryDTO, error) {
	title := defaultTitle
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		title = strings.TrimSpace(*req.Title)
	}

	presentation := &models.Presentation{
		Title:  title,
		UserID: userID,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.Create(ctx, presentation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create presentation")
		}

		slide := &models.Slide{
			Position:        1,
			BackgroundColor: "#FFFFFF",
			PresentationID:  presentation.ID,
		}
		if err := tx.WithContext(ctx).Create(slide).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create first slide")
		}

		titleEl := titlePlaceholder
		titleEl.ID = uuid.New()
		titleEl.SlideID = slide.ID
		fontTitle := titleFontSize
		titleEl.FontSize = &fontTitle

		subtitleEl := subtitlePlaceholder
		subtitleEl.ID = uuid.New()
		subtitleEl.SlideID = slide.ID
		fontSubtitle := subtitleFontSize
		subtitleEl.FontSize = &fontSubtitle

		if err := tx.WithContext(ctx).Create(&titleEl).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create title element")
		}
		if err := tx.WithContext(ctx).Create(&subtitleEl).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subtitle element")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, presentation.ID)
}

// List returns the caller's presentations with first-slide summaries.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]SummaryDTO, error) {
	repo := NewRepository(s.db.DB())
	rows, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list presentations")
	}

	summaries := make([]SummaryDTO, 0, len(rows))
	for _, p := range rows {
		firstSlide, err := repo.FirstSlide(ctx, p.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load first slide")
		}
		summaries = append(summaries, summaryFromModel(p, firstSlide))
	}
	return summaries, nil
}

// Get loads the full tree after the ownership check.
func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*DetailDTO, error) {
	repo := NewRepository(s.db.DB())
	if _, err := s.authorize(ctx, repo, userID, id); err != nil {
		return nil, err
	}

	detail, err := repo.FindDetail(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	dto := detailFromModel(*detail)
	return &dto, nil
}

// Update replaces the title; all other fields are immutable through this endpoint.
func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SummaryDTO, error) {
	repo := NewRepository(s.db.DB())
	if _, err := s.authorize(ctx, repo, userID, id); err != nil {
		return nil, err
	}

	if err := repo.UpdateTitle(ctx, id, strings.TrimSpace(req.Title)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update presentation")
	}
	return s.summarize(ctx, id)
}

// Delete removes the presentation and its whole slide tree in one transaction.
func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	repo := NewRepository(s.db.DB())
	if _, err := s.authorize(ctx, repo, userID, id); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("slide_id IN (?)", tx.Model(&models.Slide{}).Select("id").Where("presentation_id = ?", id)).
			Delete(&models.SlideElement{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete elements")
		}
		if err := tx.WithContext(ctx).
			Where("presentation_id = ?", id).
			Delete(&models.Slide{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete slides")
		}
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete presentation")
		}
		return nil
	})
}

func (s *service) summarize(ctx context.Context, id uuid.UUID) (*SummaryDTO, error) {
	repo := NewRepository(s.db.DB())
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	firstSlide, err := repo.FirstSlide(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load first slide")
	}
	dto := summaryFromModel(*p, firstSlide)
	return &dto, nil
}

func (s *service) authorize(ctx context.Context, repo *Repository, userID, id uuid.UUID) (*models.Presentation, error) {
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "presentation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	if p.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "presentation belongs to another user")
	}
	return p, nil
}
