package elements

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

// Editor defaults applied when the create payload omits geometry or content.
const (
	defaultPosX    = 100
	defaultPosY    = 100
	defaultWidth   = 400
	defaultHeight  = 150
	defaultContent = "New text"
)

// Service exposes element lifecycle operations.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, slideID int64, req CreateRequest) (*ElementDTO, error)
	Update(ctx context.Context, userID, elementID uuid.UUID, req UpdateRequest) (*ElementDTO, error)
	Delete(ctx context.Context, userID, elementID uuid.UUID) error
}

// ServiceParams groups dependencies for the elements service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds an elements service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

// Add creates an element on the slide, applying editor defaults.
func (s *service) Add(ctx context.Context, userID uuid.UUID, slideID int64, req CreateRequest) (*ElementDTO, error) {
	if strings.TrimSpace(req.ElementType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "element_type is required")
	}

	if _, err := s.authorizeSlide(ctx, userID, slideID); err != nil {
		return nil, err
	}

	element := &models.SlideElement{
		SlideID:     slideID,
		ElementType: strings.TrimSpace(req.ElementType),
		PosX:        defaultPosX,
		PosY:        defaultPosY,
		Width:       defaultWidth,
		Height:      defaultHeight,
		Content:     defaultContent,
		FontSize:    req.FontSize,
	}
	if req.PosX != nil {
		element.PosX = *req.PosX
	}
	if req.PosY != nil {
		element.PosY = *req.PosY
	}
	if req.Width != nil {
		element.Width = *req.Width
	}
	if req.Height != nil {
		element.Height = *req.Height
	}
	if req.Content != nil {
		element.Content = *req.Content
	}

	if err := NewRepository(s.db.DB()).Create(ctx, element); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create element")
	}
	return fromModel(element), nil
}

// Update applies the supplied fields to an existing element.
func (s *service) Update(ctx context.Context, userID, elementID uuid.UUID, req UpdateRequest) (*ElementDTO, error) {
	element, err := s.authorizeElement(ctx, userID, elementID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.PosX != nil {
		fields["pos_x"] = *req.PosX
	}
	if req.PosY != nil {
		fields["pos_y"] = *req.PosY
	}
	if req.Width != nil {
		fields["width"] = *req.Width
	}
	if req.Height != nil {
		fields["height"] = *req.Height
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.FontSize != nil {
		fields["font_size"] = *req.FontSize
	}

	repo := NewRepository(s.db.DB())
	if err := repo.UpdateFields(ctx, element.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update element")
	}

	updated, err := repo.FindByID(ctx, element.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload element")
	}
	return fromModel(updated), nil
}

// Delete removes the element unconditionally.
func (s *service) Delete(ctx context.Context, userID, elementID uuid.UUID) error {
	element, err := s.authorizeElement(ctx, userID, elementID)
	if err != nil {
		return err
	}
	if err := NewRepository(s.db.DB()).Delete(ctx, element.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete element")
	}
	return nil
}

func (s *service) authorizeElement(ctx context.Context, userID, elementID uuid.UUID) (*models.SlideElement, error) {
	element, err := NewRepository(s.db.DB()).FindByID(ctx, elementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "element not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load element")
	}
	if _, err := s.authorizeSlide(ctx, userID, element.SlideID); err != nil {
		return nil, err
	}
	return element, nil
}

func (s *service) authorizeSlide(ctx context.Context, userID uuid.UUID, slideID int64) (*models.Slide, error) {
	var slide models.Slide
	err := s.db.DB().WithContext(ctx).First(&slide, "id = ?", slideID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load slide")
	}

	var p models.Presentation
	err = s.db.DB().WithContext(ctx).First(&p, "id = ?", slide.PresentationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "presentation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load presentation")
	}
	if p.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "presentation belongs to another user")
	}
	return &slide, nil
}
