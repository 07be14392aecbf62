package elements

import (
	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// ElementDTO is the wire shape for a slide element.
type ElementDTO struct {
	ID          uuid.UUID `json:"id"`
	SlideID     int64     `json:"slide_id"`
	ElementType string    `json:"element_type"`
	PosX        int       `json:"pos_x"`
	PosY        int       `json:"pos_y"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Content     string    `json:"content"`
	FontSize    *int      `json:"font_size,omitempty"`
}

// CreateRequest adds an element to a slide. Geometry and content fall back
// to editor defaults when omitted.
type CreateRequest struct {
	ElementType string  `json:"element_type"`
	PosX        *int    `json:"pos_x" validate:"omitempty,min=0"`
	PosY        *int    `json:"pos_y" validate:"omitempty,min=0"`
	Width       *int    `json:"width" validate:"omitempty,min=1"`
	Height      *int    `json:"height" validate:"omitempty,min=1"`
	Content     *string `json:"content"`
	FontSize    *int    `json:"font_size" validate:"omitempty,min=1"`
}

// UpdateRequest carries the partial update payload; nil fields are left alone.
type UpdateRequest struct {
	PosX     *int    `json:"pos_x" validate:"omitempty,min=0"`
	PosY     *int    `json:"pos_y" validate:"omitempty,min=0"`
	Width    *int    `json:"width" validate:"omitempty,min=1"`
	Height   *int    `json:"height" validate:"omitempty,min=1"`
	Content  *string `json:"content"`
	FontSize *int    `json:"font_size" validate:"omitempty,min=1"`
}

func fromModel(e *models.SlideElement) *ElementDTO {
	if e == nil {
		return nil
	}
	return &ElementDTO{
		ID:          e.ID,
		SlideID:     e.SlideID,
		ElementType: e.ElementType,
		PosX:        e.PosX,
		PosY:        e.PosY,
		Width:       e.Width,
		Height:      e.Height,
		Content:     e.Content,
		FontSize:    e.FontSize,
	}
}
