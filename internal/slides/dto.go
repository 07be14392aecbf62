package slides

import (
	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// SlideDTO is the wire shape returned by the slide endpoints.
type SlideDTO struct {
	ID       int64   `json:"id"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Position int     `json:"position"`
}

// UpdateRequest carries the partial update payload; nil fields are left alone.
type UpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Content *string `json:"content"`
}

func fromModel(s *models.Slide) *SlideDTO {
	if s == nil {
		return nil
	}
	return &SlideDTO{
		ID:       s.ID,
		Title:    s.Title,
		Content:  s.Content,
		Position: s.Position,
	}
}
