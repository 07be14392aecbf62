package presentations

import (
	"time"

	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/pkg/db/models"
)

// ElementDTO is the wire shape for a positioned slide element.
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

// SlideDTO is the wire shape for one slide with its elements.
type SlideDTO struct {
	ID              int64        `json:"id"`
	Title           *string      `json:"title"`
	Content         *string      `json:"content"`
	Position        int          `json:"position"`
	BackgroundColor string       `json:"background_color"`
	Elements        []ElementDTO `json:"elements"`
}

// SummaryDTO lists a presentation with its first slide, if any.
type SummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FirstSlide   *SlideDTO `json:"first_slide"`
}

// DetailDTO is the full presentation tree, slides ordered by position.
type DetailDTO struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	UserID       uuid.UUID  `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Slides       []SlideDTO `json:"slides"`
}

// CreateRequest is the payload accepted when creating a presentation.
type CreateRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=255"`
}

// UpdateRequest replaces the presentation title.
type UpdateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

func ElementFromModel(e models.SlideElement) ElementDTO {
	return ElementDTO{
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

func SlideFromModel(s models.Slide) SlideDTO {
	elements := make([]ElementDTO, 0, len(s.Elements))
	for _, e := range s.Elements {
		elements = append(elements, ElementFromModel(e))
	}
	return SlideDTO{
		ID:              s.ID,
		Title:           s.Title,
		Content:         s.Content,
		Position:        s.Position,
		BackgroundColor: s.BackgroundColor,
		Elements:        elements,
	}
}

func summaryFromModel(p models.Presentation, firstSlide *models.Slide) SummaryDTO {
	dto := SummaryDTO{
		ID:           p.ID,
		Title:        p.Title,
		ThumbnailURL: p.ThumbnailURL,
		UserID:       p.UserID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if firstSlide != nil {
		slide := SlideFromModel(*firstSlide)
		dto.FirstSlide = &slide
	}
	return dto
}

func detailFromModel(p models.Presentation) DetailDTO {
	slides := make([]SlideDTO, 0, len(p.Slides))
	for _, s := range p.Slides {
		slides = append(slides, SlideFromModel(s))
	}
	return DetailDTO{
		ID:           p.ID,
		Title:        p.Title,
		ThumbnailURL: p.ThumbnailURL,
		UserID:       p.UserID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Slides:       slides,
	}
}
