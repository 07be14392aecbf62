package models

import "github.com/google/uuid"

// SlideElement is a positioned content box on a slide. Coordinates and sizes
// are stored in editor pixels; the exporter converts to physical units.
type SlideElement struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SlideID     int64     `gorm:"column:slide_id;not null;index"`
	ElementType string    `gorm:"column:element_type;not null"`
	PosX        int       `gorm:"column:pos_x;not null"`
	PosY        int       `gorm:"column:pos_y;not null"`
	Width       int       `gorm:"not null"`
	Height      int       `gorm:"not null"`
	Content     string    `gorm:"type:text;not null"`
	FontSize    *int      `gorm:"column:font_size"`
}
