package models

import "github.com/google/uuid"

// Slide is one page of a presentation. Position is the 1-based display order
// and is unique per presentation.
type Slide struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Title           *string   `gorm:"type:text"`
	Content         *string   `gorm:"type:text"`
	Position        int       `gorm:"not null;uniqueIndex:slides_presentation_position_key,priority:2"`
	BackgroundColor string    `gorm:"column:background_color;not null;default:'#FFFFFF'"`
	PresentationID  uuid.UUID `gorm:"type:uuid;column:presentation_id;not null;uniqueIndex:slides_presentation_position_key,priority:1"`

	Elements []SlideElement `gorm:"foreignKey:SlideID;constraint:OnDelete:CASCADE"`
}
