package models

import (
	"time"

	"github.com/google/uuid"
)

// Presentation is a user-owned deck. Slides cascade on delete so removing a
// presentation physically removes its whole tree.
type Presentation struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string    `gorm:"type:text;not null;default:'Untitled presentation'"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Slides []Slide `gorm:"foreignKey:PresentationID;constraint:OnDelete:CASCADE"`
}
