package models

import "time"

// GalleryStateID is the fixed primary key of the singleton gallery row.
const GalleryStateID uint = 1

// GalleryState holds the process-wide release flag. The flag only tells the
// frontend whether to render comment threads; the comment API does not
// consult it.
type GalleryState struct {
	ID         uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	IsReleased bool      `gorm:"not null;default:false" json:"isReleased"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (GalleryState) TableName() string {
	return "gallery_state"
}
