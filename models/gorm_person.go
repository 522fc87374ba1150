package models

import "time"

// Person is a profile card visitors can leave comments on.
// It corresponds to the 'people' table.
type Person struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Major     string    `gorm:"not null" json:"major"`
	Year      int       `gorm:"not null" json:"year"`
	ImageURL  string    `gorm:"not null" json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Comments are removed together with their person
	Comments []Comment `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// PersonWithCount is a person as listed in the gallery and the admin console.
// CommentCount only counts comments that are not soft-deleted.
type PersonWithCount struct {
	Person
	CommentCount int64 `json:"commentCount"`
}

// Accepted range for Person.Year.
const (
	MinPersonYear = 1900
	MaxPersonYear = 2100
)
