package models

import "time"

// CommentState is the lifecycle state of a comment. Deleted is terminal.
type CommentState int

const (
	CommentActive CommentState = iota
	CommentDeleted
)

func (s CommentState) String() string {
	switch s {
	case CommentActive:
		return "active"
	case CommentDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Comment is a visitor message left on a person's card.
// It corresponds to the 'comments' table.
type Comment struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID uint   `gorm:"not null;index" json:"personId"`
	Text     string `gorm:"type:text;not null" json:"text"`

	// EditToken is the capability that authorizes edits and deletes. It is
	// handed out once in the create response and never serialized again.
	EditToken string `gorm:"not null;uniqueIndex" json:"-"`
	IsDeleted bool   `gorm:"not null;default:false;index" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) State() CommentState {
	if c.IsDeleted {
		return CommentDeleted
	}
	return CommentActive
}
