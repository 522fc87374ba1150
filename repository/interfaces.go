package repository

import (
	"context"
	"time"

	"github.com/camden-git/yearbookbackend/models"
)

// Missing records are reported as gorm.ErrRecordNotFound, unwrapped, by every
// repository method that looks up a single row.

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id uint) (*models.Person, error)
	ListWithCommentCounts(ctx context.Context) ([]models.PersonWithCount, error)
	Update(ctx context.Context, person *models.Person) error
	// DeleteCascade removes the person and all of its comments atomically
	// and returns how many comments were removed.
	DeleteCascade(ctx context.Context, id uint) (int64, error)
}

// CommentRepositoryInterface defines the methods for comment data operations
type CommentRepositoryInterface interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// ListVisibleByPerson returns comments that are not soft-deleted,
	// newest first.
	ListVisibleByPerson(ctx context.Context, personID uint) ([]models.Comment, error)
	UpdateText(ctx context.Context, id uint, text string, at time.Time) error
	MarkDeleted(ctx context.Context, id uint) error
}

// GalleryStateRepositoryInterface defines the methods for the singleton
// gallery state row
type GalleryStateRepositoryInterface interface {
	GetOrCreate(ctx context.Context) (*models.GalleryState, error)
	SetReleased(ctx context.Context, released bool) (*models.GalleryState, error)
}
