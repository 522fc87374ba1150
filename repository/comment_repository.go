package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/yearbookbackend/models"
	"gorm.io/gorm"
)

// CommentRepository handles database operations for Comment entities
type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment for person ID %d: %w", comment.PersonID, err)
	}
	return nil
}

// GetByID loads a comment regardless of its deleted flag
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get comment by ID %d: %w", id, err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListVisibleByPerson(ctx context.Context, personID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.DB.WithContext(ctx).
		Where("person_id = ? AND is_deleted = ?", personID, false).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for person ID %d: %w", personID, err)
	}
	return comments, nil
}

// UpdateText replaces the text and bumps updated_at. There is no version
// check: concurrent writers with the same token are last-write-wins.
func (r *CommentRepository) UpdateText(ctx context.Context, id uint, text string, at time.Time) error {
	result := r.DB.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"text":       text,
		"updated_at": at,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update comment ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkDeleted sets the soft-delete flag. updated_at is left alone since the
// text did not change.
func (r *CommentRepository) MarkDeleted(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).UpdateColumn("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to soft delete comment ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
