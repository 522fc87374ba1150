package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/yearbookbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GalleryStateRepository struct {
	DB *gorm.DB
}

func NewGalleryStateRepository(db *gorm.DB) *GalleryStateRepository {
	return &GalleryStateRepository{DB: db}
}

// GetOrCreate returns the singleton row, inserting it hidden if it does not
// exist yet. Concurrent first reads race on the insert; the loser's insert
// is ignored and it reads the winner's row.
func (r *GalleryStateRepository) GetOrCreate(ctx context.Context) (*models.GalleryState, error) {
	db := r.DB.WithContext(ctx)

	var state models.GalleryState
	err := db.First(&state, models.GalleryStateID).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read gallery state: %w", err)
	}

	initial := models.GalleryState{ID: models.GalleryStateID, IsReleased: false}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&initial).Error; err != nil {
		return nil, fmt.Errorf("failed to create gallery state: %w", err)
	}

	state = models.GalleryState{}
	if err := db.First(&state, models.GalleryStateID).Error; err != nil {
		return nil, fmt.Errorf("failed to read gallery state after create: %w", err)
	}
	return &state, nil
}

// SetReleased upserts the singleton row with the given flag.
func (r *GalleryStateRepository) SetReleased(ctx context.Context, released bool) (*models.GalleryState, error) {
	state := models.GalleryState{ID: models.GalleryStateID, IsReleased: released, UpdatedAt: time.Now()}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_released", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return nil, fmt.Errorf("failed to set gallery state: %w", err)
	}
	return &state, nil
}
