package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/yearbookbackend/database"
	"github.com/camden-git/yearbookbackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	err := r.DB.WithContext(ctx).Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.Name, err)
	}
	return nil
}

// GetByID retrieves a person by their ID
func (r *PersonRepository) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// ListWithCommentCounts retrieves all people ordered by id, each with the
// number of comments that are not soft-deleted
func (r *PersonRepository) ListWithCommentCounts(ctx context.Context) ([]models.PersonWithCount, error) {
	var result []models.PersonWithCount
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var people []models.Person
		if err := tx.Order("id ASC").Find(&people).Error; err != nil {
			return fmt.Errorf("failed to list people: %w", err)
		}

		counts, err := database.CountVisibleComments(ctx, tx.Statement.ConnPool)
		if err != nil {
			return err
		}

		result = make([]models.PersonWithCount, 0, len(people))
		for _, p := range people {
			result = append(result, models.PersonWithCount{Person: p, CommentCount: counts[p.ID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes name, major, year and image of an existing person
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now()
	result := r.DB.WithContext(ctx).Model(&models.Person{ID: person.ID}).Updates(map[string]interface{}{
		"name":       person.Name,
		"major":      person.Major,
		"year":       person.Year,
		"image_url":  person.ImageURL,
		"updated_at": person.UpdatedAt,
	})

	if result.Error != nil {
		return fmt.Errorf("failed to update person ID %d: %w", person.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCascade removes a person and every comment that references them in a
// single transaction
func (r *PersonRepository) DeleteCascade(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Select("id").First(&person, id).Error; err != nil {
			return err
		}

		res := tx.Where("person_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete comments of person ID %d: %w", id, res.Error)
		}
		removed = res.RowsAffected

		res = tx.Delete(&models.Person{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete person ID %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, gorm.ErrRecordNotFound
		}
		return 0, err
	}
	return removed, nil
}
