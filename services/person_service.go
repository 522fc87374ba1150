package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/models"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/repository"
)

var (
	ErrPersonFieldsRequired = apperrors.InvalidInput("name, major, year, and imageUrl are required")
	ErrInvalidYear          = apperrors.InvalidInput("Invalid year")
)

// PersonInput is a full person record as submitted by the admin.
type PersonInput struct {
	Name     string
	Major    string
	Year     int
	ImageURL string
}

// PersonPatch holds the fields of a partial update. Nil fields, and string
// fields that are blank after trimming, are left unchanged.
type PersonPatch struct {
	Name     *string
	Major    *string
	Year     *int
	ImageURL *string
}

// PersonService manages person records from the admin console.
type PersonService struct {
	people repository.PersonRepositoryInterface
	events realtime.Broadcaster
	log    *zap.Logger
}

func NewPersonService(people repository.PersonRepositoryInterface, events realtime.Broadcaster, log *zap.Logger) *PersonService {
	return &PersonService{people: people, events: events, log: log.Named("people")}
}

// List returns every person with live comment counts. Admin only.
func (s *PersonService) List(ctx context.Context) ([]models.PersonWithCount, error) {
	if !auth.IsAdmin(ctx) {
		return nil, ErrAdminRequired
	}
	people, err := s.people.ListWithCommentCounts(ctx)
	if err != nil {
		s.log.Error("failed to fetch people", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch people", err)
	}
	return people, nil
}

// Create adds a person. Admin only.
func (s *PersonService) Create(ctx context.Context, in PersonInput) (*models.Person, error) {
	if !auth.IsAdmin(ctx) {
		return nil, ErrAdminRequired
	}

	person := &models.Person{
		Name:     strings.TrimSpace(in.Name),
		Major:    strings.TrimSpace(in.Major),
		Year:     in.Year,
		ImageURL: strings.TrimSpace(in.ImageURL),
	}
	if person.Name == "" || person.Major == "" || person.ImageURL == "" || person.Year == 0 {
		return nil, ErrPersonFieldsRequired
	}
	if !validYear(person.Year) {
		return nil, ErrInvalidYear
	}

	if err := s.people.Create(ctx, person); err != nil {
		s.log.Error("failed to create person", zap.Error(err))
		return nil, apperrors.Internal("Failed to create person", err)
	}

	s.log.Info("person created", zap.Uint("person_id", person.ID))
	s.publish(realtime.Event{Type: realtime.EventPersonCreated, PersonID: person.ID})
	return person, nil
}

// Update applies a partial update. Admin only.
func (s *PersonService) Update(ctx context.Context, id uint, patch PersonPatch) (*models.Person, error) {
	if !auth.IsAdmin(ctx) {
		return nil, ErrAdminRequired
	}
	if patch.Year != nil && !validYear(*patch.Year) {
		return nil, ErrInvalidYear
	}

	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.log.Error("failed to load person", zap.Uint("person_id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to update person", err)
	}

	applyString(&person.Name, patch.Name)
	applyString(&person.Major, patch.Major)
	applyString(&person.ImageURL, patch.ImageURL)
	if patch.Year != nil {
		person.Year = *patch.Year
	}

	if err := s.people.Update(ctx, person); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.log.Error("failed to update person", zap.Uint("person_id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to update person", err)
	}

	s.log.Info("person updated", zap.Uint("person_id", id))
	s.publish(realtime.Event{Type: realtime.EventPersonUpdated, PersonID: id})
	return person, nil
}

// Delete removes a person and all their comments, returning the number of
// comments removed. Admin only.
func (s *PersonService) Delete(ctx context.Context, id uint) (int64, error) {
	if !auth.IsAdmin(ctx) {
		return 0, ErrAdminRequired
	}
	removed, err := s.people.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPersonNotFound
		}
		s.log.Error("failed to delete person", zap.Uint("person_id", id), zap.Error(err))
		return 0, apperrors.Internal("Failed to delete person", err)
	}

	s.log.Info("person deleted", zap.Uint("person_id", id), zap.Int64("comments_removed", removed))
	s.publish(realtime.Event{Type: realtime.EventPersonDeleted, PersonID: id})
	return removed, nil
}

func (s *PersonService) publish(event realtime.Event) {
	if s.events != nil {
		s.events.Broadcast(event)
	}
}

func validYear(year int) bool {
	return year >= models.MinPersonYear && year <= models.MaxPersonYear
}

func applyString(dst *string, v *string) {
	if v == nil {
		return
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		*dst = trimmed
	}
}
