package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/models"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/repository"
)

// ErrAdminRequired is returned when an admin operation reaches a service
// without the admin guard having approved the request.
var ErrAdminRequired = apperrors.New(apperrors.KindForbidden, "Admin authorization required")

// GalleryService owns the release flag: Hidden (initial) and Released, both
// stable, switched only by the admin.
//
// The flag is a display toggle, not an access control. The comment listing
// API returns non-deleted comments to anyone whether or not the gallery is
// released; the frontend hides threads until release.
type GalleryService struct {
	states repository.GalleryStateRepositoryInterface
	people repository.PersonRepositoryInterface
	events realtime.Broadcaster
	log    *zap.Logger
}

func NewGalleryService(
	states repository.GalleryStateRepositoryInterface,
	people repository.PersonRepositoryInterface,
	events realtime.Broadcaster,
	log *zap.Logger,
) *GalleryService {
	return &GalleryService{states: states, people: people, events: events, log: log.Named("gallery")}
}

// State returns the current flag, creating the hidden singleton on first use.
func (s *GalleryService) State(ctx context.Context) (*models.GalleryState, error) {
	state, err := s.states.GetOrCreate(ctx)
	if err != nil {
		s.log.Error("failed to fetch gallery state", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch gallery state", err)
	}
	return state, nil
}

// SetReleased switches the gallery between hidden and released. Admin only.
func (s *GalleryService) SetReleased(ctx context.Context, released bool) (*models.GalleryState, error) {
	if !auth.IsAdmin(ctx) {
		return nil, ErrAdminRequired
	}
	state, err := s.states.SetReleased(ctx, released)
	if err != nil {
		s.log.Error("failed to update gallery state", zap.Error(err))
		return nil, apperrors.Internal("Failed to update gallery state", err)
	}

	s.log.Info("gallery state changed", zap.Bool("released", state.IsReleased))
	if s.events != nil {
		flag := state.IsReleased
		s.events.Broadcast(realtime.Event{Type: realtime.EventGalleryState, IsReleased: &flag})
	}
	return state, nil
}

// People lists every person, id ascending, with live comment counts. Public.
func (s *GalleryService) People(ctx context.Context) ([]models.PersonWithCount, error) {
	people, err := s.people.ListWithCommentCounts(ctx)
	if err != nil {
		s.log.Error("failed to fetch people", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch people", err)
	}
	return people, nil
}
