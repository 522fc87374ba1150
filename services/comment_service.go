package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/models"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/repository"
)

var (
	ErrCommentFieldsRequired = apperrors.InvalidInput("personId and text are required")
	ErrCommentTextEmpty      = apperrors.InvalidInput("Comment text cannot be empty")
	ErrPersonNotFound        = apperrors.NotFound("Person not found")
	ErrCommentNotFound       = apperrors.NotFound("Comment not found")
	ErrEditTokenRequired     = apperrors.New(apperrors.KindUnauthenticated, "Edit token required")
	ErrEditTokenMismatch     = apperrors.New(apperrors.KindForbidden, "Unauthorized: Invalid edit token")
)

// CommentService owns the comment lifecycle: Active, edited any number of
// times, then Deleted (terminal). Every mutation is authorized by the
// comment's own edit token and nothing else.
type CommentService struct {
	comments   repository.CommentRepositoryInterface
	people     repository.PersonRepositoryInterface
	events     realtime.Broadcaster
	log        *zap.Logger
	tokenBytes int

	// overridable in tests
	mintToken func(byteLen int) (string, error)
	now       func() time.Time
}

// NewCommentService creates a new comment service. events may be nil.
func NewCommentService(
	comments repository.CommentRepositoryInterface,
	people repository.PersonRepositoryInterface,
	events realtime.Broadcaster,
	log *zap.Logger,
	tokenBytes int,
) *CommentService {
	if tokenBytes < auth.MinEditTokenBytes {
		tokenBytes = auth.MinEditTokenBytes
	}
	return &CommentService{
		comments:   comments,
		people:     people,
		events:     events,
		log:        log.Named("comments"),
		tokenBytes: tokenBytes,
		mintToken:  auth.MintEditToken,
		now:        time.Now,
	}
}

// Create stores a new comment for an existing person. The returned comment
// carries the freshly minted edit token; this is the only time it leaves the
// service.
func (s *CommentService) Create(ctx context.Context, personID uint, text string) (*models.Comment, error) {
	if personID == 0 || text == "" {
		return nil, ErrCommentFieldsRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextEmpty
	}

	if _, err := s.people.GetByID(ctx, personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, s.internal("Failed to create comment", err)
	}

	token, err := s.mintToken(s.tokenBytes)
	if err != nil {
		return nil, s.internal("Failed to create comment", err)
	}

	comment := &models.Comment{
		PersonID:  personID,
		Text:      text,
		EditToken: token,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, s.internal("Failed to create comment", err)
	}

	s.log.Info("comment created", zap.Uint("comment_id", comment.ID), zap.Uint("person_id", personID))
	s.publish(realtime.Event{Type: realtime.EventCommentCreated, PersonID: personID, CommentID: comment.ID})
	return comment, nil
}

// ListVisible returns the person's comments that are not soft-deleted,
// newest first. The gallery release flag is deliberately not consulted:
// withholding comments before release is the frontend's job.
func (s *CommentService) ListVisible(ctx context.Context, personID uint) ([]models.Comment, error) {
	comments, err := s.comments.ListVisibleByPerson(ctx, personID)
	if err != nil {
		return nil, s.internal("Failed to fetch comments", err)
	}
	return comments, nil
}

// Edit replaces the text of a comment. token is the presented credential;
// an empty token means none was presented.
func (s *CommentService) Edit(ctx context.Context, commentID uint, token, text string) (*models.Comment, error) {
	if token == "" {
		return nil, ErrEditTokenRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextEmpty
	}

	comment, err := s.authorize(ctx, commentID, token)
	if err != nil {
		return nil, err
	}
	if comment.State() == models.CommentDeleted {
		return nil, ErrCommentNotFound
	}

	now := s.now()
	if err := s.comments.UpdateText(ctx, commentID, text, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, s.internal("Failed to update comment", err)
	}
	comment.Text = text
	comment.UpdatedAt = now

	s.log.Info("comment updated", zap.Uint("comment_id", commentID))
	s.publish(realtime.Event{Type: realtime.EventCommentUpdated, PersonID: comment.PersonID, CommentID: commentID})
	return comment, nil
}

// Delete soft-deletes a comment. Deleting an already deleted comment with
// its valid token succeeds without writing; the token is still checked on
// every attempt.
func (s *CommentService) Delete(ctx context.Context, commentID uint, token string) error {
	if token == "" {
		return ErrEditTokenRequired
	}

	comment, err := s.authorize(ctx, commentID, token)
	if err != nil {
		return err
	}
	if comment.State() == models.CommentDeleted {
		return nil
	}

	if err := s.comments.MarkDeleted(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return s.internal("Failed to delete comment", err)
	}

	s.log.Info("comment deleted", zap.Uint("comment_id", commentID))
	s.publish(realtime.Event{Type: realtime.EventCommentDeleted, PersonID: comment.PersonID, CommentID: commentID})
	return nil
}

// authorize loads the comment and checks the presented token against it.
func (s *CommentService) authorize(ctx context.Context, commentID uint, token string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, s.internal("Failed to load comment", err)
	}
	if !auth.TokensEqual(token, comment.EditToken) {
		s.log.Info("edit token mismatch", zap.Uint("comment_id", commentID))
		return nil, ErrEditTokenMismatch
	}
	return comment, nil
}

func (s *CommentService) publish(event realtime.Event) {
	if s.events != nil {
		s.events.Broadcast(event)
	}
}

func (s *CommentService) internal(message string, err error) error {
	s.log.Error(message, zap.Error(err))
	return apperrors.Internal(message, err)
}
