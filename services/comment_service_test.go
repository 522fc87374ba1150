package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/models"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/repository"
	"github.com/camden-git/yearbookbackend/testutil"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordingBroadcaster) Broadcast(e realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingBroadcaster) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	comments *CommentService
	people   *PersonService
	gallery  *GalleryService
	events   *recordingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	events := &recordingBroadcaster{}
	personRepo := repository.NewPersonRepository(db)
	return &fixture{
		db:       db,
		comments: NewCommentService(repository.NewCommentRepository(db), personRepo, events, zap.NewNop(), 32),
		people:   NewPersonService(personRepo, events, zap.NewNop()),
		gallery:  NewGalleryService(repository.NewGalleryStateRepository(db), personRepo, events, zap.NewNop()),
		events:   events,
	}
}

func (f *fixture) loadComment(t *testing.T, id uint) models.Comment {
	t.Helper()
	var c models.Comment
	require.NoError(t, f.db.First(&c, id).Error)
	return c
}

func TestCommentService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")

	t.Run("trims text and mints a token", func(t *testing.T) {
		c, err := f.comments.Create(ctx, person.ID, "  hello there  ")
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "hello there", c.Text)
		assert.NotEmpty(t, c.EditToken)
		assert.False(t, c.IsDeleted)

		stored := f.loadComment(t, c.ID)
		assert.Equal(t, c.EditToken, stored.EditToken)
		assert.Equal(t, person.ID, stored.PersonID)
	})

	tests := []struct {
		name     string
		personID uint
		text     string
		wantErr  error
	}{
		{"missing person id", 0, "hi", ErrCommentFieldsRequired},
		{"missing text", person.ID, "", ErrCommentFieldsRequired},
		{"whitespace text", person.ID, " \n\t ", ErrCommentTextEmpty},
		{"unknown person", person.ID + 100, "hi", ErrPersonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.Create(ctx, tt.personID, tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown person is NotFound", func(t *testing.T) {
		_, err := f.comments.Create(ctx, 9999, "hi")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("token mint failure is internal", func(t *testing.T) {
		svc := NewCommentService(repository.NewCommentRepository(f.db), repository.NewPersonRepository(f.db), nil, zap.NewNop(), 32)
		svc.mintToken = func(int) (string, error) { return "", errors.New("entropy exhausted") }
		_, err := svc.Create(ctx, person.ID, "hi")
		assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
		assert.Equal(t, "Failed to create comment", apperrors.PublicMessage(err))
	})
}

func TestCommentService_TokensAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		c, err := f.comments.Create(ctx, person.ID, "comment")
		require.NoError(t, err)
		require.False(t, seen[c.EditToken], "token reused")
		seen[c.EditToken] = true
	}
}

func TestCommentService_ListVisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateTestPerson(t, f.db, "alice")
	bob := testutil.CreateTestPerson(t, f.db, "bob")

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(personID uint, text string, offset time.Duration, deleted bool) models.Comment {
		c := models.Comment{PersonID: personID, Text: text, EditToken: text + "-token", IsDeleted: deleted, CreatedAt: base.Add(offset)}
		require.NoError(t, f.db.Create(&c).Error)
		return c
	}
	mk(alice.ID, "first", 0, false)
	mk(alice.ID, "gone", time.Minute, true)
	mk(alice.ID, "third", 2*time.Minute, false)
	mk(bob.ID, "other", 3*time.Minute, false)

	got, err := f.comments.ListVisible(ctx, alice.ID)
	require.NoError(t, err)

	texts := make([]string, 0, len(got))
	for _, c := range got {
		assert.False(t, c.IsDeleted)
		texts = append(texts, c.Text)
	}
	if diff := cmp.Diff([]string{"third", "first"}, texts); diff != "" {
		t.Errorf("visible comments mismatch (-want +got):\n%s", diff)
	}

	empty, err := f.comments.ListVisible(ctx, 4242)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestCommentService_ListIgnoresReleaseFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")
	_, err := f.comments.Create(ctx, person.ID, "visible before release")
	require.NoError(t, err)

	state, err := f.gallery.State(ctx)
	require.NoError(t, err)
	require.False(t, state.IsReleased)

	got, err := f.comments.ListVisible(ctx, person.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCommentService_Edit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")
	created, err := f.comments.Create(ctx, person.ID, "hi")
	require.NoError(t, err)
	token := created.EditToken

	tests := []struct {
		name     string
		id       uint
		token    string
		text     string
		wantKind apperrors.Kind
	}{
		{"missing token", created.ID, "", "bye", apperrors.KindUnauthenticated},
		{"missing token beats unknown id", 9999, "", "bye", apperrors.KindUnauthenticated},
		{"empty text", created.ID, token, "   ", apperrors.KindInvalidInput},
		{"unknown comment", 9999, token, "bye", apperrors.KindNotFound},
		{"wrong token", created.ID, "not-the-token", "bye", apperrors.KindForbidden},
		{"token with extra suffix", created.ID, token + "x", "bye", apperrors.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.Edit(ctx, tt.id, tt.token, tt.text)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))

			stored := f.loadComment(t, created.ID)
			assert.Equal(t, "hi", stored.Text, "failed edit must not mutate")
		})
	}

	t.Run("correct token replaces text and bumps updatedAt", func(t *testing.T) {
		before := f.loadComment(t, created.ID)
		f.comments.now = func() time.Time { return before.UpdatedAt.Add(time.Hour) }
		defer func() { f.comments.now = time.Now }()

		updated, err := f.comments.Edit(ctx, created.ID, token, "  bye ")
		require.NoError(t, err)
		assert.Equal(t, "bye", updated.Text)

		stored := f.loadComment(t, created.ID)
		assert.Equal(t, "bye", stored.Text)
		assert.True(t, stored.UpdatedAt.After(before.UpdatedAt))
		assert.True(t, stored.CreatedAt.Equal(before.CreatedAt))
		assert.Equal(t, before.EditToken, stored.EditToken)
	})

	t.Run("editing twice keeps working", func(t *testing.T) {
		_, err := f.comments.Edit(ctx, created.ID, token, "again")
		require.NoError(t, err)
		assert.Equal(t, "again", f.loadComment(t, created.ID).Text)
	})

	t.Run("deleted comment cannot be edited", func(t *testing.T) {
		require.NoError(t, f.comments.Delete(ctx, created.ID, token))
		_, err := f.comments.Edit(ctx, created.ID, token, "zombie")
		assert.ErrorIs(t, err, ErrCommentNotFound)
		assert.Equal(t, "again", f.loadComment(t, created.ID).Text)
	})
}

func TestCommentService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")
	created, err := f.comments.Create(ctx, person.ID, "hi")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		err := f.comments.Delete(ctx, created.ID, "")
		assert.ErrorIs(t, err, ErrEditTokenRequired)
	})

	t.Run("wrong token never mutates", func(t *testing.T) {
		err := f.comments.Delete(ctx, created.ID, "wrong")
		assert.ErrorIs(t, err, ErrEditTokenMismatch)
		assert.False(t, f.loadComment(t, created.ID).IsDeleted)
	})

	t.Run("unknown comment", func(t *testing.T) {
		err := f.comments.Delete(ctx, 9999, created.EditToken)
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})

	t.Run("correct token soft-deletes", func(t *testing.T) {
		require.NoError(t, f.comments.Delete(ctx, created.ID, created.EditToken))
		stored := f.loadComment(t, created.ID)
		assert.True(t, stored.IsDeleted)
		assert.Equal(t, models.CommentDeleted, stored.State())
		assert.Equal(t, "hi", stored.Text, "soft delete keeps the row")
	})

	t.Run("repeat delete is idempotent", func(t *testing.T) {
		require.NoError(t, f.comments.Delete(ctx, created.ID, created.EditToken))
		assert.True(t, f.loadComment(t, created.ID).IsDeleted)
	})

	t.Run("repeat delete still checks the token", func(t *testing.T) {
		err := f.comments.Delete(ctx, created.ID, "wrong")
		assert.ErrorIs(t, err, ErrEditTokenMismatch)
		err = f.comments.Delete(ctx, created.ID, "")
		assert.ErrorIs(t, err, ErrEditTokenRequired)
	})

	t.Run("deleted comment drops out of the listing", func(t *testing.T) {
		got, err := f.comments.ListVisible(ctx, person.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	assert.Equal(t, []string{realtime.EventCommentCreated, realtime.EventCommentDeleted}, f.events.types())
}

func TestCommentService_EventsCarryNoText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person := testutil.CreateTestPerson(t, f.db, "alice")
	c, err := f.comments.Create(ctx, person.ID, "private words")
	require.NoError(t, err)
	_, err = f.comments.Edit(ctx, c.ID, c.EditToken, "more words")
	require.NoError(t, err)

	for _, e := range f.events.events {
		assert.Equal(t, person.ID, e.PersonID)
		assert.Equal(t, c.ID, e.CommentID)
	}
	assert.Equal(t, []string{realtime.EventCommentCreated, realtime.EventCommentUpdated}, f.events.types())
}
