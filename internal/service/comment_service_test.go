package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock CommentRepository ---

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID uint64, publishedOnly bool) ([]*domain.Comment, error) {
	args := m.Called(ctx, postID, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Recording TagFlusher ---

type recordingFlusher struct {
	tags []string
	err  error
}

func (f *recordingFlusher) FlushByTag(_ context.Context, tag string) error {
	f.tags = append(f.tags, tag)
	return f.err
}

// --- Recording notification listener ---

type recordingListener struct {
	events []notification.Notification
}

func (l *recordingListener) Handle(_ context.Context, n notification.Notification) error {
	l.events = append(l.events, n)
	return nil
}

func newCommentFixture(policy ModerationPolicy) (*mockCommentRepo, *recordingFlusher, *recordingListener, CommentService) {
	repo := new(mockCommentRepo)
	flusher := &recordingFlusher{}
	listener := &recordingListener{}
	notifier := notification.NewManager()
	notifier.Register(listener)
	return repo, flusher, listener, NewCommentService(repo, policy, notifier, flusher)
}

// --- Tests ---

func TestSubmit_PendingModeration(t *testing.T) {
	repo, flusher, listener, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: true})

	post := &domain.Post{ID: 42}
	form := domain.CommentForm{Name: "Alice", Email: "alice@example.com", Comment: "Nice post"}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	state, comment, err := svc.Submit(context.Background(), post, form)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatePendingModeration, state)
	assert.NotNil(t, comment)
	assert.Equal(t, uint64(42), comment.PostID)
	assert.Equal(t, "pending", comment.Status)
	assert.False(t, comment.CreatedAt.IsZero())

	assert.Len(t, listener.events, 1)
	assert.Equal(t, notification.EventCommentAdded, listener.events[0].Kind)
	assert.Equal(t, []string{"tx_blog_post_42"}, flusher.tags)
	repo.AssertExpectations(t)
}

func TestSubmit_PublishedWithoutModeration(t *testing.T) {
	repo, flusher, _, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: false})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	state, comment, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, domain.CommentForm{Comment: "hi"})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatePublished, state)
	assert.Equal(t, "published", comment.Status)
	assert.Equal(t, []string{"tx_blog_post_7"}, flusher.tags)
}

func TestSubmit_DisabledRejectsWithoutSideEffects(t *testing.T) {
	repo, flusher, listener, svc := newCommentFixture(SettingsPolicy{Enabled: false})

	state, comment, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, domain.CommentForm{Comment: "hi"})

	assert.NoError(t, err)
	assert.Equal(t, domain.StateError, state)
	assert.Nil(t, comment)
	assert.Empty(t, flusher.tags)
	assert.Empty(t, listener.events)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_BlankFieldsAccepted(t *testing.T) {
	repo, _, _, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: true})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	// Every field absent: blank values are valid input
	state, comment, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, domain.CommentForm{})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatePendingModeration, state)
	assert.Equal(t, "", comment.Name)
	assert.Equal(t, "", comment.Body)
}

func TestSubmit_ResubmissionCreatesSecondComment(t *testing.T) {
	repo, flusher, listener, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: true})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil).Twice()

	form := domain.CommentForm{Name: "Bob", Comment: "same text"}
	_, _, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, form)
	assert.NoError(t, err)
	_, _, err = svc.Submit(context.Background(), &domain.Post{ID: 7}, form)
	assert.NoError(t, err)

	assert.Len(t, listener.events, 2)
	assert.Len(t, flusher.tags, 2)
	repo.AssertExpectations(t)
}

func TestSubmit_CreateError(t *testing.T) {
	repo, flusher, listener, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: true})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(errors.New("db error"))

	state, comment, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, domain.CommentForm{Comment: "hi"})

	assert.Error(t, err)
	assert.Equal(t, domain.StateError, state)
	assert.Nil(t, comment)
	assert.Empty(t, flusher.tags)
	assert.Empty(t, listener.events)
}

func TestSubmit_FlushErrorPropagates(t *testing.T) {
	repo, flusher, _, svc := newCommentFixture(SettingsPolicy{Enabled: true, RequireModeration: false})

	flusher.err = errors.New("redis down")
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	state, comment, err := svc.Submit(context.Background(), &domain.Post{ID: 7}, domain.CommentForm{Comment: "hi"})

	// The comment is stored before the flush fails
	assert.Error(t, err)
	assert.Equal(t, domain.StatePublished, state)
	assert.NotNil(t, comment)
}

func TestListByPost_PublishedOnly(t *testing.T) {
	repo, _, _, svc := newCommentFixture(SettingsPolicy{Enabled: true})

	published := []*domain.Comment{{ID: 1, PostID: 7, Status: "published"}}
	repo.On("ListByPost", mock.Anything, uint64(7), true).Return(published, nil)

	comments, err := svc.ListByPost(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, comments, 1)
	repo.AssertExpectations(t)
}
