package service

import (
	"context"
	"time"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/notification"
	"github.com/agencypack/blog-backend/internal/repository"
)

// TagFlusher evicts all cache entries carrying a tag. Satisfied by
// pkg/cache.Service. Backend failures propagate: a stale cache is worse
// than a surfaced error.
type TagFlusher interface {
	FlushByTag(ctx context.Context, tag string) error
}

// ModerationPolicy decides the publication state of a submitted comment.
// The decision is made once, at intake.
type ModerationPolicy interface {
	Evaluate(ctx context.Context, post *domain.Post, comment *domain.Comment) domain.ModerationState
}

// SettingsPolicy derives the moderation decision from the blog comment
// settings: intake disabled rejects outright, otherwise comments either
// queue for moderation or publish immediately.
type SettingsPolicy struct {
	Enabled           bool
	RequireModeration bool
}

// Evaluate implements ModerationPolicy
func (p SettingsPolicy) Evaluate(_ context.Context, _ *domain.Post, _ *domain.Comment) domain.ModerationState {
	if !p.Enabled {
		return domain.StateError
	}
	if p.RequireModeration {
		return domain.StatePendingModeration
	}
	return domain.StatePublished
}

type CommentService interface {
	// Submit runs a raw comment submission through the moderation
	// policy. On Error nothing is persisted and no cache is touched.
	// Otherwise the comment is stored, a comment-added notification is
	// dispatched and the post's cache tag is flushed.
	Submit(ctx context.Context, post *domain.Post, form domain.CommentForm) (domain.ModerationState, *domain.Comment, error)

	// ListByPost returns the publicly visible comments of a post
	ListByPost(ctx context.Context, postID uint64) ([]*domain.Comment, error)
}

type commentService struct {
	comments repository.CommentRepository
	policy   ModerationPolicy
	notifier *notification.Manager
	cache    TagFlusher
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repository.CommentRepository, policy ModerationPolicy, notifier *notification.Manager, cache TagFlusher) CommentService {
	return &commentService{
		comments: comments,
		policy:   policy,
		notifier: notifier,
		cache:    cache,
	}
}

// Submit implements the comment intake. Identical resubmissions create
// independent comments; deduplication is deliberately absent.
func (s *commentService) Submit(ctx context.Context, post *domain.Post, form domain.CommentForm) (domain.ModerationState, *domain.Comment, error) {
	// Absent fields arrive as empty strings; a blank value is valid
	comment := &domain.Comment{
		PostID: post.ID,
		Name:   form.Name,
		Email:  form.Email,
		URL:    form.URL,
		Body:   form.Comment,
	}

	state := s.policy.Evaluate(ctx, post, comment)
	if state == domain.StateError {
		return state, nil, nil
	}

	comment.Status = state.String()
	comment.CreatedAt = time.Now()
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.StateError, nil, err
	}

	// Fire-and-forget from the intake's perspective
	s.notifier.Notify(ctx, notification.CommentAdded(comment, post))

	if err := s.cache.FlushByTag(ctx, domain.PostCacheTag(post.ID)); err != nil {
		return state, comment, err
	}
	return state, comment, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID uint64) ([]*domain.Comment, error) {
	return s.comments.ListByPost(ctx, postID, true)
}
