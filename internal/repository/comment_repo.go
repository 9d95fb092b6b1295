package repository

import (
	"context"
	"errors"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/domain"
	"gorm.io/gorm"
)

type CommentRepository interface {
	// Create persists a new comment. Comments are never updated after
	// creation.
	Create(ctx context.Context, comment *domain.Comment) error

	// FindByID looks a comment up by identifier
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)

	// ListByPost returns comments for a post, oldest first. With
	// publishedOnly set, pending comments are filtered out.
	ListByPost(ctx context.Context, postID uint64, publishedOnly bool) ([]*domain.Comment, error)

	// CountByPost counts published comments for a post
	CountByPost(ctx context.Context, postID uint64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint64, publishedOnly bool) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	db := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if publishedOnly {
		db = db.Where("status = ?", domain.StatePublished.String())
	}
	err := db.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("post_id = ? AND status = ?", postID, domain.StatePublished.String()).
		Count(&count).Error
	return count, err
}
