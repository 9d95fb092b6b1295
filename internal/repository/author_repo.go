package repository

import (
	"context"
	"errors"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/domain"
	"gorm.io/gorm"
)

type AuthorRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Author, error)
	List(ctx context.Context) ([]*domain.Author, error)
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new AuthorRepository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) FindByID(ctx context.Context, id uint64) (*domain.Author, error) {
	var author domain.Author
	err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List(ctx context.Context) ([]*domain.Author, error) {
	var authors []*domain.Author
	err := r.db.WithContext(ctx).Order("name ASC").Find(&authors).Error
	return authors, err
}
