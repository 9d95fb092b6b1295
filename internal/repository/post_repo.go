package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/domain"
	"gorm.io/gorm"
)

// PostFilter is a typed query specification: every field is optional and
// zero values mean "no constraint". One filter struct replaces ad-hoc
// query-object mutation.
type PostFilter struct {
	AuthorID   uint64
	CategoryID uint64
	TagID      uint64
	Year       int
	Month      int

	// LanguageID selects the requesting language for the visibility rule
	LanguageID int
	// StorageIDs is the storage scope; empty means unrestricted
	StorageIDs []uint64

	Page  int
	Limit int // 0 = no limit
}

type PostRepository interface {
	// List returns posts matching the filter, newest first, with the
	// total count before pagination
	List(ctx context.Context, f PostFilter) ([]*domain.Post, int64, error)

	// FindByID looks a post up by identifier with relations preloaded
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)

	// FindCurrentPost resolves the post for a request context: direct
	// lookup for the default language, translation lookup otherwise,
	// then the fallback language chain in order. An exhausted chain
	// yields ErrPostNotFound.
	FindCurrentPost(ctx context.Context, pageID uint64, languageID int, fallbacks []int) (*domain.Post, error)

	// ListArchivePeriods groups posts into month/year buckets with
	// counts, newest first
	ListArchivePeriods(ctx context.Context, f PostFilter) ([]domain.ArchivePeriod, error)

	// Search matches keyword against title and abstract
	Search(ctx context.Context, keyword string, f PostFilter) ([]*domain.Post, int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// visible applies the default visibility constraints: the language
// configuration must permit the requesting language, and the archive
// timestamp must be zero or in the future.
func (r *postRepository) visible(db *gorm.DB, languageID int) *gorm.DB {
	if languageID == 0 {
		db = db.Where("language_visibility IN ?", []int{domain.LangCfgDefault, domain.LangCfgHideUntranslated})
	} else {
		db = db.Where("language_visibility < ?", domain.LangCfgHideUntranslated)
	}
	return db.Where("archive_date = 0 OR archive_date >= ?", time.Now().Unix())
}

func (r *postRepository) scoped(ctx context.Context, f PostFilter) *gorm.DB {
	db := r.visible(r.db.WithContext(ctx).Model(&domain.Post{}), f.LanguageID)

	if len(f.StorageIDs) > 0 {
		db = db.Where("blog_posts.storage_id IN ?", f.StorageIDs)
	}
	if f.AuthorID > 0 {
		db = db.Joins("JOIN blog_post_authors pa ON pa.post_id = blog_posts.id").
			Where("pa.author_id = ?", f.AuthorID)
	}
	if f.CategoryID > 0 {
		db = db.Joins("JOIN blog_post_categories pc ON pc.post_id = blog_posts.id").
			Where("pc.category_id = ?", f.CategoryID)
	}
	if f.TagID > 0 {
		db = db.Joins("JOIN blog_post_tags pt ON pt.post_id = blog_posts.id").
			Where("pt.tag_id = ?", f.TagID)
	}
	if f.Year > 0 {
		db = db.Where("publish_year = ?", f.Year)
		if f.Month > 0 {
			db = db.Where("publish_month = ?", f.Month)
		}
	}
	return db
}

// List returns all posts matching the filter, publish date descending
func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	query := r.scoped(ctx, f)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("publish_date DESC").
		Preload("Categories").
		Preload("Tags").
		Preload("Authors")

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindByID looks up a single post with relations
func (r *postRepository) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Preload("Authors").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// findWithLanguage looks up the post record serving pageID in one
// specific language. Language 0 hits the record itself, any other
// language hits its translation.
func (r *postRepository) findWithLanguage(ctx context.Context, pageID uint64, languageID int) (*domain.Post, error) {
	db := r.visible(r.db.WithContext(ctx).Model(&domain.Post{}), languageID)

	if languageID > 0 {
		db = db.Where("translation_parent_id = ? AND language_id = ?", pageID, languageID)
	} else {
		db = db.Where("id = ?", pageID)
	}

	var post domain.Post
	err := db.Preload("Categories").
		Preload("Tags").
		Preload("Authors").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindCurrentPost resolves the current post, walking the fallback
// language chain on a miss
func (r *postRepository) FindCurrentPost(ctx context.Context, pageID uint64, languageID int, fallbacks []int) (*domain.Post, error) {
	post, err := r.findWithLanguage(ctx, pageID, languageID)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, common.ErrPostNotFound) {
		return nil, err
	}

	for _, fallbackID := range fallbacks {
		post, err = r.findWithLanguage(ctx, pageID, fallbackID)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, common.ErrPostNotFound) {
			return nil, err
		}
	}
	return nil, common.ErrPostNotFound
}

// ListArchivePeriods groups posts by their denormalized publish
// year/month columns
func (r *postRepository) ListArchivePeriods(ctx context.Context, f PostFilter) ([]domain.ArchivePeriod, error) {
	var periods []domain.ArchivePeriod
	err := r.scoped(ctx, f).
		Select("publish_year AS year, publish_month AS month, COUNT(*) AS count").
		Where("publish_year > 0 AND publish_month > 0").
		Group("publish_year, publish_month").
		Order("publish_year DESC, publish_month DESC").
		Scan(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// Search matches keyword against title and abstract within the filter scope
func (r *postRepository) Search(ctx context.Context, keyword string, f PostFilter) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	pattern := "%" + keyword + "%"
	query := r.scoped(ctx, f).
		Where("title LIKE ? OR abstract LIKE ?", pattern, pattern)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("publish_date DESC").
		Preload("Categories").
		Preload("Tags").
		Preload("Authors")
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
