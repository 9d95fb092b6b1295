package service

import (
	"context"
	"strconv"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/config"
	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/repository"
	pkges "github.com/agencypack/blog-backend/pkg/elasticsearch"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Searcher queries the search backend. Satisfied by
// pkg/elasticsearch.Client; may be absent.
type Searcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*pkges.SearchResponse, error)
}

type PostService interface {
	ListPosts(ctx context.Context, f repository.PostFilter) ([]*domain.Post, *common.Meta, error)
	GetPost(ctx context.Context, id uint64) (*domain.Post, error)

	// CurrentPost resolves the post for a request context, applying the
	// configured language fallback chain
	CurrentPost(ctx context.Context, pageID uint64, languageID int) (*domain.Post, error)

	ArchivePeriods(ctx context.Context, languageID int) ([]domain.ArchivePeriod, error)
	Search(ctx context.Context, keyword string, languageID, page, limit int) ([]*domain.Post, *common.Meta, error)
}

type postService struct {
	posts     repository.PostRepository
	blog      config.BlogConfig
	search    Searcher
	postIndex string
}

// NewPostService creates a new PostService. search may be nil; keyword
// search then degrades to the SQL fallback.
func NewPostService(posts repository.PostRepository, blog config.BlogConfig, search Searcher, postIndex string) PostService {
	return &postService{
		posts:     posts,
		blog:      blog,
		search:    search,
		postIndex: postIndex,
	}
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func (s *postService) ListPosts(ctx context.Context, f repository.PostFilter) ([]*domain.Post, *common.Meta, error) {
	f.Page, f.Limit = normalizePagination(f.Page, f.Limit)
	if len(f.StorageIDs) == 0 {
		f.StorageIDs = s.blog.StorageIDs
	}

	posts, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return posts, &common.Meta{Page: f.Page, Limit: f.Limit, Total: total}, nil
}

func (s *postService) GetPost(ctx context.Context, id uint64) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *postService) CurrentPost(ctx context.Context, pageID uint64, languageID int) (*domain.Post, error) {
	fallbacks := s.blog.FallbacksFor(languageID)
	return s.posts.FindCurrentPost(ctx, pageID, languageID, fallbacks)
}

func (s *postService) ArchivePeriods(ctx context.Context, languageID int) ([]domain.ArchivePeriod, error) {
	return s.posts.ListArchivePeriods(ctx, repository.PostFilter{
		LanguageID: languageID,
		StorageIDs: s.blog.StorageIDs,
	})
}

// Search queries Elasticsearch when available and falls back to a SQL
// LIKE search otherwise
func (s *postService) Search(ctx context.Context, keyword string, languageID, page, limit int) ([]*domain.Post, *common.Meta, error) {
	page, limit = normalizePagination(page, limit)
	filter := repository.PostFilter{
		LanguageID: languageID,
		StorageIDs: s.blog.StorageIDs,
		Page:       page,
		Limit:      limit,
	}

	if s.search == nil {
		posts, total, err := s.posts.Search(ctx, keyword, filter)
		if err != nil {
			return nil, nil, err
		}
		return posts, &common.Meta{Page: page, Limit: limit, Total: total}, nil
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"title^2", "abstract", "description"},
			},
		},
	}
	resp, err := s.search.Search(ctx, s.postIndex, query, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	posts := make([]*domain.Post, 0, len(resp.Results))
	for _, hit := range resp.Results {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		post, err := s.posts.FindByID(ctx, id)
		if err != nil {
			// Index may lag behind deletions
			continue
		}
		posts = append(posts, post)
	}
	return posts, &common.Meta{Page: page, Limit: limit, Total: resp.Total}, nil
}
