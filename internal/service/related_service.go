package service

import (
	"context"
	"sort"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/repository"
)

type RelatedService interface {
	// Rank scores every other post sharing a category or tag with
	// current and returns the top candidates, best first, at most limit.
	Rank(ctx context.Context, current *domain.Post, categoryWeight, tagWeight, limit int) ([]*domain.Post, error)
}

type relatedService struct {
	posts repository.PostRepository
	// storageIDs scopes candidates like any normal listing
	storageIDs []uint64
}

// NewRelatedService creates a new RelatedService
func NewRelatedService(posts repository.PostRepository, storageIDs []uint64) RelatedService {
	return &relatedService{posts: posts, storageIDs: storageIDs}
}

// scoreTable accumulates candidate scores for one ranking run. It
// remembers the order candidates were first inserted so that ties sort
// deterministically.
type scoreTable struct {
	scores     map[uint64]int
	order      []uint64
	candidates map[uint64]*domain.Post
	excludedID uint64
}

func newScoreTable(excludedID uint64) *scoreTable {
	return &scoreTable{
		scores:     make(map[uint64]int),
		candidates: make(map[uint64]*domain.Post),
		excludedID: excludedID,
	}
}

func (t *scoreTable) add(post *domain.Post, weight int) {
	if post.ID == t.excludedID {
		return
	}
	if _, seen := t.scores[post.ID]; !seen {
		t.order = append(t.order, post.ID)
		t.candidates[post.ID] = post
	}
	t.scores[post.ID] += weight
}

// ranked returns candidates by descending score; ties keep insertion order
func (t *scoreTable) ranked(limit int) []*domain.Post {
	ids := make([]uint64, len(t.order))
	copy(ids, t.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return t.scores[ids[i]] > t.scores[ids[j]]
	})

	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	result := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		result = append(result, t.candidates[id])
	}
	return result
}

// Rank accumulates categoryWeight per shared category and tagWeight per
// shared tag. The current post never appears among the candidates. With
// both weights zero the category weight is forced to 1: category
// similarity always contributes.
func (s *relatedService) Rank(ctx context.Context, current *domain.Post, categoryWeight, tagWeight, limit int) ([]*domain.Post, error) {
	if categoryWeight < 0 {
		categoryWeight = 0
	}
	if tagWeight < 0 {
		tagWeight = 0
	}
	if categoryWeight == 0 && tagWeight == 0 {
		categoryWeight = 1
	}

	table := newScoreTable(current.ID)
	baseFilter := repository.PostFilter{
		LanguageID: current.LanguageID,
		StorageIDs: s.storageIDs,
	}

	for _, category := range current.Categories {
		filter := baseFilter
		filter.CategoryID = category.ID
		candidates, _, err := s.posts.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			table.add(candidate, categoryWeight)
		}
	}

	for _, tag := range current.Tags {
		filter := baseFilter
		filter.TagID = tag.ID
		candidates, _, err := s.posts.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			table.add(candidate, tagWeight)
		}
	}

	return table.ranked(limit), nil
}
