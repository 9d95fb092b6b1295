package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/middleware"
	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
	"gorm.io/gorm"
)

// SkipInvalidation is a gorm instance setting marking writes performed
// by the invalidation service itself, so the write-time hook does not
// re-enter it.
const SkipInvalidation = "blog:skip_invalidation"

// SearchIndexer pushes post documents into the search backend.
// Satisfied by pkg/elasticsearch.Client; may be absent.
type SearchIndexer interface {
	IndexDocument(ctx context.Context, index, docID string, body interface{}) error
}

type InvalidationService interface {
	// OnMutation reacts to an insert or update of a tracked record kind
	// by flushing its cache tag. Untracked tables are a silent no-op.
	// For posts, the publish timestamp and its denormalized month/year
	// projection are refreshed first.
	OnMutation(ctx context.Context, table string, recordID uint64) error
}

type invalidationService struct {
	db        *gorm.DB
	cache     TagFlusher
	search    SearchIndexer
	postIndex string
}

// NewInvalidationService creates a new InvalidationService. search may
// be nil when no search backend is configured.
func NewInvalidationService(db *gorm.DB, cache TagFlusher, search SearchIndexer, postIndex string) InvalidationService {
	return &invalidationService{
		db:        db,
		cache:     cache,
		search:    search,
		postIndex: postIndex,
	}
}

func (s *invalidationService) OnMutation(ctx context.Context, table string, recordID uint64) error {
	kind, tracked := domain.KindForTable(table)
	if !tracked {
		return nil
	}

	if kind == domain.KindPost {
		if err := s.refreshPublishFields(ctx, recordID); err != nil {
			return err
		}
	}

	// Cache backend failures propagate: the flush fails loudly rather
	// than leaving stale renders behind.
	if err := s.cache.FlushByTag(ctx, kind.CacheTag(recordID)); err != nil {
		return fmt.Errorf("invalidate %s: %w", kind.CacheTag(recordID), err)
	}
	middleware.CountCacheTagFlush(kind.String())
	return nil
}

// refreshPublishFields defaults a zero publish timestamp to now and
// rederives the publish-month/year columns from it. The denormalized
// pair is a redundant projection of the publish timestamp and must stay
// consistent with it.
func (s *invalidationService) refreshPublishFields(ctx context.Context, postID uint64) error {
	var post domain.Post
	err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Record gone between write and hook; nothing to derive
		return nil
	}
	if err != nil {
		return err
	}

	publishDate := post.PublishDate
	if publishDate == 0 {
		publishDate = time.Now().Unix()
	}
	published := time.Unix(publishDate, 0)

	err = s.db.WithContext(ctx).
		Set(SkipInvalidation, true).
		Model(&domain.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"publish_date":  publishDate,
			"publish_month": int(published.Month()),
			"publish_year":  published.Year(),
		}).Error
	if err != nil {
		return fmt.Errorf("refresh publish fields for post %d: %w", postID, err)
	}

	if s.search != nil {
		post.PublishDate = publishDate
		post.PublishMonth = int(published.Month())
		post.PublishYear = published.Year()
		docID := strconv.FormatUint(postID, 10)
		if err := s.search.IndexDocument(ctx, s.postIndex, docID, &post); err != nil {
			// Search staleness is tolerable; cache staleness is not
			pkglogger.GetLogger().Warn().
				Err(err).
				Uint64("post_id", postID).
				Msg("search reindex failed")
		}
	}
	return nil
}
