package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// --- Recording SearchIndexer ---

type recordingIndexer struct {
	indexed []string
	err     error
}

func (i *recordingIndexer) IndexDocument(_ context.Context, index, docID string, _ interface{}) error {
	i.indexed = append(i.indexed, index+"/"+docID)
	return i.err
}

func setupInvalidationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Post{}))
	return db
}

// --- Tests ---

func TestOnMutation_ZeroPublishDateDefaultsToNow(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	post := &domain.Post{Title: "Draft", PublishDate: 0}
	assert.NoError(t, db.Create(post).Error)

	before := time.Now().Unix()
	assert.NoError(t, svc.OnMutation(context.Background(), "blog_posts", post.ID))

	var reloaded domain.Post
	assert.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.GreaterOrEqual(t, reloaded.PublishDate, before)

	published := time.Unix(reloaded.PublishDate, 0)
	assert.Equal(t, int(published.Month()), reloaded.PublishMonth)
	assert.Equal(t, published.Year(), reloaded.PublishYear)

	assert.Equal(t, []string{domain.PostCacheTag(post.ID)}, flusher.tags)
}

func TestOnMutation_ExistingPublishDateKept(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	publishDate := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local).Unix()
	post := &domain.Post{Title: "Dated", PublishDate: publishDate}
	assert.NoError(t, db.Create(post).Error)

	assert.NoError(t, svc.OnMutation(context.Background(), "blog_posts", post.ID))

	var reloaded domain.Post
	assert.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, publishDate, reloaded.PublishDate)
	assert.Equal(t, 3, reloaded.PublishMonth)
	assert.Equal(t, 2024, reloaded.PublishYear)
}

func TestOnMutation_UntrackedTableIsNoop(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	assert.NoError(t, svc.OnMutation(context.Background(), "some_other_table", 1))
	assert.Empty(t, flusher.tags)
}

func TestOnMutation_CommentFlushesCommentTag(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	assert.NoError(t, svc.OnMutation(context.Background(), "blog_comments", 5))
	assert.Equal(t, []string{"tx_blog_comment_5"}, flusher.tags)
}

func TestOnMutation_MissingPostStillFlushes(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	// Record deleted between write and hook
	assert.NoError(t, svc.OnMutation(context.Background(), "blog_posts", 999))
	assert.Equal(t, []string{"tx_blog_post_999"}, flusher.tags)
}

func TestOnMutation_FlushErrorWrapped(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{err: errors.New("redis down")}
	svc := NewInvalidationService(db, flusher, nil, "blog_posts")

	err := svc.OnMutation(context.Background(), "blog_categories", 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tx_blog_category_3")
}

func TestOnMutation_ReindexesSearchDocument(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	indexer := &recordingIndexer{}
	svc := NewInvalidationService(db, flusher, indexer, "blog_posts")

	post := &domain.Post{Title: "Indexed", PublishDate: time.Now().Unix()}
	assert.NoError(t, db.Create(post).Error)

	assert.NoError(t, svc.OnMutation(context.Background(), "blog_posts", post.ID))
	assert.Len(t, indexer.indexed, 1)
}

func TestOnMutation_SearchErrorIsTolerated(t *testing.T) {
	db := setupInvalidationDB(t)
	flusher := &recordingFlusher{}
	indexer := &recordingIndexer{err: errors.New("es down")}
	svc := NewInvalidationService(db, flusher, indexer, "blog_posts")

	post := &domain.Post{Title: "Indexed", PublishDate: time.Now().Unix()}
	assert.NoError(t, db.Create(post).Error)

	// Search staleness never fails the mutation
	assert.NoError(t, svc.OnMutation(context.Background(), "blog_posts", post.ID))
	assert.Equal(t, []string{domain.PostCacheTag(post.ID)}, flusher.tags)
}
