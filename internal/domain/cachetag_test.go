package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheTag(t *testing.T) {
	assert.Equal(t, "tx_blog_post_42", KindPost.CacheTag(42))
	assert.Equal(t, "tx_blog_category_1", KindCategory.CacheTag(1))
	assert.Equal(t, "tx_blog_author_7", KindAuthor.CacheTag(7))
	assert.Equal(t, "tx_blog_comment_9", KindComment.CacheTag(9))
	assert.Equal(t, "tx_blog_tag_3", KindTag.CacheTag(3))
}

func TestPostCacheTag(t *testing.T) {
	assert.Equal(t, KindPost.CacheTag(5), PostCacheTag(5))
}

func TestKindForTable(t *testing.T) {
	kind, ok := KindForTable("blog_posts")
	assert.True(t, ok)
	assert.Equal(t, KindPost, kind)

	kind, ok = KindForTable("blog_comments")
	assert.True(t, ok)
	assert.Equal(t, KindComment, kind)

	_, ok = KindForTable("some_other_table")
	assert.False(t, ok)
}

func TestModerationStateString(t *testing.T) {
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "pending", StatePendingModeration.String())
	assert.Equal(t, "published", StatePublished.String())
}
