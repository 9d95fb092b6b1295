package domain

import "fmt"

// EntityKind enumerates the record kinds whose mutations invalidate
// cached renders. Each kind owns exactly one cache-tag namespace.
type EntityKind int

const (
	KindPost EntityKind = iota
	KindCategory
	KindAuthor
	KindComment
	KindTag
)

var kindNames = map[EntityKind]string{
	KindPost:     "post",
	KindCategory: "category",
	KindAuthor:   "author",
	KindComment:  "comment",
	KindTag:      "tag",
}

var tableKinds = map[string]EntityKind{
	Post{}.TableName():     KindPost,
	Category{}.TableName(): KindCategory,
	Author{}.TableName():   KindAuthor,
	Comment{}.TableName():  KindComment,
	Tag{}.TableName():      KindTag,
}

// String returns the kind's cache-tag namespace name
func (k EntityKind) String() string {
	return kindNames[k]
}

// CacheTag derives the invalidation key for one record of this kind,
// e.g. tx_blog_post_42
func (k EntityKind) CacheTag(id uint64) string {
	return fmt.Sprintf("tx_blog_%s_%d", kindNames[k], id)
}

// PostCacheTag is a shorthand for the post kind used by the comment intake
func PostCacheTag(postID uint64) string {
	return KindPost.CacheTag(postID)
}

// KindForTable maps a storage table name to its entity kind.
// Unknown tables report ok=false; callers treat that as a no-op.
func KindForTable(table string) (EntityKind, bool) {
	k, ok := tableKinds[table]
	return k, ok
}
