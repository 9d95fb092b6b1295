package service

import (
	"testing"

	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func metaContent(tags []MetaProperty, property string) (string, bool) {
	for _, tag := range tags {
		if tag.Property == property {
			return tag.Content, true
		}
	}
	return "", false
}

func TestTagsFor_TitleVariants(t *testing.T) {
	svc := NewMetaService()

	tags := svc.TagsFor(&domain.Post{Title: "Hello"})

	for _, property := range []string{"title", "og:title", "twitter:title"} {
		content, ok := metaContent(tags, property)
		assert.True(t, ok, property)
		assert.Equal(t, "Hello", content)
	}
}

func TestTagsFor_AbstractFallsBackForDescription(t *testing.T) {
	svc := NewMetaService()

	tags := svc.TagsFor(&domain.Post{Title: "Hello", Abstract: "teaser"})

	content, ok := metaContent(tags, "og:description")
	assert.True(t, ok)
	assert.Equal(t, "teaser", content)
}

func TestTagsFor_DescriptionWinsOverAbstract(t *testing.T) {
	svc := NewMetaService()

	tags := svc.TagsFor(&domain.Post{Title: "Hello", Abstract: "teaser", Description: "full"})

	content, _ := metaContent(tags, "description")
	assert.Equal(t, "full", content)
}

func TestTagsFor_NoDescriptionOmitsVariants(t *testing.T) {
	svc := NewMetaService()

	tags := svc.TagsFor(&domain.Post{Title: "Hello"})

	_, ok := metaContent(tags, "description")
	assert.False(t, ok)
	assert.Len(t, tags, 3)
}
