package service

import "github.com/agencypack/blog-backend/internal/domain"

// MetaProperty is one rendered meta tag property
type MetaProperty struct {
	Property string `json:"property"`
	Content  string `json:"content"`
}

type MetaService interface {
	// TagsFor builds the title/description meta property set for a post,
	// including the Open Graph and Twitter variants
	TagsFor(post *domain.Post) []MetaProperty
}

type metaService struct{}

// NewMetaService creates a new MetaService
func NewMetaService() MetaService {
	return &metaService{}
}

func (s *metaService) TagsFor(post *domain.Post) []MetaProperty {
	tags := []MetaProperty{
		{Property: "title", Content: post.Title},
		{Property: "og:title", Content: post.Title},
		{Property: "twitter:title", Content: post.Title},
	}

	description := post.Description
	if description == "" {
		description = post.Abstract
	}
	if description != "" {
		tags = append(tags,
			MetaProperty{Property: "description", Content: description},
			MetaProperty{Property: "og:description", Content: description},
			MetaProperty{Property: "twitter:description", Content: description},
		)
	}
	return tags
}
