package routes

import (
	"github.com/agencypack/blog-backend/internal/handler"
	"github.com/agencypack/blog-backend/internal/middleware"
	"github.com/agencypack/blog-backend/pkg/cache"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route table needs
type Handlers struct {
	Posts    *handler.PostHandler
	Comments *handler.CommentHandler
	Taxonomy *handler.TaxonomyHandler
	WS       *handler.WSHandler
}

// Setup registers all API routes
func Setup(router *gin.Engine, h Handlers, cacheService cache.Service) {
	api := router.Group("/api/v1")

	// Content reads go through the tag-aware render cache
	content := api.Group("")
	if cacheService != nil {
		content.Use(middleware.RenderCache(cacheService, middleware.DefaultRenderCacheConfig()))
	}

	content.GET("/posts", h.Posts.ListPosts)
	content.GET("/posts/search", h.Posts.SearchPosts)
	content.GET("/posts/:id", h.Posts.GetPost)
	content.GET("/posts/:id/related", h.Posts.GetRelatedPosts)
	content.GET("/posts/:id/meta", h.Posts.GetPostMeta)
	content.GET("/posts/:id/comments", h.Comments.ListComments)
	content.GET("/current-post", h.Posts.GetCurrentPost)
	content.GET("/archive", h.Posts.ListArchivePeriods)
	content.GET("/categories", h.Taxonomy.ListCategories)
	content.GET("/tags", h.Taxonomy.ListTags)
	content.GET("/authors", h.Taxonomy.ListAuthors)

	// Writes bypass the render cache
	api.POST("/posts/:id/comments", h.Comments.SubmitComment)

	// Real-time event stream
	if h.WS != nil {
		api.GET("/ws", h.WS.Subscribe)
	}
}
