package handler

import (
	"errors"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/config"
	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/middleware"
	"github.com/agencypack/blog-backend/internal/repository"
	"github.com/agencypack/blog-backend/internal/service"
	"github.com/agencypack/blog-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	posts   service.PostService
	related service.RelatedService
	meta    service.MetaService
	cfg     config.BlogConfig
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts service.PostService, related service.RelatedService, meta service.MetaService, cfg config.BlogConfig) *PostHandler {
	return &PostHandler{posts: posts, related: related, meta: meta, cfg: cfg}
}

// ListPosts godoc
// @Summary      List blog posts
// @Description  Returns a paginated post listing, optionally filtered by author, category, tag or archive period
// @Tags         posts
// @Produce      json
// @Param        author_id    query  int  false  "Filter by author"
// @Param        category_id  query  int  false  "Filter by category"
// @Param        tag_id       query  int  false  "Filter by tag"
// @Param        year         query  int  false  "Filter by publish year"
// @Param        month        query  int  false  "Filter by publish month (requires year)"
// @Param        language_id  query  int  false  "Requesting language"  default(0)
// @Param        page         query  int  false  "Page number"  default(1)
// @Param        limit        query  int  false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Failure      500  {object}  common.APIResponse
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter := repository.PostFilter{
		AuthorID:   uint64(ginutil.QueryInt(c, "author_id", 0)),
		CategoryID: uint64(ginutil.QueryInt(c, "category_id", 0)),
		TagID:      uint64(ginutil.QueryInt(c, "tag_id", 0)),
		Year:       ginutil.QueryInt(c, "year", 0),
		Month:      ginutil.QueryInt(c, "month", 0),
		LanguageID: ginutil.QueryInt(c, "language_id", 0),
		Page:       ginutil.QueryInt(c, "page", 1),
		Limit:      ginutil.QueryInt(c, "limit", 20),
	}

	posts, meta, err := h.posts.ListPosts(c.Request.Context(), filter)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch posts", err)
		return
	}

	declarePostListTags(c, filter, posts)
	common.SuccessResponse(c, posts, meta)
}

// GetPost godoc
// @Summary      Get a single post
// @Tags         posts
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID", err)
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch post", err)
		return
	}

	declarePostTags(c, post)
	common.SuccessResponse(c, post, nil)
}

// GetCurrentPost godoc
// @Summary      Resolve the current post for a request context
// @Description  Looks the post up in the requested language, walking the configured fallback chain on a miss
// @Tags         posts
// @Produce      json
// @Param        page_id      query  int  true   "Page ID of the request"
// @Param        language_id  query  int  false  "Requested language"  default(0)
// @Success      200  {object}  common.APIResponse{data=domain.Post}
// @Failure      404  {object}  common.APIResponse
// @Router       /current-post [get]
func (h *PostHandler) GetCurrentPost(c *gin.Context) {
	pageID := uint64(ginutil.QueryInt(c, "page_id", 0))
	languageID := ginutil.QueryInt(c, "language_id", 0)

	post, err := h.posts.CurrentPost(c.Request.Context(), pageID, languageID)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to resolve current post", err)
		return
	}

	declarePostTags(c, post)
	common.SuccessResponse(c, post, nil)
}

// GetRelatedPosts godoc
// @Summary      List posts related to a post
// @Description  Scores other posts by shared categories and tags using the configured weights
// @Tags         posts
// @Produce      json
// @Param        id     path   int  true   "Post ID"
// @Param        limit  query  int  false  "Maximum number of results"
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{id}/related [get]
func (h *PostHandler) GetRelatedPosts(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID", err)
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch post", err)
		return
	}

	limit := ginutil.QueryInt(c, "limit", h.cfg.Related.Limit)
	related, err := h.related.Rank(c.Request.Context(), post,
		h.cfg.Related.CategoryWeight, h.cfg.Related.TagWeight, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to rank related posts", err)
		return
	}

	declarePostTags(c, post)
	for _, r := range related {
		middleware.DeclareCacheTags(c, domain.PostCacheTag(r.ID))
	}
	common.SuccessResponse(c, related, nil)
}

// GetPostMeta godoc
// @Summary      Get the meta tag properties of a post
// @Tags         posts
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=[]service.MetaProperty}
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{id}/meta [get]
func (h *PostHandler) GetPostMeta(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID", err)
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch post", err)
		return
	}

	declarePostTags(c, post)
	common.SuccessResponse(c, h.meta.TagsFor(post), nil)
}

// ListArchivePeriods godoc
// @Summary      List month/year archive periods with post counts
// @Tags         archive
// @Produce      json
// @Param        language_id  query  int  false  "Requesting language"  default(0)
// @Success      200  {object}  common.APIResponse{data=[]domain.ArchivePeriod}
// @Router       /archive [get]
func (h *PostHandler) ListArchivePeriods(c *gin.Context) {
	languageID := ginutil.QueryInt(c, "language_id", 0)

	periods, err := h.posts.ArchivePeriods(c.Request.Context(), languageID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch archive periods", err)
		return
	}

	common.SuccessResponse(c, periods, nil)
}

// SearchPosts godoc
// @Summary      Search posts by keyword
// @Tags         posts
// @Produce      json
// @Param        q      query  string  true   "Search keyword"
// @Param        page   query  int     false  "Page number"  default(1)
// @Param        limit  query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Post}
// @Router       /posts/search [get]
func (h *PostHandler) SearchPosts(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		common.ErrorResponse(c, 400, "Missing search keyword", nil)
		return
	}

	posts, meta, err := h.posts.Search(c.Request.Context(), keyword,
		ginutil.QueryInt(c, "language_id", 0),
		ginutil.QueryInt(c, "page", 1),
		ginutil.QueryInt(c, "limit", 20))
	if err != nil {
		common.ErrorResponse(c, 500, "Search failed", err)
		return
	}

	common.SuccessResponse(c, posts, meta)
}

// declarePostTags registers the cache tags a single-post render depends on
func declarePostTags(c *gin.Context, post *domain.Post) {
	middleware.DeclareCacheTags(c, domain.PostCacheTag(post.ID))
	for _, category := range post.Categories {
		middleware.DeclareCacheTags(c, domain.KindCategory.CacheTag(category.ID))
	}
	for _, tag := range post.Tags {
		middleware.DeclareCacheTags(c, domain.KindTag.CacheTag(tag.ID))
	}
	for _, author := range post.Authors {
		middleware.DeclareCacheTags(c, domain.KindAuthor.CacheTag(author.ID))
	}
}

// declarePostListTags registers tags for a listing render: the posts
// themselves plus the filter entities
func declarePostListTags(c *gin.Context, f repository.PostFilter, posts []*domain.Post) {
	if f.CategoryID > 0 {
		middleware.DeclareCacheTags(c, domain.KindCategory.CacheTag(f.CategoryID))
	}
	if f.TagID > 0 {
		middleware.DeclareCacheTags(c, domain.KindTag.CacheTag(f.TagID))
	}
	if f.AuthorID > 0 {
		middleware.DeclareCacheTags(c, domain.KindAuthor.CacheTag(f.AuthorID))
	}
	for _, post := range posts {
		middleware.DeclareCacheTags(c, domain.PostCacheTag(post.ID))
	}
}
