package handler

import (
	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// TaxonomyHandler serves the category/tag/author listings
type TaxonomyHandler struct {
	categories repository.CategoryRepository
	tags       repository.TagRepository
	authors    repository.AuthorRepository
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(categories repository.CategoryRepository, tags repository.TagRepository, authors repository.AuthorRepository) *TaxonomyHandler {
	return &TaxonomyHandler{categories: categories, tags: tags, authors: authors}
}

// ListCategories godoc
// @Summary      List all categories
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Category}
// @Router       /categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch categories", err)
		return
	}
	common.SuccessResponse(c, categories, nil)
}

// ListTags godoc
// @Summary      List all tags
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Tag}
// @Router       /tags [get]
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch tags", err)
		return
	}
	common.SuccessResponse(c, tags, nil)
}

// ListAuthors godoc
// @Summary      List all authors
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Author}
// @Router       /authors [get]
func (h *TaxonomyHandler) ListAuthors(c *gin.Context) {
	authors, err := h.authors.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch authors", err)
		return
	}
	common.SuccessResponse(c, authors, nil)
}
