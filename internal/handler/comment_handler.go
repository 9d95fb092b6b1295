package handler

import (
	"errors"
	"net/http"

	"github.com/agencypack/blog-backend/internal/common"
	"github.com/agencypack/blog-backend/internal/domain"
	"github.com/agencypack/blog-backend/internal/middleware"
	"github.com/agencypack/blog-backend/internal/service"
	"github.com/agencypack/blog-backend/pkg/ginutil"
	"github.com/agencypack/blog-backend/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// FlashMessage is a localized user-facing message for a comment
// submission outcome
type FlashMessage struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// commentMessages maps each moderation state to its message keys and severity
var commentMessages = map[domain.ModerationState]struct {
	titleKey string
	textKey  string
	severity string
}{
	domain.StateError: {
		titleKey: "message.addComment.error.title",
		textKey:  "message.addComment.error.text",
		severity: "error",
	},
	domain.StatePendingModeration: {
		titleKey: "message.addComment.moderation.title",
		textKey:  "message.addComment.moderation.text",
		severity: "info",
	},
	domain.StatePublished: {
		titleKey: "message.addComment.success.title",
		textKey:  "message.addComment.success.text",
		severity: "ok",
	},
}

// CommentHandler handles HTTP requests for comments
type CommentHandler struct {
	comments service.CommentService
	posts    service.PostService
	bundle   *i18n.Bundle
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments service.CommentService, posts service.PostService, bundle *i18n.Bundle) *CommentHandler {
	return &CommentHandler{comments: comments, posts: posts, bundle: bundle}
}

// SubmitComment godoc
// @Summary      Submit a comment on a post
// @Description  Runs the submission through the moderation policy; absent fields are treated as empty strings
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path  int                 true  "Post ID"
// @Param        comment  body  domain.CommentForm  true  "Comment fields"
// @Success      201  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      422  {object}  common.APIResponse
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) SubmitComment(c *gin.Context) {
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

	// Absent fields bind to empty strings; a blank form is a valid
	// submission, not a client error
	var form domain.CommentForm
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&form); err != nil {
			common.ErrorResponse(c, 400, "Malformed request body", err)
			return
		}
	}

	state, comment, err := h.comments.Submit(c.Request.Context(), post, form)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to store comment", err)
		return
	}

	middleware.CountCommentSubmission(state.String())

	locale := middleware.GetLocale(c)
	msg := commentMessages[state]
	flash := FlashMessage{
		Title:    h.bundle.T(locale, msg.titleKey),
		Text:     h.bundle.T(locale, msg.textKey),
		Severity: msg.severity,
	}

	status := http.StatusCreated
	if state == domain.StateError {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"data": gin.H{
			"state":   state.String(),
			"comment": comment,
			"message": flash,
		},
	})
}

// ListComments godoc
// @Summary      List the published comments of a post
// @Tags         comments
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.Comment}
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID", err)
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch comments", err)
		return
	}

	middleware.DeclareCacheTags(c, domain.PostCacheTag(id))
	common.SuccessResponse(c, comments, nil)
}
