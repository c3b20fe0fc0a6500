package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/services"
	"github.com/plumeblog/plume/utils"
)

// CommentController manages comment creation and author-only mutations.
type CommentController struct {
	comments *services.CommentService
	posts    *services.PostService
	users    *services.UserService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{
		comments: services.NewCommentService(db),
		posts:    services.NewPostService(db),
		users:    services.NewUserService(db),
	}
}

// CreateComment attaches a comment to the post in the path.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}

	var req struct {
		Content string `json:"content"`
		UserID  uint   `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	user, err := c.users.FindByID(req.UserID)
	if err != nil {
		serviceError(ctx, err, 50030, "failed to resolve user")
		return
	}

	comment, err := c.posts.AddComment(postID, utils.Sanitize(req.Content), user)
	if err != nil {
		serviceError(ctx, err, 50031, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.FormatUint(uint64(postID), 10))
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"comment": comment})
}

// UpdateComment lets the author rewrite a comment.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40421, "comment not found")
		return
	}

	var req struct {
		Content string `json:"content"`
		UserID  uint   `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	comment, err := c.comments.Update(id, utils.Sanitize(req.Content), req.UserID)
	if err != nil {
		serviceError(ctx, err, 50032, "failed to update comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.FormatUint(uint64(comment.PostID), 10))
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment lets the author remove a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40422, "comment not found")
		return
	}

	var req struct {
		UserID uint `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	comment, err := c.comments.Remove(id, req.UserID)
	if err != nil {
		serviceError(ctx, err, 50033, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.FormatUint(uint64(comment.PostID), 10))
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"comment": comment})
}
