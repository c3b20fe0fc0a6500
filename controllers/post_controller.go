package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/services"
	"github.com/plumeblog/plume/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	posts      *services.PostService
	users      *services.UserService
	categories *services.CategoryService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		posts:      services.NewPostService(db),
		users:      services.NewUserService(db),
		categories: services.NewCategoryService(db),
	}
}

// CreatePost creates a post owned by the user referenced in the body.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		UserID     uint   `json:"userId"`
		CategoryID uint   `json:"categoryId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	user, err := p.users.FindByID(req.UserID)
	if err != nil {
		serviceError(ctx, err, 50020, "failed to resolve user")
		return
	}
	category, err := p.categories.FindByID(req.CategoryID)
	if err != nil {
		serviceError(ctx, err, 50021, "failed to resolve category")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)

	post, err := p.posts.Create(title, content, user, category)
	if err != nil {
		serviceError(ctx, err, 50022, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns posts filtered by category, author, and search text,
// with author/comments/category relations attached.
func (p *PostController) ListPosts(ctx *gin.Context) {
	filter := services.PostFilter{
		CategoryID: parseUintQuery(ctx, "categoryId"),
		Search:     strings.TrimSpace(ctx.Query("search")),
		UserID:     parseUintQuery(ctx, "userId"),
	}

	// Cache category/author lists when no search term to avoid cache key explosion
	cacheKey := fmt.Sprintf("cache:posts:list:cat=%d:user=%d", filter.CategoryID, filter.UserID)
	if filter.Search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	posts, err := p.posts.List(filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list posts")
		return
	}

	payload := gin.H{"items": posts}
	if filter.Search == "" {
		utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post with author, category, and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	cacheKey := "cache:post:detail:" + strconv.FormatUint(uint64(id), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.posts.GetByID(id)
	if err != nil {
		serviceError(ctx, err, 50024, "failed to load post")
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	utils.Success(ctx, payload)
}

// UpdatePost lets the owner rewrite a post. A categoryId that does not
// resolve leaves the current category in place.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}

	var req struct {
		Content    string `json:"content"`
		Title      string `json:"title"`
		UserID     uint   `json:"userId"`
		CategoryID uint   `json:"categoryId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)

	post, err := p.posts.Update(id, content, req.UserID, title, req.CategoryID)
	if err != nil {
		serviceError(ctx, err, 50025, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + strconv.FormatUint(uint64(id), 10))
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost lets the owner delete a post; its comments go with it.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}

	var req struct {
		UserID uint `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	post, err := p.posts.Remove(id, req.UserID)
	if err != nil {
		serviceError(ctx, err, 50026, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + strconv.FormatUint(uint64(id), 10))
	utils.Success(ctx, gin.H{"post": post})
}
