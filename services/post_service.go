package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/plumeblog/plume/models"
)

// PostService owns the post lifecycle: ownership-checked mutations,
// filtered listing, and comment attachment.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostFilter narrows List results. Zero values mean "no filter".
type PostFilter struct {
	CategoryID uint
	Search     string
	UserID     uint
}

// Create persists a new post owned by user under category.
func (s *PostService) Create(title, content string, user *models.User, category *models.Category) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if category == nil || category.ID == 0 {
		return nil, fmt.Errorf("%w: invalid category", ErrValidation)
	}

	post := models.Post{
		UserID:     user.ID,
		CategoryID: category.ID,
		Title:      title,
		Content:    content,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return s.GetByID(post.ID)
}

// List returns posts matching filter, newest first, with author, category,
// comments, and comment authors attached. Search matches the post title or
// the author's username as a case-insensitive substring.
func (s *PostService) List(filter PostFilter) ([]models.Post, error) {
	query := s.db.Model(&models.Post{}).
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Preload("User").
		Preload("Category").
		Preload("Comments").
		Preload("Comments.User").
		Order("posts.created_at DESC")

	if filter.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(posts.title) LIKE ? OR LOWER(users.username) LIKE ?", like, like)
	}
	if filter.UserID != 0 {
		query = query.Where("posts.user_id = ?", filter.UserID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns a single post with full relations.
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("User").
		Preload("Category").
		Preload("Comments").
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &post, nil
}

// Update modifies a post's content, title, and category on behalf of
// userID, who must be the owner. An unresolvable categoryID keeps the
// prior category; an empty title keeps the prior title.
func (s *PostService) Update(id uint, content string, userID uint, title string, categoryID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}

	if post.UserID != userID {
		return nil, fmt.Errorf("%w: post %d belongs to another user", ErrUnauthorized, id)
	}

	post.Content = content
	if t := strings.TrimSpace(title); t != "" {
		post.Title = t
	}
	if categoryID != 0 {
		var category models.Category
		if err := s.db.First(&category, categoryID).Error; err == nil {
			post.CategoryID = category.ID
		}
		// Unknown category ids are ignored and the post keeps its category.
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	return s.GetByID(post.ID)
}

// Remove deletes a post and its comments on behalf of userID, who must be
// the owner. The comment cascade and the post delete run in one
// transaction. The deleted post is returned.
func (s *PostService) Remove(id, userID uint) (*models.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, fmt.Errorf("%w: post %d belongs to another user", ErrUnauthorized, id)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment attaches a new comment by user to the post with postID and
// returns it with the author loaded.
func (s *PostService) AddComment(postID uint, content string, user *models.User) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}
