package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/plumeblog/plume/models"
)

// CommentService owns comment mutations; update and delete are restricted
// to the authoring user.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create persists a comment by user on post.
func (s *CommentService) Create(content string, user *models.User, post *models.Post) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if post == nil || post.ID == 0 {
		return nil, fmt.Errorf("%w: post is required", ErrValidation)
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	comment.User = *user
	return &comment, nil
}

// Update rewrites a comment's content on behalf of userID, who must be
// the author.
func (s *CommentService) Update(id uint, content string, userID uint) (*models.Comment, error) {
	comment, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Remove deletes a comment on behalf of userID, who must be the author.
// The removed comment is returned.
func (s *CommentService) Remove(id, userID uint) (*models.Comment, error) {
	comment, err := s.getOwned(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&models.Comment{}, comment.ID).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// getOwned loads a comment with its author and verifies ownership. A
// dangling author reference counts as not found, matching the guard order
// of the mutation flow: existence first, then ownership.
func (s *CommentService) getOwned(id, userID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}
	if comment.User.ID == 0 {
		return nil, fmt.Errorf("%w: author of comment %d", ErrNotFound, id)
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("%w: comment %d belongs to another user", ErrUnauthorized, id)
	}
	return &comment, nil
}
