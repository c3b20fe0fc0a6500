package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/plumeblog/plume/models"
)

// DefaultCategories is the fixed set of category names ensured at startup.
var DefaultCategories = []string{
	"history",
	"food",
	"pets",
	"health",
	"fashion",
	"exercise",
	"others",
}

// CategoryService manages the fixed category registry.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Seed ensures every default category exists. Safe to run on every boot.
func (s *CategoryService) Seed() error {
	for _, name := range DefaultCategories {
		var category models.Category
		if err := s.db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}

// FindByID returns the category with the given id.
func (s *CategoryService) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &category, nil
}
