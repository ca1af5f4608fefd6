package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/apperr"
	"github.com/pageza/ladlehub/backend/internal/models"
)

// TagService handles the shared tag reference data.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService instance.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name, id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create validates and stores a tag. Colors must be "#" plus six hex digits;
// slugs are unique.
func (s *TagService) Create(ctx context.Context, name, slug, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)

	if name == "" {
		return nil, apperr.Validation("tag name must not be empty")
	}
	if len(name) > models.MaxNameLength {
		return nil, apperr.Validation("tag name exceeds %d characters", models.MaxNameLength)
	}
	if slug == "" {
		return nil, apperr.Validation("tag slug must not be empty")
	}
	if len(slug) > models.MaxSlugLength {
		return nil, apperr.Validation("tag slug exceeds %d characters", models.MaxSlugLength)
	}
	if !models.ColorPattern.MatchString(color) {
		return nil, apperr.Validation("valid color should have the format #RRGGBB")
	}

	var existing models.Tag
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("tag with slug %q already exists", slug)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := models.Tag{Name: name, Slug: slug, Color: color}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
