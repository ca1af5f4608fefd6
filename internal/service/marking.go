package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/ladlehub/backend/internal/apperr"
	"github.com/pageza/ladlehub/backend/internal/models"
)

// cartInvalidator is notified when a user's cart contents change, so cached
// shopping-list aggregations can be dropped.
type cartInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// MarkingService manages the per-user favorite and cart marks on recipes.
type MarkingService struct {
	db    *gorm.DB
	carts cartInvalidator
}

// NewMarkingService creates a new MarkingService instance. carts may be nil
// when no shopping-list cache is in play (tests).
func NewMarkingService(db *gorm.DB, carts cartInvalidator) *MarkingService {
	return &MarkingService{db: db, carts: carts}
}

// Mark records a (user, recipe, kind) marking. It reports created=false when
// the marking already exists; re-marking is idempotent and never an error.
// The insert relies on the storage-level uniqueness constraint, so two
// concurrent calls cannot both create a row.
func (s *MarkingService) Mark(ctx context.Context, userID, recipeID uuid.UUID, kind models.MarkingKind) (bool, error) {
	if !kind.Valid() {
		return false, apperr.Validation("unknown marking kind %q", kind)
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("recipe %s not found", recipeID)
		}
		return false, err
	}

	marking := models.Marking{
		Kind:     kind,
		UserID:   userID,
		RecipeID: recipeID,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(&marking)
	if result.Error != nil {
		// A constraint violation that slipped past ON CONFLICT still means
		// "already marked", not a failure.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}

	created := result.RowsAffected > 0
	if created && kind == models.MarkingCart && s.carts != nil {
		s.carts.Invalidate(ctx, userID)
	}
	return created, nil
}

// Unmark removes a marking. Removing an absent marking is an error, not a
// no-op; this asymmetry with Mark is intentional.
func (s *MarkingService) Unmark(ctx context.Context, userID, recipeID uuid.UUID, kind models.MarkingKind) error {
	if !kind.Valid() {
		return apperr.Validation("unknown marking kind %q", kind)
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.Marking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("no %s marking for recipe %s", kind, recipeID)
	}

	if kind == models.MarkingCart && s.carts != nil {
		s.carts.Invalidate(ctx, userID)
	}
	return nil
}

// IsMarked is a pure existence check. Anonymous callers (nil userID) always
// get false; anonymity is never an error here.
func (s *MarkingService) IsMarked(ctx context.Context, userID *uuid.UUID, recipeID uuid.UUID, kind models.MarkingKind) (bool, error) {
	if userID == nil {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Marking{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", *userID, recipeID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
