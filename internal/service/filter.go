package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/models"
)

// RecipeFilter is a combinable filter specification over the recipe
// collection. All set predicates combine with AND. The marking-derived
// predicates require an authenticated caller and are silently skipped for
// anonymous requests; that leniency is deliberate (see DESIGN.md).
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// Apply narrows query to the recipes matching the filter for the given
// caller (nil for anonymous).
func (f RecipeFilter) Apply(query *gorm.DB, caller *uuid.UUID) *gorm.DB {
	if f.Author != nil {
		query = query.Where("recipes.author_id = ?", *f.Author)
	}

	if len(f.TagSlugs) > 0 {
		// ANY semantics: at least one of the requested slugs. The subquery
		// keeps the result free of duplicate recipe rows.
		tagged := query.Session(&gorm.Session{NewDB: true}).
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if f.IsFavorited && caller != nil {
		query = query.Where("recipes.id IN (?)", markedRecipes(query, *caller, models.MarkingFavorite))
	}

	if f.IsInShoppingCart && caller != nil {
		query = query.Where("recipes.id IN (?)", markedRecipes(query, *caller, models.MarkingCart))
	}

	return query
}

func markedRecipes(query *gorm.DB, userID uuid.UUID, kind models.MarkingKind) *gorm.DB {
	return query.Session(&gorm.Session{NewDB: true}).
		Model(&models.Marking{}).
		Select("markings.recipe_id").
		Where("markings.user_id = ? AND markings.kind = ?", userID, kind)
}
