package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/apperr"
	"github.com/pageza/ladlehub/backend/internal/models"
	"github.com/pageza/ladlehub/backend/internal/types"
)

// RecipeListPageSize is the page size for recipe listings.
const RecipeListPageSize = 6

// RecipeService handles recipe CRUD and composition: the ingredient lines
// and tag set a recipe owns.
type RecipeService struct {
	db       *gorm.DB
	markings *MarkingService
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB, markings *MarkingService) *RecipeService {
	return &RecipeService{db: db, markings: markings}
}

// Create validates the write-model, resolves each line's measurement unit
// and stores the recipe with its lines and tags in one transaction. The
// publication timestamp is set at creation and never changes afterwards.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input types.RecipeInput) (*types.RecipeView, error) {
	if err := validateRecipeInput(&input); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        input.Name,
		AuthorID:    authorID,
		CookingTime: input.CookingTime,
		Text:        input.Text,
		Portions:    input.Portions,
		ImageURL:    input.ImageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		lines, err := buildLines(tx, input.Ingredients)
		if err != nil {
			return err
		}

		recipe.Tags = tags
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &authorID, recipe.ID)
}

// Update replaces the recipe's fields, lines and tags wholesale. Only the
// author may update a recipe; the publication timestamp is preserved.
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID uuid.UUID, input types.RecipeInput) (*types.RecipeView, error) {
	if err := validateRecipeInput(&input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("recipe %s not found", recipeID)
			}
			return err
		}
		if recipe.AuthorID != callerID {
			return apperr.Permission("only the author may edit this recipe")
		}

		tags, err := loadTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		lines, err := buildLines(tx, input.Ingredients)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"name":         input.Name,
			"cooking_time": input.CookingTime,
			"text":         input.Text,
			"portions":     input.Portions,
		}
		if input.ImageURL != "" {
			updates["image_url"] = input.ImageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &callerID, recipeID)
}

// Get returns the recipe read-model. caller may be nil (anonymous); the
// marking flags are then false.
func (s *RecipeService) Get(ctx context.Context, caller *uuid.UUID, recipeID uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position, recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.MeasurementUnit").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe %s not found", recipeID)
		}
		return nil, err
	}

	return s.buildView(ctx, caller, &recipe)
}

// Delete removes the recipe with its lines and markings. Author-only.
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("recipe %s not found", recipeID)
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return apperr.Permission("only the author may delete this recipe")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Marking{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// List returns one page of recipes matching the filter, newest first.
// Ordering includes the id as a tiebreaker so pages are stable.
func (s *RecipeService) List(ctx context.Context, caller *uuid.UUID, filter RecipeFilter, page int) ([]types.RecipeView, int64, error) {
	if page < 1 {
		page = 1
	}

	query := filter.Apply(s.db.WithContext(ctx).Model(&models.Recipe{}), caller)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position, recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.MeasurementUnit").
		Order("recipes.pub_date DESC, recipes.id").
		Limit(RecipeListPageSize).
		Offset((page - 1) * RecipeListPageSize).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.buildView(ctx, caller, &recipes[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// SetImageURL records the stored image location on the recipe. Author-only.
func (s *RecipeService) SetImageURL(ctx context.Context, callerID, recipeID uuid.UUID, url string) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("recipe %s not found", recipeID)
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return apperr.Permission("only the author may change the recipe image")
	}
	return s.db.WithContext(ctx).Model(&recipe).Update("image_url", url).Error
}

func (s *RecipeService) buildView(ctx context.Context, caller *uuid.UUID, recipe *models.Recipe) (*types.RecipeView, error) {
	favorited, err := s.markings.IsMarked(ctx, caller, recipe.ID, models.MarkingFavorite)
	if err != nil {
		return nil, err
	}
	inCart, err := s.markings.IsMarked(ctx, caller, recipe.ID, models.MarkingCart)
	if err != nil {
		return nil, err
	}

	lines := make([]types.IngredientLineView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		view := types.IngredientLineView{
			IngredientID: line.IngredientID,
			Name:         line.Ingredient.Name,
			Amount:       line.Amount,
		}
		if line.MeasurementUnit != nil {
			view.UnitName = line.MeasurementUnit.Name
		}
		lines = append(lines, view)
	}

	tags := make([]types.TagView, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, types.TagView{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, Color: tag.Color})
	}

	return &types.RecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Author:      types.AuthorView{ID: recipe.AuthorID, Username: recipe.Author.Username},
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Portions:    recipe.Portions,
		PubDate:     recipe.PubDate,
		ImageURL:    recipe.ImageURL,
		Ingredients: lines,
		Tags:        tags,

		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
	}, nil
}

// validateRecipeInput enforces the write-model invariants. Portions default
// to 1 when omitted.
func validateRecipeInput(input *types.RecipeInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apperr.Validation("recipe name must not be empty")
	}
	if len(input.Name) > models.MaxNameLength {
		return apperr.Validation("recipe name exceeds %d characters", models.MaxNameLength)
	}
	if input.CookingTime < 1 || input.CookingTime > models.MaxCookingTime {
		return apperr.Validation("cooking time must be from 1 to %d", models.MaxCookingTime)
	}
	if input.Portions == 0 {
		input.Portions = 1
	}
	if input.Portions < 1 || input.Portions > models.MaxPortions {
		return apperr.Validation("portions must be from 1 to %d", models.MaxPortions)
	}

	if len(input.Ingredients) == 0 {
		return apperr.Validation("a recipe needs at least one ingredient")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if _, dup := seenIngredients[line.IngredientID]; dup {
			return apperr.Validation("duplicate ingredient %s", line.IngredientID)
		}
		seenIngredients[line.IngredientID] = struct{}{}
		if line.Amount <= 0 || line.Amount > models.MaxIngredientsAmount {
			return apperr.Validation("ingredients amount must be greater than 0 and at most %v", models.MaxIngredientsAmount)
		}
	}

	if len(input.TagIDs) == 0 {
		return apperr.Validation("a recipe needs at least one tag")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if _, dup := seenTags[id]; dup {
			return apperr.Validation("duplicate tag %s", id)
		}
		seenTags[id] = struct{}{}
	}

	return nil
}

func loadTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.NotFound("one or more tags do not exist")
	}
	return tags, nil
}

// buildLines resolves each line's measurement unit: the explicit unit when
// given, otherwise the ingredient's default, otherwise none.
func buildLines(tx *gorm.DB, inputs []types.IngredientLineInput) ([]models.RecipeIngredient, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, line := range inputs {
		ids = append(ids, line.IngredientID)
	}

	var ingredients []models.Ingredient
	if err := tx.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, apperr.NotFound("one or more ingredients do not exist")
	}
	byID := make(map[uuid.UUID]*models.Ingredient, len(ingredients))
	for i := range ingredients {
		byID[ingredients[i].ID] = &ingredients[i]
	}

	lines := make([]models.RecipeIngredient, 0, len(inputs))
	for i, input := range inputs {
		unitID := input.UnitID
		if unitID == nil {
			unitID = byID[input.IngredientID].DefaultMeasurementUnitID
		}
		if unitID != nil {
			var unit models.MeasurementUnit
			if err := tx.First(&unit, "id = ?", *unitID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperr.NotFound("measurement unit %s not found", *unitID)
				}
				return nil, err
			}
		}
		lines = append(lines, models.RecipeIngredient{
			IngredientID:      input.IngredientID,
			Amount:            input.Amount,
			Position:          i,
			MeasurementUnitID: unitID,
		})
	}
	return lines, nil
}
