package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/models"
	"github.com/pageza/ladlehub/backend/internal/testdb"
	"github.com/pageza/ladlehub/backend/internal/types"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedUnit(t *testing.T, db *gorm.DB, name string) *models.MeasurementUnit {
	t.Helper()
	unit := &models.MeasurementUnit{Name: name}
	require.NoError(t, db.Create(unit).Error)
	return unit
}

func seedIngredient(t *testing.T, db *gorm.DB, name string, defaultUnit *models.MeasurementUnit) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name}
	if defaultUnit != nil {
		ingredient.DefaultMeasurementUnitID = &defaultUnit.ID
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: slug, Slug: slug, Color: "#aabbcc"}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

type lineSpec struct {
	ingredient *models.Ingredient
	amount     float64
	unit       *models.MeasurementUnit
}

func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines ...lineSpec) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		CookingTime: 30,
		Portions:    2,
		Text:        "instructions",
	}
	for _, tag := range tags {
		recipe.Tags = append(recipe.Tags, *tag)
	}
	require.NoError(t, db.Create(recipe).Error)

	for i, l := range lines {
		line := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: l.ingredient.ID,
			Amount:       l.amount,
			Position:     i,
		}
		if l.unit != nil {
			line.MeasurementUnitID = &l.unit.ID
		}
		require.NoError(t, db.Create(&line).Error)
	}
	return recipe
}

func addToCart(t *testing.T, db *gorm.DB, markings *MarkingService, user *models.User, recipes ...*models.Recipe) {
	t.Helper()
	for _, recipe := range recipes {
		created, err := markings.Mark(context.Background(), user.ID, recipe.ID, models.MarkingCart)
		require.NoError(t, err)
		require.True(t, created)
	}
}

func newFixture(t *testing.T) (*gorm.DB, *MarkingService, *ShoppingListService) {
	t.Helper()
	db := testdb.New(t)
	shoppingLists := NewShoppingListService(db, nil, NewLocalizer(), zap.NewNop())
	markings := NewMarkingService(db, shoppingLists)
	return db, markings, shoppingLists
}

func validInput(ingredients []*models.Ingredient, tags []*models.Tag) types.RecipeInput {
	input := types.RecipeInput{
		Name:        "Pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
		Portions:    4,
	}
	for _, ing := range ingredients {
		input.Ingredients = append(input.Ingredients, types.IngredientLineInput{
			IngredientID: ing.ID,
			Amount:       100,
		})
	}
	for _, tag := range tags {
		input.TagIDs = append(input.TagIDs, tag.ID)
	}
	return input
}
