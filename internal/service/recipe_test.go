package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/apperr"
	"github.com/pageza/ladlehub/backend/internal/models"
	"github.com/pageza/ladlehub/backend/internal/types"
)

func newRecipeFixture(t *testing.T) (*gorm.DB, *RecipeService, *MarkingService) {
	t.Helper()
	db, markings, _ := newFixture(t)
	return db, NewRecipeService(db, markings), markings
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	cups := seedUnit(t, db, "cup")
	flour := seedIngredient(t, db, "flour", grams)
	milk := seedIngredient(t, db, "milk", cups)
	breakfast := seedTag(t, db, "breakfast")
	quick := seedTag(t, db, "quick")

	input := types.RecipeInput{
		Name:        "Pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
		Portions:    4,
		Ingredients: []types.IngredientLineInput{
			{IngredientID: flour.ID, Amount: 200, UnitID: &grams.ID},
			{IngredientID: milk.ID, Amount: 1, UnitID: &cups.ID},
		},
		TagIDs: []uuid.UUID{breakfast.ID, quick.ID},
	}

	view, err := recipes.Create(context.Background(), author.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, author.ID, view.Author.ID)
	assert.Equal(t, 20, view.CookingTime)
	assert.Equal(t, 4, view.Portions)
	assert.False(t, view.PubDate.IsZero())

	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "flour", view.Ingredients[0].Name)
	assert.Equal(t, float64(200), view.Ingredients[0].Amount)
	assert.Equal(t, "g", view.Ingredients[0].UnitName)
	assert.Equal(t, "milk", view.Ingredients[1].Name)

	require.Len(t, view.Tags, 2)

	got, err := recipes.Get(context.Background(), nil, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)
	assert.Len(t, got.Ingredients, 2)
}

func TestCreateRecipeUnitDefaulting(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	egg := seedIngredient(t, db, "egg", nil)
	tag := seedTag(t, db, "baking")

	input := types.RecipeInput{
		Name:        "Dough",
		CookingTime: 15,
		Ingredients: []types.IngredientLineInput{
			{IngredientID: flour.ID, Amount: 500},
			{IngredientID: egg.ID, Amount: 2},
		},
		TagIDs: []uuid.UUID{tag.ID},
	}

	view, err := recipes.Create(context.Background(), author.ID, input)
	require.NoError(t, err)

	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "g", view.Ingredients[0].UnitName, "line inherits the ingredient default")
	assert.Empty(t, view.Ingredients[1].UnitName, "no default leaves the line unitless")
}

func TestCreateRecipeValidation(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	base := func() types.RecipeInput {
		return types.RecipeInput{
			Name:        "Bread",
			CookingTime: 60,
			Ingredients: []types.IngredientLineInput{{IngredientID: flour.ID, Amount: 500}},
			TagIDs:      []uuid.UUID{tag.ID},
		}
	}

	cases := []struct {
		name   string
		mutate func(*types.RecipeInput)
	}{
		{"empty name", func(in *types.RecipeInput) { in.Name = "  " }},
		{"name too long", func(in *types.RecipeInput) { in.Name = strings.Repeat("x", models.MaxNameLength+1) }},
		{"zero cooking time", func(in *types.RecipeInput) { in.CookingTime = 0 }},
		{"cooking time too long", func(in *types.RecipeInput) { in.CookingTime = models.MaxCookingTime + 1 }},
		{"too many portions", func(in *types.RecipeInput) { in.Portions = models.MaxPortions + 1 }},
		{"no ingredients", func(in *types.RecipeInput) { in.Ingredients = nil }},
		{"zero amount", func(in *types.RecipeInput) { in.Ingredients[0].Amount = 0 }},
		{"negative amount", func(in *types.RecipeInput) { in.Ingredients[0].Amount = -1 }},
		{"amount too large", func(in *types.RecipeInput) { in.Ingredients[0].Amount = models.MaxIngredientsAmount + 1 }},
		{"duplicate ingredient", func(in *types.RecipeInput) {
			in.Ingredients = append(in.Ingredients, types.IngredientLineInput{IngredientID: flour.ID, Amount: 1})
		}},
		{"no tags", func(in *types.RecipeInput) { in.TagIDs = nil }},
		{"duplicate tag", func(in *types.RecipeInput) { in.TagIDs = append(in.TagIDs, tag.ID) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base()
			tc.mutate(&input)
			_, err := recipes.Create(context.Background(), author.ID, input)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}

func TestRecipeLineOrderFollowsInput(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	egg := seedIngredient(t, db, "egg", nil)
	flour := seedIngredient(t, db, "flour", grams)
	sugar := seedIngredient(t, db, "sugar", grams)
	tag := seedTag(t, db, "baking")

	input := types.RecipeInput{
		Name:        "Sponge",
		CookingTime: 40,
		Ingredients: []types.IngredientLineInput{
			{IngredientID: egg.ID, Amount: 4},
			{IngredientID: flour.ID, Amount: 120},
			{IngredientID: sugar.ID, Amount: 120},
		},
		TagIDs: []uuid.UUID{tag.ID},
	}

	created, err := recipes.Create(context.Background(), author.ID, input)
	require.NoError(t, err)

	// Lines come back in authored order on every read, not in whatever order
	// the storage layer happens to return them.
	for i := 0; i < 3; i++ {
		view, err := recipes.Get(context.Background(), nil, created.ID)
		require.NoError(t, err)
		require.Len(t, view.Ingredients, 3)
		assert.Equal(t, "egg", view.Ingredients[0].Name)
		assert.Equal(t, "flour", view.Ingredients[1].Name)
		assert.Equal(t, "sugar", view.Ingredients[2].Name)
	}
}

func TestCreateRecipeAmountErrorMessage(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	input := validInput([]*models.Ingredient{flour}, []*models.Tag{tag})
	input.Ingredients[0].Amount = 0

	_, err := recipes.Create(context.Background(), author.ID, input)
	require.True(t, apperr.IsValidation(err))
	// Zero is outside the range, so the message must not read as if it were
	// included.
	assert.Contains(t, err.Error(), "greater than 0")
}

func TestCreateRecipePortionsDefault(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	input := validInput([]*models.Ingredient{flour}, []*models.Tag{tag})
	input.Portions = 0

	view, err := recipes.Create(context.Background(), author.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Portions)
}

func TestCreateRecipeUnknownReferences(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	input := validInput([]*models.Ingredient{flour}, []*models.Tag{tag})
	input.TagIDs = []uuid.UUID{uuid.New()}
	_, err := recipes.Create(context.Background(), author.ID, input)
	assert.True(t, apperr.IsNotFound(err))

	input = validInput([]*models.Ingredient{flour}, []*models.Tag{tag})
	input.Ingredients[0].IngredientID = uuid.New()
	_, err = recipes.Create(context.Background(), author.ID, input)
	assert.True(t, apperr.IsNotFound(err))

	unknown := uuid.New()
	input = validInput([]*models.Ingredient{flour}, []*models.Tag{tag})
	input.Ingredients[0].UnitID = &unknown
	_, err = recipes.Create(context.Background(), author.ID, input)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	sugar := seedIngredient(t, db, "sugar", grams)
	baking := seedTag(t, db, "baking")
	dessert := seedTag(t, db, "dessert")

	created, err := recipes.Create(context.Background(), author.ID,
		validInput([]*models.Ingredient{flour}, []*models.Tag{baking}))
	require.NoError(t, err)

	update := types.RecipeInput{
		Name:        "Cake",
		CookingTime: 45,
		Portions:    8,
		Ingredients: []types.IngredientLineInput{{IngredientID: sugar.ID, Amount: 150}},
		TagIDs:      []uuid.UUID{dessert.ID},
	}
	updated, err := recipes.Update(context.Background(), author.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Cake", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "sugar", updated.Ingredients[0].Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dessert", updated.Tags[0].Slug)
	assert.Equal(t, created.PubDate, updated.PubDate, "publication time never changes")
}

func TestUpdateRecipeAuthorOnly(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	created, err := recipes.Create(context.Background(), author.ID,
		validInput([]*models.Ingredient{flour}, []*models.Tag{tag}))
	require.NoError(t, err)

	_, err = recipes.Update(context.Background(), other.ID, created.ID,
		validInput([]*models.Ingredient{flour}, []*models.Tag{tag}))
	assert.True(t, apperr.IsPermission(err))

	err = recipes.Delete(context.Background(), other.ID, created.ID)
	assert.True(t, apperr.IsPermission(err))
}

func TestDeleteRecipeCascades(t *testing.T) {
	db, recipes, markings := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	created, err := recipes.Create(context.Background(), author.ID,
		validInput([]*models.Ingredient{flour}, []*models.Tag{tag}))
	require.NoError(t, err)

	_, err = markings.Mark(context.Background(), author.ID, created.ID, models.MarkingFavorite)
	require.NoError(t, err)

	require.NoError(t, recipes.Delete(context.Background(), author.ID, created.ID))

	_, err = recipes.Get(context.Background(), nil, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	var lineCount, markCount int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&lineCount).Error)
	require.NoError(t, db.Model(&models.Marking{}).Count(&markCount).Error)
	assert.Zero(t, lineCount)
	assert.Zero(t, markCount)
}

func TestGetRecipeMarkingFlags(t *testing.T) {
	db, recipes, markings := newRecipeFixture(t)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")

	grams := seedUnit(t, db, "g")
	flour := seedIngredient(t, db, "flour", grams)
	tag := seedTag(t, db, "baking")

	created, err := recipes.Create(context.Background(), author.ID,
		validInput([]*models.Ingredient{flour}, []*models.Tag{tag}))
	require.NoError(t, err)

	_, err = markings.Mark(context.Background(), reader.ID, created.ID, models.MarkingFavorite)
	require.NoError(t, err)

	view, err := recipes.Get(context.Background(), &reader.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	anon, err := recipes.Get(context.Background(), nil, created.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
}

func TestListRecipesPagination(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	for i := 0; i < RecipeListPageSize+2; i++ {
		seedRecipe(t, db, author, "Recipe", nil)
	}

	page1, total, err := recipes.List(context.Background(), nil, RecipeFilter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(RecipeListPageSize+2), total)
	assert.Len(t, page1, RecipeListPageSize)

	page2, _, err := recipes.List(context.Background(), nil, RecipeFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	seen := make(map[uuid.UUID]bool)
	for _, v := range append(page1, page2...) {
		assert.False(t, seen[v.ID], "pages must not overlap")
		seen[v.ID] = true
	}
}
