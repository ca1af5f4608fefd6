package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ladlehub/backend/internal/models"
)

func listIDs(t *testing.T, recipes *RecipeService, caller *uuid.UUID, filter RecipeFilter) map[string]bool {
	t.Helper()
	views, _, err := recipes.List(context.Background(), caller, filter, 1)
	require.NoError(t, err)
	ids := make(map[string]bool, len(views))
	for _, v := range views {
		ids[v.Name] = true
	}
	return ids
}

func TestFilterByAuthor(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedRecipe(t, db, alice, "Borscht", nil)
	seedRecipe(t, db, bob, "Pilaf", nil)

	got := listIDs(t, recipes, nil, RecipeFilter{Author: &alice.ID})
	assert.Equal(t, map[string]bool{"Borscht": true}, got)
}

func TestFilterByTagsAnySemantics(t *testing.T) {
	db, recipes, _ := newRecipeFixture(t)
	author := seedUser(t, db, "alice")

	breakfast := seedTag(t, db, "breakfast")
	dinner := seedTag(t, db, "dinner")
	quick := seedTag(t, db, "quick")

	seedRecipe(t, db, author, "Pancakes", []*models.Tag{breakfast, quick})
	seedRecipe(t, db, author, "Stew", []*models.Tag{dinner})
	seedRecipe(t, db, author, "Salad", []*models.Tag{quick})
	seedRecipe(t, db, author, "Plain", nil)

	got := listIDs(t, recipes, nil, RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}})
	assert.Equal(t, map[string]bool{"Pancakes": true, "Stew": true}, got,
		"a recipe matches when it carries at least one requested tag")

	// A recipe with two matching tags still appears exactly once.
	views, total, err := recipes.List(context.Background(), nil,
		RecipeFilter{TagSlugs: []string{"breakfast", "quick"}}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, views, 2)
}

func TestFilterByFavorited(t *testing.T) {
	db, recipes, markings := newRecipeFixture(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	borscht := seedRecipe(t, db, alice, "Borscht", nil)
	pilaf := seedRecipe(t, db, alice, "Pilaf", nil)

	_, err := markings.Mark(context.Background(), bob.ID, borscht.ID, models.MarkingFavorite)
	require.NoError(t, err)
	_, err = markings.Mark(context.Background(), alice.ID, pilaf.ID, models.MarkingFavorite)
	require.NoError(t, err)

	got := listIDs(t, recipes, &bob.ID, RecipeFilter{IsFavorited: true})
	assert.Equal(t, map[string]bool{"Borscht": true}, got)
}

func TestFilterMarkingPredicatesSkippedForAnonymous(t *testing.T) {
	db, recipes, markings := newRecipeFixture(t)
	alice := seedUser(t, db, "alice")

	borscht := seedRecipe(t, db, alice, "Borscht", nil)
	seedRecipe(t, db, alice, "Pilaf", nil)
	addToCart(t, db, markings, alice, borscht)

	// Anonymous callers get the unfiltered list, not an error.
	got := listIDs(t, recipes, nil, RecipeFilter{IsFavorited: true, IsInShoppingCart: true})
	assert.Equal(t, map[string]bool{"Borscht": true, "Pilaf": true}, got)
}

func TestFilterPredicatesCombineWithAnd(t *testing.T) {
	db, recipes, markings := newRecipeFixture(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	quick := seedTag(t, db, "quick")

	salad := seedRecipe(t, db, alice, "Salad", []*models.Tag{quick})
	seedRecipe(t, db, alice, "Stew", []*models.Tag{quick})
	toast := seedRecipe(t, db, bob, "Toast", nil)

	addToCart(t, db, markings, bob, salad, toast)

	got := listIDs(t, recipes, &bob.ID, RecipeFilter{
		Author:           &alice.ID,
		TagSlugs:         []string{"quick"},
		IsInShoppingCart: true,
	})
	assert.Equal(t, map[string]bool{"Salad": true}, got)
}
