package types

import (
	"time"

	"github.com/google/uuid"
)

// IngredientLineInput is one ingredient line of a recipe write request. A nil
// unit means "use the ingredient's default unit".
type IngredientLineInput struct {
	IngredientID uuid.UUID  `json:"ingredient_id" binding:"required"`
	Amount       float64    `json:"amount" binding:"required"`
	UnitID       *uuid.UUID `json:"measurement_unit_id,omitempty"`
}

// RecipeInput is the single write-model for creating and updating recipes.
type RecipeInput struct {
	Name        string                `json:"name" binding:"required"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time" binding:"required"`
	Portions    int                   `json:"portions"`
	ImageURL    string                `json:"image_url"`
	Ingredients []IngredientLineInput `json:"ingredients" binding:"required"`
	TagIDs      []uuid.UUID           `json:"tags" binding:"required"`
}

// IngredientLineView is one resolved ingredient line of a recipe read-model.
// UnitName is empty when the line has no unit.
type IngredientLineView struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	UnitName     string    `json:"measurement_unit"`
}

type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Color string    `json:"color"`
}

type AuthorView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// RecipeView is the single read-model for recipes. The marking flags are
// always false for anonymous callers.
type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Author           AuthorView           `json:"author"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	Portions         int                  `json:"portions"`
	PubDate          time.Time            `json:"pub_date"`
	ImageURL         string               `json:"image_url,omitempty"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	Tags             []TagView            `json:"tags"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// PurchaseItem is one consolidated row of a user's shopping list: all cart
// lines sharing the same (ingredient, unit) summed together.
type PurchaseItem struct {
	IngredientName string  `json:"name"`
	Amount         float64 `json:"amount"`
	UnitName       string  `json:"measurement_unit"`
}

// ImportRow is one entry of an ingredient bulk import request.
type ImportRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ImportRowError reports a rejected bulk import row by position.
type ImportRowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult is the outcome of an ingredient bulk import: ids of all
// ingredients the rows now resolve to, plus per-row validation errors.
type ImportResult struct {
	IngredientIDs []uuid.UUID      `json:"ingredient_ids"`
	Errors        []ImportRowError `json:"errors,omitempty"`
}
