package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/models"
	"github.com/pageza/ladlehub/backend/internal/types"
)

const shoppingListCacheTTL = 10 * time.Minute

// ShoppingListService consolidates a user's cart into one deduplicated,
// unit-aware purchase list. It is read-only over the store; the only state it
// owns is the redis cache of aggregation results.
type ShoppingListService struct {
	db        *gorm.DB
	cache     *redis.Client
	localizer *Localizer
	logger    *zap.Logger
}

// NewShoppingListService creates a new ShoppingListService instance. cache
// may be nil, which disables caching.
func NewShoppingListService(db *gorm.DB, cache *redis.Client, localizer *Localizer, logger *zap.Logger) *ShoppingListService {
	return &ShoppingListService{db: db, cache: cache, localizer: localizer, logger: logger}
}

// Aggregate expands every recipe in the user's cart into its ingredient
// lines, groups them by (ingredient, unit) and sums the amounts. Lines
// without a unit form their own bucket with an empty unit name. The result
// is ordered by ingredient name, unit name, then ingredient id, so equal
// inputs always produce byte-equal output. An empty cart yields an empty
// list.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.PurchaseItem, error) {
	if items, ok := s.cachedItems(ctx, userID); ok {
		return items, nil
	}

	var rows []struct {
		IngredientName string
		UnitName       string
		Total          float64
	}
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS ingredient_name, COALESCE(measurement_units.name, '') AS unit_name, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN markings ON markings.recipe_id = recipe_ingredients.recipe_id AND markings.user_id = ? AND markings.kind = ?", userID, models.MarkingCart).
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("LEFT JOIN measurement_units ON measurement_units.id = recipe_ingredients.measurement_unit_id").
		Group("recipe_ingredients.ingredient_id, ingredients.name, recipe_ingredients.measurement_unit_id, measurement_units.name").
		Order("ingredients.name, unit_name, recipe_ingredients.ingredient_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]types.PurchaseItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, types.PurchaseItem{
			IngredientName: r.IngredientName,
			Amount:         r.Total,
			UnitName:       r.UnitName,
		})
	}

	s.cacheItems(ctx, userID, items)
	return items, nil
}

// ExportCSV renders the aggregation as a three-column CSV with headers
// localized for lang.
func (s *ShoppingListService) ExportCSV(ctx context.Context, userID uuid.UUID, lang string) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		s.localizer.Lookup("Ingredient", lang),
		s.localizer.Lookup("Amount", lang),
		s.localizer.Lookup("Measurement Unit", lang),
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, item := range items {
		record := []string{
			item.IngredientName,
			strconv.FormatFloat(item.Amount, 'f', -1, 64),
			item.UnitName,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Invalidate drops the cached aggregation for one user. Called by the
// marking store whenever cart contents change.
func (s *ShoppingListService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, shoppingListKey(userID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate shopping list cache",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *ShoppingListService) cachedItems(ctx context.Context, userID uuid.UUID) ([]types.PurchaseItem, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, shoppingListKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []types.PurchaseItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *ShoppingListService) cacheItems(ctx context.Context, userID uuid.UUID, items []types.PurchaseItem) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, shoppingListKey(userID), data, shoppingListCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache shopping list",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func shoppingListKey(userID uuid.UUID) string {
	return "shoppinglist:" + userID.String()
}
