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

// IngredientService handles the ingredient catalog and measurement units.
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientService instance.
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients ordered by name. A non-empty namePrefix narrows
// the result to names starting with it. The match is case-sensitive: postgres
// LIKE is case-sensitive, which is the contract here. sqlite folds ASCII case
// in LIKE, so tests running on the sqlite driver cannot pin case-sensitivity
// and must stick to same-case prefixes.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Preload("DefaultMeasurementUnit")
	if namePrefix != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Order("name, id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// ListUnits returns all measurement units ordered by name.
func (s *IngredientService) ListUnits(ctx context.Context) ([]models.MeasurementUnit, error) {
	var units []models.MeasurementUnit
	if err := s.db.WithContext(ctx).Order("name").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Create adds an ingredient, creating its default unit by name first when
// one is given.
func (s *IngredientService) Create(ctx context.Context, name, unitName string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("ingredient name must not be empty")
	}
	if len(name) > models.MaxNameLength {
		return nil, apperr.Validation("ingredient name exceeds %d characters", models.MaxNameLength)
	}

	ingredient := models.Ingredient{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if unitName != "" {
			unit, err := getOrCreateUnit(tx, unitName)
			if err != nil {
				return err
			}
			ingredient.DefaultMeasurementUnitID = &unit.ID
		}
		return tx.Create(&ingredient).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// BulkImport takes (ingredient name, unit name) pairs, creating missing
// units and ingredients. Rows that fail validation are reported by index and
// skipped; the rest of the import proceeds. The result carries the ids every
// accepted row now resolves to.
func (s *IngredientService) BulkImport(ctx context.Context, rows []types.ImportRow) (*types.ImportResult, error) {
	result := &types.ImportResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			name := strings.TrimSpace(row.Name)
			if name == "" {
				result.Errors = append(result.Errors, types.ImportRowError{
					Index: i, Message: "ingredient name must not be empty",
				})
				continue
			}
			if len(name) > models.MaxNameLength {
				result.Errors = append(result.Errors, types.ImportRowError{
					Index: i, Message: "ingredient name too long",
				})
				continue
			}

			var unitID *uuid.UUID
			if unitName := strings.TrimSpace(row.MeasurementUnit); unitName != "" {
				unit, err := getOrCreateUnit(tx, unitName)
				if err != nil {
					return err
				}
				unitID = &unit.ID
			}

			var ingredient models.Ingredient
			err := tx.Where("name = ?", name).First(&ingredient).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				ingredient = models.Ingredient{Name: name, DefaultMeasurementUnitID: unitID}
				if err := tx.Create(&ingredient).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}

			result.IngredientIDs = append(result.IngredientIDs, ingredient.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func getOrCreateUnit(tx *gorm.DB, name string) (*models.MeasurementUnit, error) {
	var unit models.MeasurementUnit
	err := tx.Where("name = ?", name).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		unit = models.MeasurementUnit{Name: name}
		err = tx.Create(&unit).Error
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// escapeLike escapes the LIKE wildcards so a prefix filter cannot be turned
// into a pattern match.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
