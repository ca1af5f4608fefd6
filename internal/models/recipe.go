package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	Text        string    `gorm:"type:text" json:"text"`
	Portions    int       `gorm:"not null;default:1" json:"portions"`
	// PubDate is set once at creation and never updated afterwards.
	PubDate  time.Time `gorm:"index" json:"pub_date"`
	ImageURL string    `gorm:"size:255" json:"image_url,omitempty"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}

// RecipeIngredient is one line of a recipe: (recipe, ingredient) is unique
// together. The unit is nullable; when a line is created without one it
// inherits the ingredient's default unit, and may legitimately stay unset.
type RecipeIngredient struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	RecipeID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient        Ingredient       `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount            float64          `gorm:"not null" json:"amount"`
	// Position preserves the authored line order; created_at is useless for
	// that since a batch insert gives every line the same timestamp.
	Position          int              `gorm:"not null;default:0" json:"position"`
	MeasurementUnitID *uuid.UUID       `gorm:"type:uuid" json:"measurement_unit_id,omitempty"`
	MeasurementUnit   *MeasurementUnit `gorm:"foreignKey:MeasurementUnitID;constraint:OnDelete:SET NULL" json:"measurement_unit,omitempty"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
