package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkingKind distinguishes the two per-user recipe marks. Both share the
// same lifecycle: absent or present, nothing else.
type MarkingKind string

const (
	MarkingFavorite MarkingKind = "favorite"
	MarkingCart     MarkingKind = "cart"
)

// Valid reports whether k is one of the known kinds.
func (k MarkingKind) Valid() bool {
	return k == MarkingFavorite || k == MarkingCart
}

// Marking is a (user, recipe, kind) association. The composite unique index
// is what makes concurrent mark calls safe: the storage layer, not the
// service, enforces at-most-one row per combination.
type Marking struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Kind      MarkingKind `gorm:"size:16;not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	User      User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RecipeID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_kind;index" json:"recipe_id"`
	Recipe    Recipe      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Marking) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
