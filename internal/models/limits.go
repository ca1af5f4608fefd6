package models

// Field bounds shared by validation and the gorm schema.
const (
	MaxNameLength = 256
	MaxSlugLength = 50

	MaxPortions          = 20
	MaxCookingTime       = 1440
	MaxIngredientsAmount = 2000.0
)
