package models

import "time"

// Measurement is an ingredient amount in a recipe. Amount is nullable on
// the wire; Unit holds one of the accepted units of measure.
type Measurement struct {
	Amount *float64 `json:"amount"`
	Unit   string   `json:"unit"`
}

// Recipe is a recipe record as served by the backend. SKU is assigned and
// COGS computed by the server from ingredient costs; neither is ever
// written or derived client-side.
type Recipe struct {
	ID        uint       `json:"ID"`
	CreatedAt time.Time  `json:"CreatedAt"`
	UpdatedAt time.Time  `json:"UpdatedAt"`
	DeletedAt *time.Time `json:"DeletedAt"`

	SKU          string                 `json:"sku"`
	NumberOfCups int                    `json:"number_of_cups"`
	Ingredients  map[string]Measurement `json:"ingredients"`
	COGS         float64                `json:"cogs"`
}

// RecipeInput is the create/update payload for a recipe. Every key of
// Ingredients must name an existing inventory item; the picker enforces
// this by only offering unused inventory item names.
type RecipeInput struct {
	NumberOfCups int                    `json:"number_of_cups" validate:"required,gt=0"`
	Ingredients  map[string]Measurement `json:"ingredients" validate:"required,min=1"`
}

var recipeMessages = map[string]string{
	"number_of_cups": "Number of cups is required",
	"ingredients":    "At least one ingredient is required",
}

// Validate checks the input client-side and returns a map of field name to
// message for every failing field. An empty map means the input may be sent.
func (in RecipeInput) Validate() map[string]string {
	return fieldErrors(in, recipeMessages)
}
