// Package models defines the wire types exchanged with the Brewdesk backend
// and the client-side validation applied before any request is issued.
package models

import "time"

// Unit is a unit of measure for inventory items and ingredient amounts.
type Unit string

const (
	UnitPcs   Unit = "pcs"
	UnitKg    Unit = "kg"
	UnitLiter Unit = "liter"
	UnitMl    Unit = "ml"
	UnitG     Unit = "g"
)

// Units lists every accepted unit of measure, in display order.
func Units() []Unit {
	return []Unit{UnitPcs, UnitKg, UnitLiter, UnitMl, UnitG}
}

// Unit compatibility groups. A measurement's unit may only be switched
// within its own group, never across groups.
var (
	weightUnits = []Unit{UnitG, UnitKg}
	volumeUnits = []Unit{UnitMl, UnitLiter}
	countUnits  = []Unit{UnitPcs}
)

// UnitGroup returns the compatibility group containing u: {g, kg} for
// weight, {ml, liter} for volume, {pcs} otherwise.
func UnitGroup(u Unit) []Unit {
	for _, w := range weightUnits {
		if u == w {
			return weightUnits
		}
	}
	for _, v := range volumeUnits {
		if u == v {
			return volumeUnits
		}
	}
	return countUnits
}

// InventoryItem is an inventory record as served by the backend. The
// PascalCase JSON keys mirror the backend's ORM envelope; DeletedAt is a
// soft-delete marker that is surfaced but never interpreted client-side.
type InventoryItem struct {
	ID        uint       `json:"ID"`
	CreatedAt time.Time  `json:"CreatedAt"`
	UpdatedAt time.Time  `json:"UpdatedAt"`
	DeletedAt *time.Time `json:"DeletedAt"`

	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	UOM         Unit   `json:"uom"`
	PricePerQty int    `json:"price_per_qty"`
}

// InventoryInput is the create/update payload for an inventory item.
// PricePerQty is in minor currency units.
type InventoryInput struct {
	ItemName    string `json:"item_name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UOM         string `json:"uom" validate:"required,oneof=pcs kg liter ml g"`
	PricePerQty int    `json:"price_per_qty" validate:"required,gt=0"`
}

var inventoryMessages = map[string]string{
	"item_name":     "Item name is required",
	"quantity":      "Quantity must be greater than 0",
	"uom":           "UOM is required",
	"price_per_qty": "Price must be greater than 0",
}

// Validate checks the input client-side and returns a map of field name to
// message for every failing field. An empty map means the input may be sent.
func (in InventoryInput) Validate() map[string]string {
	return fieldErrors(in, inventoryMessages)
}
