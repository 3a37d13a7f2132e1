package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brewdesk/brewdesk/internal/models"
)

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue("Sheet1", ref)
	if err != nil {
		t.Fatalf("reading cell %s: %v", ref, err)
	}
	return v
}

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	items := []models.InventoryItem{
		{ID: 7, ItemName: "Arabica beans", Quantity: 5, UOM: models.UnitKg, PricePerQty: 120000, CreatedAt: now, UpdatedAt: now},
	}

	path, err := Inventory(dir, items, now)
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if want := filepath.Join(dir, "brewdesk-inventory-20260829-153000.xlsx"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	if got := cell(t, f, "A1"); got != "id" {
		t.Errorf("A1 = %q, want id", got)
	}
	if got := cell(t, f, "B1"); got != "item_name" {
		t.Errorf("B1 = %q, want item_name", got)
	}
	if got := cell(t, f, "B2"); got != "Arabica beans" {
		t.Errorf("B2 = %q, want Arabica beans", got)
	}
	if got := cell(t, f, "C2"); got != "5" {
		t.Errorf("C2 = %q, want 5", got)
	}
	if got := cell(t, f, "F2"); got != "2026-08-29 15:30" {
		t.Errorf("F2 = %q, want 2026-08-29 15:30", got)
	}
}

func TestRecipes(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	beans := 18.0
	milk := 150.0
	recipes := []models.Recipe{
		{
			ID: 3, SKU: "IC-20260829-001", NumberOfCups: 10, COGS: 10000,
			CreatedAt: now, UpdatedAt: now,
			Ingredients: map[string]models.Measurement{
				"Whole milk":    {Amount: &milk, Unit: "ml"},
				"Arabica beans": {Amount: &beans, Unit: "g"},
			},
		},
	}

	path, err := Recipes(dir, recipes, now)
	if err != nil {
		t.Fatalf("Recipes: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	if got := cell(t, f, "B2"); got != "IC-20260829-001" {
		t.Errorf("B2 = %q, want the SKU", got)
	}
	// Ingredients flatten sorted by name.
	if got, want := cell(t, f, "D2"), "Arabica beans: 18 g; Whole milk: 150 ml"; got != want {
		t.Errorf("D2 = %q, want %q", got, want)
	}
}
