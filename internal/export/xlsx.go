// Package export writes list views to xlsx workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brewdesk/brewdesk/internal/models"
	"github.com/brewdesk/brewdesk/internal/util"
)

// DefaultDir returns the directory export files are written to.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// filename builds a timestamped workbook name like brewdesk-inventory-20260829-153000.xlsx.
func filename(kind string, now time.Time) string {
	return fmt.Sprintf("brewdesk-%s-%s.xlsx", kind, now.Format("20060102-150405"))
}

func writeSheet(path string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cellAddr, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// Inventory writes the given items to an xlsx workbook in dir and returns
// the full path of the written file.
func Inventory(dir string, items []models.InventoryItem, now time.Time) (string, error) {
	header := []interface{}{"id", "item_name", "quantity", "uom", "price_per_qty", "created_at", "updated_at"}
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{
			it.ID, it.ItemName, it.Quantity, string(it.UOM), it.PricePerQty,
			util.FormatDateTime(it.CreatedAt), util.FormatDateTime(it.UpdatedAt),
		})
	}
	path := filepath.Join(dir, filename("inventory", now))
	if err := writeSheet(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

// Recipes writes the given recipes to an xlsx workbook in dir and returns
// the full path of the written file. Ingredients are flattened into a
// single cell, sorted by name for stable output.
func Recipes(dir string, recipes []models.Recipe, now time.Time) (string, error) {
	header := []interface{}{"id", "sku", "number_of_cups", "ingredients", "cogs", "created_at", "updated_at"}
	rows := make([][]interface{}, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []interface{}{
			r.ID, r.SKU, r.NumberOfCups, flattenIngredients(r.Ingredients),
			r.COGS, util.FormatDateTime(r.CreatedAt), util.FormatDateTime(r.UpdatedAt),
		})
	}
	path := filepath.Join(dir, filename("recipes", now))
	if err := writeSheet(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

func flattenIngredients(ingredients map[string]models.Measurement) string {
	names := make([]string, 0, len(ingredients))
	for name := range ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		m := ingredients[name]
		amount := 0.0
		if m.Amount != nil {
			amount = *m.Amount
		}
		parts = append(parts, fmt.Sprintf("%s: %g %s", name, amount, m.Unit))
	}
	return strings.Join(parts, "; ")
}
