package components

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	cols := []Column{
		{Title: "ID", Width: 5},
		{Title: "NAME", Width: 20},
	}

	table := NewTable(cols)
	if table == nil {
		t.Fatal("Expected non-nil table")
	}
	if !table.Empty() {
		t.Error("New table should be empty")
	}
	if table.RowCount() != 0 {
		t.Errorf("Expected 0 rows, got %d", table.RowCount())
	}
}

func TestTable_SetRows(t *testing.T) {
	cols := []Column{
		{Title: "ID", Width: 5},
		{Title: "NAME", Width: 20},
	}

	table := NewTable(cols)
	table.SetRows([][]string{
		{"1", "Arabica beans"},
		{"2", "Whole milk"},
		{"3", "Palm sugar"},
	})

	if table.RowCount() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.RowCount())
	}
	if table.Empty() {
		t.Error("Table should not be empty after setting rows")
	}
}

func TestTable_SetRows_ClampsSelection(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}}
	table := NewTable(cols)
	table.SetRows([][]string{{"1"}, {"2"}, {"3"}})
	table.GoToBottom()

	// Shrinking the data clamps the selection
	table.SetRows([][]string{{"1"}})
	if table.Selected() != 0 {
		t.Errorf("Expected selected=0 after shrink, got %d", table.Selected())
	}
}

func TestTable_Navigation(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}}
	table := NewTable(cols)
	table.SetRows([][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}})

	if table.Selected() != 0 {
		t.Errorf("Expected selected=0, got %d", table.Selected())
	}

	table.MoveDown()
	if table.Selected() != 1 {
		t.Errorf("Expected selected=1, got %d", table.Selected())
	}

	table.MoveUp()
	table.MoveUp() // can't move above 0
	if table.Selected() != 0 {
		t.Errorf("Expected selected=0, got %d", table.Selected())
	}

	table.GoToBottom()
	if table.Selected() != 4 {
		t.Errorf("Expected selected=4, got %d", table.Selected())
	}

	table.MoveDown() // can't move below last
	if table.Selected() != 4 {
		t.Errorf("Expected selected=4, got %d", table.Selected())
	}

	table.GoToTop()
	if table.Selected() != 0 {
		t.Errorf("Expected selected=0, got %d", table.Selected())
	}
}

func TestTable_SelectedRow(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}, {Title: "NAME", Width: 16}}
	table := NewTable(cols)
	table.SetRows([][]string{{"1", "Arabica beans"}, {"2", "Whole milk"}})

	row := table.SelectedRow()
	if row == nil {
		t.Fatal("Expected non-nil selected row")
	}
	if row[0] != "1" || row[1] != "Arabica beans" {
		t.Errorf("Expected [1, Arabica beans], got %v", row)
	}

	table.MoveDown()
	row = table.SelectedRow()
	if row[0] != "2" || row[1] != "Whole milk" {
		t.Errorf("Expected [2, Whole milk], got %v", row)
	}
}

func TestTable_EmptySelectedRow(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}}
	table := NewTable(cols)

	if row := table.SelectedRow(); row != nil {
		t.Errorf("Expected nil for empty table selected row, got %v", row)
	}
}

func TestTable_Render_ContainsHeadersAndRows(t *testing.T) {
	cols := []Column{
		{Title: "ID", Width: 5},
		{Title: "NAME", Width: 16},
	}

	table := NewTable(cols)
	table.SetRows([][]string{{"1", "Arabica beans"}, {"2", "Whole milk"}})

	output := table.Render()
	if !strings.Contains(output, "ID") {
		t.Error("Expected header 'ID' in output")
	}
	if !strings.Contains(output, "NAME") {
		t.Error("Expected header 'NAME' in output")
	}
	if !strings.Contains(output, "Arabica beans") {
		t.Error("Expected row data in output")
	}
}

func TestTable_Render_TruncatesLongCells(t *testing.T) {
	cols := []Column{{Title: "NAME", Width: 8}}
	table := NewTable(cols)
	table.SetRows([][]string{{"A very long item name"}})

	output := table.Render()
	if strings.Contains(output, "A very long item name") {
		t.Error("Expected long cell to be truncated")
	}
	if !strings.Contains(output, "…") {
		t.Error("Expected ellipsis in truncated cell")
	}
}

func TestTable_Render_ShowsPagination(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}}
	table := NewTable(cols)
	table.SetRows([][]string{{"1"}, {"2"}})
	table.SetPagination(1, 5, 42)

	output := table.Render()
	if !strings.Contains(output, "Page 1/5") {
		t.Error("Expected pagination info in output")
	}
	if !strings.Contains(output, "42 total") {
		t.Error("Expected total count in output")
	}
}

func TestTable_VisibleRowsWindow(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 5}}
	table := NewTable(cols)
	table.SetVisibleRows(3)

	rows := [][]string{{"row-a"}, {"row-b"}, {"row-c"}, {"row-d"}, {"row-e"}}
	table.SetRows(rows)

	output := table.Render()
	if !strings.Contains(output, "row-a") {
		t.Error("Expected first visible row in output")
	}
	if strings.Contains(output, "row-d") {
		t.Error("Expected rows beyond the window to be hidden")
	}

	// Moving past the window scrolls it
	table.MoveDown()
	table.MoveDown()
	table.MoveDown()
	output = table.Render()
	if !strings.Contains(output, "row-d") {
		t.Error("Expected window to scroll to the selection")
	}
	if strings.Contains(output, "row-a") {
		t.Error("Expected scrolled-off row to be hidden")
	}
}
