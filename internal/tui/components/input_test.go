package components

import (
	"strings"
	"testing"
)

func TestInput_BasicOperations(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Arabica")

	if input.Value() != "Arabica" {
		t.Errorf("Expected 'Arabica', got %q", input.Value())
	}

	input.SetWidth(30)
	input.SetMaxLength(50)
	input.SetRequired(true)
	input.SetPlaceholder("Enter name")
}

func TestInput_Focus(t *testing.T) {
	input := NewInput("Name")

	if input.IsFocused() {
		t.Error("Should not be focused initially")
	}

	input.Focus(true)
	if !input.IsFocused() {
		t.Error("Should be focused after Focus(true)")
	}

	input.Focus(false)
	if input.IsFocused() {
		t.Error("Should not be focused after Focus(false)")
	}
}

func TestInput_HandleKey_TypeCharacter(t *testing.T) {
	input := NewInput("Name")
	input.Focus(true)

	input.HandleKey("A")
	input.HandleKey("B")
	input.HandleKey("C")

	if input.Value() != "ABC" {
		t.Errorf("Expected 'ABC', got %q", input.Value())
	}
}

func TestInput_HandleKey_Backspace(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	input.Focus(true)

	input.HandleKey("backspace")
	if input.Value() != "Hell" {
		t.Errorf("Expected 'Hell', got %q", input.Value())
	}
}

func TestInput_HandleKey_CursorMovement(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	input.Focus(true)

	// Cursor at end (5), move left
	input.HandleKey("left")
	// Now at 4, type a char
	input.HandleKey("X")
	if input.Value() != "HellXo" {
		t.Errorf("Expected 'HellXo', got %q", input.Value())
	}

	// Home
	input.HandleKey("home")
	input.HandleKey("Y")
	if input.Value() != "YHellXo" {
		t.Errorf("Expected 'YHellXo', got %q", input.Value())
	}
}

func TestInput_HandleKey_NotFocused(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	// Not focused

	input.HandleKey("A")
	if input.Value() != "Hello" {
		t.Errorf("Should not handle keys when not focused, got %q", input.Value())
	}
}

func TestInput_Numeric(t *testing.T) {
	input := NewInput("Quantity").SetNumeric(true)
	input.Focus(true)

	input.HandleKey("1")
	input.HandleKey("a")
	input.HandleKey("2")
	input.HandleKey("-")
	input.HandleKey("3")

	if input.Value() != "123" {
		t.Errorf("Expected '123', got %q", input.Value())
	}

	// Editing keys still work
	input.HandleKey("backspace")
	if input.Value() != "12" {
		t.Errorf("Expected '12' after backspace, got %q", input.Value())
	}
}

func TestInput_Error(t *testing.T) {
	input := NewInput("Name").SetError("Item name is required")

	if input.Error() != "Item name is required" {
		t.Errorf("Error() = %q", input.Error())
	}
	output := input.Render()
	if !strings.Contains(output, "Item name is required") {
		t.Error("Expected inline error in output")
	}

	input.SetError("")
	if input.Error() != "" {
		t.Error("Expected error cleared")
	}
}

func TestInput_Render_ShowsLabel(t *testing.T) {
	input := NewInput("Email")
	input.SetValue("barista@example.com")

	output := input.Render()
	if !strings.Contains(output, "Email") {
		t.Error("Expected label 'Email' in output")
	}
	if !strings.Contains(output, "barista@example.com") {
		t.Error("Expected value in output")
	}
}

func TestInput_Render_ShowsPlaceholder(t *testing.T) {
	input := NewInput("Name").SetPlaceholder("Enter name")

	output := input.Render()
	if !strings.Contains(output, "Enter name") {
		t.Error("Expected placeholder in output when unfocused and empty")
	}
}

func TestInput_Render_ShowsCursor(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hi")
	input.Focus(true)

	output := input.Render()
	if !strings.Contains(output, "_") {
		t.Error("Expected cursor '_' in focused input output")
	}
}

func TestSelect_BasicOperations(t *testing.T) {
	sel := NewSelect("UOM", []string{"pcs", "kg", "liter"})

	if sel.Value() != "pcs" {
		t.Errorf("Expected 'pcs', got %q", sel.Value())
	}
	if sel.SelectedIndex() != 0 {
		t.Errorf("Expected index 0, got %d", sel.SelectedIndex())
	}

	sel.SetSelected(2)
	if sel.Value() != "liter" {
		t.Errorf("Expected 'liter', got %q", sel.Value())
	}
}

func TestSelect_SelectValue(t *testing.T) {
	sel := NewSelect("UOM", []string{"pcs", "kg", "liter"})

	sel.SelectValue("kg")
	if sel.Value() != "kg" {
		t.Errorf("Expected 'kg', got %q", sel.Value())
	}

	// Unknown value leaves the selection alone
	sel.SelectValue("nope")
	if sel.Value() != "kg" {
		t.Errorf("Expected 'kg' after unknown SelectValue, got %q", sel.Value())
	}
}

func TestSelect_SetOptions_ClampsSelection(t *testing.T) {
	sel := NewSelect("UOM", []string{"g", "kg", "liter"})
	sel.SetSelected(2)

	sel.SetOptions([]string{"g", "kg"})
	if sel.SelectedIndex() != 1 {
		t.Errorf("Expected clamped index 1, got %d", sel.SelectedIndex())
	}
}

func TestSelect_HandleKey(t *testing.T) {
	sel := NewSelect("UOM", []string{"pcs", "kg", "liter"})
	sel.Focus(true)

	sel.HandleKey("right")
	if sel.Value() != "kg" {
		t.Errorf("Expected 'kg', got %q", sel.Value())
	}

	sel.HandleKey("right")
	sel.HandleKey("right") // can't move beyond last
	if sel.Value() != "liter" {
		t.Errorf("Expected 'liter', got %q", sel.Value())
	}

	sel.HandleKey("left")
	if sel.Value() != "kg" {
		t.Errorf("Expected 'kg', got %q", sel.Value())
	}
}

func TestSelect_HandleKey_NotFocused(t *testing.T) {
	sel := NewSelect("UOM", []string{"pcs", "kg"})
	// Not focused

	sel.HandleKey("right")
	if sel.Value() != "pcs" {
		t.Errorf("Should not handle keys when not focused, got %q", sel.Value())
	}
}

func TestForm_BasicFlow(t *testing.T) {
	form := NewForm("Add Item")

	input1 := NewInput("Field1")
	input2 := NewInput("Field2")
	form.AddField(input1)
	form.AddField(input2)

	if form.IsSubmitted() {
		t.Error("Should not be submitted initially")
	}
	if form.IsCancelled() {
		t.Error("Should not be cancelled initially")
	}

	// First field should be focused
	if !input1.IsFocused() {
		t.Error("First field should be focused")
	}

	// Tab to next
	form.HandleKey("tab")
	if !input2.IsFocused() {
		t.Error("Second field should be focused after tab")
	}
	if input1.IsFocused() {
		t.Error("First field should not be focused after tab")
	}

	// Submit
	form.HandleKey("ctrl+s")
	if !form.IsSubmitted() {
		t.Error("Form should be submitted after Ctrl+S")
	}
}

func TestForm_EnterOnLastFieldSubmits(t *testing.T) {
	form := NewForm("Add Item")
	form.AddField(NewInput("First"))
	form.AddField(NewInput("Last"))

	// Enter on a non-last field advances
	form.HandleKey("enter")
	if form.IsSubmitted() {
		t.Error("Enter on first field should not submit")
	}
	if form.FocusedIndex() != 1 {
		t.Errorf("Expected focus on field 1, got %d", form.FocusedIndex())
	}

	form.HandleKey("enter")
	if !form.IsSubmitted() {
		t.Error("Enter on last field should submit")
	}
}

func TestForm_Cancel(t *testing.T) {
	form := NewForm("Add Item")
	form.AddField(NewInput("Field"))

	form.HandleKey("esc")
	if !form.IsCancelled() {
		t.Error("Form should be cancelled after Esc")
	}
}

func TestForm_ResetFlags(t *testing.T) {
	form := NewForm("Add Item")
	form.AddField(NewInput("Field"))

	form.HandleKey("ctrl+s")
	form.HandleKey("esc")
	form.ResetFlags()

	if form.IsSubmitted() || form.IsCancelled() {
		t.Error("Expected flags cleared after ResetFlags")
	}
}

func TestForm_SetError(t *testing.T) {
	form := NewForm("Add Item")
	form.AddField(NewInput("Field"))
	form.SetError("Something went wrong")

	output := form.Render()
	if !strings.Contains(output, "Something went wrong") {
		t.Error("Expected error message in form output")
	}
}

func TestForm_Render(t *testing.T) {
	form := NewForm("Add Item")
	form.AddField(NewInput("Name").SetValue("Arabica"))

	output := form.Render()
	if !strings.Contains(output, "Add Item") {
		t.Error("Expected title in form output")
	}
	if !strings.Contains(output, "Name") {
		t.Error("Expected field label in form output")
	}
}
