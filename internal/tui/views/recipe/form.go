package recipe

import (
	"context"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/models"
	"github.com/brewdesk/brewdesk/internal/tui/components"
)

// FormMode indicates whether the form adds or edits.
type FormMode int

const (
	FormModeAdd FormMode = iota
	FormModeEdit
)

// SavedMsg is the result of a create or update.
type SavedMsg struct {
	Notice api.Notice
	Err    error
}

// ingredientRow is one selected ingredient: a fixed name, an amount input
// and a unit picker restricted to the compatibility group of the source
// item's unit.
type ingredientRow struct {
	name   string
	amount *components.Input
	unit   *components.Select
}

// Form is the add/edit form for a recipe. Ingredients are picked from the
// current inventory; each inventory item can appear at most once.
type Form struct {
	mode FormMode
	id   uint

	cups *components.Input
	rows []*ingredientRow

	// Picker state
	inventory   []models.InventoryItem
	pickerOpen  bool
	pickerIndex int

	// Focus: 0 is the cups field, then rows at 1+2*i (amount) and 2+2*i
	// (unit).
	focusIndex int

	ingredientsErr string
	submitted      bool
	cancelled      bool
}

// NewForm creates an empty form.
func NewForm(mode FormMode) *Form {
	cups := components.NewInput("Cups").SetRequired(true).SetNumeric(true).SetWidth(10)
	cups.Focus(true)
	return &Form{
		mode: mode,
		cups: cups,
	}
}

// SetRecipe pre-fills the form from an existing recipe. Ingredient rows
// are ordered by name for a stable layout.
func (f *Form) SetRecipe(r models.Recipe) {
	f.id = r.ID
	f.cups.SetValue(strconv.Itoa(r.NumberOfCups))

	names := make([]string, 0, len(r.Ingredients))
	for name := range r.Ingredients {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := r.Ingredients[name]
		row := f.newRow(name, models.Unit(m.Unit))
		if m.Amount != nil {
			row.amount.SetValue(strconv.FormatFloat(*m.Amount, 'f', -1, 64))
		}
		f.rows = append(f.rows, row)
	}
}

// SetInventory supplies the picker source. Unit groups of existing rows
// are not touched; the picker only offers names not yet used.
func (f *Form) SetInventory(items []models.InventoryItem) {
	f.inventory = items
}

// newRow builds an ingredient row seeded with the given unit. The unit
// select offers only units compatible with the seed.
func (f *Form) newRow(name string, seed models.Unit) *ingredientRow {
	group := models.UnitGroup(seed)
	options := make([]string, len(group))
	for i, u := range group {
		options[i] = string(u)
	}
	unit := components.NewSelect("", options)
	unit.SelectValue(string(seed))

	amount := components.NewInput(name).SetRequired(true).SetWidth(10)

	return &ingredientRow{
		name:   name,
		amount: amount,
		unit:   unit,
	}
}

// available lists inventory items not already used as an ingredient.
func (f *Form) available() []models.InventoryItem {
	used := make(map[string]bool, len(f.rows))
	for _, row := range f.rows {
		used[row.name] = true
	}
	var out []models.InventoryItem
	for _, it := range f.inventory {
		if !used[it.ItemName] {
			out = append(out, it)
		}
	}
	return out
}

func (f *Form) fieldCount() int {
	return 1 + 2*len(f.rows)
}

func (f *Form) applyFocus() {
	f.cups.Focus(f.focusIndex == 0)
	for i, row := range f.rows {
		row.amount.Focus(f.focusIndex == 1+2*i)
		row.unit.Focus(f.focusIndex == 2+2*i)
	}
}

func (f *Form) moveFocus(delta int) {
	n := f.fieldCount()
	f.focusIndex = (f.focusIndex + delta + n) % n
	f.applyFocus()
}

// focusedRow returns the row owning the focused field, or -1 for the cups
// field.
func (f *Form) focusedRow() int {
	if f.focusIndex == 0 {
		return -1
	}
	return (f.focusIndex - 1) / 2
}

// HandleKey processes a key press.
func (f *Form) HandleKey(key string) {
	if f.pickerOpen {
		f.handlePickerKey(key)
		return
	}

	switch key {
	case "esc":
		f.cancelled = true
	case "ctrl+s":
		f.submitted = true
	case "tab", "down":
		f.moveFocus(1)
	case "shift+tab", "up":
		f.moveFocus(-1)
	case "ctrl+n":
		if len(f.available()) > 0 {
			f.pickerOpen = true
			f.pickerIndex = 0
		}
	case "ctrl+r":
		if i := f.focusedRow(); i >= 0 {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			if f.focusIndex >= f.fieldCount() {
				f.focusIndex = f.fieldCount() - 1
			}
			f.applyFocus()
		}
	default:
		f.handleFieldKey(key)
	}
}

func (f *Form) handleFieldKey(key string) {
	if f.focusIndex == 0 {
		f.cups.HandleKey(key)
		return
	}
	i := f.focusedRow()
	if i < 0 || i >= len(f.rows) {
		return
	}
	row := f.rows[i]
	if f.focusIndex == 1+2*i {
		// Amounts may be fractional, so the plain input is filtered here
		// to digits and a single decimal point.
		if len(key) == 1 {
			c := key[0]
			if (c < '0' || c > '9') && !(c == '.' && !strings.Contains(row.amount.Value(), ".")) {
				return
			}
		}
		row.amount.HandleKey(key)
	} else {
		row.unit.HandleKey(key)
	}
}

func (f *Form) handlePickerKey(key string) {
	avail := f.available()
	switch key {
	case "esc":
		f.pickerOpen = false
	case "up", "k":
		if f.pickerIndex > 0 {
			f.pickerIndex--
		}
	case "down", "j":
		if f.pickerIndex < len(avail)-1 {
			f.pickerIndex++
		}
	case "enter":
		if f.pickerIndex >= 0 && f.pickerIndex < len(avail) {
			item := avail[f.pickerIndex]
			f.rows = append(f.rows, f.newRow(item.ItemName, item.UOM))
			f.ingredientsErr = ""
			f.focusIndex = 1 + 2*(len(f.rows)-1)
			f.applyFocus()
		}
		f.pickerOpen = false
	}
}

// IsCancelled reports whether the user cancelled.
func (f *Form) IsCancelled() bool {
	return f.cancelled
}

// IsSubmitted reports whether the user submitted.
func (f *Form) IsSubmitted() bool {
	return f.submitted
}

// ResetFlags clears the submitted and cancelled flags.
func (f *Form) ResetFlags() {
	f.submitted = false
	f.cancelled = false
}

// input assembles the payload from the current field values.
func (f *Form) input() models.RecipeInput {
	cups, _ := strconv.Atoi(f.cups.Value())
	ingredients := make(map[string]models.Measurement, len(f.rows))
	for _, row := range f.rows {
		amount, err := strconv.ParseFloat(row.amount.Value(), 64)
		var amountPtr *float64
		if err == nil {
			amountPtr = &amount
		}
		ingredients[row.name] = models.Measurement{
			Amount: amountPtr,
			Unit:   row.unit.Value(),
		}
	}
	return models.RecipeInput{
		NumberOfCups: cups,
		Ingredients:  ingredients,
	}
}

// Save validates the input and, if it is clean, issues the create or
// update. A nil command means validation failed and the form stays open
// with inline errors.
func (f *Form) Save(client *api.Client) tea.Cmd {
	in := f.input()

	errs := in.Validate()
	f.cups.SetError(errs["number_of_cups"])
	f.ingredientsErr = errs["ingredients"]

	rowsOK := true
	for _, row := range f.rows {
		amount, err := strconv.ParseFloat(row.amount.Value(), 64)
		if err != nil || amount <= 0 {
			row.amount.SetError("Amount must be greater than 0")
			rowsOK = false
		} else {
			row.amount.SetError("")
		}
	}

	// Clear the submit flag in every case; if it stayed set while the
	// request was in flight, the next key press would issue a second one.
	f.ResetFlags()
	if len(errs) > 0 || !rowsOK {
		return nil
	}

	mode, id := f.mode, f.id
	return func() tea.Msg {
		var (
			n   api.Notice
			err error
		)
		if mode == FormModeEdit {
			n, err = client.UpdateRecipe(context.Background(), id, in)
		} else {
			n, err = client.CreateRecipe(context.Background(), in)
		}
		return SavedMsg{Notice: n, Err: err}
	}
}

// Render renders the form.
func (f *Form) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#66FF66")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#006600"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)

	title := "ADD RECIPE"
	if f.mode == FormModeEdit {
		title = "EDIT RECIPE"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("=== " + title + " ==="))
	b.WriteString("\n\n")

	b.WriteString(f.cups.Render())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("INGREDIENTS"))
	b.WriteString("\n")
	if len(f.rows) == 0 {
		b.WriteString(mutedStyle.Render("  (none yet, Ctrl+N to add)"))
		b.WriteString("\n")
	}
	for _, row := range f.rows {
		b.WriteString("  ")
		b.WriteString(row.amount.Render())
		b.WriteString("  ")
		b.WriteString(row.unit.Render())
		b.WriteString("\n")
	}
	if f.ingredientsErr != "" {
		b.WriteString(errStyle.Render("  " + f.ingredientsErr))
		b.WriteString("\n")
	}

	if f.pickerOpen {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("ADD INGREDIENT"))
		b.WriteString("\n")
		for i, it := range f.available() {
			line := "  " + it.ItemName + " (" + string(it.UOM) + ")"
			if i == f.pickerIndex {
				b.WriteString(selStyle.Render("> " + line[2:]))
			} else {
				b.WriteString(mutedStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Ctrl+N:Add ingredient  Ctrl+R:Remove  Tab:Next  Ctrl+S:Save  Esc:Cancel"))

	return b.String()
}
