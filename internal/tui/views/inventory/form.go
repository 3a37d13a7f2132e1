package inventory

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

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

// Form is the add/edit form for an inventory item.
type Form struct {
	mode FormMode
	id   uint

	name  *components.Input
	qty   *components.Input
	uom   *components.Select
	price *components.Input
	form  *components.Form
}

// NewForm creates an empty form.
func NewForm(mode FormMode) *Form {
	title := "ADD INVENTORY ITEM"
	if mode == FormModeEdit {
		title = "EDIT INVENTORY ITEM"
	}

	units := models.Units()
	options := make([]string, len(units))
	for i, u := range units {
		options[i] = string(u)
	}

	f := &Form{
		mode:  mode,
		name:  components.NewInput("Item name").SetRequired(true).SetWidth(28),
		qty:   components.NewInput("Quantity").SetRequired(true).SetNumeric(true).SetWidth(12),
		uom:   components.NewSelect("UOM", options),
		price: components.NewInput("Price/qty").SetRequired(true).SetNumeric(true).SetWidth(12),
	}

	f.form = components.NewForm(title).
		AddField(f.name).
		AddField(f.qty).
		AddField(f.uom).
		AddField(f.price)

	return f
}

// SetItem pre-fills the form from an existing item.
func (f *Form) SetItem(item models.InventoryItem) {
	f.id = item.ID
	f.name.SetValue(item.ItemName)
	f.qty.SetValue(strconv.Itoa(item.Quantity))
	f.uom.SelectValue(string(item.UOM))
	f.price.SetValue(strconv.Itoa(item.PricePerQty))
}

// HandleKey forwards a key press to the form.
func (f *Form) HandleKey(key string) {
	f.form.HandleKey(key)
}

// IsCancelled reports whether the user cancelled.
func (f *Form) IsCancelled() bool {
	return f.form.IsCancelled()
}

// IsSubmitted reports whether the user submitted.
func (f *Form) IsSubmitted() bool {
	return f.form.IsSubmitted()
}

// input assembles the payload from the current field values.
func (f *Form) input() models.InventoryInput {
	qty, _ := strconv.Atoi(f.qty.Value())
	price, _ := strconv.Atoi(f.price.Value())
	return models.InventoryInput{
		ItemName:    f.name.Value(),
		Quantity:    qty,
		UOM:         f.uom.Value(),
		PricePerQty: price,
	}
}

// Save validates the input and, if it is clean, issues the create or
// update. A nil command means validation failed and the form stays open
// with inline errors.
func (f *Form) Save(client *api.Client) tea.Cmd {
	in := f.input()

	errs := in.Validate()
	f.name.SetError(errs["item_name"])
	f.qty.SetError(errs["quantity"])
	f.uom.SetError(errs["uom"])
	f.price.SetError(errs["price_per_qty"])

	// Clear the submit flag in every case; if it stayed set while the
	// request was in flight, the next key press would issue a second one.
	f.form.ResetFlags()
	if len(errs) > 0 {
		return nil
	}

	mode, id := f.mode, f.id
	return func() tea.Msg {
		var (
			n   api.Notice
			err error
		)
		if mode == FormModeEdit {
			n, err = client.UpdateInventory(context.Background(), id, in)
		} else {
			n, err = client.CreateInventory(context.Background(), in)
		}
		return SavedMsg{Notice: n, Err: err}
	}
}

// Render renders the form.
func (f *Form) Render() string {
	return f.form.Render()
}
