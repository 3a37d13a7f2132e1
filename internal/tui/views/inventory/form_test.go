package inventory

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/models"
	"github.com/brewdesk/brewdesk/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testClient(backend *testutil.Backend) *api.Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.New(backend.URL(), staticToken(testutil.AccessToken), logger)
}

func typeInto(f *Form, s string) {
	for _, r := range s {
		f.HandleKey(string(r))
	}
}

func TestFormValidationErrors(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	f := NewForm(FormModeAdd)

	// Empty form: every field fails, no command is issued.
	cmd := f.Save(testClient(backend))
	if cmd != nil {
		t.Fatal("Save on an empty form issued a command")
	}

	output := f.Render()
	for _, want := range []string{
		"Item name is required",
		"Quantity must be greater than 0",
		"Price must be greater than 0",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output", want)
		}
	}

	// Submit flag is cleared so the form can be submitted again.
	f.HandleKey("ctrl+s")
	if !f.IsSubmitted() {
		t.Error("Expected form submittable after failed save")
	}
}

func TestFormSave(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	f := NewForm(FormModeAdd)
	typeInto(f, "Cocoa powder")
	f.HandleKey("tab")
	typeInto(f, "2")
	f.HandleKey("tab")
	f.HandleKey("right") // pcs -> kg
	f.HandleKey("tab")
	typeInto(f, "90000")

	cmd := f.Save(testClient(backend))
	if cmd == nil {
		t.Fatal("Save on a valid form returned nil")
	}

	msg := cmd().(SavedMsg)
	if msg.Err != nil {
		t.Fatalf("save failed: %v", msg.Err)
	}
	if msg.Notice.Text != "Inventory item added successfully" {
		t.Errorf("notice = %q", msg.Notice.Text)
	}

	items := backend.Items()
	if len(items) != 1 {
		t.Fatalf("backend has %d items, want 1", len(items))
	}
	it := items[0]
	if it.ItemName != "Cocoa powder" || it.Quantity != 2 || it.UOM != models.UnitKg || it.PricePerQty != 90000 {
		t.Errorf("stored item = %+v", it)
	}
}

func TestFormEdit(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	seeded := backend.AddItem("Arabica beans", 5, models.UnitKg, 120000)

	f := NewForm(FormModeEdit)
	f.SetItem(seeded)

	// Bump the quantity: clear the field and retype.
	f.HandleKey("tab")
	f.HandleKey("backspace")
	typeInto(f, "8")

	cmd := f.Save(testClient(backend))
	if cmd == nil {
		t.Fatal("Save on a prefilled form returned nil")
	}
	msg := cmd().(SavedMsg)
	if msg.Err != nil {
		t.Fatalf("save failed: %v", msg.Err)
	}
	if msg.Notice.Text != "Inventory item updated successfully" {
		t.Errorf("notice = %q", msg.Notice.Text)
	}
	if got := backend.Items()[0].Quantity; got != 8 {
		t.Errorf("stored quantity = %d, want 8", got)
	}
}

func TestFormNumericFields(t *testing.T) {
	f := NewForm(FormModeAdd)

	f.HandleKey("tab") // quantity
	typeInto(f, "1a2")
	f.HandleKey("tab") // uom
	f.HandleKey("tab") // price
	typeInto(f, "x50")

	in := f.input()
	if in.Quantity != 12 {
		t.Errorf("Quantity = %d, want 12 (letters filtered)", in.Quantity)
	}
	if in.PricePerQty != 50 {
		t.Errorf("PricePerQty = %d, want 50 (letters filtered)", in.PricePerQty)
	}
}
