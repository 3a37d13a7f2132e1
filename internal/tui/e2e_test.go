package tui

import (
	"bytes"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/brewdesk/brewdesk/internal/models"
)

// screenBuffers accumulates everything read from each TestModel's output.
// teatest's Output() is a one-shot stream, so without this, consecutive
// waitFor calls would each consume the frames the previous call read and a
// second wait for text already on screen would time out.
var screenBuffers = map[*teatest.TestModel]*bytes.Buffer{}

// waitFor waits until text has appeared in the model's rendered output,
// with a standard timeout.
func waitFor(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	buf, ok := screenBuffers[tm]
	if !ok {
		buf = &bytes.Buffer{}
		screenBuffers[tm] = buf
		t.Cleanup(func() { delete(screenBuffers, tm) })
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := io.Copy(buf, tm.Output()); err != nil {
			t.Fatalf("waitFor: reading output: %v", err)
		}
		if bytes.Contains(buf.Bytes(), []byte(text)) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("waitFor: %q not found after 5s. Output:\n%s", text, buf.String())
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// --- End-to-end tests ---
// These launch the real Bubble Tea program in a headless virtual terminal,
// send actual keystrokes, and assert on the rendered screen output.

func TestE2E_SignInOnStartup(t *testing.T) {
	app, _ := newTestApp(t, newBackend(t), "")
	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "SIGN IN")
}

func TestE2E_MagicLinkFlow(t *testing.T) {
	backend := newBackend(t)
	backend.MagicTokens["tok-1"] = true
	app, _ := newTestApp(t, backend, "tok-1")

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	// Token exchange lands on the home screen with a success toast.
	waitFor(t, tm, "Authentication successful")
	waitFor(t, tm, "Welcome back")
}

func TestE2E_HomeWhenAuthenticated(t *testing.T) {
	app, store := newTestApp(t, newBackend(t), "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "Welcome back")
}

func TestE2E_InventoryList(t *testing.T) {
	backend := newBackend(t)
	backend.AddItem("Arabica beans", 5, models.UnitKg, 120000)
	app, store := newTestApp(t, backend, "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "Welcome back")

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "INVENTORY")
	waitFor(t, tm, "Arabica beans")
}

func TestE2E_InventoryEmptyList(t *testing.T) {
	app, store := newTestApp(t, newBackend(t), "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("INVENTORY")) &&
			bytes.Contains(bts, []byte("No inventory items"))
	}, teatest.WithDuration(5*time.Second))
}

func TestE2E_InventorySearchNarrows(t *testing.T) {
	backend := newBackend(t)
	backend.AddItem("Arabica beans", 5, models.UnitKg, 120000)
	backend.AddItem("Whole milk", 12, models.UnitLiter, 18000)
	app, store := newTestApp(t, backend, "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "Whole milk")

	// Live search refilters as each rune arrives. The footer total drops
	// from 2 to 1 once the filter applies.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	waitFor(t, tm, "SEARCH")
	tm.Type("milk")
	waitFor(t, tm, "1 total")
}

func TestE2E_InventoryAddItem(t *testing.T) {
	backend := newBackend(t)
	app, store := newTestApp(t, backend, "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "No inventory items")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	waitFor(t, tm, "ADD INVENTORY ITEM")

	tm.Type("Cocoa powder")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("2")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyRight}) // pcs -> kg
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("90000")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	waitFor(t, tm, "Inventory item added successfully")
	waitFor(t, tm, "Cocoa powder")
}

func TestE2E_InventoryDeleteItem(t *testing.T) {
	backend := newBackend(t)
	backend.AddItem("Arabica beans", 5, models.UnitKg, 120000)
	app, store := newTestApp(t, backend, "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "Arabica beans")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	waitFor(t, tm, "Delete \"Arabica beans\"?")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	waitFor(t, tm, "Inventory item deleted successfully")
}

func TestE2E_RecipesList(t *testing.T) {
	backend := newBackend(t)
	beans := 18.0
	backend.AddItem("Arabica beans", 5, models.UnitKg, 120000)
	backend.AddRecipe(10, map[string]models.Measurement{
		"Arabica beans": {Amount: &beans, Unit: "g"},
	})
	app, store := newTestApp(t, backend, "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	tm.Send(tea.KeyMsg{Type: tea.KeyF4})
	waitFor(t, tm, "RECIPES")
	waitFor(t, tm, "IC-")
}

func TestE2E_SignOut(t *testing.T) {
	app, store := newTestApp(t, newBackend(t), "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "Welcome back")

	tm.Send(tea.KeyMsg{Type: tea.KeyF9})
	waitFor(t, tm, "Signed out")
	waitFor(t, tm, "SIGN IN")
}

func TestE2E_QuitFlow(t *testing.T) {
	app, store := newTestApp(t, newBackend(t), "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))

	waitFor(t, tm, "Welcome back")

	tm.Send(tea.KeyMsg{Type: tea.KeyF10})
	waitFor(t, tm, "CONFIRM EXIT")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	m := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	got, ok := m.(*App)
	if !ok {
		t.Fatal("expected *App final model")
	}
	if !got.quitting {
		t.Error("expected app to be quitting")
	}
}

func TestE2E_QuitCancel(t *testing.T) {
	app, store := newTestApp(t, newBackend(t), "")
	signIn(t, store)

	tm := teatest.NewTestModel(t, app,
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "Welcome back")

	tm.Send(tea.KeyMsg{Type: tea.KeyF10})
	waitFor(t, tm, "CONFIRM EXIT")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	// Still responsive after cancelling.
	tm.Send(tea.KeyMsg{Type: tea.KeyF1})
	waitFor(t, tm, "HELP")
}
