package inventory

import (
	"testing"

	"github.com/brewdesk/brewdesk/internal/testutil"
)

func fillAddForm(v *View, name, qty, price string) {
	v.HandleKey("a")
	for _, r := range name {
		v.HandleKey(string(r))
	}
	v.HandleKey("tab")
	for _, r := range qty {
		v.HandleKey(string(r))
	}
	v.HandleKey("tab") // uom keeps its default
	v.HandleKey("tab")
	for _, r := range price {
		v.HandleKey(string(r))
	}
}

func TestDoubleSubmitIssuesOneRequest(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	v := NewView(testClient(backend), 10)
	fillAddForm(v, "Sugar", "5", "2")

	first := v.HandleKey("ctrl+s")
	if first == nil {
		t.Fatal("submit did not issue a save command")
	}
	// The save has not answered yet; a second submit must be a no-op.
	if second := v.HandleKey("ctrl+s"); second != nil {
		t.Fatal("second submit issued a command while a save was in flight")
	}

	msg := first().(SavedMsg)
	if msg.Err != nil {
		t.Fatalf("save failed: %v", msg.Err)
	}
	v.HandleSaved(msg)

	if got := len(backend.Items()); got != 1 {
		t.Fatalf("backend has %d items, want 1", got)
	}

	// After the response the view accepts a fresh submit.
	fillAddForm(v, "Salt", "1", "1")
	if cmd := v.HandleKey("ctrl+s"); cmd == nil {
		t.Fatal("submit after a completed save did not issue a command")
	}
}
