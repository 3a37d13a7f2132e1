// Package inventory implements the inventory management screen.
package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/export"
	"github.com/brewdesk/brewdesk/internal/models"
	"github.com/brewdesk/brewdesk/internal/tui/components"
	"github.com/brewdesk/brewdesk/internal/tui/views/listview"
	"github.com/brewdesk/brewdesk/internal/util"
)

// DeletedMsg is the result of a delete.
type DeletedMsg struct {
	Notice api.Notice
	Err    error
}

// ExportedMsg is the result of an export.
type ExportedMsg struct {
	Path string
	Err  error
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// View is the inventory screen: a paginated table with add/edit/delete,
// live search and export.
type View struct {
	client    *api.Client
	exportDir string

	list  *listview.Model[models.InventoryItem]
	table *components.Table
	form  *Form

	mode        mode
	saving      bool
	searchMode  bool
	searchInput string
	deleting    *models.InventoryItem
}

// NewView creates the inventory view.
func NewView(client *api.Client, pageSize int) *View {
	fetch := func(ctx context.Context, page, limit int, search string) (listview.Page[models.InventoryItem], error) {
		p, err := client.ListInventory(ctx, api.ListParams{Page: page, Limit: limit, Search: search})
		if err != nil {
			return listview.Page[models.InventoryItem]{}, err
		}
		return listview.Page[models.InventoryItem]{Items: p.Items, TotalItems: p.TotalItems}, nil
	}

	table := components.NewTable([]components.Column{
		{Title: "ID", Width: 5, Align: lipgloss.Right},
		{Title: "ITEM NAME", Width: 24},
		{Title: "QTY", Width: 8, Align: lipgloss.Right},
		{Title: "UOM", Width: 6},
		{Title: "PRICE/QTY", Width: 12, Align: lipgloss.Right},
		{Title: "UPDATED", Width: 16},
	})
	table.SetVisibleRows(pageSize)
	table.Focus(true)

	return &View{
		client:    client,
		exportDir: export.DefaultDir(),
		list:      listview.New(fetch, pageSize),
		table:     table,
	}
}

// SetExportDir overrides the export target directory.
func (v *View) SetExportDir(dir string) {
	v.exportDir = dir
}

// Activate is called when the module gains focus; it fetches the first
// page on first entry and refreshes otherwise.
func (v *View) Activate() tea.Cmd {
	return v.list.Reload()
}

// CapturesInput reports whether the view currently consumes all key
// presses (form or search entry).
func (v *View) CapturesInput() bool {
	return v.mode == modeForm || v.searchMode
}

// ApplyResult folds a fetch result into the view. Stale results are
// dropped. The returned command, if any, refetches after a delete emptied
// the current page.
func (v *View) ApplyResult(msg listview.ResultMsg[models.InventoryItem]) tea.Cmd {
	if !v.list.Apply(msg) {
		return nil
	}
	rows := make([][]string, 0, len(v.list.Items()))
	for _, it := range v.list.Items() {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(it.ID), 10),
			it.ItemName,
			util.GroupDigits(it.Quantity),
			string(it.UOM),
			util.FormatMoney(it.PricePerQty),
			util.FormatDateTime(it.UpdatedAt),
		})
	}
	v.table.SetRows(rows)
	v.table.SetPagination(v.list.Page()+1, v.list.TotalPages(), v.list.TotalItems())
	return v.list.RetreatIfEmpty()
}

// Selected returns the highlighted item, if any.
func (v *View) Selected() *models.InventoryItem {
	item, ok := v.list.Item(v.table.Selected())
	if !ok {
		return nil
	}
	return &item
}

// HandleKey processes a key press.
func (v *View) HandleKey(key string) tea.Cmd {
	switch v.mode {
	case modeForm:
		return v.handleFormKey(key)
	case modeConfirmDelete:
		return v.handleConfirmKey(key)
	}
	if v.searchMode {
		return v.handleSearchKey(key)
	}
	return v.handleListKey(key)
}

func (v *View) handleListKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		v.table.MoveUp()
	case "down", "j":
		v.table.MoveDown()
	case "pgup", "ctrl+u":
		return v.list.PrevPage()
	case "pgdown", "ctrl+d":
		return v.list.NextPage()
	case "a":
		v.form = NewForm(FormModeAdd)
		v.mode = modeForm
	case "e", "enter":
		if item := v.Selected(); item != nil {
			v.form = NewForm(FormModeEdit)
			v.form.SetItem(*item)
			v.mode = modeForm
		}
	case "d":
		if item := v.Selected(); item != nil {
			v.deleting = item
			v.mode = modeConfirmDelete
		}
	case "/", "s":
		v.searchMode = true
		v.searchInput = v.list.Search()
	case "r":
		return v.list.Reload()
	case "x":
		return v.exportCmd()
	}
	return nil
}

func (v *View) handleFormKey(key string) tea.Cmd {
	v.form.HandleKey(key)

	if v.form.IsCancelled() {
		v.form = nil
		v.mode = modeList
		return nil
	}
	if v.form.IsSubmitted() {
		// One request per submit: further submits are ignored until the
		// in-flight save answers.
		if v.saving {
			v.form.form.ResetFlags()
			return nil
		}
		cmd := v.form.Save(v.client)
		v.saving = cmd != nil
		return cmd
	}
	return nil
}

func (v *View) handleConfirmKey(key string) tea.Cmd {
	switch key {
	case "y", "Y", "enter":
		item := v.deleting
		v.deleting = nil
		v.mode = modeList
		if item == nil {
			return nil
		}
		client := v.client
		id := item.ID
		return func() tea.Msg {
			n, err := client.DeleteInventory(context.Background(), id)
			return DeletedMsg{Notice: n, Err: err}
		}
	case "n", "N", "esc":
		v.deleting = nil
		v.mode = modeList
	}
	return nil
}

func (v *View) handleSearchKey(key string) tea.Cmd {
	switch key {
	case "esc":
		v.searchMode = false
		v.searchInput = ""
		return v.list.SetSearch("")
	case "enter":
		v.searchMode = false
		return nil
	case "backspace":
		if len(v.searchInput) > 0 {
			v.searchInput = v.searchInput[:len(v.searchInput)-1]
			return v.list.SetSearch(v.searchInput)
		}
	default:
		if len(key) == 1 {
			v.searchInput += key
			return v.list.SetSearch(v.searchInput)
		}
	}
	return nil
}

// HandleSaved folds a save result into the view: the form closes on
// success and the list refreshes.
func (v *View) HandleSaved(msg SavedMsg) tea.Cmd {
	v.saving = false
	if msg.Err != nil {
		return nil
	}
	v.form = nil
	v.mode = modeList
	return v.list.Reload()
}

// HandleDeleted refreshes the list after a delete attempt.
func (v *View) HandleDeleted(msg DeletedMsg) tea.Cmd {
	return v.list.Reload()
}

func (v *View) exportCmd() tea.Cmd {
	items := v.list.Items()
	dir := v.exportDir
	return func() tea.Msg {
		path, err := export.Inventory(dir, items, time.Now())
		return ExportedMsg{Path: path, Err: err}
	}
}

// Render renders the inventory screen.
func (v *View) Render(width, height int) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#66FF66")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#006600"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#66FF66"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))

	if v.mode == modeForm && v.form != nil {
		return v.form.Render()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("═══ INVENTORY ═══"))
	b.WriteString("\n\n")

	if v.searchMode {
		b.WriteString(labelStyle.Render("SEARCH: "))
		b.WriteString(accentStyle.Render(v.searchInput + "_"))
		b.WriteString("\n\n")
	} else if v.list.Search() != "" {
		b.WriteString(labelStyle.Render("FILTER: "))
		b.WriteString(accentStyle.Render(v.list.Search()))
		b.WriteString("\n\n")
	}

	switch v.list.State() {
	case listview.Idle, listview.Loading:
		b.WriteString(mutedStyle.Render("Loading inventory..."))
	case listview.LoadError:
		b.WriteString(errStyle.Render(api.ErrorNotice(v.list.Err()).Text))
	default:
		if v.table.Empty() {
			b.WriteString(mutedStyle.Render("No inventory items."))
		} else {
			b.WriteString(v.table.Render())
		}
	}

	if v.mode == modeConfirmDelete && v.deleting != nil {
		b.WriteString("\n\n")
		b.WriteString(errStyle.Render("Delete \"" + v.deleting.ItemName + "\"? [Y]es [N]o"))
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("a:Add  e:Edit  d:Delete  /:Search  x:Export  PgUp/PgDn:Page"))

	return b.String()
}
