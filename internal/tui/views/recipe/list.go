// Package recipe implements the recipe management screen.
package recipe

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

// InventoryLoadedMsg carries the full inventory for the ingredient picker.
type InventoryLoadedMsg struct {
	Items []models.InventoryItem
	Err   error
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
)

// View is the recipe screen: a paginated table with add/edit, live search
// and export. Recipes are never deleted; they carry costing history.
type View struct {
	client    *api.Client
	exportDir string

	list  *listview.Model[models.Recipe]
	table *components.Table
	form  *Form

	inventory []models.InventoryItem

	mode        mode
	saving      bool
	searchMode  bool
	searchInput string
}

// NewView creates the recipe view.
func NewView(client *api.Client, pageSize int) *View {
	fetch := func(ctx context.Context, page, limit int, search string) (listview.Page[models.Recipe], error) {
		p, err := client.ListRecipes(ctx, api.ListParams{Page: page, Limit: limit, Search: search})
		if err != nil {
			return listview.Page[models.Recipe]{}, err
		}
		return listview.Page[models.Recipe]{Items: p.Recipes, TotalItems: p.TotalItems}, nil
	}

	table := components.NewTable([]components.Column{
		{Title: "ID", Width: 5, Align: lipgloss.Right},
		{Title: "SKU", Width: 18},
		{Title: "CUPS", Width: 6, Align: lipgloss.Right},
		{Title: "INGREDIENTS", Width: 12, Align: lipgloss.Right},
		{Title: "COGS", Width: 12, Align: lipgloss.Right},
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

// Activate fetches the recipe page and the full inventory for the
// ingredient picker in parallel.
func (v *View) Activate() tea.Cmd {
	return tea.Batch(v.list.Reload(), v.fetchInventory())
}

func (v *View) fetchInventory() tea.Cmd {
	client := v.client
	return func() tea.Msg {
		// One oversized page; the picker needs every item, not the
		// server's default page of ten.
		p, err := client.ListInventory(context.Background(), api.ListParams{Limit: 1000})
		if err != nil {
			return InventoryLoadedMsg{Err: err}
		}
		return InventoryLoadedMsg{Items: p.Items}
	}
}

// CapturesInput reports whether the view currently consumes all key
// presses.
func (v *View) CapturesInput() bool {
	return v.mode == modeForm || v.searchMode
}

// ApplyResult folds a fetch result into the view. Stale results are
// dropped.
func (v *View) ApplyResult(msg listview.ResultMsg[models.Recipe]) tea.Cmd {
	if !v.list.Apply(msg) {
		return nil
	}
	rows := make([][]string, 0, len(v.list.Items()))
	for _, r := range v.list.Items() {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.SKU,
			strconv.Itoa(r.NumberOfCups),
			strconv.Itoa(len(r.Ingredients)),
			util.FormatFloat(r.COGS),
			util.FormatDateTime(r.UpdatedAt),
		})
	}
	v.table.SetRows(rows)
	v.table.SetPagination(v.list.Page()+1, v.list.TotalPages(), v.list.TotalItems())
	return v.list.RetreatIfEmpty()
}

// HandleInventoryLoaded stores the picker source and forwards it to an
// open form.
func (v *View) HandleInventoryLoaded(msg InventoryLoadedMsg) {
	if msg.Err != nil {
		return
	}
	v.inventory = msg.Items
	if v.form != nil {
		v.form.SetInventory(msg.Items)
	}
}

// Selected returns the highlighted recipe, if any.
func (v *View) Selected() *models.Recipe {
	r, ok := v.list.Item(v.table.Selected())
	if !ok {
		return nil
	}
	return &r
}

// HandleKey processes a key press.
func (v *View) HandleKey(key string) tea.Cmd {
	if v.mode == modeForm {
		return v.handleFormKey(key)
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
		v.form.SetInventory(v.inventory)
		v.mode = modeForm
		return v.fetchInventory()
	case "e", "enter":
		if r := v.Selected(); r != nil {
			v.form = NewForm(FormModeEdit)
			v.form.SetRecipe(*r)
			v.form.SetInventory(v.inventory)
			v.mode = modeForm
			return v.fetchInventory()
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
			v.form.ResetFlags()
			return nil
		}
		cmd := v.form.Save(v.client)
		v.saving = cmd != nil
		return cmd
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

func (v *View) exportCmd() tea.Cmd {
	recipes := v.list.Items()
	dir := v.exportDir
	return func() tea.Msg {
		path, err := export.Recipes(dir, recipes, time.Now())
		return ExportedMsg{Path: path, Err: err}
	}
}

// Render renders the recipe screen.
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

	b.WriteString(titleStyle.Render("═══ RECIPES ═══"))
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
		b.WriteString(mutedStyle.Render("Loading recipes..."))
	case listview.LoadError:
		b.WriteString(errStyle.Render(api.ErrorNotice(v.list.Err()).Text))
	default:
		if v.table.Empty() {
			b.WriteString(mutedStyle.Render("No recipes."))
		} else {
			b.WriteString(v.table.Render())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("a:Add  e:Edit  /:Search  x:Export  PgUp/PgDn:Page"))

	return b.String()
}
