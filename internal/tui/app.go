package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/config"
	"github.com/brewdesk/brewdesk/internal/models"
	authview "github.com/brewdesk/brewdesk/internal/tui/views/auth"
	invview "github.com/brewdesk/brewdesk/internal/tui/views/inventory"
	"github.com/brewdesk/brewdesk/internal/tui/views/listview"
	recview "github.com/brewdesk/brewdesk/internal/tui/views/recipe"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// toastDuration is how long a notice stays on screen.
const toastDuration = 6 * time.Second

// redirectDelay is how long a failed magic-link screen is shown before
// returning to sign-in.
const redirectDelay = 3 * time.Second

// Module represents a view module in the application.
type Module string

const (
	ModuleSignIn    Module = "signin"
	ModuleMagicLink Module = "magiclink"
	ModuleHome      Module = "home"
	ModuleInventory Module = "inventory"
	ModuleRecipes   Module = "recipes"
	ModuleProducts  Module = "products"
	ModuleBlog      Module = "blog"
	ModuleHelp      Module = "help"
)

// SessionStore is the token persistence the app depends on. The sqlite
// store satisfies it in production; tests inject an in-memory one.
type SessionStore interface {
	SetToken(token string) error
	Token() string
	RemoveToken() error
	IsAuthenticated() bool
	Email() string
}

// toast is a transient notice shown under the header.
type toast struct {
	id     int
	notice api.Notice
}

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	client  *api.Client
	session SessionStore
	config  *config.Config
	logger  *slog.Logger

	// Views
	signInView    *authview.View
	inventoryView *invview.View
	recipeView    *recview.View

	// UI state
	theme       *Theme
	keys        KeyMap
	width       int
	height      int
	ready       bool
	quitting    bool
	showConfirm bool

	// Routing
	currentModule  Module
	previousModule Module

	// Magic-link consumption. Each token is consumed at most once, even
	// if the screen re-enters.
	pendingToken   string
	consumedTokens map[string]bool
	linkFailed     string

	// Toast bar
	toast     *toast
	lastToast int
}

// magicLinkMsg is the result of consuming a magic-link token.
type magicLinkMsg struct {
	token       string
	accessToken string
	notice      api.Notice
	err         error
}

// redirectMsg sends the user back to sign-in after a failed link.
type redirectMsg struct{}

// clearToastMsg expires a toast. The id guards against clearing a newer
// toast that replaced the expired one.
type clearToastMsg struct {
	id int
}

// New creates a new App instance. magicToken, if non-empty, is consumed on
// startup before any other routing.
func New(client *api.Client, session SessionStore, cfg *config.Config, logger *slog.Logger, magicToken string) *App {
	if logger == nil {
		logger = slog.Default()
	}

	pageSize := cfg.Display.PageSize

	return &App{
		client:         client,
		session:        session,
		config:         cfg,
		logger:         logger,
		signInView:     authview.NewView(client),
		inventoryView:  invview.NewView(client, pageSize),
		recipeView:     recview.NewView(client, pageSize),
		theme:          NewTheme(cfg.Display.ColorScheme),
		keys:           DefaultKeyMap(),
		currentModule:  ModuleSignIn,
		pendingToken:   magicToken,
		consumedTokens: map[string]bool{},
	}
}

// Init implements tea.Model. Routing order: a pending magic-link token is
// consumed first, then an existing session goes straight to home, and only
// otherwise does the sign-in screen show.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}

	switch {
	case a.pendingToken != "":
		a.currentModule = ModuleMagicLink
		cmds = append(cmds, a.consumeMagicLink(a.pendingToken))
	case a.session.IsAuthenticated():
		a.currentModule = ModuleHome
	default:
		a.currentModule = ModuleSignIn
	}

	return tea.Batch(cmds...)
}

// consumeMagicLink exchanges the token exactly once. A token already
// consumed in this process is ignored.
func (a *App) consumeMagicLink(token string) tea.Cmd {
	if a.consumedTokens[token] {
		return nil
	}
	a.consumedTokens[token] = true

	client := a.client
	return func() tea.Msg {
		access, n, err := client.ConsumeMagicLink(context.Background(), token)
		return magicLinkMsg{token: token, accessToken: access, notice: n, err: err}
	}
}

// showToast replaces the toast bar content and schedules its expiry.
func (a *App) showToast(n api.Notice) tea.Cmd {
	if n.Text == "" {
		return nil
	}
	a.lastToast++
	id := a.lastToast
	a.toast = &toast{id: id, notice: n}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// handleAPIError maps a request error to a toast. A 401 additionally
// clears the stored token and sends the user back to sign-in.
func (a *App) handleAPIError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if api.IsUnauthorized(err) {
		a.logger.Info("session rejected, signing out")
		_ = a.session.RemoveToken()
		a.signInView.Reset()
		a.currentModule = ModuleSignIn
		return a.showToast(api.Notice{Kind: api.NoticeError, Text: "Session expired. Sign in again."})
	}
	return a.showToast(api.ErrorNotice(err))
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case clearToastMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil

	case redirectMsg:
		if a.currentModule == ModuleMagicLink {
			a.linkFailed = ""
			a.signInView.Reset()
			a.currentModule = ModuleSignIn
		}
		return a, nil

	case magicLinkMsg:
		return a, a.handleMagicLink(msg)

	case authview.SubmittedMsg:
		a.signInView.HandleSubmitted(msg)
		if msg.Err != nil {
			return a, a.showToast(api.ErrorNotice(msg.Err))
		}
		return a, a.showToast(msg.Notice)

	case authview.LinkTokenMsg:
		if a.consumedTokens[msg.Token] {
			return a, a.showToast(api.Notice{Kind: api.NoticeWarning, Text: "This link was already used"})
		}
		a.currentModule = ModuleMagicLink
		a.linkFailed = ""
		return a, a.consumeMagicLink(msg.Token)

	case listview.ResultMsg[models.InventoryItem]:
		cmd := a.inventoryView.ApplyResult(msg)
		if msg.Err != nil {
			return a, a.handleAPIError(msg.Err)
		}
		return a, cmd

	case listview.ResultMsg[models.Recipe]:
		cmd := a.recipeView.ApplyResult(msg)
		if msg.Err != nil {
			return a, a.handleAPIError(msg.Err)
		}
		return a, cmd

	case recview.InventoryLoadedMsg:
		a.recipeView.HandleInventoryLoaded(msg)
		if msg.Err != nil {
			return a, a.handleAPIError(msg.Err)
		}
		return a, nil

	case invview.SavedMsg:
		cmd := a.inventoryView.HandleSaved(msg)
		if msg.Err != nil {
			return a, tea.Batch(cmd, a.handleAPIError(msg.Err))
		}
		return a, tea.Batch(cmd, a.showToast(msg.Notice))

	case invview.DeletedMsg:
		cmd := a.inventoryView.HandleDeleted(msg)
		if msg.Err != nil {
			return a, tea.Batch(cmd, a.handleAPIError(msg.Err))
		}
		return a, tea.Batch(cmd, a.showToast(msg.Notice))

	case recview.SavedMsg:
		cmd := a.recipeView.HandleSaved(msg)
		if msg.Err != nil {
			return a, tea.Batch(cmd, a.handleAPIError(msg.Err))
		}
		return a, tea.Batch(cmd, a.showToast(msg.Notice))

	case invview.ExportedMsg:
		if msg.Err != nil {
			return a, a.showToast(api.Notice{Kind: api.NoticeError, Text: "Export failed: " + msg.Err.Error()})
		}
		return a, a.showToast(api.Notice{Kind: api.NoticeSuccess, Text: "Exported to " + msg.Path})

	case recview.ExportedMsg:
		if msg.Err != nil {
			return a, a.showToast(api.Notice{Kind: api.NoticeError, Text: "Export failed: " + msg.Err.Error()})
		}
		return a, a.showToast(api.Notice{Kind: api.NoticeSuccess, Text: "Exported to " + msg.Path})
	}

	return a, nil
}

// handleMagicLink stores the access token on success; on failure it shows
// the error and schedules a redirect back to sign-in.
func (a *App) handleMagicLink(msg magicLinkMsg) tea.Cmd {
	if msg.err != nil {
		n := api.ErrorNotice(msg.err)
		a.linkFailed = n.Text
		a.logger.Warn("magic link rejected", "error", msg.err)
		return tea.Batch(
			a.showToast(n),
			tea.Tick(redirectDelay, func(time.Time) tea.Msg {
				return redirectMsg{}
			}),
		)
	}

	if err := a.session.SetToken(msg.accessToken); err != nil {
		a.logger.Error("persist token", "error", err)
		a.linkFailed = "Could not store session"
		return tea.Tick(redirectDelay, func(time.Time) tea.Msg {
			return redirectMsg{}
		})
	}

	a.linkFailed = ""
	a.currentModule = ModuleHome
	return a.showToast(msg.notice)
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Quit confirmation takes priority.
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.quitting = true
			return tea.Quit
		case "n", "N", "esc":
			a.showConfirm = false
		}
		return nil
	}

	// Ctrl+C always quits, even inside text entry.
	if msg.String() == "ctrl+c" {
		a.showConfirm = true
		return nil
	}

	// Sign-in and magic-link screens sit outside the authenticated shell.
	if a.currentModule == ModuleSignIn {
		if a.keys.F10.Matches(msg) {
			a.showConfirm = true
			return nil
		}
		return a.signInView.HandleKey(msg.String())
	}
	if a.currentModule == ModuleMagicLink {
		// Nothing to interact with while the token is in flight.
		return nil
	}

	// Views in text-entry mode consume everything.
	if a.capturesInput() {
		return a.routeModuleKey(msg)
	}

	if a.keys.IsQuit(msg) {
		a.showConfirm = true
		return nil
	}

	if a.keys.IsFunctionKey(msg) {
		return a.switchModule(a.keys.FunctionKeyModule(msg))
	}

	if a.keys.Back.Matches(msg) && a.currentModule == ModuleHelp && a.previousModule != "" {
		a.currentModule = a.previousModule
		a.previousModule = ""
		return nil
	}

	return a.routeModuleKey(msg)
}

func (a *App) capturesInput() bool {
	switch a.currentModule {
	case ModuleInventory:
		return a.inventoryView.CapturesInput()
	case ModuleRecipes:
		return a.recipeView.CapturesInput()
	}
	return false
}

func (a *App) routeModuleKey(msg tea.KeyMsg) tea.Cmd {
	switch a.currentModule {
	case ModuleInventory:
		return a.inventoryView.HandleKey(msg.String())
	case ModuleRecipes:
		return a.recipeView.HandleKey(msg.String())
	}
	return nil
}

// switchModule routes a function-key navigation target.
func (a *App) switchModule(target string) tea.Cmd {
	switch target {
	case "quit":
		a.showConfirm = true
	case "help":
		if a.currentModule != ModuleHelp {
			a.previousModule = a.currentModule
			a.currentModule = ModuleHelp
		}
	case "home":
		a.currentModule = ModuleHome
	case "inventory":
		a.currentModule = ModuleInventory
		return a.inventoryView.Activate()
	case "recipes":
		a.currentModule = ModuleRecipes
		return a.recipeView.Activate()
	case "products":
		a.currentModule = ModuleProducts
	case "blog":
		a.currentModule = ModuleBlog
	case "signout":
		return a.signOut()
	}
	return nil
}

// signOut clears the stored token and returns to the sign-in screen.
func (a *App) signOut() tea.Cmd {
	if err := a.session.RemoveToken(); err != nil {
		a.logger.Error("remove token", "error", err)
	}
	a.signInView.Reset()
	a.currentModule = ModuleSignIn
	return a.showToast(api.Notice{Kind: api.NoticeSuccess, Text: "Signed out"})
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render("Brewdesk shutting down...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderToastBar())
	b.WriteString("\n")

	contentHeight := a.height - 6 // header, toast, footer
	if a.showConfirm {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("BREWDESK v%s", Version)

	right := "not signed in"
	if a.session.IsAuthenticated() {
		if email := a.session.Email(); email != "" {
			right = email
		} else {
			right = "signed in"
		}
	}

	spacing := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if spacing < 1 {
		spacing = 1
	}

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(right)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderToastBar renders the transient notice area.
func (a *App) renderToastBar() string {
	if a.toast == nil {
		return a.theme.Muted.Render(" ")
	}

	n := a.toast.notice
	switch n.Kind {
	case api.NoticeError:
		return a.theme.ToastError.Render(n.Text)
	case api.NoticeWarning:
		return a.theme.ToastWarning.Render(n.Text)
	default:
		return a.theme.ToastSuccess.Render(n.Text)
	}
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	content := a.getModuleContent()

	contentWidth := a.width
	if contentWidth > MaxContentWidth {
		contentWidth = MaxContentWidth
	}

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth)

	return style.Render(contentStyle.Render(content))
}

// getModuleContent returns the content for the current module.
func (a *App) getModuleContent() string {
	switch a.currentModule {
	case ModuleSignIn:
		return a.signInView.Render()
	case ModuleMagicLink:
		return a.renderMagicLink()
	case ModuleHome:
		return a.renderHome()
	case ModuleInventory:
		return a.inventoryView.Render(a.width, a.height-6)
	case ModuleRecipes:
		return a.recipeView.Render(a.width, a.height-6)
	case ModuleProducts:
		return a.renderPlaceholder("products")
	case ModuleBlog:
		return a.renderPlaceholder("blog")
	case ModuleHelp:
		return a.renderHelp()
	default:
		return a.renderNotFound()
	}
}

// renderMagicLink renders the token-exchange screen.
func (a *App) renderMagicLink() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ SIGNING IN ═══"))
	b.WriteString("\n\n")

	if a.linkFailed != "" {
		b.WriteString(a.theme.Error.Render(a.linkFailed))
		b.WriteString("\n\n")
		b.WriteString(a.theme.Muted.Render("Returning to sign-in..."))
	} else {
		b.WriteString(a.theme.Muted.Render("Verifying magic link..."))
	}

	return b.String()
}

// renderHome renders the landing screen.
func (a *App) renderHome() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ BREWDESK ═══"))
	b.WriteString("\n\n")

	greeting := "Welcome back"
	if email := a.session.Email(); email != "" {
		greeting = "Welcome back, " + email
	}
	b.WriteString(a.theme.Subtitle.Render(greeting))
	b.WriteString("\n\n")

	items := [][2]string{
		{"F3", "Inventory: stock on hand, prices, units"},
		{"F4", "Recipes: cup counts, ingredients, costing"},
		{"F5", "Products"},
		{"F6", "Blog"},
	}
	for _, item := range items {
		line := fmt.Sprintf("    %-4s  %s", item[0], item[1])
		b.WriteString(a.theme.Primary.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("Press F1 for help"))

	return b.String()
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ HELP ═══"))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Subtitle.Render("NAVIGATION"))
	b.WriteString("\n\n")

	navItems := [][2]string{
		{"F1", "Help"},
		{"F2", "Home"},
		{"F3", "Inventory"},
		{"F4", "Recipes"},
		{"F5", "Products"},
		{"F6", "Blog"},
		{"F9", "Sign out"},
		{"F10", "Quit"},
	}

	for _, item := range navItems {
		line := fmt.Sprintf("    %-8s  %s", item[0], item[1])
		b.WriteString(a.theme.Primary.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Subtitle.Render("CONTROLS"))
	b.WriteString("\n\n")

	ctrlItems := [][2]string{
		{"Up/Down", "Navigate"},
		{"Enter", "Select/Edit"},
		{"Esc", "Back/Cancel"},
		{"/", "Search (live)"},
		{"a", "Add"},
		{"d", "Delete (inventory)"},
		{"x", "Export to xlsx"},
		{"PgUp/Dn", "Page navigation"},
	}

	for _, item := range ctrlItems {
		line := fmt.Sprintf("    %-8s  %s", item[0], item[1])
		b.WriteString(a.theme.Primary.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("Press Esc to return"))

	return b.String()
}

// renderPlaceholder renders a placeholder for unimplemented modules.
func (a *App) renderPlaceholder(name string) string {
	var b strings.Builder

	title := fmt.Sprintf("═══ %s ═══", strings.ToUpper(name))
	b.WriteString(a.theme.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Muted.Render("This module is not yet available."))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Label.Render("Press F2 to return home"))

	return b.String()
}

// renderNotFound renders the unknown-screen fallback.
func (a *App) renderNotFound() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ NOT FOUND ═══"))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("Sorry, this screen does not exist."))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Label.Render("Press F2 to return home"))

	return b.String()
}

// renderConfirmDialog renders the quit confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	dialog := a.theme.Box.Render(
		a.theme.Title.Render("CONFIRM EXIT") + "\n\n" +
			a.theme.Primary.Render("Are you sure you want to exit?") + "\n\n" +
			a.theme.Label.Render("[Y]es  [N]o"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	separator := a.theme.DrawHorizontalLine(a.width)

	help := a.keys.StatusBarHelp()
	if a.currentModule == ModuleSignIn || a.currentModule == ModuleMagicLink {
		help = "[F10]Quit"
	}

	return separator + "\n" + a.theme.Footer.Render(help)
}

// Run starts the TUI application.
func Run(ctx context.Context, client *api.Client, session SessionStore, cfg *config.Config, logger *slog.Logger, magicToken string) error {
	app := New(client, session, cfg, logger, magicToken)

	p := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
