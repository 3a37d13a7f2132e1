// Package auth implements the sign-in screen.
package auth

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/tui/components"
)

// SubmittedMsg is the result of submitting an email address.
type SubmittedMsg struct {
	Email  string
	Notice api.Notice
	Err    error
}

// LinkTokenMsg carries a magic-link token the user pasted into the sign-in
// screen. The app consumes it exactly once.
type LinkTokenMsg struct {
	Token string
}

// field identifies which input is focused.
type field int

const (
	fieldEmail field = iota
	fieldLink
)

// View is the sign-in screen. The user either requests a magic link by
// email or pastes a received link directly.
type View struct {
	client *api.Client

	email *components.Input
	link  *components.Input
	focus field

	submitting bool
	sent       bool
	sentTo     string
}

// NewView creates the sign-in view.
func NewView(client *api.Client) *View {
	email := components.NewInput("Email").
		SetPlaceholder("you@example.com").
		SetWidth(36).
		SetRequired(true)
	email.Focus(true)

	link := components.NewInput("Magic link").
		SetPlaceholder("paste link or token").
		SetWidth(36).
		SetMaxLength(500)

	return &View{
		client: client,
		email:  email,
		link:   link,
	}
}

// Reset returns the view to its initial state, e.g. after sign-out.
func (v *View) Reset() {
	v.email.SetValue("").SetError("")
	v.link.SetValue("").SetError("")
	v.sent = false
	v.sentTo = ""
	v.submitting = false
	v.setFocus(fieldEmail)
}

func (v *View) setFocus(f field) {
	v.focus = f
	v.email.Focus(f == fieldEmail)
	v.link.Focus(f == fieldLink)
}

// HandleKey processes a key press.
func (v *View) HandleKey(key string) tea.Cmd {
	if v.submitting {
		return nil
	}

	switch key {
	case "tab", "down":
		if v.focus == fieldEmail {
			v.setFocus(fieldLink)
		} else {
			v.setFocus(fieldEmail)
		}
		return nil
	case "shift+tab", "up":
		if v.focus == fieldLink {
			v.setFocus(fieldEmail)
		} else {
			v.setFocus(fieldLink)
		}
		return nil
	case "enter":
		if v.focus == fieldEmail {
			return v.submitEmail()
		}
		return v.submitLink()
	}

	if v.focus == fieldEmail {
		v.email.HandleKey(key)
		if v.email.Error() != "" && strings.TrimSpace(v.email.Value()) != "" {
			v.email.SetError("")
		}
	} else {
		v.link.HandleKey(key)
	}
	return nil
}

func (v *View) submitEmail() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	if email == "" {
		v.email.SetError("Email is required")
		return nil
	}
	v.email.SetError("")
	v.submitting = true

	client := v.client
	return func() tea.Msg {
		n, err := client.SubmitEmail(context.Background(), email)
		return SubmittedMsg{Email: email, Notice: n, Err: err}
	}
}

func (v *View) submitLink() tea.Cmd {
	token := ExtractToken(v.link.Value())
	if token == "" {
		v.link.SetError("Link or token is required")
		return nil
	}
	v.link.SetError("")
	v.link.SetValue("")
	return func() tea.Msg {
		return LinkTokenMsg{Token: token}
	}
}

// HandleSubmitted folds an email submission result into the view.
func (v *View) HandleSubmitted(msg SubmittedMsg) {
	v.submitting = false
	if msg.Err != nil {
		return
	}
	v.sent = true
	v.sentTo = msg.Email
}

// ExtractToken pulls the token out of a pasted magic link. A bare token is
// accepted as-is.
func ExtractToken(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "token="); i >= 0 {
		s = s[i+len("token="):]
		if j := strings.IndexByte(s, '&'); j >= 0 {
			s = s[:j]
		}
	}
	return s
}

// Render renders the sign-in screen.
func (v *View) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#66FF66")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#006600"))
	primaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("═══ SIGN IN ═══"))
	b.WriteString("\n\n")

	if v.sent {
		b.WriteString(primaryStyle.Render("Magic link sent to " + v.sentTo))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Check your inbox, then paste the link below."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(mutedStyle.Render("Enter your email to receive a sign-in link."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.email.Render())
	b.WriteString("\n")
	b.WriteString(v.link.Render())
	b.WriteString("\n\n")

	if v.submitting {
		b.WriteString(mutedStyle.Render("Sending..."))
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render("Tab:Switch field  Enter:Submit"))

	return b.String()
}
