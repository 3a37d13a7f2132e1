// Package listview implements a generic paginated, searchable collection
// model shared by the inventory and recipe screens.
package listview

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the load state of the collection.
type State int

const (
	// Idle means no fetch has been issued yet.
	Idle State = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the last fetch succeeded.
	Loaded
	// LoadError means the last fetch failed.
	LoadError
)

// Page is one fetched page of items plus the unfiltered total.
type Page[T any] struct {
	Items      []T
	TotalItems int
}

// Fetcher fetches one page. page is zero-based.
type Fetcher[T any] func(ctx context.Context, page, limit int, search string) (Page[T], error)

// ResultMsg carries a completed fetch back to the model. Seq identifies the
// request it answers; results for superseded requests are discarded.
type ResultMsg[T any] struct {
	Seq  uint64
	Page Page[T]
	Err  error
}

// Model tracks one paginated collection. Every parameter change (page,
// search) issues a new fetch with a higher sequence number, so a slow
// response for old parameters can never overwrite newer data.
type Model[T any] struct {
	fetch    Fetcher[T]
	state    State
	items    []T
	total    int
	page     int // zero-based
	pageSize int
	search   string
	seq      uint64
	err      error
}

// New creates a model over the given fetcher.
func New[T any](fetch Fetcher[T], pageSize int) *Model[T] {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Model[T]{
		fetch:    fetch,
		pageSize: pageSize,
	}
}

// Reload issues a fetch for the current page and search.
func (m *Model[T]) Reload() tea.Cmd {
	m.state = Loading
	m.seq++
	seq := m.seq
	fetch := m.fetch
	page, limit, search := m.page, m.pageSize, m.search
	return func() tea.Msg {
		p, err := fetch(context.Background(), page, limit, search)
		return ResultMsg[T]{Seq: seq, Page: p, Err: err}
	}
}

// Apply folds a fetch result into the model. Stale results are ignored; the
// return value reports whether the model changed.
func (m *Model[T]) Apply(msg ResultMsg[T]) bool {
	if msg.Seq != m.seq {
		return false
	}
	if msg.Err != nil {
		m.state = LoadError
		m.err = msg.Err
		return true
	}
	m.items = msg.Page.Items
	m.total = msg.Page.TotalItems
	m.err = nil
	m.state = Loaded
	return true
}

// RetreatIfEmpty steps back a page and refetches when a delete left the
// cursor on an empty non-first page.
func (m *Model[T]) RetreatIfEmpty() tea.Cmd {
	if m.state != Loaded || len(m.items) > 0 || m.page == 0 {
		return nil
	}
	m.page--
	return m.Reload()
}

// SetSearch changes the filter and resets to the first page. Called on
// every keystroke of the search bar, so typing refilters live.
func (m *Model[T]) SetSearch(s string) tea.Cmd {
	m.search = s
	m.page = 0
	return m.Reload()
}

// NextPage advances one page if one exists.
func (m *Model[T]) NextPage() tea.Cmd {
	if (m.page+1)*m.pageSize >= m.total {
		return nil
	}
	m.page++
	return m.Reload()
}

// PrevPage steps back one page if possible.
func (m *Model[T]) PrevPage() tea.Cmd {
	if m.page == 0 {
		return nil
	}
	m.page--
	return m.Reload()
}

// State returns the load state.
func (m *Model[T]) State() State {
	return m.state
}

// Items returns the current page of items.
func (m *Model[T]) Items() []T {
	return m.items
}

// Item returns the item at index i on the current page, or false.
func (m *Model[T]) Item(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(m.items) {
		return zero, false
	}
	return m.items[i], true
}

// TotalItems returns the unfiltered collection size reported by the
// backend.
func (m *Model[T]) TotalItems() int {
	return m.total
}

// Page returns the current zero-based page.
func (m *Model[T]) Page() int {
	return m.page
}

// PageSize returns the page size.
func (m *Model[T]) PageSize() int {
	return m.pageSize
}

// TotalPages returns the number of pages for the current total.
func (m *Model[T]) TotalPages() int {
	if m.total == 0 {
		return 0
	}
	return (m.total + m.pageSize - 1) / m.pageSize
}

// Search returns the active search filter.
func (m *Model[T]) Search() string {
	return m.search
}

// Err returns the last fetch error, if the model is in LoadError.
func (m *Model[T]) Err() error {
	return m.err
}
