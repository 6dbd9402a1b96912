// Package suggest is a bubbletea component that turns search keystrokes into
// a short list of suggestions from a remote lookup.
//
// Input is debounced: every query change re-arms the timer and only the
// query that stays unchanged for the whole debounce window is looked up.
// Each lookup gets a request id; a response is applied only when it belongs
// to the latest request and its query still matches the current input.
// Failures end in an empty list, never in an error message.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/suggestion"
)

const DefaultDebounce = 300 * time.Millisecond

var lastID atomic.Int64

func nextID() int { return int(lastID.Add(1)) }

// Lookup fetches suggestions for a query.
type Lookup interface {
	Suggest(ctx context.Context, query string) ([]suggestion.Suggestion, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, query string) ([]suggestion.Suggestion, error)

func (f LookupFunc) Suggest(ctx context.Context, query string) ([]suggestion.Suggestion, error) {
	return f(ctx, query)
}

// State is a snapshot of the component.
type State struct {
	Query     string
	Results   []suggestion.Suggestion
	IsLoading bool
}

// debounceMsg fires when the input has been quiet for the debounce window.
type debounceMsg struct {
	id    int
	tag   int
	query string
}

// resultMsg carries a finished lookup back into the update loop.
type resultMsg struct {
	id      int
	request int
	query   string
	items   []suggestion.Suggestion
	err     error
}

type Option func(*Model)

func WithDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = d }
}

// WithLimit caps how many results are shown. Zero shows everything.
func WithLimit(n int) Option {
	return func(m *Model) { m.limit = n }
}

// OnSelect is called with the chosen suggestion, before OnClose.
func OnSelect(fn func(suggestion.Suggestion) tea.Cmd) Option {
	return func(m *Model) { m.onSelect = fn }
}

// OnClose is called whenever the list should be dismissed.
func OnClose(fn func() tea.Cmd) Option {
	return func(m *Model) { m.onClose = fn }
}

// WithContext sets the parent context of every lookup.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.parent = ctx }
}

type Model struct {
	id     int
	lookup Lookup
	parent context.Context

	debounce time.Duration
	limit    int
	onSelect func(suggestion.Suggestion) tea.Cmd
	onClose  func() tea.Cmd

	query   string
	results []suggestion.Suggestion
	loading bool
	visible bool
	cursor  int

	// tag identifies the armed debounce timer, request the latest lookup.
	tag     int
	request int
	cancel  context.CancelFunc
	closed  bool

	Width int
}

func New(lookup Lookup, opts ...Option) Model {
	m := Model{
		id:       nextID(),
		lookup:   lookup,
		parent:   context.Background(),
		debounce: DefaultDebounce,
		limit:    suggestion.Limit,
		visible:  true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) ID() int { return m.id }

func (m Model) State() State {
	return State{
		Query:     m.query,
		Results:   append([]suggestion.Suggestion(nil), m.results...),
		IsLoading: m.loading,
	}
}

func (m Model) Visible() bool { return m.visible }

func (m Model) SetVisible(v bool) Model {
	m.visible = v
	return m
}

// SetQuery feeds the latest input. Short queries clear the list at once;
// longer ones re-arm the debounce timer and return its command.
func (m Model) SetQuery(query string) (Model, tea.Cmd) {
	if m.closed || query == m.query {
		return m, nil
	}
	m.query = query
	m.tag++
	m.cursor = 0
	m.abort()

	if !suggestion.Eligible(query) {
		m.results = nil
		m.loading = false
		return m, nil
	}

	id, tag := m.id, m.tag
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, tag: tag, query: query}
	})
}

// Close tears the component down: the debounce timer is invalidated, any
// lookup in flight is cancelled and later messages are ignored.
func (m Model) Close() Model {
	m.abort()
	m.closed = true
	m.tag++
	return m
}

// abort cancels the lookup in flight, if any, and retires its request id so
// the response is dropped when it arrives.
func (m *Model) abort() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.request++
	m.loading = false
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if m.closed || msg.id != m.id || msg.tag != m.tag {
			return m, nil
		}
		return m.issue(msg.query)

	case resultMsg:
		if m.closed || msg.id != m.id || msg.request != m.request || msg.query != m.query {
			slog.Debug("suggestions: dropping superseded response", slog.String("query", msg.query))
			return m, nil
		}
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.loading = false
		m.cursor = 0
		if msg.err != nil {
			slog.Debug("suggestions: lookup failed", slog.String("query", msg.query), logger.Error(msg.err))
			m.results = nil
			return m, nil
		}
		items := msg.items
		if m.limit > 0 && len(items) > m.limit {
			items = items[:m.limit]
		}
		m.results = append([]suggestion.Suggestion(nil), items...)
		return m, nil
	}
	return m, nil
}

func (m Model) issue(query string) (Model, tea.Cmd) {
	m.abort()
	m.loading = true

	ctx, cancel := context.WithCancel(m.parent)
	m.cancel = cancel

	id, request, lookup := m.id, m.request, m.lookup
	return m, func() tea.Msg {
		items, err := lookup.Suggest(ctx, query)
		return resultMsg{id: id, request: request, query: query, items: items, err: err}
	}
}

// CursorUp and CursorDown move the highlighted suggestion.
func (m Model) CursorUp() Model {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

func (m Model) CursorDown() Model {
	if m.cursor < len(m.results)-1 {
		m.cursor++
	}
	return m
}

// Selected returns the highlighted suggestion.
func (m Model) Selected() (suggestion.Suggestion, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return suggestion.Suggestion{}, false
	}
	return m.results[m.cursor], true
}

// Select invokes OnSelect with the highlighted suggestion and then OnClose.
// The query is left untouched.
func (m Model) Select() tea.Cmd {
	if m.closed {
		return nil
	}
	s, ok := m.Selected()
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if m.onSelect != nil {
		cmds = append(cmds, m.onSelect(s))
	}
	if m.onClose != nil {
		cmds = append(cmds, m.onClose())
	}
	return tea.Sequence(cmds...)
}

// SeeAll dismisses the list in favour of the full search results.
func (m Model) SeeAll() tea.Cmd {
	if m.closed || m.onClose == nil {
		return nil
	}
	return m.onClose()
}

var (
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("214")).Bold(true)
	metaStyle     = lipgloss.NewStyle().Faint(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

func (m Model) View() string {
	if m.closed || !m.visible || !suggestion.Eligible(m.query) {
		return ""
	}
	if m.loading {
		return boxStyle.Width(m.Width).Render(metaStyle.Render("Searching..."))
	}
	if len(m.results) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.results)+1)
	for i, s := range m.results {
		line := s.Title + " " + metaStyle.Render(describe(s))
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("› "+line))
			continue
		}
		lines = append(lines, itemStyle.Render(line))
	}
	lines = append(lines, metaStyle.Render(fmt.Sprintf("  See all results for %q", strings.TrimSpace(m.query))))
	return boxStyle.Width(m.Width).Render(strings.Join(lines, "\n"))
}

func describe(s suggestion.Suggestion) string {
	year := "N/A"
	if s.Year != nil {
		year = fmt.Sprint(*s.Year)
	}
	out := year + " · " + strings.ToUpper(s.Type)
	if s.VoteAverage > 0 {
		out += fmt.Sprintf(" · ★ %.1f", s.VoteAverage)
	}
	return out
}
