// Package browse is the root model of the terminal browser: a search box with
// live suggestions above a rotating hero of trending titles.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
	"github.com/handsomefox/flixora/internal/ui/carousel"
	"github.com/handsomefox/flixora/internal/ui/suggest"
	"github.com/handsomefox/flixora/internal/views"
)

const trendingTimeout = 15 * time.Second

// Catalog is the server surface the browser needs.
type Catalog interface {
	suggest.Lookup
	Trending(ctx context.Context) ([]tmdb.Title, error)
}

type Options struct {
	// ServerURL prefixes the links shown for a selection.
	ServerURL string
	ImageBase string
	// SuggestionLimit caps the list; 0 shows everything.
	SuggestionLimit int
	Carousel        bool

	// Zero values keep the component defaults.
	Debounce     time.Duration
	Period, Fade time.Duration
	StaticCursor bool
}

type trendingMsg struct {
	load   int
	titles []tmdb.Title
	err    error
}

type selectedMsg struct{ s suggestion.Suggestion }

type closedMsg struct{}

type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	catalog Catalog
	opts    Options

	input    textinput.Model
	suggest  suggest.Model
	carousel carousel.Model

	load     int
	loading  bool
	loadErr  error
	status   string
	quitting bool
	width    int
}

func New(ctx context.Context, catalog Catalog, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "Search movies and TV shows..."
	ti.Prompt = "› "
	ti.CharLimit = 120
	if opts.StaticCursor {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	ti.Focus()

	suggestOpts := []suggest.Option{
		suggest.WithContext(ctx),
		suggest.WithLimit(opts.SuggestionLimit),
		suggest.OnSelect(func(s suggestion.Suggestion) tea.Cmd {
			return func() tea.Msg { return selectedMsg{s: s} }
		}),
		suggest.OnClose(func() tea.Cmd {
			return func() tea.Msg { return closedMsg{} }
		}),
	}
	if opts.Debounce > 0 {
		suggestOpts = append(suggestOpts, suggest.WithDebounce(opts.Debounce))
	}

	carouselOpts := []carousel.Option{
		carousel.WithImageResolver(func(ref string) string {
			return tmdb.ImageURL(opts.ImageBase, tmdb.SizePoster, ref)
		}),
	}
	if opts.Period > 0 && opts.Fade > 0 {
		carouselOpts = append(carouselOpts, carousel.WithTiming(opts.Period, opts.Fade))
	}

	return Model{
		ctx:      ctx,
		cancel:   cancel,
		catalog:  catalog,
		opts:     opts,
		input:    ti,
		suggest:  suggest.New(catalog, suggestOpts...),
		carousel: carousel.New(carouselOpts...),
		loading:  opts.Carousel,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if !m.opts.StaticCursor {
		cmds = append(cmds, textinput.Blink)
	}
	if m.opts.Carousel {
		cmds = append(cmds, m.fetchTrending(m.load))
	}
	return tea.Batch(cmds...)
}

func (m Model) fetchTrending(load int) tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, trendingTimeout)
		defer cancel()
		titles, err := catalog.Trending(ctx)
		return trendingMsg{load: load, titles: titles, err: err}
	}
}

func (m Model) reload() (Model, tea.Cmd) {
	if !m.opts.Carousel {
		return m, nil
	}
	m.load++
	m.loading = true
	m.status = "Reloading trending..."
	return m, m.fetchTrending(m.load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.suggest.Width = max(msg.Width-2, 10)
		m.carousel.Width = max(msg.Width-2, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case trendingMsg:
		if m.quitting || msg.load != m.load {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			slog.Warn("browse: trending failed", logger.Error(msg.err))
			m.loadErr = msg.err
			m.status = "Could not load trending titles (ctrl+r to retry)."
			return m, nil
		}
		m.loadErr = nil
		m.status = ""
		var cmd tea.Cmd
		m.carousel, cmd = m.carousel.SetItems(views.HeroItems(msg.titles))
		return m, cmd

	case selectedMsg:
		m.status = fmt.Sprintf("%s → %s", msg.s.Title, m.watchURL(msg.s))
		slog.Info("browse: selected", slog.Int64("id", msg.s.ID), slog.String("type", msg.s.Type))
		return m, nil

	case closedMsg:
		m.suggest = m.suggest.SetVisible(false)
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.suggest, cmd = m.suggest.Update(msg)
	cmds = append(cmds, cmd)
	m.carousel, cmd = m.carousel.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.suggest = m.suggest.SetVisible(false)
		return m, nil
	case "up", "ctrl+p":
		m.suggest = m.suggest.CursorUp()
		return m, nil
	case "down", "ctrl+n":
		m.suggest = m.suggest.CursorDown()
		return m, nil
	case "ctrl+r":
		return m.reload()
	case "enter":
		if m.suggest.Visible() {
			if _, ok := m.suggest.Selected(); ok {
				return m, m.suggest.Select()
			}
		}
		query := strings.TrimSpace(m.input.Value())
		if suggestion.Eligible(query) {
			m.status = "All results: " + m.opts.ServerURL + "/search?q=" + url.QueryEscape(query)
			return m, m.suggest.SeeAll()
		}
		return m, nil
	}

	before := m.input.Value()
	var inputCmd, suggestCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.suggest = m.suggest.SetVisible(true)
		m.suggest, suggestCmd = m.suggest.SetQuery(value)
	}
	return m, tea.Batch(inputCmd, suggestCmd)
}

// quit tears both components down before leaving, so no timer or lookup
// outlives the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.suggest = m.suggest.Close()
	m.carousel = m.carousel.Close()
	m.cancel()
	return m, tea.Quit
}

func (m Model) watchURL(s suggestion.Suggestion) string {
	id := strconv.FormatInt(s.ID, 10)
	if s.Type == tmdb.MediaTV {
		return m.opts.ServerURL + "/tv/" + id
	}
	return m.opts.ServerURL + "/watch/movie/" + id
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Flixora"))
	b.WriteString("\n\n")

	if m.opts.Carousel {
		switch {
		case m.loading && len(m.carousel.State().Eligible) == 0:
			b.WriteString(statusStyle.Render("Loading trending..."))
		default:
			b.WriteString(m.carousel.View())
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if list := m.suggest.View(); list != "" {
		b.WriteString(list)
		b.WriteString("\n")
	}

	if m.status != "" {
		style := statusStyle
		if m.loadErr != nil {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter select · esc close · ctrl+r reload · ctrl+c quit"))
	return b.String()
}

// Quitting reports whether the model has been torn down.
func (m Model) Quitting() bool { return m.quitting }
