// Package carousel is a bubbletea component that rotates through a list of
// poster images, fading each one out before advancing to the next.
//
// Timers are owned by the component: every scheduled tick carries the
// component id and the generation it was armed in. Replacing the list or
// closing the component starts a new generation, so ticks armed earlier are
// dropped when they arrive.
package carousel

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultPeriod = 7 * time.Second
	DefaultFade   = 1 * time.Second

	// OverlayScale is applied to the visible opacity to dim the background.
	OverlayScale = 0.3
)

var lastID atomic.Int64

func nextID() int { return int(lastID.Add(1)) }

// Item is a carousel entry. An empty ImageRef means the entry has no image
// and is never displayed.
type Item struct {
	ID           int64
	DisplayTitle string
	ImageRef     string
}

// State is a snapshot of what the carousel is showing.
type State struct {
	ActiveIndex    int
	VisibleOpacity float64
	Eligible       []Item
}

// Current returns the displayed item, false when nothing is eligible.
func (s State) Current() (Item, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Eligible) {
		return Item{}, false
	}
	return s.Eligible[s.ActiveIndex], true
}

// OverlayOpacity is the opacity of the dimmed background layer.
func (s State) OverlayOpacity() float64 { return s.VisibleOpacity * OverlayScale }

// Eligible filters items down to the ones with an image.
func Eligible(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ImageRef) == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// fadeOutMsg starts a period: the visible item begins fading out.
type fadeOutMsg struct {
	id  int
	gen int
}

// advanceMsg ends the fade: the next item is shown.
type advanceMsg struct {
	id  int
	gen int
}

type Option func(*Model)

// WithTiming overrides the rotation period and the fade-out duration.
func WithTiming(period, fade time.Duration) Option {
	return func(m *Model) {
		m.period = period
		m.fade = fade
	}
}

// WithImageResolver sets how an item's image ref is turned into something
// displayable, typically a full image URL.
func WithImageResolver(fn func(ref string) string) Option {
	return func(m *Model) { m.resolve = fn }
}

type Model struct {
	id     int
	gen    int
	closed bool

	period  time.Duration
	fade    time.Duration
	resolve func(ref string) string

	eligible []Item
	index    int
	opacity  float64

	Width int
	Style lipgloss.Style
}

func New(opts ...Option) Model {
	m := Model{
		id:      nextID(),
		period:  DefaultPeriod,
		fade:    DefaultFade,
		opacity: 1,
		resolve: func(ref string) string { return ref },
		Style:   lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) ID() int { return m.id }

func (m Model) State() State {
	return State{
		ActiveIndex:    m.index,
		VisibleOpacity: m.opacity,
		Eligible:       append([]Item(nil), m.eligible...),
	}
}

// Rotating reports whether a rotation schedule is armed.
func (m Model) Rotating() bool { return !m.closed && len(m.eligible) >= 2 }

// SetItems replaces the input list. Pending timers are invalidated, the
// eligible set is recomputed and the display resets to the first item at
// full opacity. The returned command arms the first fade-out one period
// from now when at least two items are eligible.
func (m Model) SetItems(items []Item) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	m.gen++
	m.eligible = Eligible(items)
	m.index = 0
	m.opacity = 1
	if len(m.eligible) <= 1 {
		return m, nil
	}
	return m, m.scheduleFadeOut()
}

// Close tears the carousel down. Ticks already in flight are ignored and
// no further state changes happen.
func (m Model) Close() Model {
	m.closed = true
	m.gen++
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fadeOutMsg:
		if !m.current(msg.id, msg.gen) {
			return m, nil
		}
		m.opacity = 0
		return m, tea.Batch(m.scheduleAdvance(), m.scheduleFadeOut())

	case advanceMsg:
		if !m.current(msg.id, msg.gen) {
			return m, nil
		}
		m.index = (m.index + 1) % len(m.eligible)
		m.opacity = 1
		return m, nil
	}
	return m, nil
}

func (m Model) current(id, gen int) bool {
	return !m.closed && id == m.id && gen == m.gen && len(m.eligible) >= 2
}

func (m Model) scheduleFadeOut() tea.Cmd {
	id, gen := m.id, m.gen
	return tea.Tick(m.period, func(time.Time) tea.Msg {
		return fadeOutMsg{id: id, gen: gen}
	})
}

func (m Model) scheduleAdvance() tea.Cmd {
	id, gen := m.id, m.gen
	return tea.Tick(m.fade, func(time.Time) tea.Msg {
		return advanceMsg{id: id, gen: gen}
	})
}

func (m Model) View() string {
	st := m.State()
	item, ok := st.Current()
	if !ok {
		return m.Style.Faint(true).Width(m.Width).Render("· · ·")
	}

	style := m.Style.Width(m.Width)
	if m.opacity < 1 {
		style = style.Faint(true)
	}
	lines := []string{lipgloss.NewStyle().Bold(m.opacity >= 1).Render(item.DisplayTitle)}
	if ref := m.resolve(item.ImageRef); ref != "" {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render(ref))
	}
	if len(st.Eligible) > 1 {
		lines = append(lines, dots(len(st.Eligible), st.ActiveIndex))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func dots(n, active int) string {
	var b strings.Builder
	for i := range n {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == active {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}
