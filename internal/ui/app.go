// Package ui is the presentation layer: a Bubble Tea model that renders
// the projected item list and adapts terminal input into the abstract
// pointer-event stream the gesture recognizer consumes.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmunkitt/skim/internal/browser"
	"github.com/kmunkitt/skim/internal/cache"
	"github.com/kmunkitt/skim/internal/config"
	"github.com/kmunkitt/skim/internal/gesture"
	"github.com/kmunkitt/skim/internal/logging"
	"github.com/kmunkitt/skim/internal/model"
	"github.com/kmunkitt/skim/internal/repo"
	"github.com/kmunkitt/skim/internal/triage"
	"github.com/kmunkitt/skim/internal/view"
)

// itemRowOffset is the first list row: filter tabs + category tabs above.
const itemRowOffset = 2

// statusFlashDuration is how long a transient status message shows.
const statusFlashDuration = 2 * time.Second

// Model is the application UI state.
type Model struct {
	repo      *repo.Repository
	triage    *triage.State
	lifecycle *cache.Lifecycle
	cfg       *config.Config

	items    []model.Item
	tags     []string
	filter   view.Filter
	category string
	visible  []model.Item

	cursor int
	scroll int

	rec  *gesture.Recognizer
	pull *gesture.PullTracker

	// swipe settle animation
	spring    harmonica.Spring
	springPos float64
	springVel float64
	animating bool

	menu         *menu
	detail       string
	settleTarget string

	spinner spinner.Model
	width   int
	height  int
	loading bool
	status  string

	updateReady bool
}

// New builds the UI model. lifecycle may be nil when no update handoff is
// wired.
func New(r *repo.Repository, t *triage.State, l *cache.Lifecycle, cfg *config.Config) Model {
	g := cfg.Gestures
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return Model{
		repo:      r,
		triage:    t,
		lifecycle: l,
		cfg:       cfg,
		filter:    view.ParseFilter(cfg.UI.DefaultFilter),
		category:  model.CategoryAll,
		rec: gesture.New(gesture.Config{
			SwipeThreshold:     g.SwipeThreshold,
			LongSwipeThreshold: g.LongSwipeThreshold,
			JitterPx:           g.JitterPx,
		}),
		pull:    gesture.NewPullTracker(g.PullDistancePx),
		spring:  harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.6),
		spinner: s,
		loading: true,
	}
}

// Init kicks off the first load and the revalidation ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick, m.revalidateTick())
}

func (m Model) loadCmd() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		return CollectionLoadedMsg{Collection: r.Load(context.Background())}
	}
}

func (m Model) revalidateTick() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return revalidateTickMsg{}
	})
}

func (m Model) longPressTimer() tea.Cmd {
	seq := m.rec.Seq()
	delay := time.Duration(m.cfg.Gestures.LongPressMs) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return longPressMsg{Seq: seq}
	})
}

func statusFlash() tea.Cmd {
	return tea.Tick(statusFlashDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CollectionLoadedMsg:
		m.items = msg.Collection.Items
		m.tags = msg.Collection.Tags
		if !containsTag(m.tags, m.category) {
			m.category = model.CategoryAll
		}
		m.loading = false
		m.project()
		return m, nil

	case revalidateTickMsg:
		cmds := []tea.Cmd{m.revalidateTick()}
		if m.repo.AllowRevalidate() {
			logging.Debug("Background revalidation")
			cmds = append(cmds, m.loadCmd())
		}
		return m, tea.Batch(cmds...)

	case longPressMsg:
		res := m.rec.Update(gesture.Event{Kind: gesture.EventTimer, Seq: msg.Seq})
		return m.applyResult(res)

	case statusClearMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		if !m.animating {
			return m, nil
		}
		m.springPos, m.springVel = m.spring.Update(m.springPos, m.springVel, 0)
		if abs(m.springPos) < 0.5 && abs(m.springVel) < 0.5 {
			m.springPos, m.springVel = 0, 0
			m.animating = false
			m.settleTarget = ""
			return m, nil
		}
		return m, frameTick()

	case UpdateWaitingMsg:
		m.updateReady = true
		return m, nil

	case UpdateTookControlMsg:
		m.updateReady = false
		m.status = fmt.Sprintf("Version %d active, reloading", msg.Generation)
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick, statusFlash())

	case tea.MouseMsg:
		if m.menu != nil || m.detail != "" {
			// An overlay owns the screen; rows underneath must not
			// receive gestures. Cancel whatever was in flight.
			m.rec.Update(gesture.Event{Kind: gesture.EventCancel})
			m.pull.Cancel()
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu != nil {
		return m.handleMenuKey(msg)
	}
	if m.detail != "" {
		switch msg.String() {
		case "esc", "q", "i", "enter":
			m.detail = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.clampScroll()
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}
		return m, nil

	case "enter":
		return m.openItem(m.cursorID())

	case "m":
		return m.toggleAndFlash(triage.KindRead, m.cursorID())

	case "s":
		return m.toggleAndFlash(triage.KindStarred, m.cursorID())

	case "l":
		return m.toggleAndFlash(triage.KindReadLater, m.cursorID())

	case "o":
		if id := m.cursorID(); id != "" {
			m.menu = newMenu(id)
		}
		return m, nil

	case "i":
		m.detail = m.cursorID()
		return m, nil

	case "f":
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		m.scroll = 0
		m.project()
		return m, nil

	case "c", "tab":
		m.category = nextTag(m.tags, m.category)
		m.cursor = 0
		m.scroll = 0
		m.project()
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)

	case "U":
		if m.lifecycle != nil {
			m.lifecycle.SkipWaiting()
		}
		return m, nil
	}
	return m, nil
}

// handleMouse adapts terminal mouse input into pointer events. The pull
// tracker runs alongside the recognizer, observing the same sequence.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := float64(msg.X), float64(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			id := m.itemAt(msg.Y)
			if id == "" {
				return m.handleChromePress(msg)
			}
			m.pull.Start(y, m.scroll == 0)
			m.rec.Update(gesture.Event{
				Kind:   gesture.EventStart,
				X:      x,
				Y:      y,
				Target: id,
				Width:  float64(m.width),
			})
			return m, m.longPressTimer()
		}
		return m, nil

	case tea.MouseActionMotion:
		m.pull.Move(y)
		res := m.rec.Update(gesture.Event{Kind: gesture.EventMove, X: x, Y: y})
		return m.applyResult(res)

	case tea.MouseActionRelease:
		refresh := m.pull.End()
		offset := m.rec.Offset()
		target := m.rec.Target()
		res := m.rec.Update(gesture.Event{Kind: gesture.EventEnd, X: x, Y: y})

		next, cmd := m.applyResult(res)
		nm := next.(Model)
		if offset != 0 {
			nm.settleTarget = target
			nm.springPos = offset
			nm.springVel = 0
			nm.animating = true
			cmd = tea.Batch(cmd, frameTick())
		}
		if refresh {
			nm.loading = true
			cmd = tea.Batch(cmd, nm.loadCmd(), nm.spinner.Tick)
		}
		return nm, cmd
	}
	return m, nil
}

// handleChromePress handles clicks on the tab rows.
func (m Model) handleChromePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Y {
	case 0:
		if f, ok := filterAtColumn(msg.X); ok {
			m.filter = f
			m.cursor = 0
			m.scroll = 0
			m.project()
		}
	case 1:
		if tag, ok := tagAtColumn(m.tags, msg.X); ok {
			m.category = tag
			m.cursor = 0
			m.scroll = 0
			m.project()
		}
	}
	return m, nil
}

// applyResult routes a recognizer result into state changes.
func (m Model) applyResult(res gesture.Result) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if res.Haptic != gesture.HapticNone && m.cfg.UI.Haptics() {
		m.status = hapticPulse(res.Haptic)
		cmds = append(cmds, statusFlash())
	}

	switch res.Action {
	case gesture.ActionTap:
		next, cmd := m.openItem(res.Target)
		m = next.(Model)
		cmds = append(cmds, cmd)

	case gesture.ActionToggleRead:
		next, cmd := m.toggleAndFlash(triage.KindRead, res.Target)
		m = next.(Model)
		cmds = append(cmds, cmd)

	case gesture.ActionToggleStar:
		next, cmd := m.toggleAndFlash(triage.KindStarred, res.Target)
		m = next.(Model)
		cmds = append(cmds, cmd)

	case gesture.ActionToggleReadLater:
		next, cmd := m.toggleAndFlash(triage.KindReadLater, res.Target)
		m = next.(Model)
		cmds = append(cmds, cmd)

	case gesture.ActionOpenMenu:
		m.menu = newMenu(res.Target)
	}

	return m, tea.Batch(cmds...)
}

// openItem is the primary action: mark read (idempotent) and open the
// link when the item has one.
func (m Model) openItem(id string) (tea.Model, tea.Cmd) {
	item, ok := m.itemByID(id)
	if !ok {
		return m, nil
	}
	m.triage.MarkRead(id)
	m.project()
	if item.Link != "" {
		if err := browser.Open(item.Link); err != nil {
			logging.Warn("Failed to open link", "url", item.Link, "error", err)
		}
	}
	return m, nil
}

func (m Model) toggleAndFlash(kind triage.Kind, id string) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	m.triage.Toggle(kind, id)
	m.status = toggleStatus(kind, m.triage, id)
	m.project()
	return m, statusFlash()
}

// project recomputes the visible items from the current inputs.
func (m *Model) project() {
	m.visible = view.Project(m.items, m.triage, m.filter, m.category)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	avail := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if avail > 0 && m.cursor >= m.scroll+avail {
		m.scroll = m.cursor - avail + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) listHeight() int {
	h := m.height - itemRowOffset - 1 // status bar
	if h < 1 {
		return 1
	}
	return h
}

// itemAt maps a terminal row to the item id rendered there.
func (m Model) itemAt(y int) string {
	idx := m.scroll + y - itemRowOffset
	if y < itemRowOffset || idx < 0 || idx >= len(m.visible) {
		return ""
	}
	return m.visible[idx].ID
}

func (m Model) itemByID(id string) (model.Item, bool) {
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Item{}, false
}

func (m Model) cursorID() string {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return ""
	}
	return m.visible[m.cursor].ID
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func nextFilter(f view.Filter) view.Filter {
	filters := view.Filters()
	for i, cur := range filters {
		if cur == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return view.FilterAll
}

func nextTag(tags []string, current string) string {
	if len(tags) == 0 {
		return model.CategoryAll
	}
	for i, t := range tags {
		if t == current {
			return tags[(i+1)%len(tags)]
		}
	}
	return tags[0]
}

func hapticPulse(h gesture.Haptic) string {
	if h == gesture.HapticMedium {
		return "••"
	}
	return "•"
}

func toggleStatus(kind triage.Kind, t *triage.State, id string) string {
	switch kind {
	case triage.KindStarred:
		if t.IsStarred(id) {
			return "★ Starred"
		}
		return "☆ Unstarred"
	case triage.KindReadLater:
		if t.IsReadLater(id) {
			return "Saved for later"
		}
		return "Removed from read later"
	default:
		if t.IsRead(id) {
			return "Marked read"
		}
		return "Marked unread"
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
