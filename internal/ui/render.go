package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmunkitt/skim/internal/gesture"
	"github.com/kmunkitt/skim/internal/view"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderFilterTabs())
	b.WriteString("\n")
	b.WriteString(m.renderCategoryTabs())
	b.WriteString("\n")

	if m.menu != nil {
		b.WriteString(m.overlay(m.menu.render()))
	} else if m.detail != "" {
		b.WriteString(m.overlay(m.renderDetail()))
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderFilterTabs() string {
	filters := view.Filters()
	labels := make([]string, len(filters))
	active := 0
	for i, f := range filters {
		labels[i] = filterLabel(f)
		if f == m.filter {
			active = i
		}
	}
	return renderTabs(labels, active)
}

func (m Model) renderCategoryTabs() string {
	if len(m.tags) == 0 {
		return ""
	}
	labels := make([]string, len(m.tags))
	active := 0
	for i, t := range m.tags {
		labels[i] = tagLabel(t)
		if t == m.category {
			active = i
		}
	}
	return renderTabs(labels, active)
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		msg := view.EmptyMessage(m.filter)
		if m.loading {
			msg = m.spinner.View() + " Loading…"
		}
		return EmptyState.Render(msg)
	}

	avail := m.listHeight()
	end := m.scroll + avail
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := make([]string, 0, avail)
	now := time.Now()
	for i := m.scroll; i < end; i++ {
		rows = append(rows, m.renderRow(i, now))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(i int, now time.Time) string {
	item := m.visible[i]

	var badges strings.Builder
	if m.triage.IsStarred(item.ID) {
		badges.WriteString("★")
	}
	if m.triage.IsReadLater(item.ID) {
		badges.WriteString("◷")
	}
	if item.Recommended {
		badges.WriteString("↑")
	}

	meta := item.Attribution
	if d := FormatDate(item.Published, now); d != "" {
		if meta != "" {
			meta += " · "
		}
		meta += d
	}

	line := item.Title
	if badges.Len() > 0 {
		line = badges.String() + " " + line
	}
	if meta != "" {
		line = fmt.Sprintf("%s  %s", line, meta)
	}
	line = truncate(line, m.width-2)

	style := NormalItem
	switch {
	case i == m.cursor:
		style = SelectedItem
	case m.triage.IsRead(item.ID):
		style = ReadItem
	}
	row := style.Render(line)

	if shift, label := m.rowShift(item.ID); shift != 0 {
		row = shiftRow(row, shift, label)
	}
	return row
}

// rowShift returns the horizontal displacement for a row: a live drag for
// the active gesture target, or the spring settle after release.
func (m Model) rowShift(id string) (int, string) {
	if m.rec.Active() && m.rec.Target() == id && m.rec.Axis() == gesture.AxisHorizontal {
		return int(m.rec.Offset()), affordanceLabel(m.rec.Preview())
	}
	if m.animating && m.settleTarget == id {
		return int(m.springPos), ""
	}
	return 0, ""
}

func affordanceLabel(a gesture.Action) string {
	switch a {
	case gesture.ActionToggleRead:
		return "Read"
	case gesture.ActionToggleStar:
		return "Star"
	case gesture.ActionToggleReadLater:
		return "Later"
	default:
		return ""
	}
}

// shiftRow displaces a rendered row, revealing the action label in the
// uncovered gap.
func shiftRow(row string, shift int, label string) string {
	gap := shift
	if gap < 0 {
		gap = -gap
	}
	if label != "" {
		label = Affordance.Render(label)
	}
	pad := gap - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	if shift > 0 {
		return label + strings.Repeat(" ", pad) + row
	}
	return row + strings.Repeat(" ", pad) + label
}

func (m Model) renderDetail() string {
	item, ok := m.itemByID(m.detail)
	if !ok {
		return ""
	}
	body := ReflowNumberedLists(item.Summary)
	title := item.Title
	if m.cfg.UI.Bionic() {
		body = Bionify(body)
		title = Bionify(title)
	}
	content := SelectedItem.Render(title) + "\n\n" + body
	if item.Attribution != "" {
		content += "\n\n" + ReadItem.Render(item.Attribution)
	}
	return MenuBox.Width(min(m.width-4, 72)).Render(content)
}

// overlay centers content in the list area.
func (m Model) overlay(content string) string {
	return lipgloss.Place(m.width, m.listHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if left == "" {
		if m.loading {
			left = m.spinner.View() + " Loading…"
		} else {
			left = fmt.Sprintf("%d items · f filter · c category · r refresh · q quit", len(m.visible))
		}
	}
	if m.updateReady {
		left += "  " + UpdateNotice.Render("Update ready, press U")
	}
	return StatusBar.Width(m.width).Render(truncate(left, m.width-2))
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
