package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmunkitt/skim/internal/logging"
	"github.com/kmunkitt/skim/internal/triage"
)

// menu is the long-press context menu for one item.
type menu struct {
	target string
	cursor int
}

var menuEntries = []string{
	"Open",
	"Toggle read",
	"Toggle star",
	"Toggle read later",
	"Copy link",
	"Share",
}

func newMenu(target string) *menu {
	return &menu{target: target}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mn := m.menu
	switch msg.String() {
	case "esc", "q":
		m.menu = nil
		return m, nil

	case "j", "down":
		if mn.cursor < len(menuEntries)-1 {
			mn.cursor++
		}
		return m, nil

	case "k", "up":
		if mn.cursor > 0 {
			mn.cursor--
		}
		return m, nil

	case "enter":
		target := mn.target
		choice := mn.cursor
		m.menu = nil
		return m.runMenuEntry(choice, target)
	}
	return m, nil
}

func (m Model) runMenuEntry(choice int, target string) (tea.Model, tea.Cmd) {
	switch menuEntries[choice] {
	case "Open":
		return m.openItem(target)
	case "Toggle read":
		return m.toggleAndFlash(triage.KindRead, target)
	case "Toggle star":
		return m.toggleAndFlash(triage.KindStarred, target)
	case "Toggle read later":
		return m.toggleAndFlash(triage.KindReadLater, target)
	case "Copy link":
		return m.copyToClipboard(target, false)
	case "Share":
		return m.copyToClipboard(target, true)
	}
	return m, nil
}

// copyToClipboard puts the item link, or a "title - link" share line, on
// the system clipboard.
func (m Model) copyToClipboard(id string, share bool) (tea.Model, tea.Cmd) {
	item, ok := m.itemByID(id)
	if !ok || item.Link == "" {
		m.status = "No link to copy"
		return m, statusFlash()
	}
	text := item.Link
	if share {
		text = fmt.Sprintf("%s - %s", item.Title, item.Link)
	}
	if err := clipboard.WriteAll(text); err != nil {
		logging.Warn("Clipboard write failed", "error", err)
		m.status = "Clipboard unavailable"
		return m, statusFlash()
	}
	if share {
		m.status = "Copied share text"
	} else {
		m.status = "Copied link"
	}
	return m, statusFlash()
}

func (mn *menu) render() string {
	var b strings.Builder
	for i, entry := range menuEntries {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == mn.cursor {
			b.WriteString(MenuSelected.Render("> " + entry))
		} else {
			b.WriteString("  " + entry)
		}
	}
	return MenuBox.Render(b.String())
}
