package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Orange
)

// SelectedItem style for the currently highlighted item.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected, unread items.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// ReadItem style for items that have been read.
var ReadItem = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// ActiveTab style for the selected filter or category.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// InactiveTab style for unselected filters and categories.
var InactiveTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Affordance style for the swipe action preview.
var Affordance = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSuccess)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// UpdateNotice style for the pending-update banner in the status bar.
var UpdateNotice = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWarn)

// EmptyState style for filter-specific empty messages.
var EmptyState = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(1, 2)

// MenuBox style for the context menu overlay.
var MenuBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// MenuSelected style for the highlighted menu entry.
var MenuSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// BionicBold style applied to the emphasized word heads.
var BionicBold = lipgloss.NewStyle().Bold(true)
