package ui

import "charm.land/lipgloss/v2"

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#7C3AED") // Purple when focused
	ColorBg          = lipgloss.Color("#1F2937") // Dark background
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber for paused operations
	ColorInfo        = lipgloss.Color("#06B6D4") // Cyan for running operations
	ColorError       = lipgloss.Color("#EF4444") // Red for failures and conflicts
	ColorSuccess     = lipgloss.Color("#10B981") // Green for completed operations
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)
)

// List styles
var (
	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// ListSelectedStyle uses theme's BgSelected color - initialized properly in regenerateStyles()
	ListSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(BuiltinThemes[DefaultTheme].GetBgSelected())).
				Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].Text)).
				Bold(true).
				Padding(0, 1)

	ListMutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Width(ModalWidth)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	ModalHelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1)
)

// Status styles
var (
	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

// Session banner styles, one per operation phase
var (
	BannerRunningStyle = lipgloss.NewStyle().
				Foreground(ColorInfo).
				Bold(true)

	BannerConflictStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	BannerPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	BannerDoneStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// Diff coloring styles for the conflict preview (updated by regenerateStyles)
var (
	DiffAddedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].DiffAdded))

	DiffRemovedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].DiffRemoved))

	DiffHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].DiffHeader)).
			Bold(true)

	DiffHunkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(BuiltinThemes[DefaultTheme].DiffHunk))
)
