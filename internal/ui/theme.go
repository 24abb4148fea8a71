// Package ui provides theme management for the application.
// Themes define the color palette used throughout the UI, allowing users
// to customize the visual appearance of regraft.
package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/ui/modals"
)

// Theme defines a complete color palette for the application.
// Each theme provides colors for all UI elements, ensuring visual consistency.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (used for focus, highlights, headers)
	Primary string
	// Secondary is the secondary accent color (used for targets, info)
	Secondary string

	// Background colors
	Bg         string // Main background
	BgSelected string // Selected item background (defaults to Primary if empty)

	// Text colors
	Text        string // Primary text
	TextMuted   string // Secondary/muted text
	TextInverse string // Text on colored backgrounds

	// Semantic colors
	Warning string // Abort warnings, paused operations
	Error   string // Failed operations, conflicts
	Info    string // Running operations, hints
	Success string // Completed operations, resolved files

	// Border colors
	Border      string // Default borders
	BorderFocus string // Focused element borders (defaults to Primary if empty)

	// Diff colors (for the conflict preview)
	DiffAdded   string // Added lines
	DiffRemoved string // Removed lines
	DiffHeader  string // Diff headers
	DiffHunk    string // Hunk markers
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeGruvbox    ThemeName = "gruvbox"
	ThemeTokyoNight ThemeName = "tokyo-night"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:        "Dark Purple",
		Primary:     "#7C3AED",
		Secondary:   "#06B6D4",
		Bg:          "#1F2937",
		Text:        "#F9FAFB",
		TextMuted:   "#9CA3AF",
		TextInverse: "#1F2937",
		Warning:     "#F59E0B",
		Error:       "#EF4444",
		Info:        "#06B6D4",
		Success:     "#10B981",
		Border:      "#374151",
		DiffAdded:   "#4ADE80",
		DiffRemoved: "#F87171",
		DiffHeader:  "#60A5FA",
		DiffHunk:    "#C084FC",
	},
	ThemeNord: {
		Name:        "Nord",
		Primary:     "#88C0D0",
		Secondary:   "#81A1C1",
		Bg:          "#2E3440",
		Text:        "#ECEFF4",
		TextMuted:   "#D8DEE9",
		TextInverse: "#2E3440",
		Warning:     "#EBCB8B",
		Error:       "#BF616A",
		Info:        "#81A1C1",
		Success:     "#A3BE8C",
		Border:      "#4C566A",
		DiffAdded:   "#A3BE8C",
		DiffRemoved: "#BF616A",
		DiffHeader:  "#81A1C1",
		DiffHunk:    "#B48EAD",
	},
	ThemeGruvbox: {
		Name:        "Gruvbox Dark",
		Primary:     "#FE8019",
		Secondary:   "#83A598",
		Bg:          "#282828",
		Text:        "#EBDBB2",
		TextMuted:   "#A89984",
		TextInverse: "#282828",
		Warning:     "#FE8019",
		Error:       "#FB4934",
		Info:        "#83A598",
		Success:     "#B8BB26",
		Border:      "#504945",
		DiffAdded:   "#B8BB26",
		DiffRemoved: "#FB4934",
		DiffHeader:  "#83A598",
		DiffHunk:    "#D3869B",
	},
	ThemeTokyoNight: {
		Name:        "Tokyo Night",
		Primary:     "#7AA2F7",
		Secondary:   "#BB9AF7",
		Bg:          "#1A1B26",
		Text:        "#C0CAF5",
		TextMuted:   "#565F89",
		TextInverse: "#1A1B26",
		Warning:     "#E0AF68",
		Error:       "#F7768E",
		Info:        "#7DCFFF",
		Success:     "#9ECE6A",
		Border:      "#3B4261",
		DiffAdded:   "#9ECE6A",
		DiffRemoved: "#F7768E",
		DiffHeader:  "#7AA2F7",
		DiffHunk:    "#BB9AF7",
	},
	ThemeLight: {
		Name:        "Light",
		Primary:     "#6366F1",
		Secondary:   "#0891B2",
		Bg:          "#FFFFFF",
		BgSelected:  "#E0E7FF",
		Text:        "#1F2937",
		TextMuted:   "#6B7280",
		TextInverse: "#FFFFFF",
		Warning:     "#D97706",
		Error:       "#DC2626",
		Info:        "#0891B2",
		Success:     "#16A34A",
		Border:      "#D1D5DB",
		BorderFocus: "#6366F1",
		DiffAdded:   "#16A34A",
		DiffRemoved: "#DC2626",
		DiffHeader:  "#2563EB",
		DiffHunk:    "#7C3AED",
	},
}

// ThemeNames returns a list of all available theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeDarkPurple,
		ThemeNord,
		ThemeGruvbox,
		ThemeTokyoNight,
		ThemeLight,
	}
}

// GetTheme returns a theme by name, defaulting to DarkPurple if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

// currentTheme holds the active theme
var currentTheme = BuiltinThemes[DefaultTheme]

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	currentTheme = GetTheme(name)
	regenerateStyles()
	RefreshModalStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	for name, theme := range BuiltinThemes {
		if theme.Name == currentTheme.Name {
			return name
		}
	}
	return DefaultTheme
}

// RefreshModalStyles pushes the current palette into the modals package,
// which cannot import ui without a cycle.
func RefreshModalStyles() {
	modals.SetStyles(
		ModalTitleStyle, ModalHelpStyle, ListItemStyle, ListSelectedStyle, StatusErrorStyle,
		ColorPrimary, ColorSecondary, ColorText, ColorTextMuted, ColorTextInverse, ColorWarning, ColorSuccess,
		DiffAddedStyle, DiffRemovedStyle, DiffHeaderStyle, DiffHunkStyle,
		ModalInputWidth, ModalInputCharLimit, ModalWidth,
	)
}

// regenerateStyles updates all style variables based on the current theme
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorMuted = lipgloss.Color(t.TextMuted)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorBg = lipgloss.Color(t.Bg)
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorInfo = lipgloss.Color(t.Info)
	ColorError = lipgloss.Color(t.Error)
	ColorSuccess = lipgloss.Color(t.Success)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

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

	ListItemStyle = lipgloss.NewStyle().
		Padding(0, 1)

	ListSelectedStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.GetBgSelected())).
		Foreground(lipgloss.Color(t.Text)).
		Bold(true).
		Padding(0, 1)

	ListMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

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

	DiffAddedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.DiffAdded))

	DiffRemovedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.DiffRemoved))

	DiffHeaderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.DiffHeader)).
		Bold(true)

	DiffHunkStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.DiffHunk))
}
