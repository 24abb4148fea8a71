// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BannerHeight is the height of the session banner in lines
	BannerHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// HistoryWidthRatio is the numerator for the history pane width
	// (history gets 3/5 of the width, the status pane the rest)
	HistoryWidthRatio = 3

	// WidthRatioDenominator is the denominator for pane width splits
	WidthRatioDenominator = 5

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	// DefaultWrapWidth is the default width for text wrapping when the
	// terminal width is unknown
	DefaultWrapWidth = 80
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50
)
