// Package ui provides the visual building blocks of the terminal client:
// the themed style palette, header and footer bars, the history and status
// panels, the operation banner, and the modal overlay that hosts the dialog
// states from internal/ui/modals.
//
// The package owns no behavior. Panels render repository snapshots, the
// banner renders an operation session, and the modal wrapper centers
// whatever dialog the app layer shows. All key routing and operation
// sequencing lives in internal/app.
//
// Themes are global: SetTheme regenerates every exported style variable and
// pushes the palette into the modals package, which cannot import ui without
// a cycle.
package ui
