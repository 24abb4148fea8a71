package modals

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/keys"
)

// ConflictsState shows the conflicted files of a paused operation with their
// per-file resolution marks and an optional side-by-side preview of the
// selected file. The app layer owns the action keys (take ours/theirs, mark
// merged, continue, skip, abort); this state only tracks the cursor and
// preview content.
type ConflictsState struct {
	Kind          string
	Files         []conflict.File
	SelectedIndex int
	Preview       string
	ShowPreview   bool
	MarkerWarning string
	Err           string
	CanSkip       bool
}

func (*ConflictsState) modalState() {}

func (s *ConflictsState) Title() string {
	return fmt.Sprintf("Conflicts: %s", s.Kind)
}

func (s *ConflictsState) Help() string {
	help := "o: take ours  t: take theirs  m: mark merged  p: preview  c: continue"
	if s.CanSkip {
		help += "  s: skip"
	}
	return help + "  a: abort  Esc: close"
}

// PreferredWidth widens the modal when the preview pane is open.
func (s *ConflictsState) PreferredWidth() int {
	if s.ShowPreview {
		return ModalWidth + 30
	}
	return ModalWidth
}

func (s *ConflictsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	unresolved := conflict.Unresolved(s.Files)
	var countLabel string
	if unresolved == 0 {
		countLabel = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Render("All files resolved. Press c to continue.")
	} else {
		countLabel = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Render(fmt.Sprintf("%d of %d files unresolved", unresolved, len(s.Files)))
	}

	var fileList string
	for i, f := range s.Files {
		style := ListItemStyle
		prefix := "  "
		if i == s.SelectedIndex {
			style = ListSelectedStyle
			prefix = "> "
		}
		mark := markFor(f.Resolution)
		line := fmt.Sprintf("%s%s %s (%s)", prefix, mark, TruncatePath(f.Path, ModalInputWidth-10), f.Type)
		fileList += style.Render(line) + "\n"
	}

	sections := []string{title, countLabel, fileList}

	if s.MarkerWarning != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(ColorWarning).
			Render("! "+s.MarkerWarning))
	}

	if s.ShowPreview && s.Preview != "" {
		previewTitle := lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			MarginTop(1).
			Render("Ours vs. theirs:")
		sections = append(sections, previewTitle, s.Preview)
	}

	if s.Err != "" {
		sections = append(sections, StatusErrorStyle.Render(s.Err))
	}

	sections = append(sections, ModalHelpStyle.Render(s.Help()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *ConflictsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.SelectedIndex > 0 {
				s.SelectedIndex--
				s.Preview = ""
				s.ShowPreview = false
			}
		case keys.Down, "j":
			if s.SelectedIndex < len(s.Files)-1 {
				s.SelectedIndex++
				s.Preview = ""
				s.ShowPreview = false
			}
		}
	}
	return s, nil
}

// SelectedFile returns the file under the cursor, or nil when the list is
// empty.
func (s *ConflictsState) SelectedFile() *conflict.File {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Files) {
		return nil
	}
	return &s.Files[s.SelectedIndex]
}

// SetFiles replaces the file list after a resolution action, keeping the
// cursor on the same path when it still exists.
func (s *ConflictsState) SetFiles(files []conflict.File) {
	var prev string
	if f := s.SelectedFile(); f != nil {
		prev = f.Path
	}
	s.Files = files
	s.SelectedIndex = 0
	for i, f := range files {
		if f.Path == prev {
			s.SelectedIndex = i
			break
		}
	}
}

// SetPreview installs rendered preview content for the selected file.
func (s *ConflictsState) SetPreview(preview string) {
	s.Preview = preview
	s.ShowPreview = preview != ""
}

// SetError shows an inline error (e.g. continue refused while unresolved).
func (s *ConflictsState) SetError(msg string) { s.Err = msg }

// SetMarkerWarning flags leftover conflict markers in a file marked merged.
func (s *ConflictsState) SetMarkerWarning(msg string) { s.MarkerWarning = msg }

func markFor(r conflict.Resolution) string {
	switch r {
	case conflict.ResolutionOurs:
		return "[ours]  "
	case conflict.ResolutionTheirs:
		return "[theirs]"
	case conflict.ResolutionMerged:
		return "[merged]"
	default:
		return "[      ]"
	}
}

// NewConflictsState creates the conflict resolution dialog. kind names the
// paused operation for the title; canSkip is false for merges.
func NewConflictsState(kind string, files []conflict.File, canSkip bool) *ConflictsState {
	return &ConflictsState{
		Kind:    kind,
		Files:   files,
		CanSkip: canSkip,
	}
}
