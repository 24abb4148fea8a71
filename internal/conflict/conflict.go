// Package conflict models conflicted paths reported by git during merges,
// rebases, cherry-picks, reverts, and mailbox application.
package conflict

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Type classifies how a path came to be conflicted.
type Type int

const (
	// TypeContent is a regular both-modified text conflict.
	TypeContent Type = iota

	// TypeDeleteModify is a deletion on one side and an edit on the other.
	TypeDeleteModify

	// TypeAddAdd is an independent add of the same path on both sides.
	TypeAddAdd

	// TypeRenameRename is the same source renamed differently on each side.
	TypeRenameRename

	// TypeRenameModify is a rename on one side and an edit on the other.
	TypeRenameModify

	// TypeBinary is a content conflict in a file git cannot text-merge.
	TypeBinary
)

// String returns a human-readable name for the conflict type.
func (t Type) String() string {
	switch t {
	case TypeContent:
		return "content"
	case TypeDeleteModify:
		return "delete/modify"
	case TypeAddAdd:
		return "add/add"
	case TypeRenameRename:
		return "rename/rename"
	case TypeRenameModify:
		return "rename/modify"
	case TypeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Resolution is the user's chosen disposition for a conflicted path.
type Resolution int

const (
	// ResolutionUnresolved means the user has not dealt with the path yet.
	ResolutionUnresolved Resolution = iota

	// ResolutionOurs keeps the current branch's side.
	ResolutionOurs

	// ResolutionTheirs keeps the incoming side.
	ResolutionTheirs

	// ResolutionMerged means the user produced a manual merge.
	ResolutionMerged
)

// String returns a human-readable name for the resolution.
func (r Resolution) String() string {
	switch r {
	case ResolutionUnresolved:
		return "unresolved"
	case ResolutionOurs:
		return "ours"
	case ResolutionTheirs:
		return "theirs"
	case ResolutionMerged:
		return "merged"
	default:
		return "unknown"
	}
}

// File is one conflicted path within an operation.
type File struct {
	Path       string
	Type       Type
	Resolution Resolution
}

// ClassifyXY maps a porcelain v2 unmerged XY field to a conflict type.
// Rename conflicts are not expressed in XY codes; UpgradeTypes refines them
// from the operation's output.
func ClassifyXY(xy string) Type {
	switch xy {
	case "UU":
		return TypeContent
	case "DD", "DU", "UD":
		return TypeDeleteModify
	case "AA", "AU", "UA":
		return TypeAddAdd
	default:
		return TypeContent
	}
}

// ParseStatus extracts conflicted files from `git status --porcelain=v2`
// output. Only unmerged ('u') records are considered.
//
// Record layout: u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
func ParseStatus(r io.Reader) ([]File, error) {
	var files []File
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "u ") {
			continue
		}
		// Path may contain spaces: split into exactly 11 fields.
		fields := strings.SplitN(line, " ", 11)
		if len(fields) < 11 {
			continue
		}
		files = append(files, File{
			Path: fields[10],
			Type: ClassifyXY(fields[1]),
		})
	}
	return files, scanner.Err()
}

// conflictLineKinds maps the kind inside "CONFLICT (<kind>):" lines to a type.
var conflictLineKinds = map[string]Type{
	"content":       TypeContent,
	"add/add":       TypeAddAdd,
	"modify/delete": TypeDeleteModify,
	"delete/modify": TypeDeleteModify,
	"rename/delete": TypeDeleteModify,
	"rename/rename": TypeRenameRename,
	"rename/modify": TypeRenameModify,
	"rename/add":    TypeRenameModify,
}

// UpgradeTypes refines conflict types using the operation's combined output.
// Porcelain XY codes cannot distinguish rename or binary conflicts; git's
// "CONFLICT (<kind>): ..." and "Cannot merge binary files: ..." lines can.
// A file's type is upgraded when a conflict line mentions its path.
func UpgradeTypes(files []File, output string) []File {
	if len(files) == 0 || output == "" {
		return files
	}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(line, "warning: Cannot merge binary files: "); ok {
			for i := range files {
				if strings.Contains(rest, files[i].Path) {
					files[i].Type = TypeBinary
				}
			}
			continue
		}

		rest, ok := strings.CutPrefix(line, "CONFLICT (")
		if !ok {
			continue
		}
		kind, detail, ok := strings.Cut(rest, "):")
		if !ok {
			continue
		}
		t, known := conflictLineKinds[kind]
		if !known || t == TypeContent {
			continue
		}
		for i := range files {
			if strings.Contains(detail, files[i].Path) {
				files[i].Type = t
			}
		}
	}
	return files
}

// DetectBinary upgrades content conflicts to binary when the worktree file
// fails a text sniff. root is the repository working directory.
func DetectBinary(root string, files []File) []File {
	for i := range files {
		if files[i].Type != TypeContent {
			continue
		}
		if sniffBinary(filepath.Join(root, files[i].Path)) {
			files[i].Type = TypeBinary
		}
	}
	return files
}

// sniffBinary applies git's heuristic: a NUL byte in the first 8000 bytes.
func sniffBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 8000)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// ScanMarkers reports whether contents still carry conflict markers.
func ScanMarkers(contents []byte) bool {
	for _, line := range bytes.Split(contents, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("<<<<<<<")) ||
			bytes.HasPrefix(line, []byte(">>>>>>>")) {
			return true
		}
	}
	return false
}

// Unresolved counts files that still need a resolution.
func Unresolved(files []File) int {
	n := 0
	for _, f := range files {
		if f.Resolution == ResolutionUnresolved {
			n++
		}
	}
	return n
}

// AllResolved reports whether every file has a resolution.
func AllResolved(files []File) bool {
	return Unresolved(files) == 0
}

// Paths returns the conflicted paths in order.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
