package op

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/regraft/regraft/internal/engine"
	"github.com/regraft/regraft/internal/errors"
)

// maxRefLength is the maximum length for user-provided ref names.
const maxRefLength = 100

// validRefRegex matches valid git ref name characters. Ref names cannot
// contain space, ~, ^, :, ?, *, [, \, or control characters.
var validRefRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9/_.-]*$`)

// oidRegex matches a plausible abbreviated or full commit id.
var oidRegex = regexp.MustCompile(`^[0-9a-fA-F]{4,64}$`)

// Options selects an operation kind and carries its parameters. Exactly one
// of the per-kind pointers is set, matching Kind.
type Options struct {
	Kind   Kind
	Merge  *MergeOptions
	Rebase *RebaseOptions
	Pick   *PickOptions
	Revert *RevertOptions
	Patch  *PatchOptions
}

// MergeOptions parameterizes a merge of Branch into the current branch.
type MergeOptions struct {
	Branch            string
	NoFastForward     bool
	FFOnly            bool
	Squash            bool
	CommitImmediately bool
	Message           string
}

// RebaseOptions parameterizes a rebase of the current branch. Exactly one of
// OntoBranch and OntoCommit is set. EditCommits lists commits the rebase
// should stop at for amending; setting it implies an interactive rebase.
type RebaseOptions struct {
	OntoBranch  string
	OntoCommit  string
	Interactive bool
	Autostash   bool
	EditCommits []string
}

// PickOptions parameterizes a cherry-pick over an ordered commit sequence.
type PickOptions struct {
	OIDs []string
}

// RevertOptions parameterizes a revert over an ordered commit sequence.
type RevertOptions struct {
	OIDs []string
}

// PatchOptions parameterizes a mailbox application over ordered patch files.
type PatchOptions struct {
	Paths []string
}

// NewMergeOptions returns merge options with the defaults a dialog starts
// from: commit immediately, no squash, fast-forward allowed.
func NewMergeOptions(branch string) Options {
	return Options{
		Kind:  KindMerge,
		Merge: &MergeOptions{Branch: branch, CommitImmediately: true},
	}
}

// NewRebaseOptions returns options for rebasing onto a branch.
func NewRebaseOptions(ontoBranch string) Options {
	return Options{
		Kind:   KindRebase,
		Rebase: &RebaseOptions{OntoBranch: ontoBranch},
	}
}

// NewRebaseOntoCommit returns options for rebasing onto a commit.
func NewRebaseOntoCommit(oid string) Options {
	return Options{
		Kind:   KindRebase,
		Rebase: &RebaseOptions{OntoCommit: oid},
	}
}

// NewCherryPickOptions returns options for cherry-picking the given commits
// in order.
func NewCherryPickOptions(oids ...string) Options {
	return Options{
		Kind: KindCherryPick,
		Pick: &PickOptions{OIDs: oids},
	}
}

// NewRevertOptions returns options for reverting the given commits in order.
func NewRevertOptions(oids ...string) Options {
	return Options{
		Kind:   KindRevert,
		Revert: &RevertOptions{OIDs: oids},
	}
}

// NewPatchOptions returns options for applying the given mailbox files in
// order.
func NewPatchOptions(paths ...string) Options {
	return Options{
		Kind:  KindPatchApply,
		Patch: &PatchOptions{Paths: paths},
	}
}

// Normalize reconciles option combinations instead of rejecting them:
// squash wins over the fast-forward flags, a no-ff merge cannot also demand
// ff-only, and listing edit stops makes a rebase interactive.
func (o *Options) Normalize() {
	if o.Merge != nil {
		if o.Merge.Squash {
			o.Merge.NoFastForward = false
			o.Merge.FFOnly = false
		}
		if o.Merge.NoFastForward {
			o.Merge.FFOnly = false
		}
	}
	if o.Rebase != nil && len(o.Rebase.EditCommits) > 0 {
		o.Rebase.Interactive = true
	}
}

// Validate checks the options synchronously, before any engine call. A
// returned error always has KindValidation.
func (o Options) Validate() error {
	if err := o.validateVariant(); err != nil {
		return err
	}

	switch o.Kind {
	case KindMerge:
		branch := strings.TrimSpace(o.Merge.Branch)
		if branch == "" {
			return errors.ValidationFailed(opStart, "merge requires a branch")
		}
		return validateRef("branch", branch)

	case KindRebase:
		hasBranch := o.Rebase.OntoBranch != ""
		hasCommit := o.Rebase.OntoCommit != ""
		if hasBranch == hasCommit {
			return errors.ValidationFailed(opStart, "rebase requires exactly one of a branch or a commit to rebase onto")
		}
		if hasBranch {
			if err := validateRef("branch", o.Rebase.OntoBranch); err != nil {
				return err
			}
		} else if !oidRegex.MatchString(o.Rebase.OntoCommit) {
			return errors.ValidationFailed(opStart, fmt.Sprintf("%q does not look like a commit id", o.Rebase.OntoCommit))
		}
		return validateOIDs(o.Rebase.EditCommits)

	case KindCherryPick:
		if len(o.Pick.OIDs) == 0 {
			return errors.ValidationFailed(opStart, "cherry-pick requires at least one commit")
		}
		return validateOIDs(o.Pick.OIDs)

	case KindRevert:
		if len(o.Revert.OIDs) == 0 {
			return errors.ValidationFailed(opStart, "revert requires at least one commit")
		}
		return validateOIDs(o.Revert.OIDs)

	case KindPatchApply:
		if len(o.Patch.Paths) == 0 {
			return errors.ValidationFailed(opStart, "patch apply requires at least one patch file")
		}
		for _, p := range o.Patch.Paths {
			if _, err := os.Stat(p); err != nil {
				return errors.ValidationFailed(opStart, fmt.Sprintf("patch file not found: %s", p))
			}
		}
		return nil

	default:
		return errors.ValidationFailed(opStart, "unknown operation kind")
	}
}

// validateVariant checks that exactly one payload is set and that it matches
// Kind, keeping kind switches elsewhere exhaustive without nil checks.
func (o Options) validateVariant() error {
	count := 0
	if o.Merge != nil {
		count++
	}
	if o.Rebase != nil {
		count++
	}
	if o.Pick != nil {
		count++
	}
	if o.Revert != nil {
		count++
	}
	if o.Patch != nil {
		count++
	}
	if count != 1 {
		return errors.ValidationFailed(opStart, "options must carry exactly one operation payload")
	}

	ok := false
	switch o.Kind {
	case KindMerge:
		ok = o.Merge != nil
	case KindRebase:
		ok = o.Rebase != nil
	case KindCherryPick:
		ok = o.Pick != nil
	case KindRevert:
		ok = o.Revert != nil
	case KindPatchApply:
		ok = o.Patch != nil
	}
	if !ok {
		return errors.ValidationFailed(opStart, fmt.Sprintf("options payload does not match kind %s", o.Kind))
	}
	return nil
}

func validateOIDs(oids []string) error {
	for _, oid := range oids {
		if !oidRegex.MatchString(oid) {
			return errors.ValidationFailed(opStart, fmt.Sprintf("%q does not look like a commit id", oid))
		}
	}
	return nil
}

// validateRef rejects names git itself would refuse.
func validateRef(what, name string) error {
	if len(name) > maxRefLength {
		return errors.ValidationFailed(opStart, fmt.Sprintf("%s name too long (max %d characters)", what, maxRefLength))
	}
	if strings.HasPrefix(name, "-") {
		return errors.ValidationFailed(opStart, fmt.Sprintf("%s name cannot start with '-'", what))
	}
	if strings.HasSuffix(name, ".lock") {
		return errors.ValidationFailed(opStart, fmt.Sprintf("%s name cannot end with '.lock'", what))
	}
	if strings.Contains(name, "..") {
		return errors.ValidationFailed(opStart, fmt.Sprintf("%s name cannot contain '..'", what))
	}
	if !validRefRegex.MatchString(name) {
		return errors.ValidationFailed(opStart, fmt.Sprintf("%s name contains invalid characters (use letters, numbers, /, _, ., -)", what))
	}
	return nil
}

// Target summarizes what the operation acts on, for display.
func (o Options) Target() string {
	switch o.Kind {
	case KindMerge:
		return o.Merge.Branch
	case KindRebase:
		if o.Rebase.OntoBranch != "" {
			return o.Rebase.OntoBranch
		}
		return shortOID(o.Rebase.OntoCommit)
	case KindCherryPick:
		return describeOIDs(o.Pick.OIDs)
	case KindRevert:
		return describeOIDs(o.Revert.OIDs)
	case KindPatchApply:
		if len(o.Patch.Paths) == 1 {
			return filepath.Base(o.Patch.Paths[0])
		}
		return fmt.Sprintf("%d patches", len(o.Patch.Paths))
	default:
		return ""
	}
}

func describeOIDs(oids []string) string {
	if len(oids) == 1 {
		return shortOID(oids[0])
	}
	return fmt.Sprintf("%d commits", len(oids))
}

func shortOID(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}

// clone deep-copies the options so session snapshots never share mutable
// state with callers.
func (o Options) clone() Options {
	out := o
	if o.Merge != nil {
		m := *o.Merge
		out.Merge = &m
	}
	if o.Rebase != nil {
		r := *o.Rebase
		r.EditCommits = append([]string(nil), r.EditCommits...)
		out.Rebase = &r
	}
	if o.Pick != nil {
		p := *o.Pick
		p.OIDs = append([]string(nil), p.OIDs...)
		out.Pick = &p
	}
	if o.Revert != nil {
		r := *o.Revert
		r.OIDs = append([]string(nil), r.OIDs...)
		out.Revert = &r
	}
	if o.Patch != nil {
		p := *o.Patch
		p.Paths = append([]string(nil), p.Paths...)
		out.Patch = &p
	}
	return out
}

// Engine parameter mapping. Normalization has already run by the time these
// are called.

func (m MergeOptions) params() engine.MergeParams {
	return engine.MergeParams{
		Branch:            m.Branch,
		NoFastForward:     m.NoFastForward,
		FFOnly:            m.FFOnly,
		Squash:            m.Squash,
		CommitImmediately: m.CommitImmediately,
		Message:           m.Message,
	}
}

func (r RebaseOptions) params() engine.RebaseParams {
	onto := r.OntoBranch
	if onto == "" {
		onto = r.OntoCommit
	}
	return engine.RebaseParams{
		Onto:        onto,
		Interactive: r.Interactive,
		Autostash:   r.Autostash,
		EditCommits: append([]string(nil), r.EditCommits...),
	}
}

func (p PickOptions) params() engine.PickParams {
	return engine.PickParams{OIDs: append([]string(nil), p.OIDs...)}
}

func (r RevertOptions) params() engine.RevertParams {
	return engine.RevertParams{OIDs: append([]string(nil), r.OIDs...)}
}

func (p PatchOptions) params() engine.MailboxParams {
	return engine.MailboxParams{Paths: append([]string(nil), p.Paths...)}
}
