package entities

import (
	"slices"
	"strings"
)

// RepoConfig is the immutable per-instance update configuration, produced by
// the tolerant document loader. A section that is absent or malformed in the
// source document degrades to the zero value seen here; the loader never
// fails construction.
type RepoConfig struct {
	// Changelog generation. The three fields are a unit: when the document
	// lacks a valid changelog section, ChangelogSupported is false and the
	// other two are empty.
	ChangelogSupported  bool
	ChangelogScriptPath string
	ChangelogArgs       string

	// PipDependencies lists the changelog script's runtime requirements.
	// Install-time only; a parse failure here leaves the list empty without
	// disabling changelog support.
	PipDependencies []string

	// PostMergeTasks run after a successful merge, in document order.
	PostMergeTasks []TaskSpec

	// PathsToStage are repo-relative paths committed and pushed back to the
	// remote after reconciliation.
	PathsToStage []string

	// StaticDirectories are repo-relative subtrees an update must never
	// overwrite or delete.
	StaticDirectories []string

	// DLLPaths are repo-relative binary artifacts installed as symbolic
	// links so a running process's open handle survives the update.
	DLLPaths []string

	// ServerCommand and ServerArgs launch the instance's game-server
	// process when the instance is enabled.
	ServerCommand string
	ServerArgs    []string
}

// Equal reports whether two configurations are equivalent. List fields
// compare as sets (membership and cardinality, order ignored). Task order is
// significant for execution but deliberately not for equality; tasks compare
// by content.
func (c RepoConfig) Equal(other RepoConfig) bool {
	if c.ChangelogSupported != other.ChangelogSupported ||
		c.ChangelogScriptPath != other.ChangelogScriptPath ||
		c.ChangelogArgs != other.ChangelogArgs ||
		c.ServerCommand != other.ServerCommand {
		return false
	}
	if !equalStringSets(c.PipDependencies, other.PipDependencies) ||
		!equalStringSets(c.PathsToStage, other.PathsToStage) ||
		!equalStringSets(c.StaticDirectories, other.StaticDirectories) ||
		!equalStringSets(c.DLLPaths, other.DLLPaths) ||
		!equalStringSets(c.ServerArgs, other.ServerArgs) {
		return false
	}
	return equalTaskSets(c.PostMergeTasks, other.PostMergeTasks)
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}

func equalTaskSets(a, b []TaskSpec) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.SortFunc(as, compareTasks)
	slices.SortFunc(bs, compareTasks)
	for i := range as {
		if compareTasks(as[i], bs[i]) != 0 {
			return false
		}
	}
	return true
}

func compareTasks(a, b TaskSpec) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := strings.Compare(a.Command, b.Command); c != 0 {
		return c
	}
	if c := strings.Compare(strings.Join(a.Args, "\x00"), strings.Join(b.Args, "\x00")); c != 0 {
		return c
	}
	if a.IsShell == b.IsShell {
		return 0
	}
	if a.IsShell {
		return 1
	}
	return -1
}
