package repositories

import (
	"context"
)

// VersionControlRepository abstracts the version-control engine that backs
// every instance working directory. Revisions are opaque identifiers (commit
// hashes for the git implementation).
type VersionControlRepository interface {
	// HeadRevision returns the current revision of the working tree.
	HeadRevision(ctx context.Context, workdir string) (string, error)

	// Merge fetches the remote and advances the local branch to target.
	// An empty target means the remote head; otherwise target names a tag.
	// It updates references only, never the files on disk, and returns the
	// new revision. Diverged histories fail with a MergeConflictError.
	Merge(ctx context.Context, workdir, target string) (string, error)

	// LatestReleaseTag returns the highest semver-ordered release tag
	// available on the repository, or an error when no release tag exists.
	LatestReleaseTag(ctx context.Context, workdir string) (string, error)

	// Realize writes the files of the given revision into the working tree,
	// skipping every path under one of the excluded repo-relative
	// directories. Files absent from the revision are left in place.
	Realize(ctx context.Context, workdir, revision string, exclude []string) error

	// CommitAndPush stages the given repo-relative paths, commits them with
	// the message, and pushes the branch to the remote. A clean tree is not
	// an error; it reports (false, nil).
	CommitAndPush(ctx context.Context, workdir string, paths []string, message string) (bool, error)
}
