package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/mod/semver"

	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

const (
	remoteName  = "origin"
	commitName  = "gamehostd"
	commitEmail = "gamehostd@localhost"
)

// GitVersionControlRepository implements the version-control collaborator on
// top of go-git. Merging advances references only; file realization is a
// separate step so the pipeline controls exactly what reaches the disk.
type GitVersionControlRepository struct{}

// NewGitVersionControlRepository creates a new go-git backed repository.
func NewGitVersionControlRepository() repositories.VersionControlRepository {
	return &GitVersionControlRepository{}
}

// HeadRevision returns the commit hash the working tree is currently on.
func (it *GitVersionControlRepository) HeadRevision(_ context.Context, workdir string) (string, error) {
	repo, err := gogit.PlainOpen(workdir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %q: %w", workdir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Merge fetches the remote and fast-forwards the local branch to the target
// (remote head when target is empty, a tag otherwise). Only references and
// the index move; the files on disk stay untouched until Realize. Diverged
// histories fail with a MergeConflictError.
func (it *GitVersionControlRepository) Merge(ctx context.Context, workdir, target string) (string, error) {
	repo, err := gogit.PlainOpen(workdir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %q: %w", workdir, err)
	}

	fetchErr := repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		Tags:       gogit.AllTags,
	})
	if fetchErr != nil && !errors.Is(fetchErr, gogit.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("fetch from %q failed: %w", remoteName, fetchErr)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	targetHash, err := resolveTarget(repo, head, target)
	if err != nil {
		return "", err
	}

	if head.Hash() == targetHash {
		return targetHash.String(), nil
	}

	localCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to load local commit: %w", err)
	}
	targetCommit, err := repo.CommitObject(targetHash)
	if err != nil {
		return "", fmt.Errorf("failed to load target commit: %w", err)
	}

	fastForward, err := localCommit.IsAncestor(targetCommit)
	if err != nil {
		return "", fmt.Errorf("failed to compare histories: %w", err)
	}
	if !fastForward {
		// The local branch may simply be ahead of the target.
		behind, ancestorErr := targetCommit.IsAncestor(localCommit)
		if ancestorErr == nil && behind {
			return head.Hash().String(), nil
		}
		return "", &entities.MergeConflictError{
			LocalRevision:  head.Hash().String(),
			RemoteRevision: targetHash.String(),
		}
	}

	if refErr := repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), targetHash)); refErr != nil {
		return "", fmt.Errorf("failed to advance branch %s: %w", head.Name().Short(), refErr)
	}

	// Mixed reset aligns the index with the new commit without touching the
	// working tree, so a later commit over pathsToStage is built on the
	// merged state.
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}
	if resetErr := worktree.Reset(&gogit.ResetOptions{
		Mode:   gogit.MixedReset,
		Commit: targetHash,
	}); resetErr != nil {
		return "", fmt.Errorf("failed to reset index to merged revision: %w", resetErr)
	}

	return targetHash.String(), nil
}

// LatestReleaseTag returns the repository's highest stable semver tag.
func (it *GitVersionControlRepository) LatestReleaseTag(_ context.Context, workdir string) (string, error) {
	repo, err := gogit.PlainOpen(workdir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %q: %w", workdir, err)
	}

	iter, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	best := ""
	bestCanonical := ""
	iterErr := iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		canonical := canonicalVersion(name)
		if canonical == "" || semver.Prerelease(canonical) != "" {
			return nil
		}
		if bestCanonical == "" || semver.Compare(canonical, bestCanonical) > 0 {
			best = name
			bestCanonical = canonical
		}
		return nil
	})
	if iterErr != nil {
		return "", fmt.Errorf("failed to iterate tags: %w", iterErr)
	}
	if best == "" {
		return "", fmt.Errorf("no release tags found in %q", workdir)
	}
	return best, nil
}

// Realize writes the files of the revision into the working tree, skipping
// everything under the excluded repo-relative directories. Files the
// revision does not carry are left alone, so untracked data survives.
func (it *GitVersionControlRepository) Realize(
	_ context.Context,
	workdir, revision string,
	exclude []string,
) error {
	repo, err := gogit.PlainOpen(workdir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %q: %w", workdir, err)
	}

	commit, err := repo.CommitObject(plumbing.NewHash(revision))
	if err != nil {
		return fmt.Errorf("failed to load revision %q: %w", revision, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to load tree of %q: %w", revision, err)
	}

	files := tree.Files()
	defer files.Close()

	return files.ForEach(func(file *object.File) error {
		if underAny(file.Name, exclude) {
			return nil
		}
		return writeTreeFile(workdir, file)
	})
}

// CommitAndPush stages the given repo-relative paths, commits them, and
// pushes the branch. It reports false on a clean tree without error.
func (it *GitVersionControlRepository) CommitAndPush(
	ctx context.Context,
	workdir string,
	paths []string,
	message string,
) (bool, error) {
	repo, err := gogit.PlainOpen(workdir)
	if err != nil {
		return false, fmt.Errorf("failed to open repository at %q: %w", workdir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}

	for _, p := range paths {
		if _, statErr := os.Lstat(filepath.Join(workdir, filepath.FromSlash(p))); os.IsNotExist(statErr) {
			continue
		}
		if _, addErr := worktree.Add(p); addErr != nil {
			return false, fmt.Errorf("failed to stage %q: %w", p, addErr)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	if !hasStagedChanges(status) {
		return false, nil
	}

	_, commitErr := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  commitName,
			Email: commitEmail,
			When:  time.Now(),
		},
	})
	if commitErr != nil {
		return false, fmt.Errorf("failed to commit staged paths: %w", commitErr)
	}

	pushErr := repo.PushContext(ctx, &gogit.PushOptions{RemoteName: remoteName})
	if pushErr != nil && !errors.Is(pushErr, gogit.NoErrAlreadyUpToDate) {
		return false, fmt.Errorf("failed to push to %q: %w", remoteName, pushErr)
	}
	return true, nil
}

func resolveTarget(repo *gogit.Repository, head *plumbing.Reference, target string) (plumbing.Hash, error) {
	revision := "refs/remotes/" + remoteName + "/" + head.Name().Short()
	if target != "" {
		revision = target
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve merge target %q: %w", revision, err)
	}
	return *hash, nil
}

func canonicalVersion(tag string) string {
	v := tag
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

func underAny(name string, exclude []string) bool {
	for _, ex := range exclude {
		trimmed := strings.Trim(ex, "/")
		if trimmed == "" {
			continue
		}
		if name == trimmed || strings.HasPrefix(name, trimmed+"/") {
			return true
		}
	}
	return false
}

func writeTreeFile(workdir string, file *object.File) error {
	dest := filepath.Join(workdir, filepath.FromSlash(file.Name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", file.Name, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return fmt.Errorf("failed to read blob of %q: %w", file.Name, err)
	}

	// Remove any existing entry first: writing through a leftover symlink
	// would clobber its target.
	if _, lstatErr := os.Lstat(dest); lstatErr == nil {
		if removeErr := os.Remove(dest); removeErr != nil {
			return fmt.Errorf("failed to replace %q: %w", file.Name, removeErr)
		}
	}

	if file.Mode == filemode.Symlink {
		if linkErr := os.Symlink(contents, dest); linkErr != nil {
			return fmt.Errorf("failed to write link %q: %w", file.Name, linkErr)
		}
		return nil
	}

	perm := os.FileMode(0o644)
	if file.Mode == filemode.Executable {
		perm = 0o755
	}
	if writeErr := os.WriteFile(dest, []byte(contents), perm); writeErr != nil {
		return fmt.Errorf("failed to write %q: %w", file.Name, writeErr)
	}
	return nil
}

func hasStagedChanges(status gogit.Status) bool {
	for _, fileStatus := range status {
		switch fileStatus.Staging {
		case gogit.Unmodified, gogit.Untracked:
			continue
		default:
			return true
		}
	}
	return false
}
