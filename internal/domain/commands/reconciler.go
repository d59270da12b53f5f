package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

const shortRevisionLen = 12

// prepareArtifactLinks removes the symbolic links at the given repo-relative
// paths so the checkout that follows writes fresh regular files instead of
// writing through a link onto the previous target. The previous link targets
// are returned so unchanged artifacts can have their links restored.
func prepareArtifactLinks(workdir string, paths []string) (map[string]string, error) {
	previous := make(map[string]string, len(paths))

	for _, p := range paths {
		live := filepath.Join(workdir, filepath.FromSlash(p))

		info, err := os.Lstat(live)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to inspect artifact path %q: %w", p, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			continue
		}

		target, readErr := os.Readlink(live)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read artifact link %q: %w", p, readErr)
		}
		if removeErr := os.Remove(live); removeErr != nil {
			return nil, fmt.Errorf("failed to unlink artifact %q: %w", p, removeErr)
		}
		previous[p] = target
	}

	return previous, nil
}

// installArtifactLinks re-establishes symlink indirection after checkout.
// A freshly realized regular file is moved to a revision-suffixed target and
// the live path becomes a link to it, redirected atomically via rename. The
// previous revision's target file is never touched, so any handle a running
// process holds on it stays valid. Paths the checkout did not realize get
// their previous link restored.
func installArtifactLinks(workdir string, paths []string, revision string, previous map[string]string) error {
	for _, p := range paths {
		live := filepath.Join(workdir, filepath.FromSlash(p))

		info, err := os.Lstat(live)
		if os.IsNotExist(err) {
			if target, ok := previous[p]; ok {
				if linkErr := os.Symlink(target, live); linkErr != nil {
					return fmt.Errorf("failed to restore artifact link %q: %w", p, linkErr)
				}
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to inspect artifact path %q: %w", p, err)
		}
		if info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			continue
		}

		target := live + "-" + shortRevision(revision)
		if renameErr := os.Rename(live, target); renameErr != nil {
			return fmt.Errorf("failed to move artifact %q aside: %w", p, renameErr)
		}

		if swapErr := swapLink(live, filepath.Base(target)); swapErr != nil {
			return fmt.Errorf("failed to link artifact %q: %w", p, swapErr)
		}
	}

	return nil
}

// swapLink points live at target in one atomic step: the link is created
// under a temporary name and renamed over the live path.
func swapLink(live, target string) error {
	tmp := live + ".link.tmp"
	_ = os.Remove(tmp)

	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, live); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func shortRevision(revision string) string {
	if len(revision) <= shortRevisionLen {
		return revision
	}
	return revision[:shortRevisionLen]
}
