// Package gitinfo reports the git branch of the session directory.
package gitinfo

import (
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/j-veylop/glm-statusline/internal/logger"
)

const shortHashLen = 7

// Branch returns the checked out branch of the repository containing dir,
// the short commit hash when HEAD is detached, or "" outside a repository.
func Branch(dir string) string {
	if dir == "" {
		return ""
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		// Unborn branch: HEAD points at a branch with no commits yet.
		ref, refErr := repo.Reference(plumbing.HEAD, false)
		if refErr != nil || ref.Type() != plumbing.SymbolicReference {
			logger.Debug("failed to resolve git HEAD", "dir", dir, "error", err)
			return ""
		}
		return ref.Target().Short()
	}

	if head.Name().IsBranch() {
		return head.Name().Short()
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}
