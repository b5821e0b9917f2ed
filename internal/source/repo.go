package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
)

// shorthandRe matches the "owner/repo" GitHub shorthand.
var shorthandRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// NormalizeRepoURL turns a user-supplied repository reference into a
// cloneable URL. Full http(s) URLs pass through unchanged; the "owner/repo"
// shorthand expands to a GitHub clone URL.
func NormalizeRepoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.InvalidInput("repo_url is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	if shorthandRe.MatchString(raw) {
		return fmt.Sprintf("https://github.com/%s.git", strings.TrimSuffix(raw, ".git")), nil
	}
	return "", apperr.InvalidInput(fmt.Sprintf("invalid repository reference: %s", raw))
}

// CloneRepo shallow-clones the repository into a fresh temporary directory
// and returns its path. The caller owns the directory and should remove it
// when done.
func CloneRepo(ctx context.Context, repoURL string) (string, error) {
	url, err := NormalizeRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	dest, err := os.MkdirTemp("", "codebase-rag-clone-*")
	if err != nil {
		return "", fmt.Errorf("create clone dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(dest)
		return "", apperr.Wrap(apperr.KindInternal,
			fmt.Sprintf("git clone failed: %s", firstLine(string(out))), err)
	}
	return dest, nil
}

// firstLine trims a command's combined output down to its first non-empty
// line for inclusion in an error message.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no output"
}
