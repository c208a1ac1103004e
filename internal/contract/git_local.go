package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetStagedContent implements the GitClient interface.
func (c *LocalGitClient) GetStagedContent(ctx context.Context, repoPath string, relPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", ":"+toGitPath(relPath))
}

// GetHeadContent implements the GitClient interface.
func (c *LocalGitClient) GetHeadContent(ctx context.Context, repoPath string, relPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", "HEAD:"+toGitPath(relPath))
}

// ExistsInHead implements the GitClient interface.
func (c *LocalGitClient) ExistsInHead(ctx context.Context, repoPath string, relPath string) (bool, error) {
	out, err := c.Run(ctx, repoPath, "ls-tree", "--name-only", "HEAD", "--", toGitPath(relPath))
	if err != nil {
		// A repository without commits has no HEAD.
		if strings.Contains(err.Error(), "Not a valid object name") {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// toGitPath converts an OS path into the forward-slash form git expects.
func toGitPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
