package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a repository with one committed file and a staged change to it.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir, "-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	git("init", "-q")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "app.py"), []byte("print('head')\n"), 0o644))
	git("add", ".")
	git("commit", "-q", "-m", "initial")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "app.py"), []byte("print('staged')\n"), 0o644))
	git("add", "src/app.py")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "app.py"), []byte("print('worktree')\n"), 0o644))
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	mockClient.
		On("Run", ctx, "/path/to/repo", "log", "-1", "--oneline").
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, "/path/to/repo", "log", "-1", "--oneline")

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with failing commands.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	_, err := client.Run(ctx, "/nonexistent/path", "status")
	assert.Error(t, err, "Run should return an error for an invalid repo path")

	_, err = client.Run(ctx, repo, "invalid-command")
	assert.Error(t, err, "Run should return an error for an invalid git command")
}

// TestLocalGitClient_GetRepoRoot tests the GetRepoRoot method.
func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	root, err := client.GetRepoRoot(ctx, filepath.Join(repo, "src"))
	require.NoError(t, err)

	expected, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

// TestLocalGitClient_Content tests staged and HEAD retrieval.
func TestLocalGitClient_Content(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	staged, err := client.GetStagedContent(ctx, repo, "src/app.py")
	require.NoError(t, err)
	assert.Equal(t, "print('staged')\n", string(staged))

	head, err := client.GetHeadContent(ctx, repo, "src/app.py")
	require.NoError(t, err)
	assert.Equal(t, "print('head')\n", string(head))

	exists, err := client.ExistsInHead(ctx, repo, "src/app.py")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.ExistsInHead(ctx, repo, "src/missing.py")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = client.GetStagedContent(ctx, repo, "src/missing.py")
	assert.Error(t, err)
}

func TestLocalGitClient_ExistsInHeadWithoutCommits(t *testing.T) {
	skipIfGitNotAvailable(t)

	dir := t.TempDir()
	require.NoError(t, exec.Command("git", "-C", dir, "init", "-q").Run())

	exists, err := NewLocalGitClient().ExistsInHead(context.Background(), dir, "app.py")
	require.NoError(t, err)
	assert.False(t, exists)
}
