package core

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/greenbyte/sustain/internal/contract"
)

// loadSource returns the staged version of path and, when it differs, the
// HEAD version. Outside a repository, for unstaged files, with a nil client or
// with fromDisk set the file is read from disk.
func loadSource(ctx context.Context, git contract.GitClient, path string, fromDisk bool) ([]byte, []byte, error) {
	if fromDisk || git == nil {
		content, err := readSource(path)
		return content, nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	root, err := git.GetRepoRoot(ctx, filepath.Dir(abs))
	if err != nil {
		contract.LogInfo("%s is not in a git repository, reading from disk", path)
		content, err := readSource(path)
		return content, nil, err
	}
	rel, err := contract.RelativeToRepo(root, abs)
	if err != nil {
		content, err := readSource(path)
		return content, nil, err
	}

	content, err := git.GetStagedContent(ctx, root, rel)
	if err != nil {
		contract.LogInfo("%s is not staged, reading from disk", rel)
		if content, err = readSource(path); err != nil {
			return nil, nil, err
		}
	}
	if content == nil {
		content = []byte{}
	}

	var head []byte
	if ok, err := git.ExistsInHead(ctx, root, rel); err == nil && ok {
		if h, err := git.GetHeadContent(ctx, root, rel); err == nil && !bytes.Equal(h, content) {
			head = h
		}
	}
	return content, head, nil
}
