package core

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// sniffBytes is how much of an extension-less file is read to look for a shebang.
const sniffBytes = 512

// ScoreFiles scores every file named by cfg.Paths. Directories are walked and
// only files with a detectable language are kept; explicit files are always
// scored. Analyses run on a pool of cfg.Workers goroutines. Reports come back
// ranked worst first. When a history run ID is in ctx, each report is recorded.
func ScoreFiles(ctx context.Context, cfg *contract.Config, collector *Collector, scorer *Scorer, store contract.HistoryStore) ([]schema.FileReport, error) {
	files, err := ExpandPaths(cfg.Paths, cfg.Excludes, cfg.Language)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []schema.FileReport{}, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}

	reports := make([]schema.FileReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = NewFileReportBuilder(gctx, collector, scorer, path).
				WithLanguage(cfg.Language).
				ReadContent().
				DetectLanguage().
				CollectMetrics().
				DeriveMetrics().
				CalculateScore().
				Build()

			if runID, ok := getRunID(ctx); ok && store != nil {
				recordFileScore(store, runID, reports[i], schema.VersionScan, schema.NotSkipped)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return RankFiles(reports, 0), nil
}

// ExpandPaths resolves files and directories into a sorted-by-walk list of files.
// Files under directories are dropped when excluded or of unknown language.
func ExpandPaths(paths, excludes []string, forced schema.Language) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != root && contract.ShouldIgnore(filepath.ToSlash(rel)+"/", excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || contract.ShouldIgnore(filepath.ToSlash(rel), excludes) {
				return nil
			}
			if forced == schema.Unknown && detectFileLanguage(path) == schema.Unknown {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return files, nil
}

// detectFileLanguage detects by extension and falls back to sniffing the file head.
func detectFileLanguage(path string) schema.Language {
	if lang := DetectLanguage(path, nil); lang != schema.Unknown {
		return lang
	}
	f, err := os.Open(path)
	if err != nil {
		return schema.Unknown
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return schema.Unknown
	}
	return DetectLanguage(path, head[:n])
}

// readSource reads the analyzed file. Its failure is fatal to that analysis only.
func readSource(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
