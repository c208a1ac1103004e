package core

import (
	"sort"

	"github.com/greenbyte/sustain/schema"
)

// RankFiles sorts reports worst first: scored files by ascending score, then
// unscored files, then failed analyses. Ties are broken by path. If limit is
// positive and smaller than the number of reports, only the first limit are returned.
func RankFiles(files []schema.FileReport, limit int) []schema.FileReport {
	sort.SliceStable(files, func(i, j int) bool {
		ci, cj := rankClass(files[i]), rankClass(files[j])
		if ci != cj {
			return ci < cj
		}
		if files[i].Result.Score != files[j].Result.Score {
			return files[i].Result.Score < files[j].Result.Score
		}
		return files[i].Path < files[j].Path
	})
	if limit > 0 && len(files) > limit {
		return files[:limit]
	}
	return files
}

func rankClass(f schema.FileReport) int {
	switch {
	case f.Err != "":
		return 2
	case !f.Result.Scored:
		return 1
	default:
		return 0
	}
}
