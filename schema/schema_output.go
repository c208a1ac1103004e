package schema

// RankedFileReport adds presentation data to a FileReport.
type RankedFileReport struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	FileReport
}

// UnscoredLabel is shown for results where no rubric metric was available.
const UnscoredLabel = "Unscored"

// GetPlainLabel returns a plain text label for a sustainability score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Poor"
	}
}

// LabelFor returns the label of a ScoreResult, accounting for unscored results.
func LabelFor(r ScoreResult) string {
	if !r.Scored {
		return UnscoredLabel
	}
	return GetPlainLabel(r.Score)
}

// RankFiles adds rank and label to a list of file reports.
func RankFiles(files []FileReport) []RankedFileReport {
	output := make([]RankedFileReport, len(files))
	for i, f := range files {
		output[i] = RankedFileReport{
			Rank:       i + 1,
			Label:      LabelFor(f.Result),
			FileReport: f,
		}
	}
	return output
}
