package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// rubricRow is one flattened rubric entry.
type rubricRow struct {
	Language  schema.Language  `json:"language"`
	Metric    schema.MetricKey `json:"metric"`
	Good      float64          `json:"good"`
	Bad       float64          `json:"bad"`
	Weight    float64          `json:"weight"`
	Direction string           `json:"direction"`
}

// WriteRubricTable prints the rubric entries of langs.
func WriteRubricTable(rubric *schema.Rubric, langs []schema.Language, cfg *contract.Config) error {
	rows := flattenRubric(rubric, langs)

	return writeFormatted(cfg, "rubric", formatWriters{
		json: jsonWriter(rows),
		csv: func(w io.Writer) error {
			return writeRubricCSV(w, rows)
		},
		text: func(w io.Writer) error {
			return writeRubricText(w, rows)
		},
	})
}

func flattenRubric(rubric *schema.Rubric, langs []schema.Language) []rubricRow {
	rows := []rubricRow{}
	for _, lang := range langs {
		lr, ok := rubric.For(lang)
		if !ok {
			continue
		}
		for _, key := range lr.Keys() {
			t := lr[key]
			direction := "higher is better"
			switch {
			case t.Good == t.Bad:
				direction = "exact match"
			case t.LowerIsBetter():
				direction = "lower is better"
			}
			rows = append(rows, rubricRow{
				Language:  lang,
				Metric:    key,
				Good:      t.Good,
				Bad:       t.Bad,
				Weight:    t.Weight,
				Direction: direction,
			})
		}
	}
	return rows
}

func writeRubricText(w io.Writer, rows []rubricRow) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Language", "Metric", "Good", "Bad", "Weight", "Direction"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range rows {
		data = append(data, []string{
			r.Language.DisplayName(),
			string(r.Metric),
			formatNumber(r.Good),
			formatNumber(r.Bad),
			formatNumber(r.Weight),
			r.Direction,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRubricCSV(w io.Writer, rows []rubricRow) error {
	header := []string{"language", "metric", "good", "bad", "weight", "direction"}
	return writeCSV(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{
				string(r.Language),
				string(r.Metric),
				formatNumber(r.Good),
				formatNumber(r.Bad),
				formatNumber(r.Weight),
				r.Direction,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
