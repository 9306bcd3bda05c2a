package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/client"
)

// Bar is one row of a proportional bar list.
type Bar struct {
	Label string
	Count int
	// Width is the bar width in percent, 0..100.
	Width float64
	// Percent is the printed percentage ("12.5%" or "40%").
	Percent string
	Color   string
}

// AnalysisView is the content of the analysis modal.
type AnalysisView struct {
	// Error is set instead of the lists when the analysis failed.
	Error          string
	TotalDocuments int
	Categories     []Bar
	Words          []Bar
}

// BuildAnalysisView renders an /analyze outcome. A payload error shows its
// own message; any other failure shows the generic analysis error.
func BuildAnalysisView(resp *api.AnalyzeResponse, err error, palette Palette) AnalysisView {
	if err != nil {
		var pe *client.PayloadError
		if errors.As(err, &pe) && pe.Message != "" {
			return AnalysisView{Error: pe.Message}
		}
		return AnalysisView{Error: MsgAnalyzeError}
	}
	if resp == nil {
		return AnalysisView{Error: MsgAnalyzeError}
	}
	if resp.Error != "" {
		return AnalysisView{Error: resp.Error}
	}

	view := AnalysisView{
		TotalDocuments: resp.TotalDocuments,
		Categories:     CategoryBars(resp.Categories, resp.TotalDocuments, palette),
		Words:          WordBars(resp.TopWords),
	}
	return view
}

// CategoryBars sizes each category as a share of total documents, printed
// with one decimal.
func CategoryBars(counts []api.CategoryCount, total int, palette Palette) []Bar {
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		var pct float64
		if total > 0 {
			pct = float64(c.Count) / float64(total) * 100
		}
		label := c.Category
		if label == "" {
			label = LabelNoCategory
		}
		bars = append(bars, Bar{
			Label:   label,
			Count:   c.Count,
			Width:   clampPercent(pct),
			Percent: strconv.FormatFloat(pct, 'f', 1, 64) + "%",
			Color:   palette.Color(c.Category, ColorBar),
		})
	}
	return bars
}

// WordBars sizes each word relative to the most frequent one, as an
// integer percentage.
func WordBars(words []api.WordCount) []Bar {
	maxCount := 0
	for _, w := range words {
		maxCount = max(maxCount, w.Count)
	}
	bars := make([]Bar, 0, len(words))
	for _, w := range words {
		var pct float64
		if maxCount > 0 {
			pct = math.Round(float64(w.Count) / float64(maxCount) * 100)
		}
		bars = append(bars, Bar{
			Label:   w.Word,
			Count:   w.Count,
			Width:   clampPercent(pct),
			Percent: fmt.Sprintf("%d%%", int(pct)),
			Color:   ColorWords,
		})
	}
	return bars
}

// CountLabel prints a word frequency ("12 kali").
func CountLabel(count int) string {
	return fmt.Sprintf("%d %s", count, LabelTimes)
}

func clampPercent(p float64) float64 {
	return math.Min(math.Max(p, 0), 100)
}
