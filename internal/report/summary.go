package report

import (
	"fmt"
	"math"
	"strings"

	"tmdbreport/pkg/contracts/domain"
)

const maxGemTitles = 5

// SummaryLines turns summary figures into the report's bullet points.
func SummaryLines(s domain.Summary) []string {
	var lines []string

	if s.Stats.Retained == 0 {
		return []string{fmt.Sprintf("No movies were kept out of %d rows.", s.Stats.RowsRead)}
	}

	lines = append(lines, fmt.Sprintf("Half of all movie ratings fall between %.1f and %.1f.", s.RatingLow, s.RatingHigh))

	if s.HasYears {
		lines = append(lines, fmt.Sprintf("Dataset covers years %d to %d.", s.FirstYear, s.LastYear))
		lines = append(lines, fmt.Sprintf("Movie releases peaked in %d with %d titles.", s.PeakYear, s.PeakYearCount))
	} else {
		lines = append(lines, "No release date could be read as a calendar date.")
	}

	if s.TopN > 0 {
		if s.TopOverlap < s.TopN {
			lines = append(lines, fmt.Sprintf(
				"Only %d of the top %d most popular movies are also among the highest rated, so popularity is not the same as rating.",
				s.TopOverlap, s.TopN))
		} else {
			lines = append(lines, fmt.Sprintf("The top %d most popular movies are also the highest rated.", s.TopN))
		}
	}

	if s.HasCorrelation {
		lines = append(lines, fmt.Sprintf("Vote count and popularity show a %s correlation (r = %.2f).",
			strength(s.VotePopularityCorrelation), s.VotePopularityCorrelation))
	}

	if len(s.HiddenGems) > 0 {
		gems := s.HiddenGems
		if len(gems) > maxGemTitles {
			gems = gems[:maxGemTitles]
		}
		lines = append(lines, "Highly rated but less popular: "+strings.Join(gems, ", ")+".")
	}

	if s.Stats.Dropped > 0 {
		verb := "rows were"
		if s.Stats.Dropped == 1 {
			verb = "row was"
		}
		lines = append(lines, fmt.Sprintf("%d %s dropped for a missing title, rating or release date.", s.Stats.Dropped, verb))
	}
	return lines
}

func strength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.2:
		return "weak"
	}
	return "negligible"
}
