package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"tmdbreport/pkg/contracts/domain"
)

// RankField is a numeric column movies can be ranked by.
type RankField string

const (
	RankByPopularity  RankField = ColPopularity
	RankByVoteAverage RankField = ColVoteAverage
)

// ErrUnknownField is returned for a rank field that is not supported.
var ErrUnknownField = errors.New("unknown rank field")

// ParseRankField accepts "popularity" or "vote_average", case-insensitively.
func ParseRankField(s string) (RankField, error) {
	switch f := RankField(strings.ToLower(strings.TrimSpace(s))); f {
	case RankByPopularity, RankByVoteAverage:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

func (f RankField) value(m domain.Movie) float64 {
	if f == RankByPopularity {
		return m.Popularity
	}
	return m.VoteAverage
}

// RankBy returns the n highest movies by field in descending order. Ties
// keep source order and unknown values sort last. n larger than the
// dataset returns every movie; n <= 0 returns none.
func (d *Dataset) RankBy(field RankField, n int) ([]domain.Movie, error) {
	if field != RankByPopularity && field != RankByVoteAverage {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	if n <= 0 {
		return []domain.Movie{}, nil
	}

	ranked := d.Movies()
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := field.value(ranked[i]), field.value(ranked[j])
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}
