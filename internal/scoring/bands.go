// Package scoring turns raw per-item evaluation scores into letter grades and
// aggregates them into category and final scores under declared weights. All
// functions are pure: same inputs, same outputs, safe under any parallelism.
package scoring

import (
	"errors"
	"sort"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// BandCount is the conventional number of grade bands per item (A through E).
const BandCount = 5

// ErrMalformedGradeConfig indicates the grade bands for an item do not form a
// complete, non-overlapping cover of [0, max]. It is a configuration error,
// never a scoring outcome, and blocks finalization rather than defaulting to
// an arbitrary letter.
var ErrMalformedGradeConfig = errors.New("malformed grade configuration")

// ValidateBands checks that the band set forms a total, gapless,
// non-overlapping cover of the closed interval [0, maxScore].
func ValidateBands(maxScore int, bands []models.GradeBand) error {
	if maxScore <= 0 || len(bands) == 0 {
		return ErrMalformedGradeConfig
	}

	ordered := make([]models.GradeBand, len(bands))
	copy(ordered, bands)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].MinScore < ordered[j].MinScore
	})

	if ordered[0].MinScore != 0 {
		return ErrMalformedGradeConfig
	}
	if ordered[len(ordered)-1].MaxScore != maxScore {
		return ErrMalformedGradeConfig
	}

	for i, band := range ordered {
		if band.Letter == "" {
			return ErrMalformedGradeConfig
		}
		if band.MinScore > band.MaxScore {
			return ErrMalformedGradeConfig
		}
		if i > 0 && band.MinScore != ordered[i-1].MaxScore+1 {
			// Either a gap or an overlap with the previous band.
			return ErrMalformedGradeConfig
		}
	}

	return nil
}

// ResolveGrade returns the letter of the unique band containing raw. Under a
// valid configuration exactly one band matches; zero or multiple matches
// surface ErrMalformedGradeConfig. The resolver never repairs bad bands.
func ResolveGrade(raw int, bands []models.GradeBand) (string, error) {
	letter := ""
	matches := 0
	for _, band := range bands {
		if band.Contains(raw) {
			letter = band.Letter
			matches++
		}
	}

	if matches != 1 {
		return "", ErrMalformedGradeConfig
	}

	return letter, nil
}
