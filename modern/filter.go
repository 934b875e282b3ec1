package modern

import (
	"errors"
	"fmt"
	"math"

	"github.com/CK6170/sensorcal-go/models"
)

var (
	ErrNoInliers  = errors.New("no reading is an inlier in every series")
	ErrMisaligned = errors.New("series lengths differ")
)

// timestamps closer than this are considered the same instant
const timeTolerance = 1e-9

// InlierIndices returns, in ascending order, the indices at which every
// series has |z| < threshold. All series must have the same length.
func InlierIndices(series []*models.Series, threshold float64) ([]int, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to filter")
	}
	n := series[0].Len()
	for _, s := range series[1:] {
		if s.Len() != n {
			return nil, fmt.Errorf("%w: %s has %d readings, %s has %d",
				ErrMisaligned, series[0].Name, n, s.Name, s.Len())
		}
	}

	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		inlier := true
		for _, s := range series {
			// NaN scores (constant series) never pass
			if !(math.Abs(s.Readings[i].Z) < threshold) {
				inlier = false
				break
			}
		}
		if inlier {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, ErrNoInliers
	}
	return idx, nil
}

// FilterByIndexList prunes every series to the same index list.
func FilterByIndexList(series []*models.Series, idx []int) []*models.Series {
	out := make([]*models.Series, len(series))
	for i, s := range series {
		out[i] = s.Pick(idx)
	}
	return out
}

// TimestampWarnings reports series whose timestamps disagree with the first
// series at the same index. Mismatches do not stop a run.
func TimestampWarnings(series []*models.Series) []string {
	if len(series) < 2 {
		return nil
	}
	var out []string
	ref := series[0]
	for _, s := range series[1:] {
		n := min(ref.Len(), s.Len())
		bad := 0
		first := -1
		for i := 0; i < n; i++ {
			if math.Abs(ref.Readings[i].T-s.Readings[i].T) > timeTolerance {
				bad++
				if first < 0 {
					first = i
				}
			}
		}
		if bad > 0 {
			out = append(out, fmt.Sprintf("%s: %d timestamps differ from %s (first at row %d)", s.Name, bad, ref.Name, first+1))
		}
	}
	return out
}
