// Package reconcile removes the duplicated text that appears at strip
// boundaries when overlapping strips of a page are transcribed
// independently. Each strip shares a band of pixels with its neighbour, so
// the model transcribes the same lines twice; reconciliation detects the
// repeated passage at the start of the later strip and strips it there,
// leaving already-finalized earlier output untouched.
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultThreshold is the similarity ratio a candidate prefix must exceed
// to be treated as a duplicate of the previous unit's tail.
const DefaultThreshold = 0.7

const (
	// prefixLines bounds how many leading lines of a unit are considered
	// as a candidate duplicate.
	prefixLines = 10
	// suffixLines bounds how many trailing lines of the previous unit are
	// scanned for a matching tail. Bounding both windows limits cost and
	// avoids false matches against repeated content deep in the document.
	suffixLines = 15
)

// Reconciler removes overlap-induced duplicate text from an ordered
// sequence of per-strip transcriptions.
type Reconciler struct {
	Threshold float64
}

// New returns a Reconciler with the given similarity threshold.
func New(threshold float64) *Reconciler {
	return &Reconciler{Threshold: threshold}
}

// Clean returns the units with overlap-induced duplicates removed.
//
// The first unit is kept verbatim. Each later unit is compared against the
// cleaned (not raw) previous unit: prefixes of 1 up to 10 lines of the
// current unit are scored against every suffix window starting in the last
// 15 lines of the previous unit, case-insensitively. A prefix whose score
// exceeds the threshold for any window is recorded; scanning continues
// through longer prefixes, and the longest prefix that matched anywhere is
// the one removed. A unit with no match above the threshold is kept
// (trimmed) as-is. Clean never fails: worst case, units come back
// unchanged.
func (r *Reconciler) Clean(units []string) []string {
	if len(units) <= 1 {
		return units
	}

	cleaned := make([]string, 0, len(units))
	cleaned = append(cleaned, units[0])

	for i := 1; i < len(units); i++ {
		current := strings.TrimSpace(units[i])
		previous := strings.TrimSpace(cleaned[len(cleaned)-1])

		currentLines := strings.Split(current, "\n")
		previousLines := strings.Split(previous, "\n")

		limit := prefixLines
		if len(currentLines) < limit {
			limit = len(currentLines)
		}
		windowStart := len(previousLines) - suffixLines
		if windowStart < 0 {
			windowStart = 0
		}

		bestMatchEnd := 0
		for j := 0; j < limit; j++ {
			currentSegment := fold(strings.Join(currentLines[:j+1], "\n"))
			for k := windowStart; k < len(previousLines); k++ {
				previousSegment := fold(strings.Join(previousLines[k:], "\n"))
				if Ratio(currentSegment, previousSegment) > r.Threshold {
					// First window hit settles this prefix length; a longer
					// prefix matching later overwrites it.
					bestMatchEnd = j + 1
					break
				}
			}
		}

		if bestMatchEnd > 0 {
			cleaned = append(cleaned, strings.Join(currentLines[bestMatchEnd:], "\n"))
		} else {
			cleaned = append(cleaned, current)
		}
	}
	return cleaned
}

// Join assembles cleaned units into the final document: each unit is
// trimmed, blank units are dropped, and the rest are separated by a blank
// line.
func Join(units []string) string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		t := strings.TrimSpace(u)
		if t == "" {
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, "\n\n")
}

// fold lowercases s using full Unicode case folding, so the similarity
// comparison is case-insensitive beyond ASCII.
func fold(s string) string {
	return cases.Fold().String(s)
}
