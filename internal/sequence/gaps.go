package sequence

import (
	"context"
	"strconv"
	"strings"
)

// MaxListedGaps caps how many missing pages a message spells out.
const MaxListedGaps = 10

// PageScanner reports pages in [from, to) of a document with unconfirmed entries.
type PageScanner interface {
	UnscannedPagesBetween(ctx context.Context, documentID int64, from, to int) ([]int, error)
}

// FindGaps returns, ascending, the pages between anchor (inclusive) and page
// (exclusive) that are not fully scanned.
func FindGaps(ctx context.Context, scanner PageScanner, documentID int64, anchor, page int) ([]int, error) {
	if page <= anchor {
		return nil, nil
	}
	return scanner.UnscannedPagesBetween(ctx, documentID, anchor, page)
}

// GapSummary is the operator-facing view of a gap list.
type GapSummary struct {
	Shown     []int
	Remaining int
	All       []int
}

// Summarize caps a gap list at MaxListedGaps and counts the overflow.
func Summarize(gaps []int) GapSummary {
	summary := GapSummary{All: gaps}
	if len(gaps) > MaxListedGaps {
		summary.Shown = gaps[:MaxListedGaps]
		summary.Remaining = len(gaps) - MaxListedGaps
	} else {
		summary.Shown = gaps
	}
	return summary
}

// String renders "4, 5, 6 (+3 more)".
func (s GapSummary) String() string {
	parts := make([]string, len(s.Shown))
	for i, page := range s.Shown {
		parts[i] = strconv.Itoa(page)
	}
	out := strings.Join(parts, ", ")
	if s.Remaining > 0 {
		out += " (+" + strconv.Itoa(s.Remaining) + " more)"
	}
	return out
}
