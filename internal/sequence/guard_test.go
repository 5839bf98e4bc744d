package sequence_test

import (
	"context"
	"reflect"
	"testing"

	"pagecheck/internal/sequence"
)

func TestResolveUsesPageThenKeepsAnchor(t *testing.T) {
	g := sequence.NewGuard(0)

	res := g.Resolve(1, 3)
	if !res.Fresh || res.Anchor != 3 || res.UsedDefault {
		t.Fatalf("unexpected first resolution %+v", res)
	}
	if _, ok := g.Anchor(1); ok {
		t.Fatal("Resolve must not set the anchor")
	}
	g.Commit(res)

	again := g.Resolve(1, 9)
	if again.Fresh || again.Anchor != 3 {
		t.Fatalf("expected committed anchor 3, got %+v", again)
	}
	g.Commit(g.Resolve(1, 1))
	if anchor, _ := g.Anchor(1); anchor != 3 {
		t.Fatalf("anchor moved to %d", anchor)
	}
}

func TestDefaultAnchorConsumedOnceOnCommit(t *testing.T) {
	g := sequence.NewGuard(5)

	first := g.Resolve(1, 8)
	if !first.UsedDefault || first.Anchor != 5 {
		t.Fatalf("expected default anchor, got %+v", first)
	}
	// Not committed: the default stays queued.
	if other := g.Resolve(2, 2); !other.UsedDefault {
		t.Fatalf("default consumed before commit: %+v", other)
	}

	g.Commit(first)
	if _, ok := g.Default(); ok {
		t.Fatal("default should be consumed")
	}
	second := g.Resolve(2, 2)
	if second.UsedDefault || second.Anchor != 2 {
		t.Fatalf("second document should anchor on its page, got %+v", second)
	}
}

func TestCommitIgnoresRacingFreshResolution(t *testing.T) {
	g := sequence.NewGuard(0)
	a := g.Resolve(1, 4)
	b := g.Resolve(1, 7)
	g.Commit(a)
	g.Commit(b)
	if anchor, _ := g.Anchor(1); anchor != 4 {
		t.Fatalf("expected first commit to win, got %d", anchor)
	}
}

func TestResetClearsAnchorsAndQueuedDefault(t *testing.T) {
	g := sequence.NewGuard(0)
	g.Commit(g.Resolve(1, 2))
	g.Commit(g.Resolve(2, 6))
	if ids := g.Documents(); !reflect.DeepEqual(ids, []int64{1, 2}) {
		t.Fatalf("unexpected documents %v", ids)
	}
	g.SetDefault(4)
	g.Reset()
	if len(g.Snapshot()) != 0 {
		t.Fatalf("expected no anchors, got %v", g.Snapshot())
	}
	if def, ok := g.Default(); ok {
		t.Fatalf("reset should drop queued default, got %d", def)
	}
	if res := g.Resolve(1, 2); res.Anchor != 2 || res.UsedDefault {
		t.Fatalf("expected anchor from scanned page after reset, got %+v", res)
	}
}

func TestBehind(t *testing.T) {
	if !sequence.Behind(2, 3) || sequence.Behind(3, 3) || sequence.Behind(4, 3) {
		t.Fatal("Behind must be a strict comparison")
	}
}

type fakeScanner struct {
	pages []int
	calls int
}

func (f *fakeScanner) UnscannedPagesBetween(_ context.Context, _ int64, from, to int) ([]int, error) {
	f.calls++
	var out []int
	for _, p := range f.pages {
		if p >= from && p < to {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestFindGaps(t *testing.T) {
	scanner := &fakeScanner{pages: []int{2, 4, 5, 9}}
	gaps, err := sequence.FindGaps(context.Background(), scanner, 1, 3, 9)
	if err != nil {
		t.Fatalf("FindGaps failed: %v", err)
	}
	if !reflect.DeepEqual(gaps, []int{4, 5}) {
		t.Fatalf("unexpected gaps %v", gaps)
	}
	if gaps, _ := sequence.FindGaps(context.Background(), scanner, 1, 3, 3); gaps != nil {
		t.Fatalf("page at anchor has no gaps, got %v", gaps)
	}
	if scanner.calls != 1 {
		t.Fatalf("expected store to be skipped for empty range, calls=%d", scanner.calls)
	}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name      string
		gaps      []int
		shown     int
		remaining int
		text      string
	}{
		{"single", []int{4}, 1, 0, "4"},
		{"exactly cap", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10, 0, "1, 2, 3, 4, 5, 6, 7, 8, 9, 10"},
		{"overflow", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, 10, 3, "1, 2, 3, 4, 5, 6, 7, 8, 9, 10 (+3 more)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sequence.Summarize(tc.gaps)
			if len(s.Shown) != tc.shown || s.Remaining != tc.remaining || len(s.All) != len(tc.gaps) {
				t.Fatalf("unexpected summary %+v", s)
			}
			if s.String() != tc.text {
				t.Fatalf("String() = %q, want %q", s.String(), tc.text)
			}
		})
	}
}
