package sequence

import (
	"sort"
	"sync"
)

// Resolution is the outcome of resolving a document's anchor.
type Resolution struct {
	DocumentID int64
	Anchor     int
	// Fresh is true when the document had no anchor yet.
	Fresh bool
	// UsedDefault is true when the queued default anchor supplied the value.
	UsedDefault bool
}

// Guard tracks anchors for every document scanned by one engine.
type Guard struct {
	mu         sync.Mutex
	anchors    map[int64]int
	pending    int
	hasPending bool
}

// NewGuard returns a Guard with no anchors. A positive defaultAnchor is
// queued for the first document that needs one.
func NewGuard(defaultAnchor int) *Guard {
	g := &Guard{anchors: make(map[int64]int)}
	g.SetDefault(defaultAnchor)
	return g
}

// SetDefault queues a default anchor. Values below 1 clear the queue.
func (g *Guard) SetDefault(anchor int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = anchor
	g.hasPending = anchor > 0
}

// Resolve returns the anchor for a document without changing any state. When
// the document has none, the queued default is proposed first and page
// otherwise.
func (g *Guard) Resolve(documentID int64, page int) Resolution {
	g.mu.Lock()
	defer g.mu.Unlock()
	if anchor, ok := g.anchors[documentID]; ok {
		return Resolution{DocumentID: documentID, Anchor: anchor}
	}
	if g.hasPending {
		return Resolution{DocumentID: documentID, Anchor: g.pending, Fresh: true, UsedDefault: true}
	}
	return Resolution{DocumentID: documentID, Anchor: page, Fresh: true}
}

// Commit makes a fresh resolution stick and consumes the queued default it
// used. Non-fresh resolutions are no-ops, so anchors never move once set.
func (g *Guard) Commit(res Resolution) {
	if !res.Fresh {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.anchors[res.DocumentID]; ok {
		return
	}
	g.anchors[res.DocumentID] = res.Anchor
	if res.UsedDefault {
		g.hasPending = false
		g.pending = 0
	}
}

// Anchor returns the anchor of a document, if set.
func (g *Guard) Anchor(documentID int64) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	anchor, ok := g.anchors[documentID]
	return anchor, ok
}

// Default returns the queued default anchor, if any.
func (g *Guard) Default() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, g.hasPending
}

// Reset clears every anchor and any queued default.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.anchors = make(map[int64]int)
	g.pending = 0
	g.hasPending = false
}

// Snapshot copies the current anchors.
func (g *Guard) Snapshot() map[int64]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[int64]int, len(g.anchors))
	for id, anchor := range g.anchors {
		out[id] = anchor
	}
	return out
}

// Documents returns the documents that hold an anchor, ascending.
func (g *Guard) Documents() []int64 {
	snap := g.Snapshot()
	ids := make([]int64, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Behind reports whether page precedes the anchor and therefore belongs to
// another pass over the document.
func Behind(page, anchor int) bool {
	return page < anchor
}
