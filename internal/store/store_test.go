package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pagecheck/internal/audit"
	"pagecheck/internal/store"
	"pagecheck/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables %v", health.MissingTables)
	}
	if health.SchemaVersion != 1 {
		t.Fatalf("schema version = %d", health.SchemaVersion)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
}

func TestLookupReportsEveryDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.SeedDocument(t, st, "A", map[int][]string{1: {"SHARED"}, 2: {"ONLYA"}})
	b := testsupport.SeedDocument(t, st, "B", map[int][]string{7: {"SHARED"}})

	err := st.Update(ctx, func(tx *store.Tx) error {
		locs, err := tx.Lookup(ctx, "SHARED")
		if err != nil {
			return err
		}
		if len(locs) != 2 || locs[0].DocumentID != a || locs[1].DocumentID != b || locs[1].Page != 7 {
			t.Fatalf("unexpected locations %+v", locs)
		}
		locs, err = tx.Lookup(ctx, "MISSING")
		if err != nil {
			return err
		}
		if len(locs) != 0 {
			t.Fatalf("expected no locations, got %+v", locs)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestDuplicateCodeWithinDocumentKeepsFirstPage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	docID := testsupport.SeedDocument(t, st, "A", map[int][]string{1: {"DUP"}, 2: {"DUP", "OTHER"}})
	codes, err := st.PageCodes(ctx, docID, 2)
	if err != nil {
		t.Fatalf("PageCodes failed: %v", err)
	}
	if len(codes) != 1 || codes[0].Code != "OTHER" {
		t.Fatalf("expected page 2 to keep only OTHER, got %+v", codes)
	}
}

func TestMarkScannedGapsAndReset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	docID := testsupport.SeedDocument(t, st, "A", map[int][]string{
		1: {"P1"},
		2: {"P2A", "P2B"},
		3: {"P3"},
		5: {"P5"},
	})

	err := st.Update(ctx, func(tx *store.Tx) error {
		n, err := tx.MarkPageScanned(ctx, docID, 2)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Fatalf("expected both codes on page 2 marked, got %d", n)
		}
		gaps, err := tx.UnscannedPagesBetween(ctx, docID, 1, 6)
		if err != nil {
			return err
		}
		if len(gaps) != 3 || gaps[0] != 1 || gaps[1] != 3 || gaps[2] != 5 {
			t.Fatalf("unexpected gaps %v", gaps)
		}
		if empty, _ := tx.UnscannedPagesBetween(ctx, docID, 3, 3); len(empty) != 0 {
			t.Fatalf("empty range returned %v", empty)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	scanned, err := st.PageStatuses(ctx, store.FilterScanned)
	if err != nil {
		t.Fatalf("PageStatuses failed: %v", err)
	}
	if len(scanned) != 1 || scanned[0].Page != 2 || !scanned[0].Scanned() {
		t.Fatalf("unexpected scanned pages %+v", scanned)
	}
	pending, err := st.PageStatuses(ctx, store.FilterPending)
	if err != nil {
		t.Fatalf("PageStatuses failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending pages, got %+v", pending)
	}

	totals, err := st.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Documents != 1 || totals.Pages != 4 || totals.ScannedPages != 1 || totals.Codes != 5 || totals.ScannedCodes != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	err = st.Update(ctx, func(tx *store.Tx) error {
		n, err := tx.ResetScans(ctx)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Fatalf("expected 2 entries reset, got %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if scanned, _ := st.PageStatuses(ctx, store.FilterScanned); len(scanned) != 0 {
		t.Fatalf("expected no scanned pages after reset, got %+v", scanned)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	docID := testsupport.SeedSequential(t, st, "A", "C", 3)

	boom := errors.New("boom")
	err := st.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.MarkPageScanned(ctx, docID, 1); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, &audit.Event{Kind: audit.KindScanOK, Code: "C1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	events, err := st.Events(ctx, store.EventFilter{})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected rollback to drop the event, got %+v", events)
	}
	if scanned, _ := st.PageStatuses(ctx, store.FilterScanned); len(scanned) != 0 {
		t.Fatalf("expected rollback to keep pages unscanned, got %+v", scanned)
	}
}

func TestEventsQueries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	kinds := []audit.Kind{
		audit.KindScanOK,
		audit.KindScanNotFound,
		audit.KindScanOK,
		audit.KindResetScans,
		audit.KindScanMissingPages,
	}
	err := st.Update(ctx, func(tx *store.Tx) error {
		for i, kind := range kinds {
			event := &audit.Event{
				Kind:   kind,
				Code:   "C",
				Page:   audit.PageValue(i + 1),
				Detail: audit.Detail{MissingPages: []int{i}},
			}
			if err := tx.AppendEvent(ctx, event); err != nil {
				return err
			}
			if event.ID == 0 || event.Timestamp.IsZero() {
				t.Fatalf("expected id and timestamp, got %+v", event)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	counts, err := st.EventCounts(ctx)
	if err != nil {
		t.Fatalf("EventCounts failed: %v", err)
	}
	if counts[audit.KindScanOK] != 2 || counts[audit.KindScanNotFound] != 1 || counts[audit.KindScanMissingPages] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, ok := counts[audit.KindResetScans]; ok {
		t.Fatalf("reset_scans should not be counted: %v", counts)
	}

	recent, err := st.RecentEvents(ctx, audit.KindScanOK, 20)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(recent) != 2 || *recent[0].Page != 3 || *recent[1].Page != 1 {
		t.Fatalf("expected newest first, got %+v", recent)
	}

	latest, err := st.LatestEvent(ctx, audit.KindScanMissingPages)
	if err != nil || latest == nil {
		t.Fatalf("LatestEvent = %v, %v", latest, err)
	}
	if len(latest.Detail.MissingPages) != 1 || latest.Detail.MissingPages[0] != 4 {
		t.Fatalf("unexpected detail %+v", latest.Detail)
	}
	if none, err := st.LatestEvent(ctx, audit.KindExtractSummary); err != nil || none != nil {
		t.Fatalf("expected no extract summary, got %v, %v", none, err)
	}

	all, err := st.Events(ctx, store.EventFilter{AfterID: recent[1].ID, Kinds: []audit.Kind{audit.KindScanOK, audit.KindResetScans}})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(all) != 2 || all[0].Kind != audit.KindScanOK || all[1].Kind != audit.KindResetScans {
		t.Fatalf("unexpected filtered events %+v", all)
	}
	if limited, _ := st.Events(ctx, store.EventFilter{Limit: 1}); len(limited) != 1 || limited[0].Kind != audit.KindScanOK {
		t.Fatalf("unexpected limited events %+v", limited)
	}
}

func TestMetaAndDocumentUpsert(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	doc := &store.Document{Name: "lot", Path: "/docs/lot.pdf", Size: 10, ModTime: time.Unix(100, 0), Signature: "sig-1"}
	err := st.Update(ctx, func(tx *store.Tx) error {
		if err := tx.UpsertDocument(ctx, doc); err != nil {
			return err
		}
		firstID := doc.ID
		doc.Signature = "sig-2"
		if err := tx.UpsertDocument(ctx, doc); err != nil {
			return err
		}
		if doc.ID != firstID {
			t.Fatalf("upsert changed id %d -> %d", firstID, doc.ID)
		}
		if _, ok, err := tx.Meta(ctx, "pdf_signature"); err != nil || ok {
			t.Fatalf("expected no meta yet, ok=%v err=%v", ok, err)
		}
		if err := tx.SetMeta(ctx, "pdf_signature", "sig-2"); err != nil {
			return err
		}
		value, ok, err := tx.Meta(ctx, "pdf_signature")
		if err != nil || !ok || value != "sig-2" {
			t.Fatalf("Meta = %q, %v, %v", value, ok, err)
		}
		found, err := tx.DocumentByPath(ctx, "/docs/lot.pdf")
		if err != nil || found == nil || found.Signature != "sig-2" {
			t.Fatalf("DocumentByPath = %+v, %v", found, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := st.Document(ctx, doc.ID)
	if err != nil || fetched == nil || fetched.Name != "lot" || !fetched.ModTime.Equal(time.Unix(100, 0)) {
		t.Fatalf("Document = %+v, %v", fetched, err)
	}
	docs, err := st.ListDocuments(ctx)
	if err != nil || len(docs) != 1 || docs[0].Pages != 0 {
		t.Fatalf("ListDocuments = %+v, %v", docs, err)
	}
}

func TestUpdateReturnsStoreBusyWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Store.BusyTimeoutMillis = 50
	cfg.Store.BusyRetryAttempts = 2
	holder := testsupport.MustOpenStore(t, cfg)
	contender := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.Update(ctx, func(tx *store.Tx) error {
			if err := tx.SetMeta(ctx, "holder", "1"); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := contender.Update(ctx, func(tx *store.Tx) error {
		return tx.SetMeta(ctx, "contender", "1")
	})
	close(release)
	if !errors.Is(err, store.ErrStoreBusy) {
		t.Fatalf("expected ErrStoreBusy, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("holder Update failed: %v", err)
	}
}

func TestParseStatusFilter(t *testing.T) {
	for input, want := range map[string]store.StatusFilter{"": store.FilterAll, "Pending": store.FilterPending, "scanned": store.FilterScanned} {
		got, err := store.ParseStatusFilter(input)
		if err != nil || got != want {
			t.Fatalf("ParseStatusFilter(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := store.ParseStatusFilter("done"); err == nil {
		t.Fatal("expected error")
	}
}
