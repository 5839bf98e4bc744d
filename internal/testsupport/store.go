package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"pagecheck/internal/config"
	"pagecheck/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedDocument indexes a document named name whose pages carry the given codes.
func SeedDocument(t testing.TB, st *store.Store, name string, pages map[int][]string) int64 {
	t.Helper()

	numbers := make([]int, 0, len(pages))
	for page := range pages {
		numbers = append(numbers, page)
	}
	sort.Ints(numbers)

	doc := &store.Document{Name: name, Path: filepath.Join("/seed", name+".pdf")}
	err := st.Update(context.Background(), func(tx *store.Tx) error {
		if err := tx.UpsertDocument(context.Background(), doc); err != nil {
			return err
		}
		for _, page := range numbers {
			if _, err := tx.InsertPageCodes(context.Background(), doc.ID, page, pages[page]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed document %s: %v", name, err)
	}
	return doc.ID
}

// SeedSequential indexes pages 1..count with codes prefix+page (C1, C2, ...).
func SeedSequential(t testing.TB, st *store.Store, name, prefix string, count int) int64 {
	t.Helper()

	pages := make(map[int][]string, count)
	for page := 1; page <= count; page++ {
		pages[page] = []string{fmt.Sprintf("%s%d", prefix, page)}
	}
	return SeedDocument(t, st, name, pages)
}
