package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// pdfHeader starts every placeholder document so content sniffers treat it as a PDF.
const pdfHeader = "%PDF-1.7\n"

// WriteDocument writes a placeholder document of exactly size bytes (at least
// the header) and, when modTime is non-zero, stamps it so the loader sees a
// new signature.
func WriteDocument(t testing.TB, path string, size int64, modTime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	body := []byte(pdfHeader)
	if pad := size - int64(len(body)); pad > 0 {
		body = append(body, bytes.Repeat([]byte{'%'}, int(pad))...)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

// WriteDocuments creates one small placeholder per name in dir and returns
// the paths in argument order.
func WriteDocuments(t testing.TB, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		WriteDocument(t, path, 0, time.Time{})
		paths = append(paths, path)
	}
	return paths
}
