package index

import (
	"reflect"
	"testing"
)

func TestCodeMatcherDefaultPattern(t *testing.T) {
	m, err := NewCodeMatcher(`\b[A-Z0-9]{6,20}\b`)
	if err != nil {
		t.Fatalf("NewCodeMatcher failed: %v", err)
	}
	got := m.Codes("Lot ZX00042 page 7 ZX00042 SHORT ABC123 lowercase123 TOOLONGCODE0123456789X")
	want := []string{"ABC123", "ZX00042"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Codes = %v, want %v", got, want)
	}
	if codes := m.Codes("nothing here"); codes != nil {
		t.Fatalf("expected nil, got %v", codes)
	}
}

func TestCodeMatcherUpperCases(t *testing.T) {
	m, err := NewCodeMatcher(`(?i)\b[a-z0-9]{6}\b`)
	if err != nil {
		t.Fatalf("NewCodeMatcher failed: %v", err)
	}
	if got := m.Codes("abc123 ABC123"); !reflect.DeepEqual(got, []string{"ABC123"}) {
		t.Fatalf("Codes = %v", got)
	}
	if _, err := NewCodeMatcher("("); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestTextFromStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 712 Td\n(CODE0001) Tj\n[(Pa) -20 (ge) 30 (\\(1\\))] TJ\n(ZX\\06142) '\n0 0 m\nET\n")
	got := textFromStream(stream)
	want := "CODE0001 Pa ge (1) ZX142"
	if got != want {
		t.Fatalf("textFromStream = %q, want %q", got, want)
	}
}
