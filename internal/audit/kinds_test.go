package audit_test

import (
	"errors"
	"testing"

	"pagecheck/internal/audit"
)

func TestParseErrorType(t *testing.T) {
	cases := []struct {
		input   string
		want    audit.ErrorType
		wantErr bool
	}{
		{"already_scanned", audit.ErrorAlreadyScanned, false},
		{" OTHER_LOT ", audit.ErrorOtherLot, false},
		{"missing_pages", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := audit.ParseErrorType(tc.input)
		if tc.wantErr {
			if !errors.Is(err, audit.ErrInvalidArgument) {
				t.Fatalf("ParseErrorType(%q) error = %v, want ErrInvalidArgument", tc.input, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseErrorType(%q) = %q, %v", tc.input, got, err)
		}
	}
}

func TestParseResolution(t *testing.T) {
	for _, value := range []string{"false_duplicate", "discarded_page", "other"} {
		if _, err := audit.ParseResolution(value); err != nil {
			t.Fatalf("ParseResolution(%q) failed: %v", value, err)
		}
	}
	if _, err := audit.ParseResolution("ignored"); !errors.Is(err, audit.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestResolutionKind(t *testing.T) {
	if got := audit.ErrorAlreadyScanned.ResolutionKind(); got != audit.KindResolutionAlreadyScanned {
		t.Fatalf("already_scanned resolves to %q", got)
	}
	if got := audit.ErrorOtherLot.ResolutionKind(); got != audit.KindResolutionOtherLot {
		t.Fatalf("other_lot resolves to %q", got)
	}
}

func TestKindFamilies(t *testing.T) {
	if !audit.KindScanMissingPages.IsRejection() || !audit.KindScanMissingPages.IsScan() {
		t.Fatal("missing pages should be a scan rejection")
	}
	if audit.KindScanOK.IsRejection() {
		t.Fatal("scan_ok is not a rejection")
	}
	if !audit.KindResolutionOtherLot.IsScan() || audit.KindResolutionOtherLot.IsRejection() {
		t.Fatal("resolutions count as scan events but not rejections")
	}
	if audit.KindResetScans.IsScan() || audit.KindExtractSummary.IsScan() {
		t.Fatal("administrative kinds are not scan events")
	}
	if _, err := audit.ParseKind("scan_ok"); err != nil {
		t.Fatalf("ParseKind failed: %v", err)
	}
	if _, err := audit.ParseKind("scan_bogus"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if len(audit.Kinds()) != 11 {
		t.Fatalf("expected 11 kinds, got %d", len(audit.Kinds()))
	}
}

func TestDetailRoundTripKeepsAnchors(t *testing.T) {
	raw, err := audit.EncodeDetail(audit.Detail{
		SessionID:    "s1",
		MissingPages: []int{4, 5},
		Anchors:      map[int64]int{7: 3},
	})
	if err != nil {
		t.Fatalf("EncodeDetail failed: %v", err)
	}
	decoded, err := audit.DecodeDetail(raw)
	if err != nil {
		t.Fatalf("DecodeDetail failed: %v", err)
	}
	if decoded.Anchors[7] != 3 || len(decoded.MissingPages) != 2 {
		t.Fatalf("unexpected decoded detail %+v", decoded)
	}
	if empty, err := audit.DecodeDetail(""); err != nil || empty.SessionID != "" {
		t.Fatalf("empty payload: %+v, %v", empty, err)
	}
}
