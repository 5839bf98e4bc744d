package audit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument reports a classification value outside the closed sets.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind names an event in the audit log.
type Kind string

const (
	KindScanOK                   Kind = "scan_ok"
	KindScanNotFound             Kind = "scan_error_not_found"
	KindScanAmbiguousCode        Kind = "scan_error_ambiguous_code"
	KindScanAlreadyScanned       Kind = "scan_error_already_scanned"
	KindScanOtherLot             Kind = "scan_error_other_lot"
	KindScanMissingPages         Kind = "scan_error_missing_pages"
	KindResolutionAlreadyScanned Kind = "scan_resolution_already_scanned"
	KindResolutionOtherLot       Kind = "scan_resolution_other_lot"
	KindResetScans               Kind = "reset_scans"
	KindResetAnchor              Kind = "reset_anchor"
	KindExtractSummary           Kind = "extract_summary"
)

var kindOrder = []Kind{
	KindScanOK,
	KindScanNotFound,
	KindScanAmbiguousCode,
	KindScanAlreadyScanned,
	KindScanOtherLot,
	KindScanMissingPages,
	KindResolutionAlreadyScanned,
	KindResolutionOtherLot,
	KindResetScans,
	KindResetAnchor,
	KindExtractSummary,
}

// Kinds returns every known event kind in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// ParseKind validates a kind string.
func ParseKind(value string) (Kind, error) {
	k := Kind(strings.TrimSpace(value))
	for _, known := range kindOrder {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown event kind %q", ErrInvalidArgument, value)
}

// IsScan reports whether the kind belongs to the scan_* family counted by reports.
func (k Kind) IsScan() bool {
	return strings.HasPrefix(string(k), "scan_")
}

// IsRejection reports whether the kind is a scan error outcome.
func (k Kind) IsRejection() bool {
	return strings.HasPrefix(string(k), "scan_error_")
}

// ErrorType is the anomaly an operator may classify after the fact.
type ErrorType string

const (
	ErrorAlreadyScanned ErrorType = "already_scanned"
	ErrorOtherLot       ErrorType = "other_lot"
)

// ParseErrorType validates an error type at the boundary.
func ParseErrorType(value string) (ErrorType, error) {
	switch e := ErrorType(strings.ToLower(strings.TrimSpace(value))); e {
	case ErrorAlreadyScanned, ErrorOtherLot:
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown error type %q", ErrInvalidArgument, value)
}

// ResolutionKind is the event kind written when this anomaly is classified.
func (e ErrorType) ResolutionKind() Kind {
	switch e {
	case ErrorAlreadyScanned:
		return KindResolutionAlreadyScanned
	case ErrorOtherLot:
		return KindResolutionOtherLot
	default:
		return ""
	}
}

// Resolution explains an anomaly. It never changes scan state.
type Resolution string

const (
	ResolutionFalseDuplicate Resolution = "false_duplicate"
	ResolutionDiscardedPage  Resolution = "discarded_page"
	ResolutionOther          Resolution = "other"
)

// ParseResolution validates a resolution at the boundary.
func ParseResolution(value string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(value))); r {
	case ResolutionFalseDuplicate, ResolutionDiscardedPage, ResolutionOther:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown resolution %q", ErrInvalidArgument, value)
}

// Label is the operator-facing wording.
func (r Resolution) Label() string {
	switch r {
	case ResolutionFalseDuplicate:
		return "False duplicate"
	case ResolutionDiscardedPage:
		return "Discarded page"
	case ResolutionOther:
		return "Other"
	default:
		return string(r)
	}
}
