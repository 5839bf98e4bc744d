package verify

import (
	"fmt"
	"strings"

	"pagecheck/internal/audit"
	"pagecheck/internal/sequence"
)

// Outcome names a Result variant.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeAmbiguousCode  Outcome = "ambiguous_code"
	OutcomeAlreadyScanned Outcome = "already_scanned"
	OutcomeOtherLot       Outcome = "other_lot"
	OutcomeMissingPages   Outcome = "missing_pages"
)

// Result is the outcome of one submitted scan.
type Result interface {
	Outcome() Outcome
	Message() string
	// ScannedCode is the normalized code that was submitted.
	ScannedCode() string
	eventKind() audit.Kind
}

// Anomaly is a rejection an operator may classify afterwards.
type Anomaly interface {
	Result
	ErrorType() audit.ErrorType
	// Classify builds the resolution record for this anomaly.
	Classify(resolution audit.Resolution, note string) Classification
}

// AsAnomaly returns r as an Anomaly when it is one.
func AsAnomaly(r Result) (Anomaly, bool) {
	a, ok := r.(Anomaly)
	return a, ok
}

// Accepted means the page is now confirmed.
type Accepted struct {
	Code         string
	DocumentID   int64
	DocumentName string
	Page         int
	Anchor       int
}

func (Accepted) Outcome() Outcome      { return OutcomeOK }
func (r Accepted) ScannedCode() string { return r.Code }
func (Accepted) eventKind() audit.Kind { return audit.KindScanOK }
func (r Accepted) Message() string {
	return fmt.Sprintf("Page %d verified (%s)", r.Page, r.DocumentName)
}

// NotFound means no loaded document carries the code.
type NotFound struct {
	Code string
}

func (NotFound) Outcome() Outcome      { return OutcomeNotFound }
func (r NotFound) ScannedCode() string { return r.Code }
func (NotFound) eventKind() audit.Kind { return audit.KindScanNotFound }
func (r NotFound) Message() string {
	if r.Code == "" {
		return "Empty code"
	}
	return fmt.Sprintf("Code %s is not in any loaded document", r.Code)
}

// AmbiguousCode means the code is present in more than one document. The
// engine never guesses which one was meant.
type AmbiguousCode struct {
	Code      string
	Documents []string
}

func (AmbiguousCode) Outcome() Outcome      { return OutcomeAmbiguousCode }
func (r AmbiguousCode) ScannedCode() string { return r.Code }
func (AmbiguousCode) eventKind() audit.Kind { return audit.KindScanAmbiguousCode }
func (r AmbiguousCode) Message() string {
	return fmt.Sprintf("Code %s appears in several documents: %s", r.Code, strings.Join(r.Documents, ", "))
}

// AlreadyScanned means the entry was confirmed earlier.
type AlreadyScanned struct {
	Code         string
	DocumentID   int64
	DocumentName string
	Page         int
}

func (AlreadyScanned) Outcome() Outcome           { return OutcomeAlreadyScanned }
func (r AlreadyScanned) ScannedCode() string      { return r.Code }
func (AlreadyScanned) eventKind() audit.Kind      { return audit.KindScanAlreadyScanned }
func (AlreadyScanned) ErrorType() audit.ErrorType { return audit.ErrorAlreadyScanned }
func (r AlreadyScanned) Message() string {
	return fmt.Sprintf("Page %d was already verified (%s)", r.Page, r.DocumentName)
}

func (r AlreadyScanned) Classify(resolution audit.Resolution, note string) Classification {
	return Classification{
		ErrorType:    audit.ErrorAlreadyScanned,
		Resolution:   resolution,
		Code:         r.Code,
		Page:         r.Page,
		DocumentName: r.DocumentName,
		Note:         note,
	}
}

// OtherLot means the page lies before the document's anchor.
type OtherLot struct {
	Code         string
	DocumentID   int64
	DocumentName string
	Page         int
	Anchor       int
}

func (OtherLot) Outcome() Outcome           { return OutcomeOtherLot }
func (r OtherLot) ScannedCode() string      { return r.Code }
func (OtherLot) eventKind() audit.Kind      { return audit.KindScanOtherLot }
func (OtherLot) ErrorType() audit.ErrorType { return audit.ErrorOtherLot }
func (r OtherLot) Message() string {
	return fmt.Sprintf("Page %d belongs to an earlier batch of %s (anchor %d)", r.Page, r.DocumentName, r.Anchor)
}

func (r OtherLot) Classify(resolution audit.Resolution, note string) Classification {
	return Classification{
		ErrorType:    audit.ErrorOtherLot,
		Resolution:   resolution,
		Code:         r.Code,
		Page:         r.Page,
		DocumentName: r.DocumentName,
		Note:         note,
	}
}

// MissingPages means earlier pages since the anchor are still unconfirmed.
type MissingPages struct {
	Code         string
	DocumentID   int64
	DocumentName string
	Page         int
	Anchor       int
	Missing      sequence.GapSummary
}

func (MissingPages) Outcome() Outcome      { return OutcomeMissingPages }
func (r MissingPages) ScannedCode() string { return r.Code }
func (MissingPages) eventKind() audit.Kind { return audit.KindScanMissingPages }
func (r MissingPages) Message() string {
	return fmt.Sprintf("Earlier pages missing in %s: %s", r.DocumentName, r.Missing)
}
