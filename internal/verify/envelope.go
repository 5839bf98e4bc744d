package verify

import "pagecheck/internal/audit"

// Envelope is the flat transport shape of a Result.
type Envelope struct {
	Status       string   `json:"status"`
	Outcome      Outcome  `json:"outcome"`
	Message      string   `json:"message"`
	ErrorType    string   `json:"errorType,omitempty"`
	Code         string   `json:"code"`
	Page         *int     `json:"page,omitempty"`
	DocumentName string   `json:"documentName,omitempty"`
	DocumentID   *int64   `json:"documentId,omitempty"`
	Anchor       *int     `json:"anchor,omitempty"`
	Documents    []string `json:"documents,omitempty"`
	MissingPages []int    `json:"missingPages,omitempty"`
	MissingMore  int      `json:"missingMore,omitempty"`
}

// Status values.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// EnvelopeOf flattens a Result.
func EnvelopeOf(r Result) Envelope {
	env := Envelope{
		Status:  StatusError,
		Outcome: r.Outcome(),
		Message: r.Message(),
		Code:    r.ScannedCode(),
	}
	located := func(id int64, name string, page int) {
		env.DocumentID = &id
		env.DocumentName = name
		env.Page = &page
	}
	switch v := r.(type) {
	case Accepted:
		env.Status = StatusOK
		located(v.DocumentID, v.DocumentName, v.Page)
		env.Anchor = intPtr(v.Anchor)
	case AmbiguousCode:
		env.ErrorType = string(OutcomeAmbiguousCode)
		env.Documents = v.Documents
	case AlreadyScanned:
		env.ErrorType = string(audit.ErrorAlreadyScanned)
		located(v.DocumentID, v.DocumentName, v.Page)
	case OtherLot:
		env.ErrorType = string(audit.ErrorOtherLot)
		located(v.DocumentID, v.DocumentName, v.Page)
		env.Anchor = intPtr(v.Anchor)
	case MissingPages:
		located(v.DocumentID, v.DocumentName, v.Page)
		env.Anchor = intPtr(v.Anchor)
		env.MissingPages = v.Missing.Shown
		env.MissingMore = v.Missing.Remaining
	}
	return env
}

func intPtr(v int) *int { return &v }
