package types

// PIIType identifies the category of a detected PII entity.
type PIIType string

const (
	PIIEmail      PIIType = "EMAIL"
	PIIPhone      PIIType = "PHONE"
	PIISSN        PIIType = "SSN"
	PIICreditCard PIIType = "CREDIT_CARD"
	PIIIPAddress  PIIType = "IP_ADDRESS"
	PIIURL        PIIType = "URL"
	PIIAPIKey     PIIType = "API_KEY"
	PIIAadhaar    PIIType = "AADHAAR"
)

// PIIEntity is one confirmed PII match. Offsets index into the original
// input; entities are produced in left-to-right scan order and never
// overlap.
type PIIEntity struct {
	Type        PIIType `json:"type"`
	OriginalSpan string `json:"original_span"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
}

// RedactionRecord describes one redacted entity without re-exposing the
// original value.
type RedactionRecord struct {
	Type           PIIType `json:"type"`
	RedactedTo     string  `json:"redacted_to"`
	OriginalLength int     `json:"original_length"`
}

// RedactionResult is the output of a redaction pass.
type RedactionResult struct {
	RedactedText string            `json:"redacted_text"`
	Entities     []PIIEntity       `json:"entities"`
	Redactions   []RedactionRecord `json:"redactions"`
}
