package patterns

import (
	"regexp"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// PIIPattern binds a PII type to its format matcher, redaction
// placeholder and severity weight.
type PIIPattern struct {
	Type        types.PIIType
	Re          *regexp.Regexp
	Placeholder string
	Severity    float64
}

// piiPatterns is ordered: when two candidate matches start at the same
// offset with the same length, the earliest-registered type wins. URL
// precedes IP address so a host IP inside a URL is reported once, as the
// URL. Credit card precedes Aadhaar and phone so a long digit run is not
// carved up by the shorter formats.
var piiPatterns = []PIIPattern{
	{
		Type:        types.PIIURL,
		Re:          regexp.MustCompile(`https?://[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*`),
		Placeholder: "[URL]",
		Severity:    0.1,
	},
	{
		Type:        types.PIIEmail,
		Re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		Placeholder: "[EMAIL]",
		Severity:    0.3,
	},
	{
		Type:        types.PIIAPIKey,
		Re:          regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|access[_-]?token|bearer)["'\s:=]+[A-Za-z0-9_\-]{16,}|\bAKIA[0-9A-Z]{16}\b|\b(?:sk|pk|rk)[_-](?:test|live|proj)?[_-]?[A-Za-z0-9]{20,}\b`),
		Placeholder: "[API_KEY]",
		Severity:    0.4,
	},
	{
		Type:        types.PIISSN,
		Re:          regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		Placeholder: "[SSN]",
		Severity:    0.5,
	},
	{
		Type:        types.PIICreditCard,
		Re:          regexp.MustCompile(`\b(?:4\d{3}|5[1-5]\d{2}|6(?:011|5\d{2}))[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b|\b3[47]\d{2}[ -]?\d{6}[ -]?\d{5}\b`),
		Placeholder: "[CREDIT_CARD]",
		Severity:    0.5,
	},
	{
		Type:        types.PIIAadhaar,
		Re:          regexp.MustCompile(`\b[2-9]\d{3}[ -]?\d{4}[ -]?\d{4}\b`),
		Placeholder: "[AADHAAR]",
		Severity:    0.5,
	},
	{
		Type:        types.PIIPhone,
		Re:          regexp.MustCompile(`\b(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		Placeholder: "[PHONE]",
		Severity:    0.3,
	},
	{
		Type:        types.PIIIPAddress,
		Re:          regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|[01]?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|[01]?\d?\d)\b`),
		Placeholder: "[IP]",
		Severity:    0.2,
	},
}

// PII returns the registered PII patterns in registration order.
func PII() []PIIPattern {
	return piiPatterns
}

// PIIPlaceholder returns the fixed redaction placeholder for a PII type.
// The placeholder vocabulary is versioned API surface: consumers match on
// these exact tags.
func PIIPlaceholder(t types.PIIType) string {
	for _, p := range piiPatterns {
		if p.Type == t {
			return p.Placeholder
		}
	}
	return "[REDACTED]"
}
