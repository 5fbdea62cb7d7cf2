package types

import "context"

// Detector name constants. The order of CanonicalDetectorOrder is the
// declaration order used for GuardVerdict.ThreatTypes and must not change
// between releases.
const (
	DetectorGibberish       = "gibberish"
	DetectorToxicity        = "toxicity"
	DetectorJailbreak       = "jailbreak"
	DetectorPromptInjection = "prompt_injection"
	DetectorPII             = "pii"
	DetectorEntropy         = "entropy"
	DetectorJailbreakRules  = "jailbreak_rules"
)

var CanonicalDetectorOrder = []string{
	DetectorGibberish,
	DetectorToxicity,
	DetectorJailbreak,
	DetectorPromptInjection,
	DetectorPII,
	DetectorEntropy,
	DetectorJailbreakRules,
}

// IsKnownDetector reports whether name is one of the declared detectors.
func IsKnownDetector(name string) bool {
	for _, n := range CanonicalDetectorOrder {
		if n == name {
			return true
		}
	}
	return false
}

// Detector is a pure function from text to a DetectionResult. Thresholds
// are bound at construction time; a detector never flags independently of
// its own score and threshold. Implementations must be safe for
// concurrent use and must handle any text input, including the empty
// string, without panicking.
type Detector interface {
	Name() string
	Detect(ctx context.Context, text string) (*DetectionResult, error)
}

// Evidence is one matched fragment together with the pattern category
// that produced it.
type Evidence struct {
	Category string `json:"category"`
	Match    string `json:"match"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// DetectionResult is the uniform output of every detector. Score uses the
// detector's native scale (probability for ML detectors, capped linear
// match score for rule detectors, bits/char for entropy); the Guard
// normalizes before weighting.
type DetectionResult struct {
	Score       float64            `json:"score"`
	Flagged     bool               `json:"flagged"`
	Categories  map[string]float64 `json:"category_breakdown,omitempty"`
	Evidence    []Evidence         `json:"evidence,omitempty"`
	Unavailable bool               `json:"unavailable,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// GuardVerdict is the aggregated outcome of one validation call.
// ThreatTypes lists flagged detectors in canonical declaration order.
type GuardVerdict struct {
	IsSafe      bool                        `json:"is_safe"`
	RiskScore   float64                     `json:"risk_score"`
	ThreatTypes []string                    `json:"threat_types"`
	Details     map[string]*DetectionResult `json:"details"`
}
