package guard

import (
	"fmt"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

var defaultThresholds = map[string]float64{
	types.DetectorGibberish:       0.7,
	types.DetectorToxicity:        0.6,
	types.DetectorJailbreak:       0.7,
	types.DetectorPromptInjection: 0.25,
	types.DetectorPII:             0.0,
	types.DetectorEntropy:         4.5,
	types.DetectorJailbreakRules:  0.25,
}

var defaultRiskWeights = map[string]float64{
	types.DetectorGibberish:       0.5,
	types.DetectorToxicity:        1.0,
	types.DetectorJailbreak:       1.2,
	types.DetectorPromptInjection: 1.5,
	types.DetectorPII:             0.8,
	types.DetectorEntropy:         0.6,
	types.DetectorJailbreakRules:  1.0,
}

// Config is the immutable configuration of a Guard: which detectors run,
// their flagging thresholds and their weights in the aggregate risk
// score. A Config is validated once at Guard construction; changing the
// configuration means building a new Guard.
type Config struct {
	EnabledDetectors []string           `json:"enabled_detectors" mapstructure:"enabled_detectors"`
	Thresholds       map[string]float64 `json:"thresholds,omitempty" mapstructure:"thresholds"`
	RiskWeights      map[string]float64 `json:"risk_weights,omitempty" mapstructure:"risk_weights"`
}

// Validate fails fast on configuration referring to undeclared
// detectors, so misconfiguration never surfaces at call time.
func (c Config) Validate() error {
	if len(c.EnabledDetectors) == 0 {
		return fmt.Errorf("at least one detector must be enabled")
	}
	seen := make(map[string]bool, len(c.EnabledDetectors))
	for _, name := range c.EnabledDetectors {
		if !types.IsKnownDetector(name) {
			return fmt.Errorf("unknown detector: %s", name)
		}
		if seen[name] {
			return fmt.Errorf("detector enabled twice: %s", name)
		}
		seen[name] = true
	}
	for name, v := range c.Thresholds {
		if !types.IsKnownDetector(name) {
			return fmt.Errorf("threshold for unknown detector: %s", name)
		}
		if v < 0 {
			return fmt.Errorf("threshold for %s must not be negative", name)
		}
	}
	for name, v := range c.RiskWeights {
		if !types.IsKnownDetector(name) {
			return fmt.Errorf("risk weight for unknown detector: %s", name)
		}
		if v < 0 {
			return fmt.Errorf("risk weight for %s must not be negative", name)
		}
	}
	return nil
}

// Threshold returns the configured threshold for a detector, falling
// back to the per-detector default.
func (c Config) Threshold(name string) float64 {
	if v, ok := c.Thresholds[name]; ok {
		return v
	}
	return defaultThresholds[name]
}

// Weight returns the configured risk weight for a detector, falling back
// to the per-detector default.
func (c Config) Weight(name string) float64 {
	if v, ok := c.RiskWeights[name]; ok {
		return v
	}
	return defaultRiskWeights[name]
}
