package guard

import (
	"fmt"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// Preset names accepted by PresetConfig.
const (
	PresetBasic             = "basic"
	PresetStandard          = "standard"
	PresetStrict            = "strict"
	PresetComprehensive     = "comprehensive"
	PresetAttackDetection   = "attack_detection"
	PresetContentModeration = "content_moderation"
)

// Presets are plain Config values built fresh per call. Nothing here is
// shared or mutable; a caller can hand-build an equivalent Config and
// get identical behavior.

// BasicConfig enables only the cheap local detectors, tuned for
// throughput.
func BasicConfig() Config {
	return Config{
		EnabledDetectors: []string{types.DetectorEntropy, types.DetectorJailbreakRules},
		Thresholds: map[string]float64{
			types.DetectorEntropy:        4.8,
			types.DetectorJailbreakRules: 0.25,
		},
	}
}

// StandardConfig enables every detector with moderate defaults. This is
// the recommended starting point.
func StandardConfig() Config {
	return Config{
		EnabledDetectors: allDetectors(),
	}
}

// StrictConfig enables every detector with lowered thresholds, trading
// false positives for sensitivity.
func StrictConfig() Config {
	return Config{
		EnabledDetectors: allDetectors(),
		Thresholds: map[string]float64{
			types.DetectorGibberish:       0.5,
			types.DetectorToxicity:        0.4,
			types.DetectorJailbreak:       0.5,
			types.DetectorPromptInjection: 0.2,
			types.DetectorPII:             0.0,
			types.DetectorEntropy:         4.0,
			types.DetectorJailbreakRules:  0.2,
		},
	}
}

// ComprehensiveConfig enables every detector with uniform weights so no
// category dominates the aggregate and every axis shows up in details.
func ComprehensiveConfig() Config {
	weights := make(map[string]float64, len(types.CanonicalDetectorOrder))
	for _, name := range types.CanonicalDetectorOrder {
		weights[name] = 1.0
	}
	return Config{
		EnabledDetectors: allDetectors(),
		RiskWeights:      weights,
	}
}

// AttackDetectionConfig focuses on adversarial input: both jailbreak
// flavors plus prompt injection, weighted up.
func AttackDetectionConfig() Config {
	return Config{
		EnabledDetectors: []string{
			types.DetectorJailbreak,
			types.DetectorJailbreakRules,
			types.DetectorPromptInjection,
		},
		Thresholds: map[string]float64{
			types.DetectorJailbreak:       0.6,
			types.DetectorJailbreakRules:  0.25,
			types.DetectorPromptInjection: 0.25,
		},
		RiskWeights: map[string]float64{
			types.DetectorJailbreak:       1.5,
			types.DetectorJailbreakRules:  1.3,
			types.DetectorPromptInjection: 1.8,
		},
	}
}

// ContentModerationConfig focuses on content safety: toxicity and PII,
// weighted up.
func ContentModerationConfig() Config {
	return Config{
		EnabledDetectors: []string{types.DetectorToxicity, types.DetectorPII},
		RiskWeights: map[string]float64{
			types.DetectorToxicity: 1.5,
			types.DetectorPII:      1.2,
		},
	}
}

// PresetConfig resolves a preset name to its Config.
func PresetConfig(name string) (Config, error) {
	switch name {
	case PresetBasic:
		return BasicConfig(), nil
	case PresetStandard, "":
		return StandardConfig(), nil
	case PresetStrict:
		return StrictConfig(), nil
	case PresetComprehensive:
		return ComprehensiveConfig(), nil
	case PresetAttackDetection:
		return AttackDetectionConfig(), nil
	case PresetContentModeration:
		return ContentModerationConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown preset: %s", name)
	}
}

func allDetectors() []string {
	out := make([]string, len(types.CanonicalDetectorOrder))
	copy(out, types.CanonicalDetectorOrder)
	return out
}
