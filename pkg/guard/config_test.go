package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "no detectors enabled",
			cfg:     Config{},
			wantErr: "at least one detector",
		},
		{
			name:    "unknown detector enabled",
			cfg:     Config{EnabledDetectors: []string{"sentiment"}},
			wantErr: "unknown detector",
		},
		{
			name:    "detector enabled twice",
			cfg:     Config{EnabledDetectors: []string{types.DetectorEntropy, types.DetectorEntropy}},
			wantErr: "enabled twice",
		},
		{
			name: "threshold for unknown detector",
			cfg: Config{
				EnabledDetectors: []string{types.DetectorEntropy},
				Thresholds:       map[string]float64{"sentiment": 0.5},
			},
			wantErr: "threshold for unknown detector",
		},
		{
			name: "negative threshold",
			cfg: Config{
				EnabledDetectors: []string{types.DetectorEntropy},
				Thresholds:       map[string]float64{types.DetectorEntropy: -1},
			},
			wantErr: "must not be negative",
		},
		{
			name: "risk weight for unknown detector",
			cfg: Config{
				EnabledDetectors: []string{types.DetectorEntropy},
				RiskWeights:      map[string]float64{"sentiment": 1.0},
			},
			wantErr: "risk weight for unknown detector",
		},
		{
			name: "negative risk weight",
			cfg: Config{
				EnabledDetectors: []string{types.DetectorEntropy},
				RiskWeights:      map[string]float64{types.DetectorEntropy: -0.5},
			},
			wantErr: "must not be negative",
		},
		{
			name: "valid config",
			cfg: Config{
				EnabledDetectors: []string{types.DetectorEntropy, types.DetectorPII},
				Thresholds:       map[string]float64{types.DetectorEntropy: 4.0},
				RiskWeights:      map[string]float64{types.DetectorPII: 2.0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfigFallbacks(t *testing.T) {
	cfg := Config{
		EnabledDetectors: []string{types.DetectorToxicity},
		Thresholds:       map[string]float64{types.DetectorToxicity: 0.9},
		RiskWeights:      map[string]float64{types.DetectorToxicity: 2.0},
	}

	assert.Equal(t, 0.9, cfg.Threshold(types.DetectorToxicity))
	assert.Equal(t, 2.0, cfg.Weight(types.DetectorToxicity))

	// Unconfigured detectors fall back to per-detector defaults.
	assert.Equal(t, 4.5, cfg.Threshold(types.DetectorEntropy))
	assert.Equal(t, 1.5, cfg.Weight(types.DetectorPromptInjection))
}
