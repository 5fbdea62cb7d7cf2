package mlscore

import (
	"context"
	"fmt"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// Detector wraps one scoring kind behind the common detector contract.
// A nil client or an unreachable backend surfaces as an error, which the
// Guard reports as unavailable rather than failing the validation.
type Detector struct {
	name      string
	kind      string
	threshold float64
	client    *Client
}

func NewToxicityDetector(client *Client, threshold float64) *Detector {
	return &Detector{name: types.DetectorToxicity, kind: KindToxicity, threshold: threshold, client: client}
}

func NewJailbreakDetector(client *Client, threshold float64) *Detector {
	return &Detector{name: types.DetectorJailbreak, kind: KindJailbreak, threshold: threshold, client: client}
}

func NewGibberishDetector(client *Client, threshold float64) *Detector {
	return &Detector{name: types.DetectorGibberish, kind: KindGibberish, threshold: threshold, client: client}
}

func (d *Detector) Name() string {
	return d.name
}

func (d *Detector) Detect(ctx context.Context, text string) (*types.DetectionResult, error) {
	if text == "" {
		return &types.DetectionResult{}, nil
	}
	if d.client == nil {
		return nil, fmt.Errorf("%s: scoring backend not configured", d.name)
	}
	score, err := d.client.Score(ctx, d.kind, text)
	if err != nil {
		return nil, err
	}
	return &types.DetectionResult{
		Score:      score.Overall,
		Flagged:    score.Overall > d.threshold,
		Categories: score.Categories,
	}, nil
}
