// Package rules implements the generic pattern-matching detector used for
// the jailbreak_rules and prompt_injection categories.
package rules

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/patterns"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// ScorePerMatch is the capped linear scale factor: one match scores 0.3,
// the score saturates at 1.0.
const ScorePerMatch = 0.3

type Detector struct {
	name      string
	category  string
	threshold float64
	patterns  []patterns.Pattern
	logger    *logrus.Logger
}

// NewDetector builds a rule detector over the pattern set registered for
// category. The detector flags when its score exceeds threshold.
func NewDetector(name, category string, threshold float64, logger *logrus.Logger) (*Detector, error) {
	set := patterns.Rules(category)
	if set == nil {
		return nil, fmt.Errorf("unknown rule category: %s", category)
	}
	return &Detector{
		name:      name,
		category:  category,
		threshold: threshold,
		patterns:  set,
		logger:    logger,
	}, nil
}

func (d *Detector) Name() string {
	return d.name
}

// Detect scans text against the category's pattern set. Matching is total
// over all inputs: empty or malformed text yields score 0, never an
// error.
func (d *Detector) Detect(_ context.Context, text string) (*types.DetectionResult, error) {
	result := &types.DetectionResult{}
	if text == "" {
		return result, nil
	}

	for _, p := range d.patterns {
		loc := p.Re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		result.Evidence = append(result.Evidence, types.Evidence{
			Category: p.Name,
			Match:    text[loc[0]:loc[1]],
			Start:    loc[0],
			End:      loc[1],
		})
	}

	matches := len(result.Evidence)
	if matches > 0 {
		result.Score = ScorePerMatch * float64(matches)
		if result.Score > 1.0 {
			result.Score = 1.0
		}
	}
	result.Flagged = result.Score > d.threshold

	if result.Flagged && d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"detector": d.name,
			"category": d.category,
			"matches":  matches,
			"score":    result.Score,
		}).Warn("rule patterns matched")
	}
	return result, nil
}
