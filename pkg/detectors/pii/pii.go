// Package pii detects and redacts personally identifiable information.
package pii

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/patterns"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

type Detector struct {
	threshold float64
	logger    *logrus.Logger
}

// NewDetector builds the PII detector. The threshold is normally 0: any
// entity makes the score positive and therefore flags.
func NewDetector(threshold float64, logger *logrus.Logger) *Detector {
	return &Detector{threshold: threshold, logger: logger}
}

func (d *Detector) Name() string {
	return types.DetectorPII
}

// Detect scans text once against all PII categories. The score is the
// severity-weighted sum over found entities, capped at 1.0, so it is
// monotonic in entity count and nonzero whenever at least one entity
// exists.
func (d *Detector) Detect(_ context.Context, text string) (*types.DetectionResult, error) {
	entities := Scan(text)
	result := &types.DetectionResult{
		Categories: map[string]float64{},
	}
	for _, e := range entities {
		result.Score += severity(e.Type)
		result.Categories[string(e.Type)]++
		result.Evidence = append(result.Evidence, types.Evidence{
			Category: string(e.Type),
			Match:    e.OriginalSpan,
			Start:    e.StartOffset,
			End:      e.EndOffset,
		})
	}
	if result.Score > 1.0 {
		result.Score = 1.0
	}
	result.Flagged = result.Score > d.threshold

	if result.Flagged && d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"detector": types.DetectorPII,
			"entities": len(entities),
		}).Warn("pii detected")
	}
	return result, nil
}

// Redact rewrites text replacing each entity span with its category
// placeholder, preserving every character outside matched spans. The
// rewrite is a single left-to-right pass over entities sorted by start
// offset, so it stays linear in input length regardless of entity count.
func (d *Detector) Redact(text string) *types.RedactionResult {
	entities := Scan(text)
	result := &types.RedactionResult{
		Entities:   entities,
		Redactions: make([]types.RedactionRecord, 0, len(entities)),
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range entities {
		placeholder := patterns.PIIPlaceholder(e.Type)
		b.WriteString(text[last:e.StartOffset])
		b.WriteString(placeholder)
		last = e.EndOffset
		result.Redactions = append(result.Redactions, types.RedactionRecord{
			Type:           e.Type,
			RedactedTo:     placeholder,
			OriginalLength: e.EndOffset - e.StartOffset,
		})
	}
	b.WriteString(text[last:])
	result.RedactedText = b.String()
	return result
}

type candidate struct {
	entity types.PIIEntity
	rank   int
}

// Scan finds all non-overlapping PII entities in text. Overlapping
// candidates are resolved by earliest start offset, then longest match,
// then earliest-registered category. This keeps a phone pattern from
// carving up a longer credit-card digit run.
func Scan(text string) []types.PIIEntity {
	if text == "" {
		return nil
	}

	var candidates []candidate
	for rank, p := range patterns.PII() {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, candidate{
				entity: types.PIIEntity{
					Type:         p.Type,
					OriginalSpan: text[loc[0]:loc[1]],
					StartOffset:  loc[0],
					EndOffset:    loc[1],
				},
				rank: rank,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entity.StartOffset != b.entity.StartOffset {
			return a.entity.StartOffset < b.entity.StartOffset
		}
		if a.entity.EndOffset != b.entity.EndOffset {
			return a.entity.EndOffset > b.entity.EndOffset
		}
		return a.rank < b.rank
	})

	entities := make([]types.PIIEntity, 0, len(candidates))
	lastEnd := 0
	for _, c := range candidates {
		if c.entity.StartOffset < lastEnd {
			continue
		}
		entities = append(entities, c.entity)
		lastEnd = c.entity.EndOffset
	}
	return entities
}

func severity(t types.PIIType) float64 {
	for _, p := range patterns.PII() {
		if p.Type == t {
			return p.Severity
		}
	}
	return 0.2
}
