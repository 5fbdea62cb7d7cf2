// Package entropy flags high-entropy text. Random-looking input
// (base64 blobs, packed payloads) is a proxy for encoded attacks that
// slip past phrase-based rules.
package entropy

import (
	"context"
	"math"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// DefaultThreshold is the flagging threshold in bits per character.
const DefaultThreshold = 4.5

type Detector struct {
	threshold float64
}

func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

func (d *Detector) Name() string {
	return types.DetectorEntropy
}

// Detect computes the Shannon entropy of the rune distribution of text.
// Score is the entropy itself, in bits/char; inputs of length 0 or 1
// carry no information and score 0.
func (d *Detector) Detect(_ context.Context, text string) (*types.DetectionResult, error) {
	h := Shannon(text)
	return &types.DetectionResult{
		Score:   h,
		Flagged: h > d.threshold,
		Categories: map[string]float64{
			"bits_per_char": h,
		},
	}, nil
}

// Shannon returns the character-level Shannon entropy of text in bits.
func Shannon(text string) float64 {
	runes := []rune(text)
	if len(runes) < 2 {
		return 0
	}
	freq := make(map[rune]int, len(runes))
	for _, r := range runes {
		freq[r]++
	}
	total := float64(len(runes))
	var h float64
	for _, count := range freq {
		p := float64(count) / total
		h -= p * math.Log2(p)
	}
	return h
}
