// Package guard orchestrates the detectors: it fans a text out to the
// configured subset, normalizes each result, and renders one aggregated
// verdict per call.
package guard

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/entropy"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/mlscore"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/pii"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/rules"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/patterns"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// entropyScaleBits normalizes the entropy detector's bits/char score
// into [0,1] before weighting: 8 bits/char is the ceiling for byte-range
// alphabets.
const entropyScaleBits = 8.0

// Guard holds an immutable configuration and detector set. Validate is
// safe for concurrent use: no state is written during a call.
type Guard struct {
	cfg       Config
	detectors map[string]types.Detector
	pii       *pii.Detector
	logger    *logrus.Logger
}

type Option func(*options)

type options struct {
	logger    *logrus.Logger
	scorer    *mlscore.Client
	overrides []types.Detector
}

// WithLogger sets the logger used by the guard and its detectors.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithScoringClient wires the remote scoring backend for the ML-backed
// detectors (gibberish, toxicity, jailbreak). Without it those detectors
// report unavailable.
func WithScoringClient(client *mlscore.Client) Option {
	return func(o *options) { o.scorer = client }
}

// WithDetector replaces the built-in implementation for the detector of
// the same name.
func WithDetector(d types.Detector) Option {
	return func(o *options) { o.overrides = append(o.overrides, d) }
}

// New builds a Guard from cfg. Configuration errors (unknown detector
// names, thresholds or weights for undeclared detectors) surface here,
// never at validation time.
func New(cfg Config, opts ...Option) (*Guard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid guard config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
	}

	g := &Guard{
		cfg:       cfg,
		detectors: make(map[string]types.Detector, len(types.CanonicalDetectorOrder)),
		logger:    o.logger,
	}

	jbRules, err := rules.NewDetector(types.DetectorJailbreakRules, patterns.CategoryJailbreakRules, cfg.Threshold(types.DetectorJailbreakRules), o.logger)
	if err != nil {
		return nil, err
	}
	injRules, err := rules.NewDetector(types.DetectorPromptInjection, patterns.CategoryPromptInjection, cfg.Threshold(types.DetectorPromptInjection), o.logger)
	if err != nil {
		return nil, err
	}

	g.pii = pii.NewDetector(cfg.Threshold(types.DetectorPII), o.logger)

	g.detectors[types.DetectorJailbreakRules] = jbRules
	g.detectors[types.DetectorPromptInjection] = injRules
	g.detectors[types.DetectorEntropy] = entropy.NewDetector(cfg.Threshold(types.DetectorEntropy))
	g.detectors[types.DetectorPII] = g.pii
	g.detectors[types.DetectorToxicity] = mlscore.NewToxicityDetector(o.scorer, cfg.Threshold(types.DetectorToxicity))
	g.detectors[types.DetectorJailbreak] = mlscore.NewJailbreakDetector(o.scorer, cfg.Threshold(types.DetectorJailbreak))
	g.detectors[types.DetectorGibberish] = mlscore.NewGibberishDetector(o.scorer, cfg.Threshold(types.DetectorGibberish))

	for _, d := range o.overrides {
		if !types.IsKnownDetector(d.Name()) {
			return nil, fmt.Errorf("unknown detector: %s", d.Name())
		}
		g.detectors[d.Name()] = d
	}

	return g, nil
}

// Config returns a copy of the guard's configuration.
func (g *Guard) Config() Config {
	return g.cfg
}

// Validate runs the enabled detectors over text and aggregates their
// results. Overrides, when given, select a different detector subset for
// this call only. Validate always returns a complete verdict: a failing
// detector is reported unavailable and contributes zero risk.
func (g *Guard) Validate(ctx context.Context, text string, overrides ...string) *types.GuardVerdict {
	enabled := g.effectiveDetectors(overrides)

	results := make(map[string]*types.DetectionResult, len(enabled))
	eg, egCtx := errgroup.WithContext(ctx)
	resultCh := make(chan namedResult, len(enabled))

	for _, name := range enabled {
		name := name
		detector := g.detectors[name]
		eg.Go(func() error {
			resultCh <- namedResult{name: name, result: g.runDetector(egCtx, detector, text)}
			return nil
		})
	}
	// errgroup funcs never return errors; failures become unavailable
	// results inside runDetector.
	_ = eg.Wait()
	close(resultCh)

	for nr := range resultCh {
		results[nr.name] = nr.result
	}

	verdict := &types.GuardVerdict{
		ThreatTypes: []string{},
		Details:     results,
	}

	// Re-sort threats into canonical declaration order after fan-in so
	// output ordering never depends on goroutine scheduling.
	for _, name := range types.CanonicalDetectorOrder {
		result, ok := results[name]
		if !ok || !result.Flagged {
			continue
		}
		verdict.ThreatTypes = append(verdict.ThreatTypes, name)
		verdict.RiskScore += normalizeScore(name, result.Score) * g.cfg.Weight(name)
	}
	verdict.IsSafe = verdict.RiskScore == 0 && len(verdict.ThreatTypes) == 0

	if !verdict.IsSafe {
		g.logger.WithFields(logrus.Fields{
			"risk_score":   verdict.RiskScore,
			"threat_types": verdict.ThreatTypes,
		}).Warn("unsafe input detected")
	}
	return verdict
}

// ValidateAsync is the non-blocking form of Validate with identical
// semantics; the returned channel yields exactly one verdict.
func (g *Guard) ValidateAsync(ctx context.Context, text string, overrides ...string) <-chan *types.GuardVerdict {
	out := make(chan *types.GuardVerdict, 1)
	go func() {
		out <- g.Validate(ctx, text, overrides...)
		close(out)
	}()
	return out
}

// Redact rewrites PII spans in text with category placeholders. It is
// independent of the enabled detector subset.
func (g *Guard) Redact(text string) *types.RedactionResult {
	return g.pii.Redact(text)
}

type namedResult struct {
	name   string
	result *types.DetectionResult
}

// runDetector isolates one detector call: errors and panics degrade to
// an unavailable result so a single failing backend never aborts the
// validation.
func (g *Guard) runDetector(ctx context.Context, d types.Detector, text string) (result *types.DetectionResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.WithField("detector", d.Name()).Errorf("detector panicked: %v", r)
			result = &types.DetectionResult{Unavailable: true, Error: fmt.Sprintf("detector panicked: %v", r)}
		}
	}()

	res, err := d.Detect(ctx, text)
	if err != nil {
		g.logger.WithError(err).WithField("detector", d.Name()).Warn("detector unavailable")
		return &types.DetectionResult{Unavailable: true, Error: err.Error()}
	}
	return res
}

func (g *Guard) effectiveDetectors(overrides []string) []string {
	if len(overrides) == 0 {
		return g.cfg.EnabledDetectors
	}
	effective := make([]string, 0, len(overrides))
	for _, name := range overrides {
		if !types.IsKnownDetector(name) {
			g.logger.WithField("detector", name).Warn("ignoring unknown detector override")
			continue
		}
		effective = append(effective, name)
	}
	return effective
}

// normalizeScore maps a detector-native score into [0,1] before
// weighting. Rule, PII and ML scores already live there; entropy reports
// bits/char and is rescaled.
func normalizeScore(name string, score float64) float64 {
	if name == types.DetectorEntropy {
		score = score / entropyScaleBits
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// RiskLevel renders a risk score as a coarse presentation label. This is
// a view over the native additive scale, not part of the aggregation.
func RiskLevel(riskScore float64) string {
	switch {
	case riskScore == 0:
		return "safe"
	case riskScore < 0.5:
		return "low"
	case riskScore < 1.0:
		return "medium"
	case riskScore < 2.0:
		return "high"
	default:
		return "critical"
	}
}
