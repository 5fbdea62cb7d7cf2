package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/mlscore"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/guard"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/metrics"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/types"
)

// Handler wires the guard engine and the generation providers into HTTP
// endpoints. Guards are prebuilt per preset at startup; a request
// carrying an explicit config gets a fresh Guard built (and validated)
// for that call.
type Handler struct {
	logger        *logrus.Logger
	guards        map[string]*guard.Guard
	scorer        *mlscore.Client
	providers     map[string]providers.Client
	defaultPreset string
}

func NewHandler(
	logger *logrus.Logger,
	scorer *mlscore.Client,
	providerClients map[string]providers.Client,
	defaultPreset string,
) (*Handler, error) {
	if defaultPreset == "" {
		defaultPreset = guard.PresetStandard
	}
	h := &Handler{
		logger:        logger,
		guards:        make(map[string]*guard.Guard),
		scorer:        scorer,
		providers:     providerClients,
		defaultPreset: defaultPreset,
	}
	for _, preset := range []string{
		guard.PresetBasic,
		guard.PresetStandard,
		guard.PresetStrict,
		guard.PresetComprehensive,
		guard.PresetAttackDetection,
		guard.PresetContentModeration,
	} {
		cfg, err := guard.PresetConfig(preset)
		if err != nil {
			return nil, err
		}
		g, err := guard.New(cfg, guard.WithLogger(logger), guard.WithScoringClient(scorer))
		if err != nil {
			return nil, fmt.Errorf("failed to build %s guard: %w", preset, err)
		}
		h.guards[preset] = g
	}
	if _, ok := h.guards[defaultPreset]; !ok {
		return nil, fmt.Errorf("unknown default preset: %s", defaultPreset)
	}
	return h, nil
}

type validateRequest struct {
	Text       string                 `json:"text"`
	Preset     string                 `json:"preset"`
	Validators []string               `json:"validators"`
	Redact     bool                   `json:"redact"`
	Config     map[string]interface{} `json:"config"`
}

type validateResponse struct {
	*types.GuardVerdict
	RiskLevel    string `json:"risk_level"`
	RedactedText string `json:"redacted_text,omitempty"`
}

type generateRequest struct {
	Text       string   `json:"text"`
	Preset     string   `json:"preset"`
	Validators []string `json:"validators"`
	Provider   string   `json:"provider"`
	Redact     bool     `json:"redact"`
}

type textRequest struct {
	Text string `json:"text"`
}

// Validate runs the comprehensive check: fan-out to the selected
// detector subset, aggregate, optionally redact PII.
func (h *Handler) Validate(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	g, preset, err := h.resolveGuard(req.Preset, req.Config)
	if err != nil {
		return badRequest(c, err.Error())
	}

	start := time.Now()
	verdict := g.Validate(c.Context(), req.Text, req.Validators...)
	h.observe(preset, verdict, time.Since(start))

	resp := validateResponse{
		GuardVerdict: verdict,
		RiskLevel:    guard.RiskLevel(verdict.RiskScore),
	}
	if req.Redact {
		resp.RedactedText = g.Redact(req.Text).RedactedText
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DetectOne runs a single detector and returns its raw DetectionResult.
func (h *Handler) DetectOne(c *fiber.Ctx) error {
	name := c.Params("detector")
	if !types.IsKnownDetector(name) {
		return badRequest(c, fmt.Sprintf("unknown detector: %s", name))
	}
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	g := h.guards[h.defaultPreset]
	verdict := g.Validate(c.Context(), req.Text, name)
	result := verdict.Details[name]
	if result == nil {
		result = &types.DetectionResult{Unavailable: true, Error: "detector produced no result"}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detector": name,
		"result":   result,
	})
}

// Redact rewrites PII spans with the fixed placeholder vocabulary.
func (h *Handler) Redact(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	result := h.guards[h.defaultPreset].Redact(req.Text)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Generate is the sanitize-then-generate flow: validate first, forward
// to the provider only when the input is safe (or everything flagged was
// PII and redaction is on, in which case the redacted prompt is sent).
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = "openai"
	}
	provider, ok := h.providers[providerName]
	if !ok {
		return badRequest(c, fmt.Sprintf("unknown provider: %s", providerName))
	}

	g, preset, err := h.resolveGuard(req.Preset, nil)
	if err != nil {
		return badRequest(c, err.Error())
	}

	start := time.Now()
	verdict := g.Validate(c.Context(), req.Text, req.Validators...)
	h.observe(preset, verdict, time.Since(start))

	prompt := req.Text
	if !verdict.IsSafe {
		if req.Redact && onlyPIIFlagged(verdict) {
			prompt = g.Redact(req.Text).RedactedText
		} else {
			metrics.GenerationsTotal.WithLabelValues(providerName, "blocked").Inc()
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":        "safety check failed",
				"risk_level":   guard.RiskLevel(verdict.RiskScore),
				"risk_score":   verdict.RiskScore,
				"threat_types": verdict.ThreatTypes,
			})
		}
	} else if req.Redact {
		prompt = g.Redact(req.Text).RedactedText
	}

	completion, err := provider.Ask(c.Context(), prompt)
	if err != nil {
		h.logger.WithError(err).WithField("provider", providerName).Error("generation failed")
		metrics.GenerationsTotal.WithLabelValues(providerName, "error").Inc()
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "generation failed",
		})
	}
	metrics.GenerationsTotal.WithLabelValues(providerName, "ok").Inc()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     "safe",
		"response":   completion.Response,
		"model":      completion.Model,
		"usage":      completion.Usage,
		"risk_score": verdict.RiskScore,
	})
}

// resolveGuard picks a prebuilt preset guard, or builds a fresh one when
// the request carries an explicit config object.
func (h *Handler) resolveGuard(preset string, rawConfig map[string]interface{}) (*guard.Guard, string, error) {
	if len(rawConfig) > 0 {
		var cfg guard.Config
		if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to decode config: %v", err)
		}
		g, err := guard.New(cfg, guard.WithLogger(h.logger), guard.WithScoringClient(h.scorer))
		if err != nil {
			return nil, "", err
		}
		return g, "custom", nil
	}
	if preset == "" {
		preset = h.defaultPreset
	}
	g, ok := h.guards[preset]
	if !ok {
		return nil, "", fmt.Errorf("unknown preset: %s", preset)
	}
	return g, preset, nil
}

func (h *Handler) observe(preset string, verdict *types.GuardVerdict, elapsed time.Duration) {
	outcome := "safe"
	if !verdict.IsSafe {
		outcome = "unsafe"
	}
	metrics.ValidationsTotal.WithLabelValues(preset, outcome).Inc()
	metrics.ValidationDuration.Observe(elapsed.Seconds())
	for _, name := range verdict.ThreatTypes {
		metrics.ThreatsTotal.WithLabelValues(name).Inc()
	}
	for _, result := range verdict.Details {
		if result.Unavailable {
			metrics.ScorerFailuresTotal.Inc()
		}
	}
}

func onlyPIIFlagged(verdict *types.GuardVerdict) bool {
	if len(verdict.ThreatTypes) != 1 {
		return false
	}
	return verdict.ThreatTypes[0] == types.DetectorPII
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
