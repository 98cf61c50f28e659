// Package insight derives clinical intelligence from patient documents by
// delegating to an external generative text model. The package owns the
// prompts, the cleanup of model output, and the failure policy: risk
// classification degrades to "Unknown", everything else surfaces
// ErrModelFailure for the handler to map to a 500.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/synopticmd/api/internal/platform/genai"
)

var (
	// ErrModelFailure wraps any model call or response-parse failure.
	ErrModelFailure = errors.New("model request failed")
	// ErrInvalidInput wraps validation failures on caller-supplied text.
	ErrInvalidInput = errors.New("invalid input")
)

// RiskUnknown is the score used when classification cannot be completed.
const RiskUnknown = "Unknown"

type Gateway struct {
	model genai.TextModel
	log   zerolog.Logger
}

func NewGateway(model genai.TextModel, log zerolog.Logger) *Gateway {
	return &Gateway{model: model, log: log}
}

// ClassifyRisk scores a patient document as High, Moderate or Low. It never
// returns an error: any failure is logged and scored RiskUnknown so one bad
// model call cannot take down a whole patient list.
func (g *Gateway) ClassifyRisk(ctx context.Context, doc map[string]interface{}) string {
	data, err := json.Marshal(doc)
	if err != nil {
		g.log.Error().Err(err).Msg("risk classification: encode patient")
		return RiskUnknown
	}

	raw, err := g.model.Generate(ctx, fmt.Sprintf(riskPrompt, data))
	if err != nil {
		g.log.Error().Err(err).Str("patient_id", docID(doc)).Msg("risk classification failed")
		return RiskUnknown
	}
	return cleanRiskScore(raw)
}

// cleanRiskScore reduces model output to the bare score word: trim, drop
// quotes, keep the first line only.
func cleanRiskScore(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), `"`, "")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

type summaryResponse struct {
	Summary  string `json:"summary"`
	Insights string `json:"insights"`
}

// SummarizeAndInsight asks the model for a short overview and a bulleted
// list of alerts, requested as strict JSON. Code fences around the JSON are
// tolerated; anything else unparseable is ErrModelFailure.
func (g *Gateway) SummarizeAndInsight(ctx context.Context, doc map[string]interface{}) (string, string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", "", fmt.Errorf("%w: encode patient: %v", ErrModelFailure, err)
	}

	raw, err := g.model.Generate(ctx, fmt.Sprintf(summaryPrompt, data))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	var out summaryResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		g.log.Error().Err(err).Str("patient_id", docID(doc)).Msg("summary response not valid JSON")
		return "", "", fmt.Errorf("%w: decode summary: %v", ErrModelFailure, err)
	}
	return out.Summary, out.Insights, nil
}

// FormatSOAPNote converts rough free-text notes into a structured SOAP note.
func (g *Gateway) FormatSOAPNote(ctx context.Context, notes string) (string, error) {
	if strings.TrimSpace(notes) == "" {
		return "", fmt.Errorf("%w: no notes provided", ErrInvalidInput)
	}

	out, err := g.model.Generate(ctx, fmt.Sprintf(soapPrompt, notes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	return out, nil
}

// GeneratePrognosis produces a markdown report of likely future health risks
// over the next 6-12 months.
func (g *Gateway) GeneratePrognosis(ctx context.Context, doc map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode patient: %v", ErrModelFailure, err)
	}

	out, err := g.model.Generate(ctx, fmt.Sprintf(prognosisPrompt, data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	return out, nil
}

// AnswerQuestion answers a doctor's question grounded only in the given
// patient document. The prompt instructs the model to refuse when the
// answer is not present in the data.
func (g *Gateway) AnswerQuestion(ctx context.Context, question string, doc map[string]interface{}) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode patient: %v", ErrModelFailure, err)
	}

	out, err := g.model.Generate(ctx, fmt.Sprintf(chatPrompt, data, question))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func docID(doc map[string]interface{}) string {
	id, _ := doc["id"].(string)
	return id
}
