package summary

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/metrics"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiSummarizer asks a Gemini model for the summary. Without an API key it
// still constructs, and every call fails with a GenerationError.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	if model == "" {
		model = DefaultModel
	}

	s := &GeminiSummarizer{model: model}
	if strings.TrimSpace(apiKey) == "" {
		common.GetLoggerWith(common.LoggerNameSummary).
			Warn("GEMINI_API_KEY not set, summary generation will fail")
		return s, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &GenerationError{Message: "failed to create GenAI client", Err: err}
	}
	s.client = client
	return s, nil
}

func (s *GeminiSummarizer) GenerateSummary(ctx context.Context, records []models.ProductionRecord) (string, error) {
	logger := common.GetLoggerWith(common.LoggerNameSummary)

	if s.client == nil {
		metrics.RecordSummary("not_configured")
		return "", &GenerationError{Message: "Gemini API key is not configured."}
	}

	prompt, err := BuildPrompt(Simplify(records))
	if err != nil {
		metrics.RecordSummary("error")
		return "", &GenerationError{Message: "failed to build prompt", Err: err}
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		logger.Error("Error generating summary with Gemini", zap.Error(err))
		metrics.RecordSummary("error")
		return "", &GenerationError{Message: "An error occurred while generating the summary", Err: err}
	}

	text := resp.Text()
	if text == "" {
		metrics.RecordSummary("empty")
		return "", &GenerationError{Message: "the model returned an empty summary"}
	}

	metrics.RecordSummary("ok")
	logger.Info("Summary generated", zap.Int("records", min(len(records), MaxRecords)), zap.String("model", s.model))
	return text, nil
}
