package localize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/storedeck/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// generator is the part of *genai.GenerativeModel the localizer calls
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiLocalizer translates content bundles with a Gemini model
type GeminiLocalizer struct {
	client *genai.Client
	model  generator
	logger *zap.Logger
}

// NewGeminiLocalizer creates a client for the given model. Close releases it.
func NewGeminiLocalizer(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiLocalizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &GeminiLocalizer{client: client, model: model, logger: logger}, nil
}

func (g *GeminiLocalizer) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Localize asks the model for a translation of every value in bundle.
func (g *GeminiLocalizer) Localize(ctx context.Context, bundle models.ContentBundle, language, toneSample string) (models.ContentBundle, error) {
	prompt, err := buildPrompt(bundle, language, toneSample)
	if err != nil {
		return models.ContentBundle{}, err
	}

	g.logger.Info("requesting translation", zap.String("language", language))
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.ContentBundle{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return models.ContentBundle{}, fmt.Errorf("no content generated")
	}
	translated, err := DecodeBundle([]byte(text), bundle)
	if err != nil {
		return models.ContentBundle{}, err
	}
	g.logger.Info("translation received", zap.String("language", language))
	return translated, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func buildPrompt(bundle models.ContentBundle, language, toneSample string) (string, error) {
	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
You are an expert marketing copywriter and localization specialist for e-commerce brands.
Your task is to translate a JSON object of English text strings into a target language, perfectly matching a given brand's tonality.

**Brand Tonality Context:**
Here is a sample of the brand's language to understand their tone. It could be playful, formal, minimalist, etc. Adapt your translation to this style.
---
%s
---

**Instructions:**
1.  The target language is: "%s".
2.  Translate the **values** of the following JSON object.
3.  Do NOT translate the JSON keys.
4.  Preserve the exact original JSON structure.
5.  Ensure the translated text flows naturally for a native speaker and matches the brand's tone.

**JSON to Translate:**
%s

**Your Response:**
Respond with ONLY the translated JSON object. Do not add any other text, explanation, or commentary.
`, toneSample, language, payload), nil
}
