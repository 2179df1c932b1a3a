package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/meetinglens/meetinglens/pkg/config"
)

// GeminiClient is a minimal client for the Gemini generateContent and
// embedContent endpoints.
type GeminiClient struct {
	apiKey         string
	baseURL        string
	model          string
	embeddingModel string
	client         *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GEMINI_API_URL")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
	}

	model := "gemini-2.0-flash"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}
	embeddingModel := "text-embedding-004"
	if cfg != nil && cfg.EmbeddingModel != "" {
		embeddingModel = cfg.EmbeddingModel
	}

	return &GeminiClient{
		apiKey:         apiKey,
		baseURL:        base,
		model:          model,
		embeddingModel: embeddingModel,
		client:         &http.Client{Timeout: 60 * time.Second},
	}
}

// generateRequest is the shape for generateContent requests
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64     `json:"temperature,omitempty"`
	ResponseMimeType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   interface{} `json:"responseSchema,omitempty"`
}

// generateResponse is a minimal response shape
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateStructured sends the prompt with an enforced response schema and
// returns the raw JSON text of the first candidate.
func (g *GeminiClient) GenerateStructured(ctx context.Context, prompt string, schema map[string]interface{}) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:      0.3,
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	return g.generate(ctx, reqBody)
}

// GenerateText sends the prompt without a schema constraint and returns the
// plain text of the first candidate. Used for RAG answer synthesis.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0.3},
	}
	return g.generate(ctx, reqBody)
}

func (g *GeminiClient) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// embedRequest is the shape for embedContent requests
type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

// embedResponse is a minimal response shape
type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// EmbedText returns the embedding vector for the given text.
func (g *GeminiClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		Model:   "models/" + g.embeddingModel,
		Content: content{Parts: []part{{Text: text}}},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:embedContent", g.baseURL, g.embeddingModel)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, err
	}
	if len(er.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from gemini")
	}
	return er.Embedding.Values, nil
}
