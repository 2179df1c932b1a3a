package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meetinglens/meetinglens/pkg/config"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGeminiClient(&config.GeminiConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Model:          "gemini-2.0-flash",
		EmbeddingModel: "text-embedding-004",
	})
	return client, srv
}

func TestGenerateStructured(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"ok\"}"}]}}]}`))
	})

	out, err := client.GenerateStructured(context.Background(), "analyze this", map[string]interface{}{"type": "OBJECT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
		t.Fatalf("unexpected path: %q", gotPath)
	}

	genCfg, ok := gotBody["generationConfig"].(map[string]interface{})
	if !ok {
		t.Fatal("expected generationConfig in request")
	}
	if genCfg["responseMimeType"] != "application/json" {
		t.Fatalf("expected JSON mime type, got %v", genCfg["responseMimeType"])
	}
	if _, ok := genCfg["responseSchema"]; !ok {
		t.Fatal("expected responseSchema in request")
	}
}

func TestGenerateTextOmitsSchema(t *testing.T) {
	var gotBody map[string]interface{}
	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"The launch is Sep 15."}]}}]}`))
	})

	out, err := client.GenerateText(context.Background(), "when is the launch?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "The launch is Sep 15." {
		t.Fatalf("unexpected output: %q", out)
	}
	if genCfg, ok := gotBody["generationConfig"].(map[string]interface{}); ok {
		if _, has := genCfg["responseSchema"]; has {
			t.Fatal("plain generation must not carry a response schema")
		}
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateText(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestEmbedText(t *testing.T) {
	var gotPath string
	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	})

	vec, err := client.EmbedText(context.Background(), "some chunk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vec))
	}
	if !strings.Contains(gotPath, "text-embedding-004:embedContent") {
		t.Fatalf("unexpected path: %q", gotPath)
	}
}

func TestEmbedTextEmpty(t *testing.T) {
	client, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":{"values":[]}}`))
	})

	_, err := client.EmbedText(context.Background(), "some chunk")
	if err == nil || !strings.Contains(err.Error(), "empty embedding") {
		t.Fatalf("expected empty embedding error, got %v", err)
	}
}
