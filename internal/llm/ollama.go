package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// OllamaDigester generates digests against a local Ollama server.
type OllamaDigester struct {
	baseURL    string
	httpClient *http.Client
	cfg        model.LLMConfig
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

// NewOllamaDigester creates the Ollama-backed digester.
func NewOllamaDigester(cfg model.LLMConfig) (*OllamaDigester, error) {
	if cfg.Model == "" {
		return nil, errors.New("ollama model must be specified (e.g. llama3.1:8b)")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models are slower
	}

	return &OllamaDigester{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}, nil
}

func (d *OllamaDigester) Name() string { return "ollama" }

// Digest generates and citation-checks the investigation digest.
func (d *OllamaDigester) Digest(ctx context.Context, req DigestRequest) (*DigestResponse, error) {
	maxTokens := d.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 800
	}

	resp, err := d.generate(ctx, ollamaRequest{
		Model:  d.cfg.Model,
		Prompt: buildPrompt(req.Topic, req.Result, req.EvidenceURLs),
		Stream: false,
		System: systemPrompt,
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama digest: %w", err)
	}

	text := strings.TrimSpace(resp.Response)
	cited := extractURLs(text)
	if err := checkCitations(cited, req.EvidenceURLs); err != nil {
		return nil, err
	}

	tokens := resp.PromptEvalCount + resp.EvalCount

	return &DigestResponse{
		Text:       text,
		CitedURLs:  cited,
		Model:      resp.Model,
		TokensUsed: tokens,
	}, nil
}

func (d *OllamaDigester) generate(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("api error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("api error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
