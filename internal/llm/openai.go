package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// OpenAIDigester generates digests via the Chat Completions API.
type OpenAIDigester struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIDigester creates the OpenAI-backed digester.
func NewOpenAIDigester(cfg model.LLMConfig) (*OpenAIDigester, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIDigester{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (d *OpenAIDigester) Name() string { return "openai" }

// Digest generates and citation-checks the investigation digest.
func (d *OpenAIDigester) Digest(ctx context.Context, req DigestRequest) (*DigestResponse, error) {
	mdl := d.cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}
	maxTokens := d.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 800
	}
	timeout := time.Duration(d.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req.Topic, req.Result, req.EvidenceURLs)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai digest: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai digest: empty response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	cited := extractURLs(text)
	if err := checkCitations(cited, req.EvidenceURLs); err != nil {
		return nil, err
	}

	return &DigestResponse{
		Text:       text,
		CitedURLs:  cited,
		Model:      mdl,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
