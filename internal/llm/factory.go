package llm

import (
	"fmt"
	"strings"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// NewDigester builds the configured digest backend. An empty provider
// name disables the digest and returns (nil, nil).
func NewDigester(cfg model.LLMConfig) (Digester, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIDigester(cfg)
	case "ollama":
		return NewOllamaDigester(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
