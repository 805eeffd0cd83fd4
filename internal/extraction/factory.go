package extraction

import (
	"fmt"

	"github.com/stemsi/exstem-grader/internal/config"
)

// New builds the extractor selected by cfg.Extractor.
func New(cfg *config.Config) (Extractor, error) {
	switch cfg.Extractor {
	case config.ExtractorCommand:
		return NewCommandExtractor(cfg.ExtractorCommand, cfg.ExtractionTimeout)
	case config.ExtractorLLM:
		return NewLLMExtractor(cfg.TextCommand, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ExtractionTimeout)
	}
	return nil, fmt.Errorf("unknown extractor %q", cfg.Extractor)
}
