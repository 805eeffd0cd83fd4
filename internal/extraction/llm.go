package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/exstem-grader/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

const extractionPrompt = `You convert the text of an exam paper into JSON.
Return a JSON object {"questions": [...]} with one element per question.
Each element must contain:
  "question": the question text,
  "options": an array of answer options (empty when the question has none),
  "correct_answer": the correct option or answer text when the paper states it, otherwise null,
  "type": one of "fill_short", "fill_long", "reading", "reorder", "multiple_choice".
Keep the original language and numbering order. Do not invent questions.`

// LLMExtractor gets plain text from the document with a text command and asks an
// OpenAI-compatible model to structure it into questions.
type LLMExtractor struct {
	text  *command
	api   *openai.Client
	model string
}

// NewLLMExtractor creates the extractor. baseURL may be empty for the public API.
func NewLLMExtractor(textCommand, baseURL, apiKey, modelName string, timeout time.Duration) (*LLMExtractor, error) {
	cmd, err := newCommand(textCommand, timeout)
	if err != nil {
		return nil, err
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &LLMExtractor{
		text:  cmd,
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

func (e *LLMExtractor) Extract(ctx context.Context, pdfPath string) ([]model.QuestionItem, error) {
	raw, err := e.text.run(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, fmt.Errorf("%w: document has no text", ErrNoList)
	}

	resp, err := e.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("LLM returned no choices")
	}

	return ParseItems([]byte(resp.Choices[0].Message.Content))
}
