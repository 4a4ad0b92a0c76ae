// Package ai proxies component generation to the upstream chat-completion
// provider and parses the JSON-shaped reply into JSX and CSS strings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// systemPrompt pins the reply shape the extractor expects.
const systemPrompt = `You are an expert React component generator. When given a prompt, return ONLY a JSON object with two fields: "jsx" (the React component code as a string) and "css" (the CSS as a string). Do not include any explanation, markdown, or extra text. Only output the JSON object.`

// ErrEmptyPrompt is returned before any upstream call is made.
var ErrEmptyPrompt = errors.New("prompt is required")

// Service runs a single synchronous generation per call. No retries, no
// caching, no streaming: rapid calls from one client are independent
// upstream requests.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt-template + chat-model chain.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate sends the prompt upstream and extracts the generated component
// from the reply. currentJSX/currentCSS, when present, are appended to the
// prompt as editing context.
func (s *Service) Generate(ctx context.Context, userPrompt, currentJSX, currentCSS string) (*GeneratedComponent, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, ErrEmptyPrompt
	}

	input := map[string]any{
		"system": systemPrompt,
		"query":  buildUserPrompt(userPrompt, currentJSX, currentCSS),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	component, err := ExtractComponent(response.Content)
	if err != nil {
		return nil, err
	}

	log.Printf("[ai] generated component, jsx=%d bytes, css=%d bytes", len(component.JSX), len(component.CSS))
	return component, nil
}

// buildUserPrompt appends the current code as editing context so the model
// can modify rather than regenerate.
func buildUserPrompt(userPrompt, currentJSX, currentCSS string) string {
	if currentJSX == "" && currentCSS == "" {
		return userPrompt
	}
	return fmt.Sprintf("%s\n\nCurrent JSX:\n%s\n\nCurrent CSS:\n%s", userPrompt, currentJSX, currentCSS)
}
