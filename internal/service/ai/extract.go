package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// GeneratedComponent is the parsed result of one generation.
type GeneratedComponent struct {
	JSX string `json:"jsx"`
	CSS string `json:"css"`
}

// ParseError reports an upstream reply that did not contain the expected
// JSON object. Raw carries the full reply for operator diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "upstream reply could not be parsed as a component"
}

// jsonObjectPattern grabs the first-to-last brace span, tolerating prose or
// markdown fences around the object.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractComponent pulls the brace-delimited JSON object out of the model's
// free-text reply and decodes it. Any failure yields a *ParseError wrapping
// the raw reply.
func ExtractComponent(raw string) (*GeneratedComponent, error) {
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in upstream reply: %w", &ParseError{Raw: raw})
	}

	var component GeneratedComponent
	if err := json.Unmarshal([]byte(match), &component); err != nil {
		return nil, fmt.Errorf("decode upstream reply: %w", &ParseError{Raw: raw})
	}
	return &component, nil
}
