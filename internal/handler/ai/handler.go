package ai

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	aiService "github.com/pixelsmith/playground/internal/service/ai"
	"github.com/pixelsmith/playground/pkg/utils"
)

// Generator produces a component for a prompt, optionally editing the
// caller's current code.
type Generator interface {
	Generate(ctx context.Context, prompt, currentJSX, currentCSS string) (*aiService.GeneratedComponent, error)
}

// Handler exposes the generation proxy. gen is nil when the upstream
// provider is not configured; the route then answers 503.
type Handler struct {
	gen Generator
}

func New(gen Generator) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ai/generate", h.handleGenerate)
}

type generatePayload struct {
	Prompt string `json:"prompt"`
	JSX    string `json:"jsx"`
	CSS    string `json:"css"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai generation unavailable")
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	component, err := h.gen.Generate(r.Context(), payload.Prompt, payload.JSX, payload.CSS)
	if err != nil {
		var parseErr *aiService.ParseError
		switch {
		case errors.Is(err, aiService.ErrEmptyPrompt):
			utils.RespondError(w, http.StatusBadRequest, "prompt is required")
		case errors.As(err, &parseErr):
			log.Printf("[ai] unparseable upstream reply: %v", err)
			utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "AI response could not be parsed",
				"raw":     parseErr.Raw,
			})
		default:
			log.Printf("[ai] generation failed: %v", err)
			utils.RespondErrorDetail(w, http.StatusInternalServerError, "AI request failed", err)
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"jsx":     component.JSX,
		"css":     component.CSS,
		"message": "AI generated component.",
	})
}
