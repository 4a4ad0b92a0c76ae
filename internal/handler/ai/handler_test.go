package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	aiservice "github.com/pixelsmith/playground/internal/service/ai"
)

type stubGenerator struct {
	component *aiservice.GeneratedComponent
	err       error
	calls     int
	gotPrompt string
	gotJSX    string
	gotCSS    string
}

func (s *stubGenerator) Generate(_ context.Context, prompt, jsx, css string) (*aiservice.GeneratedComponent, error) {
	s.calls++
	s.gotPrompt, s.gotJSX, s.gotCSS = prompt, jsx, css
	return s.component, s.err
}

func setupRouter(gen Generator) *chi.Mux {
	r := chi.NewRouter()
	New(gen).RegisterRoutes(r)
	return r
}

func postGenerate(t *testing.T, r http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/ai/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGenerator{component: &aiservice.GeneratedComponent{
		JSX: "<button>Hi</button>",
		CSS: "button{color:red;}",
	}}
	r := setupRouter(gen)

	resp := postGenerate(t, r, map[string]string{"prompt": "make a red button"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["jsx"] != "<button>Hi</button>" || body["css"] != "button{color:red;}" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["message"] == "" {
		t.Fatal("expected a message field")
	}
	if gen.gotPrompt != "make a red button" {
		t.Fatalf("prompt not forwarded: %q", gen.gotPrompt)
	}
}

func TestGenerateForwardsCurrentCode(t *testing.T) {
	gen := &stubGenerator{component: &aiservice.GeneratedComponent{}}
	r := setupRouter(gen)

	postGenerate(t, r, map[string]string{
		"prompt": "make it blue",
		"jsx":    "<button/>",
		"css":    "button{}",
	})

	if gen.gotJSX != "<button/>" || gen.gotCSS != "button{}" {
		t.Fatalf("current code not forwarded: jsx=%q css=%q", gen.gotJSX, gen.gotCSS)
	}
}

func TestGenerateEmptyPromptIs400BeforeUpstream(t *testing.T) {
	gen := &stubGenerator{component: &aiservice.GeneratedComponent{}}
	r := setupRouter(gen)

	resp := postGenerate(t, r, map[string]string{"prompt": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not be called, got %d calls", gen.calls)
	}
}

func TestGenerateParseErrorExposesRaw(t *testing.T) {
	raw := "I cannot help with that."
	gen := &stubGenerator{err: fmt.Errorf("decode upstream reply: %w", &aiservice.ParseError{Raw: raw})}
	r := setupRouter(gen)

	resp := postGenerate(t, r, map[string]string{"prompt": "make a red button"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["raw"] != raw {
		t.Fatalf("expected raw upstream reply, got %q", body["raw"])
	}
}

func TestGenerateTransportErrorIs500(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream request failed: connection refused")}
	r := setupRouter(gen)

	resp := postGenerate(t, r, map[string]string{"prompt": "make a red button"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected error detail for transport failure")
	}
}

func TestGenerateUnavailableWithoutProvider(t *testing.T) {
	r := setupRouter(nil)

	resp := postGenerate(t, r, map[string]string{"prompt": "make a red button"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
