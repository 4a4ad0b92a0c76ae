package session

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelsmith/playground/internal/middleware"
	"github.com/pixelsmith/playground/internal/model/session"
	"github.com/pixelsmith/playground/internal/repository/sessions"
	"github.com/pixelsmith/playground/internal/repository/users"
	authservice "github.com/pixelsmith/playground/internal/service/auth"
	sessionservice "github.com/pixelsmith/playground/internal/service/session"
)

type testEnv struct {
	router  *chi.Mux
	authSvc *authservice.Service
}

func setupEnv() *testEnv {
	authSvc := authservice.NewService(users.NewMemoryRepository(), []byte("test-secret"), time.Hour)
	sessionSvc := sessionservice.NewService(sessions.NewMemoryRepository())

	r := chi.NewRouter()
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(authSvc))
		New(sessionSvc).RegisterRoutes(protected)
	})
	return &testEnv{router: r, authSvc: authSvc}
}

// signup creates a user out of band and returns a bearer token for it.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	u, err := e.authSvc.Signup(t.Context(), email, "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, err := e.authSvc.IssueToken(u.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decodeSession(t *testing.T, resp *httptest.ResponseRecorder) session.Session {
	t.Helper()
	var s session.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return s
}

func TestSessionRequiresAuth(t *testing.T) {
	env := setupEnv()

	resp := env.do(t, http.MethodGet, "/session", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	draft := session.Draft{
		ChatHistory: []session.Turn{{Role: session.RoleUser, Content: "make a red button"}},
		Code:        "<button>Hi</button>",
		CSS:         "button{color:red;}",
	}
	resp := env.do(t, http.MethodPost, "/session", token, draft)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeSession(t, resp)

	resp = env.do(t, http.MethodGet, "/session/"+created.ID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decodeSession(t, resp)
	if got.Code != draft.Code || got.CSS != draft.CSS || len(got.ChatHistory) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ChatHistory[0] != draft.ChatHistory[0] {
		t.Fatalf("chat history mismatch: %+v", got.ChatHistory)
	}
}

func TestForeignSessionIs404(t *testing.T) {
	env := setupEnv()
	alice := env.signup(t, "alice@example.com")
	mallory := env.signup(t, "mallory@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", alice, session.Draft{Code: "secret"}))

	if resp := env.do(t, http.MethodGet, "/session/"+created.ID, mallory, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", resp.Code)
	}
	code := "stolen"
	if resp := env.do(t, http.MethodPut, "/session/"+created.ID, mallory, session.Patch{Code: &code}); resp.Code != http.StatusNotFound {
		t.Fatalf("update: expected 404, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodDelete, "/session/"+created.ID, mallory, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", resp.Code)
	}

	// Owner still sees the original.
	got := decodeSession(t, env.do(t, http.MethodGet, "/session/"+created.ID, alice, nil))
	if got.Code != "secret" {
		t.Fatalf("owner data changed: %+v", got)
	}
}

func TestUpdatePartialPatch(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{
		Code: "<button>Hi</button>",
		CSS:  "button{color:red;}",
	}))

	css := "button{color:blue;}"
	resp := env.do(t, http.MethodPut, "/session/"+created.ID, token, session.Patch{CSS: &css})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeSession(t, resp)
	if updated.CSS != css {
		t.Fatalf("css not updated: %+v", updated)
	}
	if updated.Code != created.Code {
		t.Fatalf("code should be unchanged: %+v", updated)
	}
}

func TestUpdateWithStaleVersionIs409(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{Code: "v1"}))

	code := "v2"
	if resp := env.do(t, http.MethodPut, "/session/"+created.ID, token, session.Patch{Code: &code}); resp.Code != http.StatusOK {
		t.Fatalf("first update: expected 200, got %d", resp.Code)
	}

	stale := created.Version
	code = "v3"
	resp := env.do(t, http.MethodPut, "/session/"+created.ID, token, session.Patch{Code: &code, Version: &stale})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{}))

	if resp := env.do(t, http.MethodDelete, "/session/"+created.ID, token, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodGet, "/session/"+created.ID, token, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestListReturnsOwnSessionsOnly(t *testing.T) {
	env := setupEnv()
	alice := env.signup(t, "alice@example.com")
	bob := env.signup(t, "bob@example.com")

	env.do(t, http.MethodPost, "/session", alice, session.Draft{Code: "a"})
	env.do(t, http.MethodPost, "/session", bob, session.Draft{Code: "b"})

	resp := env.do(t, http.MethodGet, "/session", alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list []session.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Code != "a" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPreviewDocument(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{
		Code: "<button>Hi</button>",
		CSS:  "button{color:red;}",
	}))

	resp := env.do(t, http.MethodGet, "/session/"+created.ID+"/preview", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "<button>Hi</button>") || !strings.Contains(body, "button{color:red;}") {
		t.Fatalf("preview missing component: %q", body)
	}
}

func TestApplyPropertiesPersists(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{
		Code: `<button style={{ background: '#fff' }}>Click me</button>`,
		CSS:  "button { color: red; }",
	}))

	resp := env.do(t, http.MethodPost, "/session/"+created.ID+"/properties", token, map[string]any{
		"text":       "Buy now",
		"color":      "#ffffff",
		"background": "#e11d48",
		"fontSize":   18,
		"radius":     4,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeSession(t, resp)
	if !strings.Contains(updated.Code, ">Buy now<") {
		t.Fatalf("text not applied: %q", updated.Code)
	}
	if !strings.Contains(updated.CSS, "color: #ffffff;") {
		t.Fatalf("css not applied: %q", updated.CSS)
	}

	// The rewrite is persisted, not just echoed.
	got := decodeSession(t, env.do(t, http.MethodGet, "/session/"+created.ID, token, nil))
	if got.Code != updated.Code || got.CSS != updated.CSS {
		t.Fatalf("properties not persisted: %+v", got)
	}
}

func TestExportZip(t *testing.T) {
	env := setupEnv()
	token := env.signup(t, "alice@example.com")

	created := decodeSession(t, env.do(t, http.MethodPost, "/session", token, session.Draft{
		Code: "<button>Hi</button>",
		CSS:  "button{color:red;}",
	}))

	resp := env.do(t, http.MethodGet, "/session/"+created.ID+"/export", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("expected zip content type, got %q", ct)
	}

	data := resp.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 files, got %d", len(zr.File))
	}
}
