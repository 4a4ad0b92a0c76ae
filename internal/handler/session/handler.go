package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelsmith/playground/internal/middleware"
	"github.com/pixelsmith/playground/internal/model/session"
	"github.com/pixelsmith/playground/internal/service/playground"
	sessionService "github.com/pixelsmith/playground/internal/service/session"
	"github.com/pixelsmith/playground/pkg/utils"
)

// Handler exposes session CRUD plus the preview, property-edit, and export
// endpoints. All routes assume RequireAuth already ran.
type Handler struct {
	sessionSvc *sessionService.Service
}

func New(sessionSvc *sessionService.Service) *Handler {
	return &Handler{sessionSvc: sessionSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.handleList)
	r.Post("/session", h.handleCreate)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
		r.Get("/preview", h.handlePreview)
		r.Post("/properties", h.handleApplyProperties)
		r.Get("/export", h.handleExport)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionSvc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		log.Printf("[session] list failed: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "failed to fetch sessions", err)
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	utils.RespondJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft session.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionSvc.Create(r.Context(), middleware.UserID(r.Context()), draft)
	if err != nil {
		log.Printf("[session] create failed: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "failed to create session", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionSvc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondSessionError(w, "failed to fetch session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch session.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionSvc.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "sessionID"), patch)
	if err != nil {
		h.respondSessionError(w, "failed to update session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "sessionID")); err != nil {
		h.respondSessionError(w, "failed to delete session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}

// handlePreview serves the sandbox document for the stored component.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionSvc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondSessionError(w, "failed to fetch session", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, playground.Document(sess.Code, sess.CSS))
}

// handleApplyProperties rewrites the session's code with the submitted
// element properties and persists the result.
func (h *Handler) handleApplyProperties(w http.ResponseWriter, r *http.Request) {
	var props playground.Properties
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "sessionID")

	sess, err := h.sessionSvc.Get(r.Context(), userID, id)
	if err != nil {
		h.respondSessionError(w, "failed to fetch session", err)
		return
	}

	code, css := playground.Apply(sess.Code, sess.CSS, props)
	updated, err := h.sessionSvc.Update(r.Context(), userID, id, session.Patch{
		Code:    &code,
		CSS:     &css,
		Version: &sess.Version,
	})
	if err != nil {
		h.respondSessionError(w, "failed to update session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// handleExport streams the component as a downloadable ZIP.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionSvc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondSessionError(w, "failed to fetch session", err)
		return
	}

	archive, err := playground.Archive(sess.Code, sess.CSS)
	if err != nil {
		log.Printf("[session] export failed: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "failed to export session", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="component.zip"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		log.Printf("[session] export write failed: %v", err)
	}
}

func (h *Handler) respondSessionError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, sessionService.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, sessionService.ErrVersionConflict):
		utils.RespondError(w, http.StatusConflict, "session was modified concurrently")
	default:
		log.Printf("[session] %s: %v", message, err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, message, err)
	}
}
