package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manojpracturu/first-aid/internal/service/session"
	"github.com/manojpracturu/first-aid/pkg/utils"
)

// defaultSuggestions seeds an empty chat with common first-aid questions.
var defaultSuggestions = []string{
	"How do I perform CPR?",
	"How do I treat a minor burn?",
	"What should I do for a snake bite?",
	"How do I help someone who is choking?",
}

// Handler drives the conversation session engine over HTTP.
type Handler struct {
	sessions        *session.Manager
	defaultLanguage string
}

// New creates the chat handler.
func New(sessions *session.Manager, defaultLanguage string) *Handler {
	return &Handler{
		sessions:        sessions,
		defaultLanguage: defaultLanguage,
	}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleOpenSession)
	r.Delete("/session/{sessionID}", h.handleCloseSession)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Post("/session/{sessionID}/messages", h.handleSend)
	r.Get("/session/{sessionID}/composition", h.handleGetComposition)
	r.Put("/session/{sessionID}/composition", h.handleSetComposition)
	r.Get("/suggestions", h.handleSuggestions)
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID   string `json:"userId"`
		Language string `json:"language"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Language == "" {
		payload.Language = h.defaultLanguage
	}

	ctl, err := h.sessions.Open(r.Context(), payload.UserID, payload.Language)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":    ctl.Session(),
		"transcript": ctl.Transcript(),
	})
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, ctl.Transcript())
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := ctl.Send(r.Context(), payload.Text)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "message text is required")
		return
	case errors.Is(err, session.ErrRequestPending):
		utils.RespondError(w, http.StatusConflict, "a request is already pending")
		return
	case errors.Is(err, session.ErrSessionReset):
		utils.RespondError(w, http.StatusConflict, "session was reset while the request was in flight")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":      reply,
		"transcript": ctl.Transcript(),
	})
}

func (h *Handler) handleGetComposition(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": ctl.Input().Composition()})
}

func (h *Handler) handleSetComposition(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctl.Input().SetComposition(payload.Text)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, defaultSuggestions)
}

// lookup resolves the session or writes a 404.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	ctl, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return ctl, true
}
