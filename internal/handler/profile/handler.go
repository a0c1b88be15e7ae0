package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	profilemodel "github.com/manojpracturu/first-aid/internal/model/profile"
	"github.com/manojpracturu/first-aid/internal/store"
	"github.com/manojpracturu/first-aid/pkg/utils"
)

// Handler exposes profile reads and writes over the persistence gateway.
type Handler struct {
	gateway *store.Gateway
}

// New creates the profile handler.
func New(gateway *store.Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// RegisterRoutes mounts the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile/{uid}", h.handleGet)
	r.Put("/profile/{uid}", h.handlePut)
	r.Patch("/profile/{uid}", h.handlePatch)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	p, err := h.gateway.LoadProfile(r.Context(), uid)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "profile storage unavailable")
		return
	}
	if p == nil {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var p profilemodel.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.UID = uid

	if err := h.gateway.SaveProfile(r.Context(), &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "profile storage unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var upd profilemodel.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Empty() {
		utils.RespondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := h.gateway.UpdateProfile(r.Context(), uid, upd); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "profile storage unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
