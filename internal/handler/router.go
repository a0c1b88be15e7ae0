package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/manojpracturu/first-aid/internal/handler/chat"
	"github.com/manojpracturu/first-aid/internal/handler/profile"
	"github.com/manojpracturu/first-aid/internal/handler/speech"
	middlewarePkg "github.com/manojpracturu/first-aid/internal/middleware"
	aiService "github.com/manojpracturu/first-aid/internal/service/ai"
	sessionService "github.com/manojpracturu/first-aid/internal/service/session"
	"github.com/manojpracturu/first-aid/internal/store"
	"github.com/manojpracturu/first-aid/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(sessions *sessionService.Manager, aiSvc *aiService.Service, gateway *store.Gateway, defaultLanguage string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(sessions, defaultLanguage)
	profileHandler := profile.New(gateway)
	speechHandler := speech.New(sessions)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		profileHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)

		// Nearby medical facilities via the maps-grounded lookup.
		api.Get("/places", func(w http.ResponseWriter, r *http.Request) {
			lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
			lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
			if latErr != nil || lngErr != nil {
				utils.RespondError(w, http.StatusBadRequest, "lat and lng query parameters are required")
				return
			}

			text, places := aiSvc.FindNearbyPlaces(r.Context(), lat, lng, r.URL.Query().Get("query"))
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"text":   text,
				"places": places,
			})
		})
	})

	return r
}
