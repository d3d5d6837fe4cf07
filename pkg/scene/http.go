package scene

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// sceneSummary is the listing shape: name and description, without the node
// definitions.
type sceneSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Script      string `json:"script,omitempty"`
	Nodes       int    `json:"nodes"`
}

// HTTPHandler returns the control surface: health, scene listing and fetch,
// and the live session listing. Read-only; scene editing goes through the
// store, not over HTTP.
func (s *Server) HTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/scenes", func(w http.ResponseWriter, r *http.Request) {
		scenes, err := s.opts.Scenes.List(r.Context())
		if err != nil {
			s.httpError(w, err)
			return
		}
		summaries := make([]sceneSummary, len(scenes))
		for i, sc := range scenes {
			summaries[i] = sceneSummary{
				Name:        sc.Name,
				Description: sc.Description,
				Script:      sc.Script,
				Nodes:       len(sc.Nodes),
			}
		}
		writeJSON(w, summaries)
	})

	r.Get("/api/scenes/{name}", func(w http.ResponseWriter, r *http.Request) {
		sc, err := s.opts.Scenes.Get(r.Context(), chi.URLParam(r, "name"))
		if errors.Is(err, ErrSceneNotFound) {
			http.Error(w, "scene not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.httpError(w, err)
			return
		}
		writeJSON(w, sc)
	})

	r.Get("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		sessions, err := s.opts.Sessions.List(r.Context())
		if err != nil {
			s.httpError(w, err)
			return
		}
		writeJSON(w, sessions)
	})

	return r
}

func (s *Server) httpError(w http.ResponseWriter, err error) {
	s.logger.Error("control surface request failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
