// Package server exposes the page and the user actions over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"recipe-finder/internal/app"
	"recipe-finder/internal/catalog"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/metrics"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/route"
	"recipe-finder/internal/store"

	"github.com/sirupsen/logrus"
)

// Server routes requests to the controller.
type Server struct {
	app      *app.App
	dataPath string
	log      logrus.FieldLogger
}

// New creates a Server for a.
func New(a *app.App) *Server {
	return &Server{app: a, log: logging.Log.WithField("component", "server")}
}

// WithDataPath makes /health report the size of the bookmark data at path.
func (s *Server) WithDataPath(path string) *Server {
	s.dataPath = path
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /recipes/{id}", s.handleRecipe)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /pages/{n}", s.handlePage)
	mux.HandleFunc("POST /servings/{n}", s.handleServings)
	mux.HandleFunc("POST /bookmark", s.handleToggleBookmark)
	mux.HandleFunc("DELETE /bookmarks/{id}", s.handleDeleteBookmark)
	mux.HandleFunc("POST /recipes", s.handleUpload)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := metrics.GetSysHealth(s.dataPath, len(s.app.Store().Bookmarks()))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, err := route.RecipeID(r.URL.String())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writePage(w, s.app.ControlRecipe(r.Context(), id))
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, s.app.ControlRecipe(r.Context(), r.PathValue("id")))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, s.app.ControlSearchResults(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}
	s.writePage(w, s.app.ControlPagination(n))
}

func (s *Server) handleServings(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.Error(w, "invalid servings", http.StatusBadRequest)
		return
	}
	s.redirectOrPage(w, r, s.app.ControlServings(n), "/")
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	s.redirectOrPage(w, r, s.app.ControlToggleBookmark(r.Context()), "/")
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.app.ControlDeleteBookmark(r.Context(), r.PathValue("id")); err != nil {
		s.writePage(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := make(recipe.Form, len(r.PostForm))
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	id, err := s.app.ControlAddRecipe(r.Context(), form)
	s.redirectOrPage(w, r, err, "/#"+id)
}

// redirectOrPage follows a successful form post with a redirect so reloads
// do not repeat the action.
func (s *Server) redirectOrPage(w http.ResponseWriter, r *http.Request, err error, target string) {
	if err != nil {
		s.writePage(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// writePage serves the whole page. The controller has already rendered any
// failure into the affected view; err only selects the status code.
func (s *Server) writePage(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if err != nil {
		s.log.WithError(err).WithField("status", status).Warn("request failed")
	}

	var buf bytes.Buffer
	if werr := s.app.WritePage(&buf); werr != nil {
		s.log.WithError(werr).Error("failed to write page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func statusFor(err error) int {
	var httpErr *catalog.HTTPError
	var netErr *catalog.NetworkError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &httpErr):
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			return httpErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, catalog.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	case errors.Is(err, recipe.ErrMalformedIngredient),
		errors.Is(err, recipe.ErrInvalidField),
		errors.Is(err, app.ErrInvalidServings):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNoRecipe):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("handled request")
	})
}
