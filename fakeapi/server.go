// Package fakeapi is an in-memory stand-in for the users/posts/comments service. It implements
// the routes, error envelopes, and validation rules that the contract tests exercise, so the
// test suite can be run and tested without network access or a real app-id.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	appIDHeader = "app-id"

	defaultPageLimit = 20
	minPageLimit     = 5
	maxPageLimit     = 50

	idParam = "id"
)

// Error codes, as they appear in the "error" property of the response body.
const (
	errAppIDMissing     = "APP_ID_MISSING"
	errAppIDNotExist    = "APP_ID_NOT_EXIST"
	errParamsNotValid   = "PARAMS_NOT_VALID"
	errBodyNotValid     = "BODY_NOT_VALID"
	errResourceNotFound = "RESOURCE_NOT_FOUND"
	errPathNotFound     = "PATH_NOT_FOUND"
)

type Config struct {
	// AppIDs are the credentials the server accepts. A request with any other app-id is refused
	// with APP_ID_NOT_EXIST.
	AppIDs []string

	// Logger receives one debug line per request.
	Logger zerolog.Logger

	// Now, if set, replaces time.Now for the timestamps in responses.
	Now func() time.Time
}

type Server struct {
	appIDs map[string]struct{}
	logger zerolog.Logger
	store  *store
	router chi.Router
}

func NewServer(config Config) *Server {
	s := &Server{
		appIDs: make(map[string]struct{}, len(config.AppIDs)),
		logger: config.Logger,
		store:  newStore(config.Now),
	}
	for _, id := range config.AppIDs {
		s.appIDs[id] = struct{}{}
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.requireAppID)

	r.Route("/user", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/create", s.createUser)
		r.Route("/{"+idParam+"}", func(r chi.Router) {
			r.Use(requireWellFormedID)
			r.Get("/", s.getUser)
			r.Put("/", s.updateUser)
			r.Delete("/", s.deleteUser)
			r.Get("/post", s.listPostsByUser)
			r.Get("/comment", s.listCommentsByUser)
		})
	})

	r.Route("/post", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/create", s.createPost)
		r.Route("/{"+idParam+"}", func(r chi.Router) {
			r.Use(requireWellFormedID)
			r.Get("/", s.getPost)
			r.Put("/", s.updatePost)
			r.Delete("/", s.deletePost)
			r.Get("/comment", s.listCommentsByPost)
		})
	})

	r.Route("/comment", func(r chi.Router) {
		r.Get("/", s.listComments)
		r.Post("/create", s.createComment)
		r.Route("/{"+idParam+"}", func(r chi.Router) {
			r.Use(requireWellFormedID)
			r.Delete("/", s.deleteComment)
		})
	})

	// set last, so that every subrouter above gets them too
	r.NotFound(pathNotFound)
	r.MethodNotAllowed(pathNotFound)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}

func (s *Server) requireAppID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appID := r.Header.Get(appIDHeader)
		if appID == "" {
			writeError(w, http.StatusForbidden, errAppIDMissing, nil)
			return
		}
		if _, ok := s.appIDs[appID]; !ok {
			writeError(w, http.StatusForbidden, errAppIDNotExist, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireWellFormedID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isWellFormedID(chi.URLParam(r, idParam)) {
			writeError(w, http.StatusBadRequest, errParamsNotValid, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errPathNotFound, nil)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeError sends the service's error envelope. data, if not empty, describes which fields of
// the request body were invalid.
func writeError(w http.ResponseWriter, status int, code string, data map[string]string) {
	body := map[string]interface{}{"error": code}
	if len(data) > 0 {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

type page struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// pageParams reads limit and page from the query. Out-of-range values are clamped rather than
// rejected, the way the real service behaves.
func pageParams(r *http.Request) (limit, pageNum int) {
	limit = defaultPageLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = n
	}
	if limit < minPageLimit {
		limit = minPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		pageNum = n
	}
	return limit, pageNum
}

func writePage[E any](w http.ResponseWriter, r *http.Request, items []E) {
	limit, pageNum := pageParams(r)
	start := pageNum * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	writeJSON(w, http.StatusOK, page{
		Data:  items[start:end],
		Total: len(items),
		Page:  pageNum,
		Limit: limit,
	})
}
