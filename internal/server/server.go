// Package server exposes a gallery over HTTP for a view layer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gallery-go/internal/gallery"
	"gallery-go/internal/host"
)

// FilePathPrefix is the route stored files are served under.
const FilePathPrefix = host.FilePath

// Controller is the part of *gallery.Gallery the server drives.
type Controller interface {
	Photos() []gallery.Photo
	State() gallery.State
	TakePhoto(ctx context.Context) error
	DeletePhoto(ctx context.Context, photo gallery.Photo) error
}

// Server routes HTTP requests to a Controller and its file store.
type Server struct {
	gallery Controller
	files   gallery.FileStore
	logger  gallery.Logger
	router  *mux.Router
}

// New creates a Server.
func New(g Controller, files gallery.FileStore, logger gallery.Logger) *Server {
	s := &Server{
		gallery: g,
		files:   files,
		logger:  logger,
	}
	s.router = s.newRouter()
	return s
}

func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/photos", s.handleListPhotos).Methods(http.MethodGet)
	r.HandleFunc("/photos", s.handleTakePhoto).Methods(http.MethodPost)
	r.HandleFunc("/photos/{name}", s.handleDeletePhoto).Methods(http.MethodDelete)
	r.HandleFunc(FilePathPrefix+"/{path:.+}", s.handleFile).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving gallery", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

type healthResponse struct {
	State  string `json:"state"`
	Photos int    `json:"photos"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		State:  s.gallery.State().String(),
		Photos: len(s.gallery.Photos()),
	})
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gallery.Photos())
}

func (s *Server) handleTakePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.gallery.TakePhoto(r.Context()); err != nil {
		s.logger.Error("take photo failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.gallery.Photos())
}

// handleDeletePhoto deletes the photo whose file name is {name}.
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var target *gallery.Photo
	for _, p := range s.gallery.Photos() {
		if p.FileName() == name {
			target = &p
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "photo not found: "+name)
		return
	}

	if err := s.gallery.DeletePhoto(r.Context(), *target); err != nil {
		s.logger.Error("delete photo failed", "name", name, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.gallery.Photos())
}

// handleFile serves a stored file. Bare names are looked up in the data
// directory; anything else is treated as an absolute path.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	p := mux.Vars(r)["path"]
	if strings.Contains(p, "/") {
		p = "/" + p
	}

	data, err := s.files.ReadFile(r.Context(), p, gallery.DirectoryData)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	content, err := gallery.DecodeFileData(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(content))
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gallery.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gallery.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
