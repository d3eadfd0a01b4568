package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/janiskelemen/file-depot/internal/domain"
	"github.com/janiskelemen/file-depot/internal/storage"
)

const (
	filesPath     = "/v1/files"
	formFileField = "file"
	maxFormMemory = 32 << 20
)

//go:embed openapi.yaml
var openapiDoc []byte

// JobFunc runs an on-demand job such as a backup.
type JobFunc func(ctx context.Context) error

type Server struct {
	cfg    *Config
	store  storage.Service
	backup JobFunc
	http   *http.Server
}

// NewServer wires the HTTP API to st. backup may be nil, in which case
// POST /v1/backup answers 404.
func NewServer(cfg *Config, st storage.Service, backup JobFunc) *Server {
	s := &Server{cfg: cfg, store: st, backup: backup}
	s.http = &http.Server{Addr: cfg.Server.Bind, Handler: s.routes(), ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) Start() error {
	log.Info().Str("bind", s.cfg.Server.Bind).Msg("starting file-depot")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error { return s.http.Shutdown(ctx) }

func (s *Server) health(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "ok") }

func (s *Server) openapi(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapiDoc)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) { http.Error(w, msg, code) }

// statusFor maps storage errors onto HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, storage.ErrFileNotFound) {
		return http.StatusNotFound
	}
	switch kind, _ := storage.KindOf(err); kind {
	case storage.KindEmpty, storage.KindPathTraversal:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorLabel(err error) string {
	if errors.Is(err, storage.ErrFileNotFound) {
		return "not_found"
	}
	if kind, ok := storage.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	ev := log.Warn()
	msg := err.Error()
	switch {
	case code == http.StatusNotFound:
		msg = "file not found"
	case code >= 500:
		ev = log.Error()
		msg = "internal error"
	}
	ev.Err(err).Str("id", requestIDFrom(r.Context())).Int("status", code).Msg("storage")
	writeErr(w, code, msg)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := domain.ListFiles(r.Context(), s.store, filesPath)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		if n, err := url.PathUnescape(name); err == nil {
			name = n
		}
	}
	res, err := s.store.LoadAsResource(r.Context(), name)
	if err != nil {
		downloadsTotal.WithLabelValues(errorLabel(err)).Inc()
		s.fail(w, r, err)
		return
	}
	f, err := res.Open()
	if err != nil {
		downloadsTotal.WithLabelValues("error").Inc()
		s.fail(w, r, &storage.FileNotFoundError{Filename: name, Err: err})
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		downloadsTotal.WithLabelValues("error").Inc()
		s.fail(w, r, err)
		return
	}
	downloadsTotal.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(res.Name)}))
	http.ServeContent(w, r, res.Name, fi.ModTime(), f)
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Storage.MaxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		uploadsTotal.WithLabelValues("invalid").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeErr(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fhs := r.MultipartForm.File[formFileField]
	if len(fhs) == 0 {
		uploadsTotal.WithLabelValues("invalid").Inc()
		writeErr(w, http.StatusBadRequest, "missing form field "+formFileField)
		return
	}
	fh := fhs[0]
	err := s.store.Store(r.Context(), storage.NewMultipartUpload(fh))
	uploadsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	uploadBytesTotal.Add(float64(fh.Size))
	name := storage.CleanName(fh.Filename)
	log.Info().Str("id", requestIDFrom(r.Context())).Str("file", name).Int64("size", fh.Size).Msg("stored")

	w.Header().Set("Location", filesPath+"/"+url.PathEscape(name))
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "name": name})
}

func (s *Server) purge(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteAll(r.Context())
	if err == nil {
		err = s.store.Init(r.Context())
	}
	purgesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	log.Warn().Str("id", requestIDFrom(r.Context())).Msg("storage purged")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) backupNow(w http.ResponseWriter, r *http.Request) {
	if s.backup == nil {
		writeErr(w, http.StatusNotFound, "backup not configured")
		return
	}
	if err := s.backup(r.Context()); err != nil {
		log.Error().Err(err).Str("id", requestIDFrom(r.Context())).Msg("backup failed")
		writeErr(w, http.StatusInternalServerError, "backup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
