package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janiskelemen/file-depot/internal/auth"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, logger, recoverer)
	r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit, 1*time.Minute))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", s.openapi)

	p := chi.NewRouter()
	p.Use(auth.Bearer(s.cfg.Auth.Token))

	p.Get(filesPath, s.listFiles)
	p.Post(filesPath, s.uploadFile)
	p.Delete(filesPath, s.purge)
	p.Get(filesPath+"/{filename}", s.getFile)

	p.Post("/v1/backup", s.backupNow)

	r.Mount("/", p)
	return r
}
