package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "file_depot_uploads_total",
		Help: "Upload attempts by result.",
	}, []string{"result"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "file_depot_upload_bytes_total",
		Help: "Bytes accepted by successful uploads.",
	})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "file_depot_downloads_total",
		Help: "Download attempts by result.",
	}, []string{"result"})

	purgesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "file_depot_purges_total",
		Help: "Purge requests by result.",
	}, []string{"result"})
)

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return errorLabel(err)
}
