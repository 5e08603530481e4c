package middleware

import (
	"net/http"
	"time"

	log "github.com/activeshadow/libminimega/minilog"
)

type recorder struct {
	http.ResponseWriter
	status int
}

func (this *recorder) WriteHeader(status int) {
	this.status = status
	this.ResponseWriter.WriteHeader(status)
}

func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			start = time.Now()
			rec   = &recorder{ResponseWriter: w, status: http.StatusOK}
		)

		next.ServeHTTP(rec, r)

		log.Info("HTTP %s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
