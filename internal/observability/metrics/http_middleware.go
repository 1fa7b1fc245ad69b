package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics. Paths
// carrying record ids are collapsed to their route pattern so the label set
// stays bounded.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, routeLabel(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

// routeLabel maps an id-bearing request path onto its route pattern.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/tasks/status/"):
		return "/tasks/status/{taskId}"
	case path == "/user/login" || path == "/user/signup":
		return path
	case strings.HasPrefix(path, "/user/"):
		return "/user/{userId}"
	}
	return path
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
