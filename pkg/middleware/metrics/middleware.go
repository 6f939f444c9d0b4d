package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
)

// sample is what one finished request contributes to the HTTP collectors.
type sample struct {
	role    string
	code    string
	uri     string
	method  string
	elapsed time.Duration
}

func (s sample) record() {
	totalHttpRequestsFromRole.WithLabelValues(s.role).Inc()
	totalHttpRequestsToUri.WithLabelValues(s.code, s.uri, s.method).Inc()
	totalHttpRequests.WithLabelValues(s.code, s.method).Inc()
	responseTime.Observe(s.elapsed.Seconds())
}

// Collect records per-request HTTP metrics. The operator role label comes
// from ca when it is wired.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSkipPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			inFlight.Inc()

			defer func() {
				inFlight.Dec()
				s := sample{
					code:    strconv.Itoa(ww.Status()),
					uri:     normalizePath(r),
					method:  r.Method,
					elapsed: time.Since(start),
				}
				if ca != nil {
					s.role = ca.GetUser(r.Context()).Role.Name
				}
				s.record()
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
