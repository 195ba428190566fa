package runtime

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const checkTimeout = 2 * time.Second

// ReadyCheck probes one dependency for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

// NewBaseMuxWithReady returns a mux pre-wired with /healthz (process
// liveness) and /readyz (dependency probes). /readyz answers 503 with the
// failing dependencies named in the body.
func NewBaseMuxWithReady(checks ...ReadyCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		var failing []string
		for _, c := range checks {
			if c.Check == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				failing = append(failing, c.Name+": "+err.Error())
			}
		}
		if len(failing) > 0 {
			http.Error(w, strings.Join(failing, "; "), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
