package healthcheck

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Probe serves liveness and readiness. Readiness starts false.
type Probe struct {
	ready atomic.Bool
	lg    *slog.Logger
}

func New(component string) *Probe {
	return &Probe{
		lg: observe.C("healthcheck").With("probe_for", component),
	}
}

func (p *Probe) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		if p.ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
}

func (p *Probe) SetReady()    { p.transition(true) }
func (p *Probe) SetNotReady() { p.transition(false) }

func (p *Probe) transition(ready bool) {
	if p.ready.Swap(ready) == ready {
		return
	}
	from, to := "not_ready", "ready"
	if !ready {
		from, to = to, from
	}
	p.lg.Info("readiness transition", "from", from, "to", to, "ts", time.Now().UTC())
}
