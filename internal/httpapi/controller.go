package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/healthcheck"
	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

const (
	maxBodyBytes = 64 << 10
	defaultLimit = 50
	maxLimit     = 500
)

func NewController(submit chan<- events.Event, history History) *APIController {
	return &APIController{Submit: submit, History: history, lg: observe.C("http_api")}
}

func (api *APIController) Messages(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		api.lg.Warn("bad message body", "remote", r.RemoteAddr, "err", err)
		http.Error(w, "Malformed JSON body", http.StatusBadRequest)
		return
	}

	msg, err := req.build(isTrue(r.URL.Query().Get("strict")))
	if err != nil {
		api.lg.Warn("message rejected", "remote", r.RemoteAddr, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	env := events.Wrap(msg)
	select {
	case api.Submit <- env:
	case <-r.Context().Done():
		http.Error(w, "Request canceled", http.StatusServiceUnavailable)
		return
	}
	api.lg.Info("enqueue message", "id", env.ID, "kind", env.Kind(), "key", env.Key(), "remote", r.RemoteAddr)

	writeJSON(w, http.StatusAccepted, acceptedResponse{ID: env.ID, Key: env.Key(), Rendered: env.Rendered})
}

func (api *APIController) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	var (
		envs []events.Envelope
		err  error
	)
	if key := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("key"))); key != "" {
		envs, err = api.History.ByKey(r.Context(), key, limit)
	} else {
		envs, err = api.History.Recent(r.Context(), limit)
	}
	if err != nil {
		api.lg.Error("history query failed", "err", err)
		http.Error(w, "History unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, envs)
}

func (req messageRequest) build(strict bool) (ircmsg.Message, error) {
	if !req.Extended {
		if strict {
			return ircmsg.NewStrict(req.Prefix, req.Command, req.Params, req.Trail)
		}
		return ircmsg.New(req.Prefix, req.Command, req.Params, req.Trail), nil
	}

	pairs := make([]ircmsg.Tag, 0, len(req.Tags))
	for _, t := range req.Tags {
		pairs = append(pairs, ircmsg.Tag{Key: t.Key, Value: t.Value})
	}
	tags := ircmsg.NewTags(pairs...)
	if strict {
		return ircmsg.NewExtendedStrict(tags, req.Prefix, req.Command, req.Params, req.Trail)
	}
	return ircmsg.NewExtended(tags, req.Prefix, req.Command, req.Params, req.Trail), nil
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		observe.C("http_api").Warn("failed to write response", "err", err)
	}
}

func (api *APIController) routes() *http.ServeMux {
	mux := http.NewServeMux()
	if api.Submit != nil {
		mux.HandleFunc("POST /messages", api.Messages)
	}
	if api.History != nil {
		mux.HandleFunc("GET /messages/recent", api.Recent)
	}
	return mux
}

// Run serves the API on address until ctx is cancelled.
func Run(ctx context.Context, address string, api *APIController) error {
	lg := api.lg.With("address", address)

	mux := api.routes()
	probe := healthcheck.New("http_api")
	probe.Register(mux)
	probe.SetNotReady()

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("http_api: listen error on %s: %w", address, err)
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening")
		probe.SetReady()
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		lg.Info("shutdown requested")
		probe.SetNotReady()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}
		lg.Info("shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}
