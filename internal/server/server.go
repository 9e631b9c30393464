// Package server exposes an item store over HTTP using the JSON envelope
// httpstore speaks. There is deliberately no DELETE route.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

const maxBodyBytes = 1 << 20

// Handler serves /todos from a backing store.
type Handler struct {
	store store.Store
	log   *log.Logger
	token string
	mux   *http.ServeMux
}

// Option customises a Handler.
type Option func(*Handler)

// WithToken requires `Authorization: Bearer <token>` on every request.
func WithToken(token string) Option {
	return func(h *Handler) { h.token = strings.TrimSpace(token) }
}

// New returns a handler for st.
func New(st store.Store, l *log.Logger, opts ...Option) *Handler {
	if l == nil {
		l = log.New(io.Discard)
	}
	h := &Handler{store: st, log: l, mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(h)
	}
	h.mux.HandleFunc("GET /todos", h.list)
	h.mux.HandleFunc("POST /todos", h.create)
	h.mux.HandleFunc("PUT /todos/{id}", h.update)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, store.Rejected[any]("unauthorized"))
		return
	}
	start := time.Now()
	h.mux.ServeHTTP(w, r)
	h.log.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
}

func (h *Handler) authorized(r *http.Request) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(h.token)) == 1
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	resp, err := h.store.Create(r.Context(), f)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	resp, err := h.store.Update(r.Context(), id, f)
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) decodeFields(w http.ResponseWriter, r *http.Request) (model.Fields, bool) {
	var f model.Fields
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, store.Rejected[any]("invalid body: "+err.Error()))
		return f, false
	}
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		writeJSON(w, http.StatusUnprocessableEntity, store.Rejected[any]("title is required"))
		return f, false
	}
	return f, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, store.Rejected[any](err.Error()))
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	h.log.Error("store request failed", "op", op, "err", err)
	writeJSON(w, http.StatusInternalServerError, store.Rejected[any]("internal error"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs h on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, l *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		l.Info("serving item store", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	l.Info("item store stopped")
	return nil
}
