// Package site serves the embedded scouting dashboard: an athlete selector,
// a priority selector, the text summary and the radar chart, all driven by
// the JSON API.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// Error constants
var (
	ErrServe = errors.New("dashboard serve failed")
)

// Register attaches the dashboard routes to router:
//
//	GET /          -> index.html
//	GET /static/*  -> dashboard assets
func Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}
	files := http.FileServer(FS())
	router.Handle("/", NewRootHandler()).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", files)).Methods(http.MethodGet)
}

// RootHandler serves the dashboard page.
type RootHandler struct {
	files http.FileSystem
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: FS()}
}

// ServeHTTP writes index.html.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := h.files.Open("index.html")
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", stat.ModTime(), f)
}
