// Package site serves the kolam website: the static pages, the two
// designers, the 1-5-1 database, and the simulated classify and recreate
// tools.
package site

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ha1tch/kolam-toolkit/internal/gallery"
	"github.com/ha1tch/kolam-toolkit/internal/jobs"
	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Catalogue is the part of the gallery the site needs.
type Catalogue interface {
	Search(ctx context.Context, collection, query string) ([]gallery.Image, error)
	RecordDesign(ctx context.Context, variant, code string) error
	RecentDesigns(ctx context.Context, limit int) ([]gallery.Design, error)
}

// Options configures a Server.
type Options struct {
	Assets string // directory with the gallery photographs; empty disables them
	PNG    kolamfile.PNGOptions
}

// withDefaults fills an unset PNG style, keeping a chosen supersample.
func (o Options) withDefaults() Options {
	if o.PNG.Style.Line == nil {
		ss := o.PNG.Supersample
		o.PNG = kolamfile.DefaultPNGOptions()
		if ss > 0 {
			o.PNG.Supersample = ss
		}
	}
	return o
}

// Server is an http.Handler for the whole site.
type Server struct {
	cat      Catalogue
	jobs     *jobs.Queue
	opts     Options
	pages    map[string]*template.Template
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// photoDirs are the URL prefixes of the photographs, mapped onto
// subdirectories of Options.Assets.
var photoDirs = []string{"/kolam_gallary/", "/pulli_kolams/", "/rectreate_kolams/"}

// New builds the server. q must be running.
func New(cat Catalogue, q *jobs.Queue, opts Options) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("site: templates: %w", err)
	}
	s := &Server{
		cat:   cat,
		jobs:  q,
		opts:  opts.withDefaults(),
		pages: pages,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	static, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	if s.opts.Assets != "" {
		for _, dir := range photoDirs {
			s.mux.Handle("GET "+dir, http.FileServer(http.Dir(s.opts.Assets)))
		}
	}

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /home", s.handleHome)
	s.mux.HandleFunc("GET /gallery", s.handleGallery)
	s.mux.HandleFunc("GET /gallery/pulli", s.handlePulli)
	s.mux.HandleFunc("GET /database", s.handleDatabase)
	s.mux.HandleFunc("GET /database/1-5-1", s.handleOneFiveOne)
	s.mux.HandleFunc("GET /classify", s.handleClassify)
	s.mux.HandleFunc("GET /recreate", s.handleRecreate)
	s.mux.HandleFunc("GET /aboutus", s.handleAbout)
	s.mux.HandleFunc("GET /design-kolam", s.handleDesign)

	s.mux.HandleFunc("GET /kolam/{variant}/{file}", s.handleKolam)
	s.mux.HandleFunc("POST /api/classify", s.handleSubmit(jobs.KindClassify))
	s.mux.HandleFunc("POST /api/recreate", s.handleSubmit(jobs.KindRecreate))
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	s.mux.HandleFunc("GET /ws/jobs/{id}", s.handleJobSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	slog.Debug("http request", "method", r.Method, "path", r.URL.Path,
		"status", rec.status, "duration", time.Since(start))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("site: connection cannot be hijacked")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("site listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("site: serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("site: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("site: serve: %w", err)
	}
	slog.Info("site stopped")
	return nil
}
