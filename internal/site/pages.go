package site

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/ha1tch/kolam-toolkit/internal/gallery"
	"github.com/ha1tch/kolam-toolkit/internal/jobs"
	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// page is what every template receives.
type page struct {
	Title  string
	Active string // nav entry to highlight
	Data   any
}

// parsePages pairs the layout with each page template. Pages share block
// names, so each gets its own set.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	funcs := template.FuncMap{"seq": seq}
	pages := make(map[string]*template.Template)
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, err
		}
		pages[strings.TrimSuffix(base, ".html")] = t
	}
	return pages, nil
}

// seq returns n items to range over.
func seq(n int) []int {
	return make([]int, n)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "no such page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		slog.Error("render page", "page", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home", page{Title: "Kolam", Active: "home"})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about", page{Title: "About Us", Active: "aboutus"})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	images, err := s.cat.Search(r.Context(), gallery.CollectionStyles, "")
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "gallery", page{Title: "Kolam Gallery", Active: "gallery", Data: images})
}

func (s *Server) handlePulli(w http.ResponseWriter, r *http.Request) {
	images, err := s.cat.Search(r.Context(), gallery.CollectionPulli, "")
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "pulli", page{Title: "Pulli Kolams", Active: "gallery", Data: images})
}

// category is a card on the database page.
type category struct {
	Title       string
	Description string
	Link        string
	Rows        []int // dots per row, drawn as the card's motif
}

var categories = []category{
	{"1-5-1 Kolam", "A complete collection of patterns based on the 1-5-1 grid.", "/database/1-5-1", []int{1, 3, 5, 3, 1}},
	{"1-7-1 Kolam", "Design patterns on the 1-7-1 grid.", "/design-kolam", []int{1, 3, 5, 7, 5, 3, 1}},
}

func (s *Server) handleDatabase(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "database", page{Title: "Kolam Database", Active: "database", Data: categories})
}

type oneFiveOne struct {
	Query  string
	Images []gallery.Image
}

func (s *Server) handleOneFiveOne(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	images, err := s.cat.Search(r.Context(), gallery.CollectionDatabase, q)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "onefiveone", page{
		Title:  "1-5-1 Kolam Database",
		Active: "database",
		Data:   oneFiveOne{Query: q, Images: images},
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "classify", page{Title: "Classify Kolam", Active: "classify", Data: jobs.ClassifyLabel})
}

func (s *Server) handleRecreate(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "recreate", page{Title: "Recreate Kolam", Active: "recreate"})
}

// pane is one designer on the design page.
type pane struct {
	Param     string // query parameter
	Variant   kolam.Variant
	Input     string // what the user typed
	Code      string // padded code being shown
	Error     string
	Max       int
	Crossings int
	Loops     int
}

type design struct {
	Panes  []pane
	Recent []gallery.Design
}

// handleDesign shows both designers. A valid code in the query is
// generated and recorded; an invalid one is reported and the pane falls
// back to the all-zero pattern.
func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	status := http.StatusOK

	var d design
	for _, v := range kolam.Variants {
		param := "small"
		if v == kolam.Large {
			param = "large"
		}
		p := pane{Param: param, Variant: v, Input: query.Get(param), Max: kolam.GridFor(v).CodeLength}

		code, err := kolam.ValidateCode(v, p.Input)
		if err != nil {
			p.Error = err.Error()
			code = kolam.PadCode(v, "")
			status = http.StatusBadRequest
		} else if query.Has(param) {
			if err := s.cat.RecordDesign(ctx, v.String(), code); err != nil {
				slog.Warn("record design", "variant", v, "code", code, "err", err)
			}
		}
		pat := kolam.MustPattern(v, code)
		p.Code = pat.Code
		p.Crossings = pat.Crossings()
		p.Loops = pat.Loops()
		d.Panes = append(d.Panes, p)
	}

	recent, err := s.cat.RecentDesigns(ctx, 10)
	if err != nil {
		slog.Warn("recent designs", "err", err)
	}
	d.Recent = recent

	s.render(w, status, "design", page{Title: "Design Kolam", Active: "design", Data: d})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	slog.Error("site", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
