package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ha1tch/kolam-toolkit/internal/jobs"
	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

// maxUpload bounds the multipart body of classify and recreate requests.
const maxUpload = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleKolam serves /kolam/{variant}/{code}.{png,svg,json,txt}.
func (s *Server) handleKolam(w http.ResponseWriter, r *http.Request) {
	v, err := kolam.ParseVariant(r.PathValue("variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	file := r.PathValue("file")
	ext := path.Ext(file)
	p, err := kolam.NewPattern(v, strings.TrimSuffix(file, ext))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch strings.ToLower(ext) {
	case ".png":
		contentType = "image/png"
		err = kolamfile.RenderPNG(&buf, p, s.opts.PNG)
	case ".svg":
		contentType = "image/svg+xml"
		buf.WriteString(kolamfile.GenerateSVG(p, kolamfile.SVGOptions{Title: p.Name(), Style: kolamfile.DefaultStyle()}))
	case ".json":
		contentType = "application/json"
		var data []byte
		data, err = kolamfile.ToJSON(p, false, false)
		buf.Write(data)
	case ".txt":
		contentType = "text/plain; charset=utf-8"
		buf.WriteString(kolamfile.RenderText(p))
	default:
		writeError(w, http.StatusNotFound, errors.New("unsupported format "+ext))
		return
	}
	if err != nil {
		slog.Error("render kolam", "pattern", p.Name(), "format", ext, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	// Codes decode deterministically.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(buf.Bytes())
}

// handleSubmit accepts a multipart form with an optional "image" file and
// "prompt" field, and answers 202 with the pending job.
func (s *Server) handleSubmit(kind jobs.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		in := jobs.Input{Prompt: r.FormValue("prompt")}
		if f, hdr, err := r.FormFile("image"); err == nil {
			in.Filename = hdr.Filename
			in.Image, err = io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}

		j, err := s.jobs.Submit(kind, in)
		switch {
		case errors.Is(err, jobs.ErrNeedUpload), errors.Is(err, jobs.ErrNeedInput):
			writeError(w, http.StatusBadRequest, err)
			return
		case err != nil:
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		w.Header().Set("Location", "/api/jobs/"+j.ID)
		writeJSON(w, http.StatusAccepted, j)
	}
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.PathValue("id"))
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeJSON(w, http.StatusOK, j)
	}
}

// handleJobSocket sends the job as it is now, then again when it
// finishes, and closes.
func (s *Server) handleJobSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, err := s.jobs.Get(id)
	if errors.Is(err, jobs.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(current); err != nil {
		return
	}
	if current.Status == jobs.StatusDone {
		closeSocket(conn)
		return
	}

	done, cancel, err := s.jobs.Subscribe(id)
	if err != nil {
		return
	}
	defer cancel()

	// The client never sends; reading only notices it going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	select {
	case j, ok := <-done:
		if !ok {
			return
		}
		if err := conn.WriteJSON(j); err != nil {
			slog.Debug("websocket write", "job", id, "err", err)
			return
		}
		closeSocket(conn)
	case <-gone:
	case <-r.Context().Done():
	}
}

func closeSocket(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
