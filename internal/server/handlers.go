package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/render/sink"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	data, err := sink.RenderJSON(s.live.Snapshot(), sink.WithJSONTheme(s.theme.Name), sink.WithJSONCompact())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode scene"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	opts := []sink.SVGOption{sink.WithTheme(s.theme)}
	if titles, _ := strconv.ParseBool(r.URL.Query().Get("titles")); titles {
		opts = append(opts, sink.WithTitles())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(sink.RenderSVG(s.live.Snapshot(), opts...))
}

func (s *Server) handleTxAt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	it, ok := s.live.TxAt(scene.Point{X: x, Y: y})
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no transaction at (%v, %v)", x, y))
		return
	}
	s.writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleTx(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, ok := s.live.Tx(id)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "transaction %q not in scene", id))
		return
	}
	s.writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode resize request"))
		return
	}
	if err := s.live.Resize(r.Context(), req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("scene resized", "width", req.Width, "height", req.Height)
	s.writeJSON(w, http.StatusOK, req)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}
