package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/almanac/pkg/buildinfo"
	errs "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/observability"
	"github.com/matzehuels/almanac/pkg/pipeline"
	"github.com/matzehuels/almanac/pkg/render"
)

// SolveResponse is the body of a successful /v1/solve call.
type SolveResponse struct {
	Location    uint64 `json:"location"`
	Mode        string `json:"mode"`
	Cached      bool   `json:"cached"`
	RunID       string `json:"run_id"`
	Evaluations uint64 `json:"evaluations"`
	Seeds       int    `json:"seeds"`
	Stages      int    `json:"stages"`
	SolveMillis int64  `json:"solve_ms"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody holds a coded error.
type ErrorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	input, ok := s.readBody(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = pipeline.DefaultMode
	}
	if err := pipeline.ValidateMode(mode); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:     input,
		Mode:      mode,
		Workers:   s.opts.Workers,
		BatchSize: s.opts.BatchSize,
		Timeout:   s.opts.Timeout,
		Refresh:   queryBool(q.Get("refresh")),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SolveResponse{
		Location:    res.Location,
		Mode:        res.Mode,
		Cached:      res.CacheHit,
		RunID:       res.RunID,
		Evaluations: res.Stats.Evaluations,
		Seeds:       res.Stats.Seeds,
		Stages:      res.Stats.Stages,
		SolveMillis: res.Stats.SolveTime.Milliseconds(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	input, ok := s.readBody(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := pipeline.RenderOptions{
		Format:   q.Get("format"),
		Detailed: queryBool(q.Get("detailed")),
	}
	out, err := pipeline.Graph(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch opts.Format {
	case render.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case render.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.Write(out)
}

// readBody reads the almanac text. On failure it writes the error response
// and returns false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge,
				errs.New(errs.ErrCodeInvalidConfig, "request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.writeErrorStatus(w, r, http.StatusBadRequest, errs.Wrap(errs.ErrCodeInvalidHeader, err, "read request body"))
		return nil, false
	}
	return data, true
}

// statusFor maps a coded error to an HTTP status.
func statusFor(err error) int {
	switch code := errs.GetCode(err); {
	case errs.IsInputError(err):
		return http.StatusBadRequest
	case code == errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errs.ErrCodeCanceled:
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, statusFor(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	ctx := r.Context()
	observability.HTTP().OnError(ctx, r.Method, r.URL.Path, err)

	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError && code == errs.ErrCodeInternal {
		s.logger.Error("request failed", "err", err, "request_id", requestIDFromContext(ctx))
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		Error:     ErrorBody{Code: code, Message: msg},
		RequestID: requestIDFromContext(ctx),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// queryBool accepts 1/true/yes style flags; anything unparsable is false.
func queryBool(s string) bool {
	if s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
