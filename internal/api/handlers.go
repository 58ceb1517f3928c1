package api

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pathrank/pkg/buildinfo"
	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/paths"
	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/rank"
	"github.com/matzehuels/pathrank/pkg/render"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// RankRequest is the body of POST /v1/rank and POST /v1/graph.
type RankRequest struct {
	Sequences []seqgraph.Sequence `json:"sequences,omitempty"`
	Paths     []string            `json:"paths,omitempty"`     // raw paths such as "A;B;<;C"
	Delimiter string              `json:"delimiter,omitempty"` // splits Paths, default ";"
	Unescape  bool                `json:"unescape,omitempty"`  // URL-unescape tokens of Paths

	pipeline.Options
}

// RankResponse is the body returned by POST /v1/rank.
type RankResponse struct {
	RunID      string       `json:"run_id"`
	CacheHit   bool         `json:"cache_hit"`
	Nodes      int          `json:"nodes"`
	Edges      int          `json:"edges"`
	Dangling   int          `json:"dangling"`
	Iterations int          `json:"iterations"`
	Start      string       `json:"start"`
	Ranking    []rank.Entry `json:"ranking"`
	Issues     []Issue      `json:"issues,omitempty"`
}

// Issue reports a malformed input sequence.
type Issue struct {
	Sequence int         `json:"sequence"`
	Code     errors.Code `json:"code"`
	Reason   string      `json:"reason"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request) {
	res, err := s.run(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	u := res.Graph.Universe()
	resp := RankResponse{
		RunID:      res.RunID,
		CacheHit:   res.CacheHit,
		Nodes:      res.Stats.Nodes,
		Edges:      res.Stats.Edges,
		Dangling:   res.Stats.Dangling,
		Iterations: res.Ranking.Iterations,
		Start:      u.ID(res.Ranking.Start),
		Ranking:    res.Ranking.Top,
	}
	for _, is := range res.Report.Issues {
		resp.Issues = append(resp.Issues, Issue{Sequence: is.Sequence, Code: is.Code, Reason: is.Reason})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, err)
		return
	}
	q := r.URL.Query()
	ropts := render.Options{
		EdgeLabels: q.Get("edge_labels") == "true",
		Scores:     q.Get("scores") != "false",
		RankDir:    q.Get("rankdir"),
	}
	if err := ropts.Validate(); err != nil {
		s.respondError(w, err)
		return
	}
	res, err := s.run(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	data, _, err := s.runner.Export(r.Context(), res, format, ropts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", res.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// run decodes the request and executes the pipeline.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*pipeline.Result, error) {
	var req RankRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	seqs, err := req.sequences()
	if err != nil {
		return nil, err
	}
	opts := req.Options
	opts.Logger = s.logger.With("request_id", chimiddleware.GetReqID(r.Context()))
	return s.runner.Rank(r.Context(), seqs, opts)
}

func (req *RankRequest) sequences() ([]seqgraph.Sequence, error) {
	if len(req.Sequences) == 0 && len(req.Paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no sequences or paths")
	}
	seqs := req.Sequences
	popts := paths.DefaultOptions()
	popts.Unescape = req.Unescape
	if req.Delimiter != "" {
		popts.Delimiter = req.Delimiter
	}
	if len(req.Paths) > 0 {
		req.Options.Delimiter = popts.Delimiter
	}
	for i, p := range req.Paths {
		seq, err := paths.Split(p, popts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "path %d", i)
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsInput(err) {
		status = http.StatusBadRequest
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		body.Error.Message = http.StatusText(status)
	} else {
		body.Error.Message = errors.UserMessage(err)
	}
	s.respondJSON(w, status, body)
}
