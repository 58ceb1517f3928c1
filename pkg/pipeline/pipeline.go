// Package pipeline provides the read → build → rank → export pipeline used
// by the CLI and the HTTP API.
//
// Centralizing the stages here keeps caching, logging and observability
// identical across entry points.
//
// # Stages
//
//  1. Read: parse navigation paths from a TSV file ([paths])
//  2. Build: resolve backtracks and build the transition graph ([seqgraph])
//  3. Rank: power iteration and top-K selection ([rank])
//  4. Export: JSON, DOT, SVG, PNG or PDF ([graphio], [render])
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Rank(ctx, seqs, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range res.Ranking.Top {
//	    fmt.Println(e.ID, e.Score)
//	}
//
// Ranking results are cached only when the run is reproducible, i.e. when
// the start node or the random seed is fixed. A random-start run is never
// served from cache.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathrank/pkg/cache"
	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/rank"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// Options contains all configuration for a ranking run. Zero fields take
// the compatible defaults. The struct decodes directly from API request
// bodies.
type Options struct {
	Sentinel      string   `json:"sentinel,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Iterations    int      `json:"iterations,omitempty"`
	Top           int      `json:"top,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	Tolerance     float64  `json:"tolerance,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`
	Teleport      string   `json:"teleport,omitempty"`
	Ties          string   `json:"ties,omitempty"`
	Start         *string  `json:"start,omitempty"` // start node id; nil draws one at random
	Seed          *uint64  `json:"seed,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"` // skip cache reads

	// Delimiter is the path delimiter the sequences were split on, if any.
	// The sentinel must not contain it.
	Delimiter string `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// It is idempotent. The start node is checked later, against the universe.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Sentinel == "" {
		o.Sentinel = seqgraph.DefaultSentinel
	}
	if o.Beta == nil {
		beta := rank.DefaultBeta
		o.Beta = &beta
	}
	if o.Iterations == 0 {
		o.Iterations = rank.DefaultIterations
	}
	if o.Top == 0 {
		o.Top = rank.DefaultK
	}
	if o.Mode == "" {
		o.Mode = rank.ModeFixed.String()
	}
	if o.Tolerance == 0 {
		o.Tolerance = rank.DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = rank.DefaultMaxIterations
	}
	if o.Teleport == "" {
		o.Teleport = rank.TeleportationScaleBug.String()
	}
	if o.Ties == "" {
		o.Ties = rank.TiesFirstIndex.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateSentinel(o.Sentinel, o.Delimiter); err != nil {
		return err
	}
	ro, err := o.rankOptions(nil)
	if err != nil {
		return err
	}
	if err := ro.Validate(0); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Reproducible reports whether two runs with these options over the same
// input produce the same scores.
func (o *Options) Reproducible() bool {
	return o.Start != nil || o.Seed != nil
}

// rankOptions converts o to ranking options. u resolves the start node; a
// nil universe leaves the start random.
func (o *Options) rankOptions(u *seqgraph.Universe) (rank.Options, error) {
	ro := rank.DefaultOptions()
	ro.Beta = *o.Beta
	ro.Iterations = o.Iterations
	ro.K = o.Top
	ro.Tolerance = o.Tolerance
	ro.MaxIterations = o.MaxIterations

	var err error
	if ro.Mode, err = rank.ParseMode(o.Mode); err != nil {
		return ro, err
	}
	if ro.Teleport, err = rank.ParseTeleport(o.Teleport); err != nil {
		return ro, err
	}
	if ro.Ties, err = rank.ParseTiePolicy(o.Ties); err != nil {
		return ro, err
	}
	if u != nil && o.Start != nil {
		idx, ok := u.Index(*o.Start)
		if !ok {
			return ro, errors.New(errors.ErrCodeUnknownNode, "start node %q is not in the universe", *o.Start)
		}
		ro.Start = idx
	}
	if o.Seed != nil {
		ro.Rand = newRand(*o.Seed)
	}
	return ro, nil
}

// RankKeyOpts returns cache key options for a ranking run.
func (o *Options) RankKeyOpts() cache.RankKeyOpts {
	k := cache.RankKeyOpts{
		Sentinel:   o.Sentinel,
		Beta:       *o.Beta,
		Iterations: o.Iterations,
		K:          o.Top,
		Mode:       o.Mode,
		Teleport:   o.Teleport,
		Ties:       o.Ties,
	}
	if o.Mode == rank.ModeConverge.String() {
		k.Tolerance = o.Tolerance
		k.MaxIterations = o.MaxIterations
	}
	if o.Start != nil {
		k.Start = *o.Start
	}
	if o.Seed != nil {
		k.Seed = *o.Seed
	}
	return k
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// InputHash is the content hash of the input sequences or graph.
	InputHash string

	// Graph is the transition graph that was ranked.
	Graph *seqgraph.AdjacencySet

	// Report lists backtracks and malformed sequences found while building.
	Report seqgraph.Report

	// Ranking holds the scores and the top-K list.
	Ranking *rank.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when Ranking was served from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sequences int
	Nodes     int
	Edges     int
	Dangling  int
	BuildTime time.Duration
	RankTime  time.Duration
}
