package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pathrank/pkg/graphio"
	"github.com/matzehuels/pathrank/pkg/paths"
	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/rank"
)

// rankFlags holds the command-line flags shared by rank and graph.
// Values only take effect when the flag was set; otherwise the config file
// and the pipeline defaults apply.
type rankFlags struct {
	beta          float64
	iterations    int
	top           int
	mode          string
	tolerance     float64
	maxIterations int
	teleport      string
	ties          string
	start         string
	seed          uint64
	sentinel      string
	refresh       bool

	column    int
	delimiter string
	unescape  bool
	strict    bool

	cache cacheFlags
}

func (f *rankFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.beta, "beta", rank.DefaultBeta, "damping factor in [0, 1]")
	fs.IntVar(&f.iterations, "iterations", rank.DefaultIterations, "power-iteration steps (fixed mode)")
	fs.IntVarP(&f.top, "top", "k", rank.DefaultK, "number of top-ranked articles")
	fs.StringVar(&f.mode, "mode", rank.ModeFixed.String(), "iteration mode: fixed, converge")
	fs.Float64Var(&f.tolerance, "tolerance", rank.DefaultTolerance, "L1 convergence threshold (converge mode)")
	fs.IntVar(&f.maxIterations, "max-iterations", rank.DefaultMaxIterations, "iteration cap (converge mode)")
	fs.StringVar(&f.teleport, "teleport", rank.TeleportationScaleBug.String(), "teleportation term: compat, uniform")
	fs.StringVar(&f.ties, "ties", rank.TiesFirstIndex.String(), "tie policy for top-K: first-index, distinct")
	fs.StringVar(&f.start, "start", "", "start article (default: random)")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for the random start article")
	fs.StringVar(&f.sentinel, "sentinel", "<", "backtrack token")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")

	fs.IntVar(&f.column, "column", paths.DefaultColumn, "0-based TSV column holding the path")
	fs.StringVar(&f.delimiter, "delimiter", paths.DefaultDelimiter, "token delimiter inside a path")
	fs.BoolVar(&f.unescape, "unescape", false, "URL-unescape article names")
	fs.BoolVar(&f.strict, "strict", false, "fail on malformed records instead of skipping them")

	fs.BoolVar(&f.cache.noCache, "no-cache", false, "disable caching")
	fs.StringVar(&f.cache.redis, "redis", "", "Redis address or URL for the shared cache")
}

// pipelineOptions merges set flags over the configured options.
func (f *rankFlags) pipelineOptions(fs *pflag.FlagSet, base pipeline.Options) pipeline.Options {
	opts := base
	if fs.Changed("beta") {
		opts.Beta = &f.beta
	}
	if fs.Changed("iterations") {
		opts.Iterations = f.iterations
	}
	if fs.Changed("top") {
		opts.Top = f.top
	}
	if fs.Changed("mode") {
		opts.Mode = f.mode
	}
	if fs.Changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if fs.Changed("max-iterations") {
		opts.MaxIterations = f.maxIterations
	}
	if fs.Changed("teleport") {
		opts.Teleport = f.teleport
	}
	if fs.Changed("ties") {
		opts.Ties = f.ties
	}
	if fs.Changed("start") {
		opts.Start = &f.start
	}
	if fs.Changed("seed") {
		opts.Seed = &f.seed
	}
	if fs.Changed("sentinel") {
		opts.Sentinel = f.sentinel
	}
	opts.Refresh = f.refresh
	return opts
}

// pathOptions merges set flags over the configured reader options.
func (f *rankFlags) pathOptions(fs *pflag.FlagSet, base paths.Options) paths.Options {
	opts := base
	if fs.Changed("column") {
		opts.Column = f.column
	}
	if fs.Changed("delimiter") {
		opts.Delimiter = f.delimiter
	}
	if fs.Changed("unescape") {
		opts.Unescape = f.unescape
	}
	if fs.Changed("strict") {
		opts.Strict = f.strict
	}
	return opts
}

// rankCommand creates the rank command.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		flags    rankFlags
		asJSON   bool
		browse   bool
		showMore bool
	)

	cmd := &cobra.Command{
		Use:   "rank [paths.tsv | graph.json]",
		Short: "Rank articles of a navigation path file",
		Long: `Rank articles of a navigation path file.

The input is a Wikispeedia-style TSV file (the path column holds
";"-separated articles, "<" marks a backtrack) or a transition graph
previously exported with 'pathrank graph --format json'.

Runs with a fixed --start or --seed are reproducible and cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.cache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			res, err := c.runRank(ctx, runner, cmd.Flags(), &flags, args[0], !asJSON)
			if err != nil {
				return err
			}
			if asJSON {
				return writeRankJSON(cmd.OutOrStdout(), res)
			}
			if browse {
				return runBrowser(res)
			}
			printRanking(cmd.OutOrStdout(), res, showMore)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&browse, "browse", false, "browse all scores interactively")
	cmd.Flags().BoolVar(&showMore, "stats", false, "print graph and iteration statistics")

	return cmd
}

// runRank reads input and ranks it. JSON inputs are ranked as graphs.
func (c *CLI) runRank(ctx context.Context, runner *pipeline.Runner, fs *pflag.FlagSet, f *rankFlags, input string, spin bool) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	opts := f.pipelineOptions(fs, c.config().PipelineOptions())
	opts.Logger = logger
	prog := newProgress(logger)

	var spinner *Spinner
	if spin && logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Ranking %s...", filepath.Base(input)))
		spinner.Start()
	}
	res, err := c.rankInput(ctx, runner, fs, f, input, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Ranking failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return nil, err
	}
	prog.done("Ranked %d articles", res.Stats.Nodes)
	return res, nil
}

func (c *CLI) rankInput(ctx context.Context, runner *pipeline.Runner, fs *pflag.FlagSet, f *rankFlags, input string, opts pipeline.Options) (*pipeline.Result, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		g, err := graphio.ImportJSON(input)
		if err != nil {
			return nil, err
		}
		adj, err := g.Adjacency()
		if err != nil {
			return nil, err
		}
		return runner.RankGraph(ctx, adj, opts)
	}

	popts := f.pathOptions(fs, c.config().PathOptions())
	opts.Delimiter = popts.Delimiter
	prog := newProgress(loggerFromContext(ctx))
	coll, err := runner.Read(ctx, input, popts)
	if err != nil {
		return nil, err
	}
	prog.done("Read %d paths from %s", len(coll.Sequences), filepath.Base(input))
	if len(coll.Skipped) > 0 {
		loggerFromContext(ctx).Warnf("Skipped %d malformed records", len(coll.Skipped))
	}
	return runner.Rank(ctx, coll.Sequences, opts)
}

// rankOutput is the JSON form of a ranking printed by `rank --json`.
type rankOutput struct {
	RunID      string       `json:"run_id"`
	CacheHit   bool         `json:"cache_hit"`
	Nodes      int          `json:"nodes"`
	Edges      int          `json:"edges"`
	Dangling   int          `json:"dangling"`
	Iterations int          `json:"iterations"`
	Delta      float64      `json:"delta"`
	Start      string       `json:"start"`
	Ranking    []rank.Entry `json:"ranking"`
}

func writeRankJSON(w io.Writer, res *pipeline.Result) error {
	out := rankOutput{
		RunID:      res.RunID,
		CacheHit:   res.CacheHit,
		Nodes:      res.Stats.Nodes,
		Edges:      res.Stats.Edges,
		Dangling:   res.Stats.Dangling,
		Iterations: res.Ranking.Iterations,
		Delta:      res.Ranking.Delta,
		Start:      res.Graph.Universe().ID(res.Ranking.Start),
		Ranking:    res.Ranking.Top,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runBrowser opens the interactive score browser.
func runBrowser(res *pipeline.Result) error {
	m := NewRankingModel(res)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
