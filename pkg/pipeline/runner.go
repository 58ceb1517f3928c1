package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pathrank/pkg/cache"
	"github.com/matzehuels/pathrank/pkg/graphio"
	"github.com/matzehuels/pathrank/pkg/observability"
	"github.com/matzehuels/pathrank/pkg/paths"
	"github.com/matzehuels/pathrank/pkg/rank"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// Runner executes pipeline stages with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner keeps no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer uses the DefaultKeyer and a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Read parses a path file.
func (r *Runner) Read(ctx context.Context, path string, opts paths.Options) (*paths.Collection, error) {
	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, path)
	start := time.Now()

	c, err := paths.ReadFile(ctx, path, opts)
	n := 0
	if c != nil {
		n = len(c.Sequences)
	}
	hooks.OnReadComplete(ctx, path, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	for _, p := range c.Skipped {
		r.Logger.Warn("skipped record", "line", p.Line, "reason", p.Reason)
	}
	return c, nil
}

// Rank builds the transition graph of seqs and ranks it.
func (r *Runner) Rank(ctx context.Context, seqs []seqgraph.Sequence, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	inputHash, err := cache.HashJSON(seqs)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(seqs))
	start := time.Now()
	u := seqgraph.NewUniverse(seqs, opts.Sentinel)
	adj, report, err := seqgraph.Build(u, seqs, opts.Sentinel)
	buildTime := time.Since(start)
	if err != nil {
		hooks.OnBuildComplete(ctx, u.Len(), 0, buildTime, err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, adj.Len(), adj.EdgeCount(), buildTime, nil)

	for _, issue := range report.Issues {
		opts.Logger.Warn("malformed sequence", "code", issue.Code, "sequence", issue.Sequence, "reason", issue.Reason)
	}

	res, err := r.rank(ctx, adj, inputHash, opts)
	if err != nil {
		return nil, err
	}
	res.Report = report
	res.Stats.Sequences = len(seqs)
	res.Stats.BuildTime = buildTime
	return res, nil
}

// RankGraph ranks an already built transition graph, e.g. one read back
// with [graphio.ReadJSON].
func (r *Runner) RankGraph(ctx context.Context, adj *seqgraph.AdjacencySet, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	inputHash, err := cache.HashJSON(graphio.FromAdjacency(adj, nil))
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	return r.rank(ctx, adj, inputHash, opts)
}

func (r *Runner) rank(ctx context.Context, adj *seqgraph.AdjacencySet, inputHash string, opts Options) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		InputHash: inputHash,
		Graph:     adj,
		Stats: Stats{
			Nodes:    adj.Len(),
			Edges:    adj.EdgeCount(),
			Dangling: len(adj.Dangling()),
		},
	}
	logger := opts.Logger.With("run", res.RunID)

	ro, err := opts.rankOptions(adj.Universe())
	if err != nil {
		return nil, err
	}

	cacheable := opts.Reproducible()
	key := r.Keyer.RankKey(inputHash, opts.RankKeyOpts())
	if cacheable && !opts.Refresh {
		if ranking, ok := r.cachedRanking(ctx, key, adj.Len()); ok {
			res.Ranking = ranking
			res.CacheHit = true
			logger.Debug("ranking served from cache", "key", key)
			return res, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRankStart(ctx, adj.Len())
	start := time.Now()
	ranking, err := rank.Run(adj, ro)
	res.Stats.RankTime = time.Since(start)
	if err != nil {
		hooks.OnRankComplete(ctx, 0, res.Stats.RankTime, err)
		return nil, err
	}
	hooks.OnRankComplete(ctx, ranking.Iterations, res.Stats.RankTime, nil)
	res.Ranking = ranking

	logger.Info("ranked graph",
		"nodes", adj.Len(),
		"edges", adj.EdgeCount(),
		"iterations", ranking.Iterations,
		"start", adj.Universe().ID(ranking.Start),
		"duration", res.Stats.RankTime)

	if cacheable {
		if data, err := json.Marshal(ranking); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLRank); err != nil {
				logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "rank", len(data))
			}
		}
	}
	return res, nil
}

func (r *Runner) cachedRanking(ctx context.Context, key string, n int) (*rank.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "rank")
		return nil, false
	}
	var ranking rank.Result
	if err := json.Unmarshal(data, &ranking); err != nil || len(ranking.Scores) != n {
		observability.Cache().OnCacheMiss(ctx, "rank")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "rank")
	return &ranking, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
