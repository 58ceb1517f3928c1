package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/pathrank/pkg/cache"
	"github.com/matzehuels/pathrank/pkg/graphio"
	"github.com/matzehuels/pathrank/pkg/observability"
	"github.com/matzehuels/pathrank/pkg/render"
)

// PNGScale is the resolution multiplier for PNG exports.
const PNGScale = 2.0

// Export renders the graph of res in the given format. Scores and top-K
// ranks are included when res carries a ranking. Rasterized formats (svg,
// png, pdf) are cached by content; the bool reports a cache hit.
func (r *Runner) Export(ctx context.Context, res *Result, format string, ropts render.Options) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	if err := ropts.Validate(); err != nil {
		return nil, false, err
	}
	g := graphio.FromAdjacency(res.Graph, res.Ranking)

	if format == FormatJSON {
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	}
	dot := render.ToDOT(g, ropts)
	if format == FormatDOT {
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{
		Format:     format,
		EdgeLabels: ropts.EdgeLabels,
		Scores:     ropts.Scores,
		RankDir:    ropts.RankDir,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := rasterize(ctx, dot, format)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func rasterize(ctx context.Context, dot, format string) ([]byte, error) {
	svg, err := render.RenderSVG(ctx, dot)
	if err != nil || format == FormatSVG {
		return svg, err
	}
	if format == FormatPNG {
		return render.ToPNG(ctx, svg, PNGScale)
	}
	return render.ToPDF(ctx, svg)
}
