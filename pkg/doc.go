// Package pkg provides the libraries behind pathrank, which ranks articles
// by how human navigation paths flow through them.
//
// # Overview
//
// A navigation path is the list of articles a player visited, with "<"
// marking a step back to the previous article. Pathrank resolves the
// backtracks, builds the article transition graph and runs damped power
// iteration over it. The pkg directory is organized as follows:
//
//  1. [seqgraph] - Universe of articles and transition graph construction
//  2. [matrix] - Dense row-major matrices used by the ranking
//  3. [rank] - Normalization, power iteration and top-K selection
//  4. [paths] - Reading Wikispeedia-style TSV path files
//  5. [pipeline] - Orchestration (read → build → rank → export) with caching
//
// # Architecture
//
// The typical data flow:
//
//	paths_finished.tsv
//	         ↓
//	    [paths] package (parse records, split on ";")
//	         ↓
//	    [seqgraph] package (resolve "<", collect edges)
//	         ↓
//	    [rank] package (row-normalize, iterate, select top-K)
//	         ↓
//	    [graphio] / [render] (JSON, DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/pathrank/pkg/rank"
//	    "github.com/matzehuels/pathrank/pkg/seqgraph"
//	)
//
//	seqs := []seqgraph.Sequence{{"A", "B", "<", "C"}, {"C", "A"}}
//	u := seqgraph.NewUniverse(seqs, seqgraph.DefaultSentinel)
//	adj, _, _ := seqgraph.Build(u, seqs, seqgraph.DefaultSentinel)
//
//	opts := rank.DefaultOptions()
//	opts.Start = 0
//	res, _ := rank.Run(adj, opts)
//	for _, e := range res.Top {
//	    fmt.Println(e.ID, e.Score)
//	}
//
// # Supporting Packages
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [observability] - Hooks for pipeline stages, cache events and HTTP
// requests, plus a logging implementation.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [buildinfo] - Version information injected at build time.
//
// [seqgraph]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/seqgraph
// [matrix]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/matrix
// [rank]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/rank
// [paths]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/paths
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/pipeline
// [graphio]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/graphio
// [render]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pathrank/pkg/buildinfo
package pkg
