// Package graphio serializes transition graphs as node-link JSON.
//
// # Format
//
//	{
//	  "nodes": [
//	    {"id": "A", "score": 1.23e-06, "out_degree": 1},
//	    {"id": "B", "score": 5.31e-06, "out_degree": 1},
//	    {"id": "C", "score": 1.69e-05, "rank": 1, "dangling": true}
//	  ],
//	  "edges": [
//	    {"from": "A", "to": "B", "probability": 1},
//	    {"from": "B", "to": "C", "probability": 1}
//	  ]
//	}
//
// Nodes appear in universe order and edges in (from, to) index order, so the
// output for a given graph is byte-stable. Scores and ranks are present only
// when the graph was exported together with a ranking.
//
// [ReadJSON] accepts the same format (scores are ignored), which lets a
// previously exported graph be ranked again without its source paths.
package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/rank"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// Graph is the node-link form of a transition graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one node of the exported graph.
type Node struct {
	ID        string   `json:"id"`
	Score     *float64 `json:"score,omitempty"`
	Rank      int      `json:"rank,omitempty"` // 1-based position in the top-K list
	OutDegree int      `json:"out_degree,omitempty"`
	Dangling  bool     `json:"dangling,omitempty"`
}

// Edge is a directed transition with its row-normalized probability.
type Edge struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Probability float64 `json:"probability"`
}

// FromAdjacency converts adj to a Graph. res may be nil; otherwise its
// scores and top-K positions are attached to the nodes.
func FromAdjacency(adj *seqgraph.AdjacencySet, res *rank.Result) *Graph {
	u := adj.Universe()
	g := &Graph{
		Nodes: make([]Node, adj.Len()),
		Edges: make([]Edge, 0, adj.EdgeCount()),
	}
	for i := range g.Nodes {
		deg := adj.OutDegree(i)
		g.Nodes[i] = Node{ID: u.ID(i), OutDegree: deg, Dangling: deg == 0}
		if res != nil {
			s := res.Scores[i]
			g.Nodes[i].Score = &s
		}
	}
	if res != nil {
		for pos := len(res.Top) - 1; pos >= 0; pos-- {
			g.Nodes[res.Top[pos].Index].Rank = pos + 1
		}
	}
	adj.Edges(func(from, to int) {
		g.Edges = append(g.Edges, Edge{
			From:        u.ID(from),
			To:          u.ID(to),
			Probability: 1 / float64(adj.OutDegree(from)),
		})
	})
	return g
}

// Adjacency rebuilds the adjacency set described by g. Edge endpoints must
// be non-empty and listed as nodes.
func (g *Graph) Adjacency() (*seqgraph.AdjacencySet, error) {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has no id", i)
		}
		ids[i] = n.ID
	}
	u := seqgraph.UniverseOf(ids...)
	if u.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyUniverse, "graph has no nodes")
	}
	if u.Len() != len(ids) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graph has duplicate node ids")
	}

	b := seqgraph.NewBuilder(u, "")
	for i, e := range g.Edges {
		if e.From == "" || e.To == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d has an empty endpoint", i)
		}
		if err := b.Add(seqgraph.Sequence{e.From, e.To}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownNode, err, "edge %d %s->%s", i, e.From, e.To)
		}
	}
	adj, _ := b.Build()
	return adj, nil
}

// WriteJSON encodes g as indented JSON.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a graph written by [WriteJSON].
func ReadJSON(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return &g, nil
}

// ImportJSON reads a graph file.
func ImportJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
