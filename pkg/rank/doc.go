// Package rank computes PageRank-style importance scores over a transition
// graph built by [seqgraph].
//
// # Pipeline
//
// [Run] chains four steps, each a pure function of the previous output:
//
//  1. [seqgraph.AdjacencySet.Matrix]: 0/1 adjacency matrix A
//  2. [Transition]: row-normalize A (dangling rows stay zero) and transpose,
//     so columns of P sum to 1 or 0
//  3. [PageRank]: R = beta*P + teleportation, then x := R·x from a one-hot
//     start vector, a fixed number of times
//  4. [TopK]: the K highest scores mapped back to node identifiers
//
// # Compatibility
//
// Defaults reproduce the reference numbers exactly: beta 0.85, 10 iterations,
// K 5, the [TeleportationScaleBug] teleportation term and the
// [TiesFirstIndex] tie rule. The score vector is not normalized to sum to 1.
// [ModeConverge], [TeleportUniform] and [TiesDistinct] are opt-in variants.
//
// # Example
//
//	adj, _, err := seqgraph.Build(u, seqs, seqgraph.DefaultSentinel)
//	if err != nil {
//	    return err
//	}
//	res, err := rank.Run(adj, rank.DefaultOptions())
//	for _, e := range res.Top {
//	    fmt.Println(e.ID, e.Score)
//	}
package rank
