// Package graph assembles per-animal weighted graphs from parsed edge
// records. Graphs are built once, read-only afterwards, and owned by the
// computation that built them.
package graph

import "sort"

// Edge is one weighted connection. In undirected graphs Source <= Target.
type Edge struct {
	Source uint64
	Target uint64
	Weight float64
}

// WeightedGraph is an adjacency-map graph over neuron IDs. Directed
// graphs keep asymmetric adjacency; undirected graphs record each edge
// under both endpoints. Repeated writes to the same ordered pair
// overwrite (last-write-wins).
type WeightedGraph struct {
	directed bool
	adj      map[uint64]map[uint64]float64
}

// NewWeightedGraph returns an empty graph with the given orientation.
func NewWeightedGraph(directed bool) *WeightedGraph {
	return &WeightedGraph{
		directed: directed,
		adj:      make(map[uint64]map[uint64]float64),
	}
}

// Directed reports the graph's edge orientation.
func (g *WeightedGraph) Directed() bool {
	return g.directed
}

// AddNode materializes a node with no edges. The builder never calls
// this; it exists for callers that need explicit isolated vertices.
func (g *WeightedGraph) AddNode(id uint64) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[uint64]float64)
	}
}

// SetEdge inserts or overwrites the edge u->v. Undirected graphs record
// the weight under both endpoints; self-loops are stored once.
func (g *WeightedGraph) SetEdge(u, v uint64, weight float64) {
	g.AddNode(u)
	g.AddNode(v)
	g.adj[u][v] = weight
	if !g.directed && u != v {
		g.adj[v][u] = weight
	}
}

// HasNode reports whether id appears in the graph.
func (g *WeightedGraph) HasNode(id uint64) bool {
	_, ok := g.adj[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *WeightedGraph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of edges. Undirected edges are counted
// once; self-loops are counted once in both orientations.
func (g *WeightedGraph) EdgeCount() int {
	count := 0
	for u, row := range g.adj {
		for v := range row {
			if g.directed || u <= v {
				count++
			}
		}
	}
	return count
}

// Nodes returns all node IDs in ascending order.
func (g *WeightedGraph) Nodes() []uint64 {
	nodes := make([]uint64, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Neighbors returns v's adjacency keys in ascending order. For directed
// graphs these are out-neighbors. A self-loop lists v itself.
func (g *WeightedGraph) Neighbors(v uint64) []uint64 {
	row, ok := g.adj[v]
	if !ok {
		return nil
	}
	neighbors := make([]uint64, 0, len(row))
	for u := range row {
		neighbors = append(neighbors, u)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// InNeighbors returns the nodes with an edge into v, ascending. For
// undirected graphs this equals Neighbors.
func (g *WeightedGraph) InNeighbors(v uint64) []uint64 {
	if !g.directed {
		return g.Neighbors(v)
	}
	var sources []uint64
	for u, row := range g.adj {
		if _, ok := row[v]; ok {
			sources = append(sources, u)
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// Degree returns the number of adjacency entries for v, self-loop
// included.
func (g *WeightedGraph) Degree(v uint64) int {
	return len(g.adj[v])
}

// HasEdge reports whether the edge u->v exists.
func (g *WeightedGraph) HasEdge(u, v uint64) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Weight returns the weight of edge u->v, or 0 when absent.
func (g *WeightedGraph) Weight(u, v uint64) float64 {
	return g.adj[u][v]
}

// WeightedDegree returns the sum of weights on v's adjacency row, a
// self-loop counted once. For directed graphs this is the out-weight.
func (g *WeightedGraph) WeightedDegree(v uint64) float64 {
	total := 0.0
	for _, w := range g.adj[v] {
		total += w
	}
	return total
}

// OutWeight is WeightedDegree under its directed-graph name.
func (g *WeightedGraph) OutWeight(v uint64) float64 {
	return g.WeightedDegree(v)
}

// MaxWeight returns the maximum edge weight observed in the graph, or 0
// for an edge-free graph.
func (g *WeightedGraph) MaxWeight() float64 {
	max := 0.0
	for _, row := range g.adj {
		for _, w := range row {
			if w > max {
				max = w
			}
		}
	}
	return max
}

// TotalWeight returns the sum of all edge weights, each undirected edge
// counted once.
func (g *WeightedGraph) TotalWeight() float64 {
	total := 0.0
	for u, row := range g.adj {
		for v, w := range row {
			if g.directed || u <= v {
				total += w
			}
		}
	}
	return total
}

// Edges returns all edges sorted by (Source, Target). Undirected edges
// appear once with Source <= Target.
func (g *WeightedGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for u, row := range g.adj {
		for v, w := range row {
			if g.directed || u <= v {
				edges = append(edges, Edge{Source: u, Target: v, Weight: w})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Induced returns the subgraph induced by keep: the kept nodes and every
// edge whose endpoints both survive. Isolated survivors are kept as
// nodes so the subgraph's node set equals keep ∩ g's nodes.
func (g *WeightedGraph) Induced(keep []uint64) *WeightedGraph {
	keepSet := make(map[uint64]bool, len(keep))
	for _, id := range keep {
		if g.HasNode(id) {
			keepSet[id] = true
		}
	}

	sub := NewWeightedGraph(g.directed)
	for u := range keepSet {
		sub.AddNode(u)
		for v, w := range g.adj[u] {
			if keepSet[v] {
				sub.adj[u][v] = w
			}
		}
	}
	return sub
}
