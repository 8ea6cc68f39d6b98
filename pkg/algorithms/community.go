package algorithms

import (
	"sort"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// CommunityOptions configures modularity-based community partitioning
type CommunityOptions struct {
	MaxLevels int     // Cap on aggregation levels
	MinGain   float64 // Minimum modularity improvement to start a new level
}

// DefaultCommunityOptions returns default partitioning configuration
func DefaultCommunityOptions() CommunityOptions {
	return CommunityOptions{
		MaxLevels: 10,
		MinGain:   1e-9,
	}
}

// CommunityPartition finds a modularity-maximizing partition of the
// undirected weighted graph. Levels of {local moving, refinement,
// aggregation} repeat until a level stops improving modularity: nodes
// greedily join neighboring communities, communities are refined into
// locally-connected sub-communities, and the refined groups collapse
// into super-nodes for the next level. All tie-breaking is fixed
// (ascending node sweeps, lowest community label wins), so identical
// input always yields identical labels. A graph with no positive total
// weight partitions into singletons.
func CommunityPartition(g *graph.WeightedGraph, opts CommunityOptions) (*PartitionResult, error) {
	nodeIDs := g.Nodes()
	if len(nodeIDs) == 0 {
		return &PartitionResult{
			Communities:   []*Community{},
			NodeCommunity: make(map[uint64]int),
		}, nil
	}

	cg := newCommunityGraph(g)

	// memberOf maps original nodes to their current super-node
	memberOf := make(map[uint64]uint64, len(nodeIDs))
	for _, v := range nodeIDs {
		memberOf[v] = v
	}

	labels := make(map[uint64]int, len(nodeIDs))
	for i, v := range cg.nodes {
		labels[v] = i
	}

	levels := 0
	if cg.m > 0 {
		prevQ := cg.modularityOf(labels)
		for levels < opts.MaxLevels {
			levels++
			moved := cg.localMove(labels)
			q := cg.modularityOf(labels)
			if !moved || q-prevQ < opts.MinGain {
				break
			}
			prevQ = q

			sub := cg.refine(labels)
			next, nextLabels, mapping := cg.aggregate(labels, sub)
			if len(next.nodes) == len(cg.nodes) {
				break
			}
			for orig, s := range memberOf {
				memberOf[orig] = mapping[s]
			}
			cg = next
			labels = nextLabels
		}
	}

	// Project super-node labels back onto original nodes
	finalLabels := make(map[uint64]int, len(nodeIDs))
	for _, v := range nodeIDs {
		finalLabels[v] = labels[memberOf[v]]
	}

	canonical, communities := canonicalizeCommunities(g, finalLabels)

	return &PartitionResult{
		Communities:   communities,
		Modularity:    modularityOnGraph(g, canonical),
		NodeCommunity: canonical,
		Levels:        levels,
	}, nil
}

// communityGraph is the working representation for partitioning: a
// symmetric weighted adjacency whose self-loops carry collapsed
// intra-group weight. degree counts self-loops twice; m counts every
// edge and self-loop once.
type communityGraph struct {
	nodes  []uint64
	adj    map[uint64]map[uint64]float64
	degree map[uint64]float64
	m      float64
}

func newCommunityGraph(g *graph.WeightedGraph) *communityGraph {
	cg := &communityGraph{
		nodes:  g.Nodes(),
		adj:    make(map[uint64]map[uint64]float64, g.NodeCount()),
		degree: make(map[uint64]float64, g.NodeCount()),
	}

	for _, v := range cg.nodes {
		row := make(map[uint64]float64)
		for _, u := range g.Neighbors(v) {
			row[u] = g.Weight(v, u)
		}
		cg.adj[v] = row
	}

	for _, v := range cg.nodes {
		k := 0.0
		for u, w := range cg.adj[v] {
			if u == v {
				k += 2 * w
			} else {
				k += w
			}
		}
		cg.degree[v] = k

		for u, w := range cg.adj[v] {
			if v <= u {
				cg.m += w
			}
		}
	}
	return cg
}

// gain is the modularity delta of adding an isolated node with degree k
// and inWeight connection weight into a community whose degree total is
// tot.
func (cg *communityGraph) gain(inWeight, tot, k float64) float64 {
	return inWeight/cg.m - tot*k/(2*cg.m*cg.m)
}

// localMove greedily reassigns nodes to neighboring communities while
// any move improves modularity. Nodes are swept in ascending ID order
// and only strictly better candidates displace the current community, so
// equal-gain ties resolve to the lowest community label.
func (cg *communityGraph) localMove(labels map[uint64]int) bool {
	commTot := make(map[int]float64)
	for _, v := range cg.nodes {
		commTot[labels[v]] += cg.degree[v]
	}

	moved := false
	for {
		changed := false
		for _, v := range cg.nodes {
			current := labels[v]
			k := cg.degree[v]
			commTot[current] -= k

			// Weight from v into each adjacent community
			neighWeight := map[int]float64{current: 0}
			for u, w := range cg.adj[v] {
				if u == v {
					continue
				}
				neighWeight[labels[u]] += w
			}

			candidates := make([]int, 0, len(neighWeight))
			for c := range neighWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			best := current
			bestGain := cg.gain(neighWeight[current], commTot[current], k)
			for _, c := range candidates {
				if c == current {
					continue
				}
				if gain := cg.gain(neighWeight[c], commTot[c], k); gain > bestGain {
					best = c
					bestGain = gain
				}
			}

			labels[v] = best
			commTot[best] += k
			if best != current {
				changed = true
				moved = true
			}
		}
		if !changed {
			break
		}
	}
	return moved
}

// refine splits each community into locally-connected sub-communities:
// members regroup from singletons, merging only along edges inside their
// community and only when the merge improves modularity. The refined
// partition is what aggregation collapses, while the coarse labels seed
// the next level.
func (cg *communityGraph) refine(labels map[uint64]int) map[uint64]int {
	sub := make(map[uint64]int, len(cg.nodes))
	subTot := make(map[int]float64, len(cg.nodes))
	for i, v := range cg.nodes {
		sub[v] = i
		subTot[i] = cg.degree[v]
	}

	for {
		changed := false
		for _, v := range cg.nodes {
			current := sub[v]
			k := cg.degree[v]
			subTot[current] -= k

			neighWeight := map[int]float64{current: 0}
			for u, w := range cg.adj[v] {
				if u == v || labels[u] != labels[v] {
					continue
				}
				neighWeight[sub[u]] += w
			}

			candidates := make([]int, 0, len(neighWeight))
			for c := range neighWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			best := current
			bestGain := cg.gain(neighWeight[current], subTot[current], k)
			for _, c := range candidates {
				// A sub-community is joinable only through a positive
				// connection
				if c == current || neighWeight[c] <= 0 {
					continue
				}
				if gain := cg.gain(neighWeight[c], subTot[c], k); gain > bestGain {
					best = c
					bestGain = gain
				}
			}

			sub[v] = best
			subTot[best] += k
			if best != current {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return sub
}

// aggregate collapses refined sub-communities into super-nodes. Each
// super-node takes its smallest member's ID as identity and inherits the
// coarse community of its members, seeding the next level's partition.
func (cg *communityGraph) aggregate(labels, sub map[uint64]int) (*communityGraph, map[uint64]int, map[uint64]uint64) {
	// Ascending sweep: the first member seen is the smallest
	superOf := make(map[int]uint64)
	for _, v := range cg.nodes {
		if _, ok := superOf[sub[v]]; !ok {
			superOf[sub[v]] = v
		}
	}

	next := &communityGraph{
		adj:    make(map[uint64]map[uint64]float64),
		degree: make(map[uint64]float64),
		m:      cg.m,
	}
	nextLabels := make(map[uint64]int)
	memberOf := make(map[uint64]uint64, len(cg.nodes))

	for _, v := range cg.nodes {
		s := superOf[sub[v]]
		memberOf[v] = s
		if _, ok := next.adj[s]; !ok {
			next.adj[s] = make(map[uint64]float64)
			next.nodes = append(next.nodes, s)
			nextLabels[s] = labels[v]
		}
	}

	for _, v := range cg.nodes {
		sv := memberOf[v]
		for u, w := range cg.adj[v] {
			if v > u {
				continue
			}
			su := memberOf[u]
			a, b := sv, su
			if a > b {
				a, b = b, a
			}
			if a == b {
				next.adj[a][a] += w
			} else {
				next.adj[a][b] += w
				next.adj[b][a] += w
			}
		}
	}

	for _, s := range next.nodes {
		k := 0.0
		for u, w := range next.adj[s] {
			if u == s {
				k += 2 * w
			} else {
				k += w
			}
		}
		next.degree[s] = k
	}

	return next, nextLabels, memberOf
}

// modularityOf computes Q for the given labels on the working graph.
func (cg *communityGraph) modularityOf(labels map[uint64]int) float64 {
	if cg.m <= 0 {
		return 0
	}

	intra := make(map[int]float64)
	degTot := make(map[int]float64)
	for _, v := range cg.nodes {
		degTot[labels[v]] += cg.degree[v]
		for u, w := range cg.adj[v] {
			if v <= u && labels[v] == labels[u] {
				intra[labels[v]] += w
			}
		}
	}

	q := 0.0
	for c, kc := range degTot {
		q += intra[c]/cg.m - (kc/(2*cg.m))*(kc/(2*cg.m))
	}
	return q
}

// canonicalizeCommunities renumbers labels to 0..k-1 ordered by each
// community's smallest member and builds the per-community summaries.
func canonicalizeCommunities(g *graph.WeightedGraph, labels map[uint64]int) (map[uint64]int, []*Community) {
	nodeIDs := g.Nodes()

	remap := make(map[int]int)
	members := make([][]uint64, 0)
	for _, v := range nodeIDs {
		old := labels[v]
		id, ok := remap[old]
		if !ok {
			id = len(members)
			remap[old] = id
			members = append(members, nil)
		}
		members[id] = append(members[id], v)
	}

	canonical := make(map[uint64]int, len(nodeIDs))
	communities := make([]*Community, len(members))
	for id, nodes := range members {
		for _, v := range nodes {
			canonical[v] = id
		}
		communities[id] = &Community{
			ID:      id,
			Nodes:   nodes,
			Size:    len(nodes),
			Density: communityDensity(g, nodes),
		}
	}
	return canonical, communities
}

// communityDensity is the fraction of possible member pairs joined by an
// edge.
func communityDensity(g *graph.WeightedGraph, nodes []uint64) float64 {
	n := len(nodes)
	if n < 2 {
		return 0
	}
	edges := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.HasEdge(nodes[i], nodes[j]) {
				edges++
			}
		}
	}
	return float64(edges) / float64(n*(n-1)/2)
}

// modularityOnGraph evaluates weighted modularity of a labeling over the
// original graph.
func modularityOnGraph(g *graph.WeightedGraph, labels map[uint64]int) float64 {
	m := g.TotalWeight()
	if m <= 0 {
		return 0
	}

	intra := make(map[int]float64)
	degTot := make(map[int]float64)
	for _, v := range g.Nodes() {
		k := 0.0
		for _, u := range g.Neighbors(v) {
			w := g.Weight(v, u)
			if u == v {
				k += 2 * w
			} else {
				k += w
			}
			if v <= u && labels[v] == labels[u] {
				intra[labels[v]] += w
			}
		}
		degTot[labels[v]] += k
	}

	q := 0.0
	for c, kc := range degTot {
		q += intra[c]/m - (kc/(2*m))*(kc/(2*m))
	}
	return q
}
