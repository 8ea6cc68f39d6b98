package algorithms

import (
	"container/list"
	"sort"

	"github.com/connectolab/graphmetrics/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph,
// treating edges as undirected. Components are discovered by BFS from
// node IDs in ascending order, so component 0 always contains the
// smallest unassigned node; each component's member list is sorted
// ascending.
func ConnectedComponents(g *graph.WeightedGraph) (*PartitionResult, error) {
	// A directed graph is walked through an undirected view so weak
	// connectivity is what gets reported
	if g.Directed() {
		undirected := graph.NewWeightedGraph(false)
		for _, v := range g.Nodes() {
			undirected.AddNode(v)
		}
		for _, e := range g.Edges() {
			undirected.SetEdge(e.Source, e.Target, e.Weight)
		}
		g = undirected
	}

	nodeIDs := g.Nodes()

	visited := make(map[uint64]bool)
	nodeCommunity := make(map[uint64]int)
	communities := make([]*Community, 0)
	componentID := 0

	// BFS to find each component
	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		component := &Community{
			ID:    componentID,
			Nodes: make([]uint64, 0),
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, nodeID)
			nodeCommunity[nodeID] = componentID

			for _, neighbor := range g.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		sort.Slice(component.Nodes, func(i, j int) bool {
			return component.Nodes[i] < component.Nodes[j]
		})
		component.Size = len(component.Nodes)
		communities = append(communities, component)
		componentID++
	}

	return &PartitionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
	}, nil
}

// LargestComponent returns the component with the most nodes; ties keep
// the first-discovered one.
func LargestComponent(g *graph.WeightedGraph) (*Community, error) {
	result, err := ConnectedComponents(g)
	if err != nil {
		return nil, err
	}
	if len(result.Communities) == 0 {
		return &Community{Nodes: []uint64{}}, nil
	}

	largest := result.Communities[0]
	for _, component := range result.Communities[1:] {
		if component.Size > largest.Size {
			largest = component
		}
	}
	return largest, nil
}
