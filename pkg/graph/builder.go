package graph

import "github.com/connectolab/graphmetrics/pkg/records"

// RecordGroup holds one animal's records in their original input order.
type RecordGroup struct {
	Animal  string
	Records []records.EdgeRecord
}

// AnimalGraph pairs an animal with the graph built from its records.
type AnimalGraph struct {
	Animal string
	Graph  *WeightedGraph
}

// GroupByAnimal partitions records by animal key. Grouping is stable:
// groups appear in first-occurrence order of their animal, and records
// keep their input order within each group.
func GroupByAnimal(recs []records.EdgeRecord) []RecordGroup {
	index := make(map[string]int)
	groups := make([]RecordGroup, 0)

	for _, rec := range recs {
		i, ok := index[rec.Animal]
		if !ok {
			i = len(groups)
			index[rec.Animal] = i
			groups = append(groups, RecordGroup{Animal: rec.Animal})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// BuildOne assembles a single graph from records, ignoring animal tags.
// Records apply in input order, so repeated ordered pairs overwrite.
// Nodes appear only through surviving edges; the builder never
// materializes isolated vertices.
func BuildOne(recs []records.EdgeRecord, directed bool) *WeightedGraph {
	g := NewWeightedGraph(directed)
	for _, rec := range recs {
		g.SetEdge(rec.Source, rec.Target, rec.Weight)
	}
	return g
}

// BuildAll groups records by animal and builds one graph per animal,
// preserving first-occurrence animal order.
func BuildAll(recs []records.EdgeRecord, directed bool) []*AnimalGraph {
	groups := GroupByAnimal(recs)
	graphs := make([]*AnimalGraph, 0, len(groups))
	for _, group := range groups {
		graphs = append(graphs, &AnimalGraph{
			Animal: group.Animal,
			Graph:  BuildOne(group.Records, directed),
		})
	}
	return graphs
}
