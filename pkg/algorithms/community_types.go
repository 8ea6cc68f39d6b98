package algorithms

// Community represents one detected group of nodes
type Community struct {
	ID      int
	Nodes   []uint64 // Members in ascending order
	Size    int
	Density float64 // Edge density within community
}

// PartitionResult contains a partition of the graph into communities
type PartitionResult struct {
	Communities   []*Community
	Modularity    float64        // Quality measure of the partitioning
	NodeCommunity map[uint64]int // Node ID -> community label
	Levels        int            // Aggregation levels performed
}
