package data

import (
	"fmt"
)

// GraphNode is a node of a Graph. DataIndex addresses the node List.
type GraphNode struct {
	ID        string
	DataIndex int
	InEdges   []*GraphEdge
	OutEdges  []*GraphEdge
}

// Degree returns the number of edges touching the node.
func (n *GraphNode) Degree() int { return len(n.InEdges) + len(n.OutEdges) }

// GraphEdge is a directed edge of a Graph. DataIndex addresses the edge
// List.
type GraphEdge struct {
	Node1     *GraphNode
	Node2     *GraphNode
	DataIndex int
}

// Graph holds the nodes and edges of a graph series over two Lists.
type Graph struct {
	Directed bool
	Nodes    []*GraphNode
	Edges    []*GraphEdge
	NodeData *List
	EdgeData *List

	byID map[string]*GraphNode
}

// NewGraph creates an empty graph.
func NewGraph(directed bool) *Graph {
	return &Graph{Directed: directed, byID: make(map[string]*GraphNode)}
}

// AddNode adds a node with a unique id. Adding an existing id returns the
// existing node.
func (g *Graph) AddNode(id string, dataIndex int) *GraphNode {
	if n, ok := g.byID[id]; ok {
		return n
	}
	n := &GraphNode{ID: id, DataIndex: dataIndex}
	g.Nodes = append(g.Nodes, n)
	g.byID[id] = n
	return n
}

// Node returns the node with id, or nil.
func (g *Graph) Node(id string) *GraphNode { return g.byID[id] }

// AddEdge connects the nodes with ids from and to. Both nodes must exist.
func (g *Graph) AddEdge(from, to string, dataIndex int) (*GraphEdge, error) {
	n1, ok1 := g.byID[from]
	n2, ok2 := g.byID[to]
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: edge %q -> %q references unknown node", ErrInvalidData, from, to)
	}
	e := &GraphEdge{Node1: n1, Node2: n2, DataIndex: dataIndex}
	n1.OutEdges = append(n1.OutEdges, e)
	n2.InEdges = append(n2.InEdges, e)
	g.Edges = append(g.Edges, e)
	return e, nil
}

// NodeValue returns the value of dim for a node.
func (g *Graph) NodeValue(n *GraphNode, dim string) float64 {
	return g.NodeData.Get(dim, n.DataIndex)
}

// EdgeValue returns the value of dim for an edge.
func (g *Graph) EdgeValue(e *GraphEdge, dim string) float64 {
	return g.EdgeData.Get(dim, e.DataIndex)
}
