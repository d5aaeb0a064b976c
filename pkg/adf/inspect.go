package adf

import (
	"fmt"
	"sort"

	"github.com/Code-Hex/dd"
)

// Analysis summarizes the shape of a document tree.
type Analysis struct {
	// NodeTypes lists every node type seen, sorted; mark types appear as
	// "mark:<type>".
	NodeTypes []string
	// TotalNodes counts every node reachable through content, the root
	// included.
	TotalNodes int
}

// Analyze collects the node-type census and node count of a document.
func Analyze(doc *Document) Analysis {
	types := map[string]struct{}{}
	total := 0
	for _, n := range doc.Content {
		collectTypes(n, types)
		total += CountNodes(n)
	}

	sorted := make([]string, 0, len(types))
	for t := range types {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	return Analysis{NodeTypes: sorted, TotalNodes: total + 1}
}

func collectTypes(n *Node, types map[string]struct{}) {
	if n == nil {
		return
	}
	if n.Type != "" {
		types[string(n.Type)] = struct{}{}
	}
	for _, m := range n.Marks {
		types["mark:"+string(m.Type)] = struct{}{}
	}
	for _, child := range n.Content {
		collectTypes(child, types)
	}
}

// CountNodes counts n and every node below it.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Content {
		count += CountNodes(child)
	}
	return count
}

// Match is a node located by FindByType together with its tree path, e.g.
// "root.content[2].content[0]".
type Match struct {
	Path string
	Node *Node
}

// FindByType returns every node of the given type in document order.
func FindByType(doc *Document, target NodeType) []Match {
	var results []Match
	for i, n := range doc.Content {
		findByType(n, target, fmt.Sprintf("root.content[%d]", i), &results)
	}
	return results
}

func findByType(n *Node, target NodeType, path string, results *[]Match) {
	if n == nil {
		return
	}
	if n.Type == target {
		*results = append(*results, Match{Path: path, Node: n})
	}
	for i, child := range n.Content {
		findByType(child, target, fmt.Sprintf("%s.content[%d]", path, i), results)
	}
}

// Dump renders any value as a readable Go literal for debugging.
func Dump(v any) string {
	return dd.Dump(v)
}
