package adf

// AddSpacing inserts an empty paragraph before every rule node and before
// every heading of level 2 or deeper, except when the node is the first
// element. Confluence renders with a cramped default line-height; the extra
// paragraphs improve visual separation of sections.
//
// The input is not mutated; a new slice is returned. A node already preceded
// by an empty paragraph gets no second one, so the pass is idempotent on its
// own output. Front ends still apply it exactly once per document build.
func AddSpacing(content []*Node) []*Node {
	result := make([]*Node, 0, len(content))

	for i, node := range content {
		if i > 0 && !isEmptyParagraph(content[i-1]) {
			if node.Type == NodeRule || (node.Type == NodeHeading && node.Level() >= 2) {
				result = append(result, EmptyParagraph())
			}
		}
		result = append(result, node)
	}

	return result
}

func isEmptyParagraph(n *Node) bool {
	return n != nil && n.Type == NodeParagraph && len(n.Content) == 0
}
