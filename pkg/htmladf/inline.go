package htmladf

import (
	"strings"

	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/k1LoW/errors"
	"golang.org/x/net/html"
)

// extractInline walks el's subtree and returns ADF text nodes carrying the
// marks inherited from enclosing formatting elements. Text siblings that
// follow a closed child receive only the parent's marks, never the child's.
// Empty text nodes are pruned unless they are exactly one space.
func extractInline(el *html.Node) ([]*adf.Node, error) {
	nodes, err := inlineWalk(el, nil, false, 0)
	if err != nil {
		return nil, err
	}
	return pruneEmpty(nodes), nil
}

// extractInlineSkippingLists is the list-item variant: nested ul/ol subtrees
// contribute nothing, but the text around them is kept.
func extractInlineSkippingLists(el *html.Node) ([]*adf.Node, error) {
	nodes, err := inlineWalk(el, nil, true, 0)
	if err != nil {
		return nil, err
	}
	return pruneEmpty(nodes), nil
}

func inlineWalk(el *html.Node, inherited []*adf.Mark, skipLists bool, depth int) ([]*adf.Node, error) {
	if depth > maxElementDepth {
		return nil, errors.WithStack(adf.ErrTooDeep)
	}

	var content []*adf.Node

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			content = append(content, adf.MarkedText(c.Data, inherited...))
		case html.ElementNode:
			if skipLists && (c.Data == "ul" || c.Data == "ol") {
				continue
			}
			sub, err := inlineWalk(c, childMarks(c, inherited), skipLists, depth+1)
			if err != nil {
				return nil, err
			}
			content = append(content, sub...)
		}
	}

	return content, nil
}

// childMarks extends the inherited mark list for a formatting element. The
// slice is copied so sibling branches never share mark state.
func childMarks(el *html.Node, inherited []*adf.Mark) []*adf.Mark {
	var mark *adf.Mark

	switch el.Data {
	case "strong", "b":
		mark = &adf.Mark{Type: adf.MarkStrong}
	case "em", "i":
		mark = &adf.Mark{Type: adf.MarkEm}
	case "code":
		mark = &adf.Mark{Type: adf.MarkCode}
	case "a":
		if href := attr(el, "href"); href != "" {
			mark = &adf.Mark{Type: adf.MarkLink, Attrs: &adf.MarkAttrs{Href: href}}
		}
	case "u":
		mark = &adf.Mark{Type: adf.MarkUnderline}
	case "s", "del", "strike":
		mark = &adf.Mark{Type: adf.MarkStrike}
	}

	if mark == nil {
		return inherited
	}

	marks := make([]*adf.Mark, 0, len(inherited)+1)
	marks = append(marks, inherited...)
	return append(marks, mark)
}

// pruneEmpty drops text nodes with no visible characters, keeping a literal
// single space (it separates adjacent marked spans).
func pruneEmpty(nodes []*adf.Node) []*adf.Node {
	kept := nodes[:0]
	for _, n := range nodes {
		if strings.TrimSpace(n.Text) != "" || n.Text == " " {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
