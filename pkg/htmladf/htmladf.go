// Package htmladf converts parsed HTML element trees into ADF nodes. It is
// the element-driven counterpart of pkg/markdown's line-driven block parser:
// a dispatch table keyed on tag name, recursing into block containers and
// handing leaf text to an inherited-marks inline walk.
package htmladf

import (
	"strings"

	"github.com/adfmd/adfmd/internal/derrors"
	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/k1LoW/errors"
	"golang.org/x/net/html"
)

// maxElementDepth bounds recursion over pathologically nested markup.
const maxElementDepth = 100

// Tags of the tabular custom widget and its wrapper element. The widget
// carries its row data as escaped JSON in a data attribute instead of
// ordinary table markup.
const (
	widgetTableTag   = "marimo-table"
	widgetWrapperTag = "marimo-ui-element"
)

// FromHTML parses an HTML string and converts it into a complete ADF
// document. Empty or whitespace-only input yields an empty document.
func FromHTML(content string) (_ *adf.Document, err error) {
	defer derrors.Wrap(&err)

	if strings.TrimSpace(content) == "" {
		return adf.NewDocument(nil), nil
	}

	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	nodes, err := Convert(root)
	if err != nil {
		return nil, err
	}
	return adf.NewDocument(nodes), nil
}

// Convert walks a parsed DOM and returns the ADF block nodes it maps to,
// with the spacing pass applied exactly once. Unrecognized block tags are
// skipped; only structural problems (runaway nesting) error.
func Convert(root *html.Node) (_ []*adf.Node, err error) {
	defer derrors.Wrap(&err)

	nodes := []*adf.Node{}
	for _, el := range blockChildren(root) {
		node, err := convertElement(el, 0)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	return adf.AddSpacing(nodes), nil
}

// blockChildren resolves the block-level elements below n, transparently
// flattening document wrappers (html, body, div, the widget wrapper, and a
// span carrying a "markdown" class). The walk is iterative so wrapper chains
// of any depth cannot exhaust the stack.
func blockChildren(n *html.Node) []*html.Node {
	if n.Type != html.DocumentNode && !isWrapper(n) {
		return []*html.Node{n}
	}

	var out []*html.Node
	stack := []*html.Node{n}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur != n && !isWrapper(cur) {
			out = append(out, cur)
			continue
		}

		children := elementChildren(cur)
		// An empty widget wrapper stays visible so its own conversion can run.
		if cur.Type == html.ElementNode && cur.Data == widgetWrapperTag && len(children) == 0 {
			out = append(out, cur)
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return out
}

func isWrapper(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "html", "head", "body", "div", widgetWrapperTag:
		return true
	case "span":
		return strings.Contains(attr(n, "class"), "markdown")
	}
	return false
}

// convertElement maps one element to an ADF block node, or nil when the tag
// has no block-level meaning.
func convertElement(el *html.Node, depth int) (*adf.Node, error) {
	if depth > maxElementDepth {
		return nil, errors.WithStack(adf.ErrTooDeep)
	}

	switch el.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(el.Data[1] - '0')
		inline, err := extractInline(el)
		if err != nil {
			return nil, err
		}
		return adf.Heading(level, inline...), nil

	case "p":
		return paragraphFrom(el)

	case "span":
		if strings.Contains(attr(el, "class"), "paragraph") {
			return paragraphFrom(el)
		}
		return nil, nil

	case "ul":
		return convertList(el, depth, adf.NodeBulletList)

	case "ol":
		return convertList(el, depth, adf.NodeOrderedList)

	case "table":
		return convertTable(el)

	case widgetTableTag:
		return convertWidgetTable(el), nil

	case widgetWrapperTag:
		for _, child := range elementChildren(el) {
			node, err := convertElement(child, depth+1)
			if err != nil {
				return nil, err
			}
			if node != nil {
				return node, nil
			}
		}
		return nil, nil

	case "pre":
		return convertCodeBlock(el), nil

	case "hr":
		return adf.Rule(), nil

	case "blockquote":
		return convertBlockquote(el, depth)
	}

	return nil, nil
}

// paragraphFrom drops the element entirely when inline extraction yields
// nothing.
func paragraphFrom(el *html.Node) (*adf.Node, error) {
	content, err := extractInline(el)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}
	return adf.Paragraph(content...), nil
}

// convertCodeBlock maps pre to a codeBlock, reading the language from an
// inner <code class="language-X"> when present.
func convertCodeBlock(el *html.Node) *adf.Node {
	code := findElement(el, "code")
	if code == nil {
		return adf.CodeBlock("", textContent(el))
	}

	language := ""
	for _, cls := range strings.Fields(attr(code, "class")) {
		if rest, ok := strings.CutPrefix(cls, "language-"); ok {
			language = rest
			break
		}
	}
	return adf.CodeBlock(language, textContent(code))
}

// convertBlockquote recurses into block children, falling back to a
// synthetic paragraph when no block child produced a node.
func convertBlockquote(el *html.Node, depth int) (*adf.Node, error) {
	var content []*adf.Node
	for _, child := range elementChildren(el) {
		node, err := convertElement(child, depth+1)
		if err != nil {
			return nil, err
		}
		if node != nil {
			content = append(content, node)
		}
	}

	if len(content) == 0 {
		inline, err := extractInline(el)
		if err != nil {
			return nil, err
		}
		if len(inline) > 0 {
			content = append(content, adf.Paragraph(inline...))
		}
	}

	return &adf.Node{Type: adf.NodeBlockquote, Content: content}, nil
}

// elementChildren returns the direct element children of n.
func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// findElement returns the first descendant element with the given tag. The
// walk is iterative so arbitrarily deep markup cannot exhaust the stack.
func findElement(n *html.Node, tag string) *html.Node {
	var stack []*html.Node
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, c)
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates every text node below n, iteratively.
func textContent(n *html.Node) string {
	var b strings.Builder
	stack := []*html.Node{n}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			continue
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return b.String()
}
