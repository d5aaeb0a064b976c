package htmladf

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/k1LoW/errors"
	"golang.org/x/net/html"
)

// convertList maps ul/ol to a bulletList/orderedList, recursing only into
// direct li children so items of nested lists are not double-counted.
func convertList(el *html.Node, depth int, listType adf.NodeType) (*adf.Node, error) {
	if depth > maxElementDepth {
		return nil, errors.WithStack(adf.ErrTooDeep)
	}

	items := []*adf.Node{}
	var walkErr error

	goquery.NewDocumentFromNode(el).ChildrenFiltered("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		content, err := listItemContent(li.Nodes[0], depth)
		if err != nil {
			walkErr = err
			return false
		}
		items = append(items, &adf.Node{Type: adf.NodeListItem, Content: content})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return &adf.Node{Type: listType, Content: items}, nil
}

// listItemContent builds an li's block content. Text surrounding a nested
// list collapses into a leading paragraph; the nested ul/ol become sub-list
// content elements. An li without nested lists is one inline-extracted
// paragraph; an empty li still gets a paragraph with an empty text node.
func listItemContent(li *html.Node, depth int) ([]*adf.Node, error) {
	nested := false
	for _, child := range elementChildren(li) {
		if child.Data == "ul" || child.Data == "ol" {
			nested = true
			break
		}
	}

	if !nested {
		inline, err := extractInlineSkippingLists(li)
		if err != nil {
			return nil, err
		}
		if len(inline) == 0 {
			return []*adf.Node{adf.Paragraph(adf.Text(""))}, nil
		}
		return []*adf.Node{adf.Paragraph(inline...)}, nil
	}

	var content []*adf.Node
	var textParts []string

	flushLeading := func() {
		if len(textParts) > 0 && len(content) == 0 {
			content = append(content, adf.Paragraph(adf.Text(strings.Join(textParts, " "))))
		}
		textParts = nil
	}

	for c := li.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				textParts = append(textParts, t)
			}

		case c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol"):
			flushLeading()
			listType := adf.NodeBulletList
			if c.Data == "ol" {
				listType = adf.NodeOrderedList
			}
			sub, err := convertList(c, depth+1, listType)
			if err != nil {
				return nil, err
			}
			content = append(content, sub)

		case c.Type == html.ElementNode:
			if t := strings.TrimSpace(textContent(c)); t != "" {
				textParts = append(textParts, t)
			}
		}
	}

	return content, nil
}
