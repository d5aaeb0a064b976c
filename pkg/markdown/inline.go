// Package markdown converts between markdown text and ADF document trees.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adfmd/adfmd/pkg/adf"
)

type inlinePattern struct {
	re   *regexp.Regexp
	mark adf.MarkType
}

// Inline patterns, compiled once. Order matters: strong is tested before em
// because "**" is a prefix ambiguity of "*". Ties on start offset go to the
// earlier entry.
var inlinePatterns = []inlinePattern{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), adf.MarkStrong},
	{regexp.MustCompile(`\*(.+?)\*`), adf.MarkEm},
	{regexp.MustCompile("`(.+?)`"), adf.MarkCode},
	{regexp.MustCompile(`~~(.+?)~~`), adf.MarkStrike},
	{regexp.MustCompile(`\[(.+?)\]\((.+?)\)`), adf.MarkLink},
}

// parseInline scans text for inline markdown and returns the equivalent ADF
// text nodes. Each match yields one independently marked node; overlapping or
// nested spans (e.g. bold italic together) are not combined. The earliest
// single match wins and the rest is treated as literal text.
func parseInline(text string) []*adf.Node {
	if text == "" {
		return nil
	}

	var nodes []*adf.Node
	pos := 0

	for pos < len(text) {
		var match []int
		var matchMark adf.MarkType
		earliest := len(text)

		for _, p := range inlinePatterns {
			loc := p.re.FindStringSubmatchIndex(text[pos:])
			if loc != nil && pos+loc[0] < earliest {
				match = loc
				matchMark = p.mark
				earliest = pos + loc[0]
			}
		}

		if match == nil {
			nodes = append(nodes, adf.Text(text[pos:]))
			break
		}

		if earliest > pos {
			nodes = append(nodes, adf.Text(text[pos:earliest]))
		}

		inner := text[pos+match[2] : pos+match[3]]
		if matchMark == adf.MarkLink {
			href := text[pos+match[4] : pos+match[5]]
			nodes = append(nodes, adf.MarkedText(inner, &adf.Mark{
				Type:  adf.MarkLink,
				Attrs: &adf.MarkAttrs{Href: href},
			}))
		} else {
			nodes = append(nodes, adf.MarkedText(inner, &adf.Mark{Type: matchMark}))
		}

		pos += match[1]
	}

	return nodes
}

// renderInline reassembles the markdown of a block's inline content: text
// nodes wrapped per mark, hard breaks, emoji, mentions and inline cards.
func renderInline(content []*adf.Node) string {
	var b strings.Builder

	for _, item := range content {
		switch item.Type {
		case adf.NodeText:
			b.WriteString(applyMarks(item.Text, item.Marks))
		case adf.NodeHardBreak:
			b.WriteString("  \n")
		case adf.NodeEmoji:
			if item.Attrs != nil {
				b.WriteString(item.Attrs.Text)
			}
		case adf.NodeMention:
			if item.Attrs != nil && item.Attrs.Text != "" {
				b.WriteString(item.Attrs.Text)
			} else {
				b.WriteString("@user")
			}
		case adf.NodeInlineCard:
			b.WriteString(renderInlineCard(item))
		}
	}

	return b.String()
}

// applyMarks wraps text with the syntax of each mark, in the order the marks
// appear on the node. The order is preserved from the input, so
// re-serialization is deterministic.
func applyMarks(text string, marks []*adf.Mark) string {
	for _, mark := range marks {
		switch mark.Type {
		case adf.MarkStrong:
			text = "**" + text + "**"
		case adf.MarkEm:
			text = "*" + text + "*"
		case adf.MarkCode:
			text = "`" + text + "`"
		case adf.MarkStrike:
			text = "~~" + text + "~~"
		case adf.MarkUnderline:
			text = "<u>" + text + "</u>"
		case adf.MarkLink:
			var href, title string
			if mark.Attrs != nil {
				href = mark.Attrs.Href
				title = mark.Attrs.Title
			}
			if title != "" {
				text = fmt.Sprintf("[%s](%s %q)", text, href, title)
			} else {
				text = fmt.Sprintf("[%s](%s)", text, href)
			}
		}
	}
	return text
}

// renderInlineCard renders a card as a URL-only link. Resolving the page
// title would need a secondary fetch, which the converter does not do.
func renderInlineCard(n *adf.Node) string {
	if n.Attrs == nil || n.Attrs.URL == "" {
		return ""
	}
	return fmt.Sprintf("[%s](%s)", n.Attrs.URL, n.Attrs.URL)
}
