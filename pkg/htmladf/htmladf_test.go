package htmladf

import (
	"strings"
	"testing"

	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromHTML(t *testing.T, content string) []*adf.Node {
	t.Helper()
	doc, err := FromHTML(content)
	require.NoError(t, err)
	return doc.Content
}

func TestFromHTMLEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		doc, err := FromHTML(in)
		require.NoError(t, err)
		assert.Empty(t, doc.Content)
		assert.NoError(t, doc.Validate())
	}
}

func TestFromHTMLHeadings(t *testing.T) {
	nodes := fromHTML(t, "<h1>One</h1><h2>Two</h2><h6>Six</h6>")

	// The spacing pass inserts an empty paragraph before h2+.
	require.Len(t, nodes, 5)
	assert.Equal(t, 1, nodes[0].Attrs.Level)
	assert.Equal(t, "One", adf.PlainText(nodes[0].Content))
	assert.Equal(t, adf.NodeParagraph, nodes[1].Type)
	assert.Equal(t, 2, nodes[2].Attrs.Level)
	assert.Equal(t, 6, nodes[4].Attrs.Level)
}

func TestFromHTMLParagraphWithMarks(t *testing.T) {
	nodes := fromHTML(t, `<p>plain <strong>bold</strong> and <a href="https://example.com">a link</a></p>`)

	require.Len(t, nodes, 1)
	want := adf.Paragraph(
		adf.Text("plain "),
		adf.MarkedText("bold", &adf.Mark{Type: adf.MarkStrong}),
		adf.Text(" and "),
		adf.MarkedText("a link", &adf.Mark{
			Type:  adf.MarkLink,
			Attrs: &adf.MarkAttrs{Href: "https://example.com"},
		}),
	)
	if diff := cmp.Diff(want, nodes[0]); diff != "" {
		t.Errorf("paragraph mismatch (-want +got):\n%s", diff)
	}
}

func TestFromHTMLNestedMarksAndTail(t *testing.T) {
	nodes := fromHTML(t, "<p><strong>bold <em>both</em></strong>tail</p>")

	require.Len(t, nodes, 1)
	content := nodes[0].Content
	require.Len(t, content, 3)

	assert.Equal(t, "bold ", content[0].Text)
	require.Len(t, content[0].Marks, 1)
	assert.Equal(t, adf.MarkStrong, content[0].Marks[0].Type)

	assert.Equal(t, "both", content[1].Text)
	require.Len(t, content[1].Marks, 2)
	assert.Equal(t, adf.MarkStrong, content[1].Marks[0].Type)
	assert.Equal(t, adf.MarkEm, content[1].Marks[1].Type)

	// Tail text after the closing strong carries no marks at all.
	assert.Equal(t, "tail", content[2].Text)
	assert.Empty(t, content[2].Marks)
}

func TestFromHTMLMarkVariants(t *testing.T) {
	nodes := fromHTML(t, "<p><b>b</b><i>i</i><code>c</code><u>u</u><s>s</s><del>d</del></p>")

	require.Len(t, nodes, 1)
	marks := make([]adf.MarkType, 0, 6)
	for _, n := range nodes[0].Content {
		require.Len(t, n.Marks, 1)
		marks = append(marks, n.Marks[0].Type)
	}
	assert.Equal(t, []adf.MarkType{
		adf.MarkStrong, adf.MarkEm, adf.MarkCode,
		adf.MarkUnderline, adf.MarkStrike, adf.MarkStrike,
	}, marks)
}

func TestFromHTMLAnchorWithoutHrefGetsNoMark(t *testing.T) {
	nodes := fromHTML(t, "<p><a>no destination</a></p>")
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Content, 1)
	assert.Empty(t, nodes[0].Content[0].Marks)
}

func TestFromHTMLSingleSpaceBetweenSpansSurvives(t *testing.T) {
	nodes := fromHTML(t, "<p><strong>a</strong> <em>b</em></p>")
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Content, 3)
	assert.Equal(t, " ", nodes[0].Content[1].Text)
}

func TestFromHTMLEmptyParagraphDropped(t *testing.T) {
	nodes := fromHTML(t, "<p>   </p><p>kept</p>")
	require.Len(t, nodes, 1)
	assert.Equal(t, "kept", adf.PlainText(nodes[0].Content))
}

func TestFromHTMLParagraphSpan(t *testing.T) {
	nodes := fromHTML(t, `<span class="paragraph">styled text</span>`)
	require.Len(t, nodes, 1)
	assert.Equal(t, adf.NodeParagraph, nodes[0].Type)
	assert.Equal(t, "styled text", adf.PlainText(nodes[0].Content))
}

func TestFromHTMLWrapperFlattening(t *testing.T) {
	in := `<div><div><p>inner</p></div><span class="markdown"><p>wrapped</p></span></div>`
	nodes := fromHTML(t, in)

	require.Len(t, nodes, 2)
	assert.Equal(t, "inner", adf.PlainText(nodes[0].Content))
	assert.Equal(t, "wrapped", adf.PlainText(nodes[1].Content))
}

func TestFromHTMLUnknownTagsSkipped(t *testing.T) {
	nodes := fromHTML(t, "<nav>menu</nav><p>content</p><button>x</button>")
	require.Len(t, nodes, 1)
	assert.Equal(t, "content", adf.PlainText(nodes[0].Content))
}

func TestFromHTMLCodeBlock(t *testing.T) {
	nodes := fromHTML(t, `<pre><code class="language-python">print("hi")</code></pre>`)

	require.Len(t, nodes, 1)
	code := nodes[0]
	assert.Equal(t, adf.NodeCodeBlock, code.Type)
	assert.Equal(t, "python", code.Attrs.Language)
	assert.Equal(t, `print("hi")`, adf.PlainText(code.Content))
}

func TestFromHTMLCodeBlockWithoutCodeElement(t *testing.T) {
	nodes := fromHTML(t, "<pre>raw text</pre>")
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].Attrs.Language)
	assert.Equal(t, "raw text", adf.PlainText(nodes[0].Content))
}

func TestFromHTMLRuleAndSpacing(t *testing.T) {
	nodes := fromHTML(t, "<p>above</p><hr>")

	require.Len(t, nodes, 3)
	assert.Equal(t, adf.NodeParagraph, nodes[0].Type)
	assert.Equal(t, adf.NodeParagraph, nodes[1].Type)
	assert.Empty(t, nodes[1].Content)
	assert.Equal(t, adf.NodeRule, nodes[2].Type)
}

func TestFromHTMLBlockquoteWithBlockChildren(t *testing.T) {
	nodes := fromHTML(t, "<blockquote><p>first</p><p>second</p></blockquote>")

	require.Len(t, nodes, 1)
	quote := nodes[0]
	assert.Equal(t, adf.NodeBlockquote, quote.Type)
	require.Len(t, quote.Content, 2)
	assert.Equal(t, "second", adf.PlainText(quote.Content[1].Content))
}

func TestFromHTMLBlockquoteFallbackParagraph(t *testing.T) {
	nodes := fromHTML(t, "<blockquote>bare text</blockquote>")

	require.Len(t, nodes, 1)
	quote := nodes[0]
	require.Len(t, quote.Content, 1)
	assert.Equal(t, adf.NodeParagraph, quote.Content[0].Type)
	assert.Equal(t, "bare text", adf.PlainText(quote.Content[0].Content))
}

func TestFromHTMLBulletList(t *testing.T) {
	nodes := fromHTML(t, "<ul><li>one</li><li>two</li></ul>")

	require.Len(t, nodes, 1)
	list := nodes[0]
	assert.Equal(t, adf.NodeBulletList, list.Type)
	require.Len(t, list.Content, 2)
	assert.Equal(t, "one", adf.PlainText(list.Content[0].Content))
}

func TestFromHTMLOrderedList(t *testing.T) {
	nodes := fromHTML(t, "<ol><li>first</li></ol>")
	require.Len(t, nodes, 1)
	assert.Equal(t, adf.NodeOrderedList, nodes[0].Type)
}

func TestFromHTMLNestedList(t *testing.T) {
	in := "<ul><li>parent<ul><li>child</li></ul></li><li>sibling</li></ul>"
	nodes := fromHTML(t, in)

	require.Len(t, nodes, 1)
	list := nodes[0]
	require.Len(t, list.Content, 2)

	parent := list.Content[0]
	require.Len(t, parent.Content, 2)
	assert.Equal(t, adf.NodeParagraph, parent.Content[0].Type)
	assert.Equal(t, "parent", adf.PlainText(parent.Content[0].Content))

	sub := parent.Content[1]
	assert.Equal(t, adf.NodeBulletList, sub.Type)
	require.Len(t, sub.Content, 1)
	assert.Equal(t, "child", adf.PlainText(sub.Content[0].Content))

	// Items of the nested list are not double-counted at the outer level.
	assert.Equal(t, "sibling", adf.PlainText(list.Content[1].Content))
}

func TestFromHTMLListItemKeepsInlineMarks(t *testing.T) {
	nodes := fromHTML(t, "<ul><li>has <strong>bold</strong></li></ul>")

	item := nodes[0].Content[0]
	para := item.Content[0]
	require.Len(t, para.Content, 2)
	require.Len(t, para.Content[1].Marks, 1)
	assert.Equal(t, adf.MarkStrong, para.Content[1].Marks[0].Type)
}

func TestFromHTMLEmptyListItem(t *testing.T) {
	nodes := fromHTML(t, "<ul><li></li></ul>")

	item := nodes[0].Content[0]
	require.Len(t, item.Content, 1)
	assert.Equal(t, adf.NodeParagraph, item.Content[0].Type)
}

func TestConvertAppliesSpacingExactlyOnce(t *testing.T) {
	nodes := fromHTML(t, "<h1>a</h1><h2>b</h2>")

	types := make([]adf.NodeType, len(nodes))
	for i, n := range nodes {
		types[i] = n.Type
	}
	assert.Equal(t, []adf.NodeType{adf.NodeHeading, adf.NodeParagraph, adf.NodeHeading}, types)
}

func TestFromHTMLRecursionGuard(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "nested inline spans",
			input: "<p>" + strings.Repeat("<span>", 150) + "deep" + strings.Repeat("</span>", 150) + "</p>",
		},
		{
			name:  "nested blockquotes",
			input: strings.Repeat("<blockquote>", 150) + "<p>deep</p>" + strings.Repeat("</blockquote>", 150),
		},
		{
			name:  "nested lists",
			input: strings.Repeat("<ul><li>", 150) + "deep" + strings.Repeat("</li></ul>", 150),
		},
		{
			name:  "nested spans in a table cell",
			input: "<table><tbody><tr><td>" + strings.Repeat("<em>", 150) + "deep" + strings.Repeat("</em>", 150) + "</td></tr></tbody></table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromHTML(tt.input)
			assert.ErrorIs(t, err, adf.ErrTooDeep)
		})
	}
}

func TestFromHTMLDeepWrapperChainDoesNotError(t *testing.T) {
	in := strings.Repeat("<div>", 300) + "<p>buried</p>" + strings.Repeat("</div>", 300)

	nodes := fromHTML(t, in)
	require.Len(t, nodes, 1)
	assert.Equal(t, "buried", adf.PlainText(nodes[0].Content))
}

func TestFromHTMLFullDocumentMarkup(t *testing.T) {
	in := `<html><head><title>ignored</title></head><body>
		<h1>Doc</h1>
		<p>body text</p>
	</body></html>`

	nodes := fromHTML(t, in)
	var types []adf.NodeType
	for _, n := range nodes {
		types = append(types, n.Type)
	}
	assert.Equal(t, []adf.NodeType{adf.NodeHeading, adf.NodeParagraph}, types)
	assert.Equal(t, "Doc", adf.PlainText(nodes[0].Content))
	assert.False(t, strings.Contains(adf.PlainText(nodes[1].Content), "ignored"))
}
