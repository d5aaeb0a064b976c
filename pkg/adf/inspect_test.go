package adf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspectFixture() *Document {
	return NewDocument([]*Node{
		Heading(1, Text("Title")),
		Paragraph(
			Text("plain "),
			MarkedText("strong", &Mark{Type: MarkStrong}),
			MarkedText("link", &Mark{Type: MarkLink, Attrs: &MarkAttrs{Href: "https://example.com"}}),
		),
		{
			Type: NodeBulletList,
			Content: []*Node{
				{Type: NodeListItem, Content: []*Node{Paragraph(Text("item"))}},
			},
		},
	})
}

func TestAnalyze(t *testing.T) {
	analysis := Analyze(inspectFixture())

	assert.Equal(t, []string{
		"bulletList",
		"heading",
		"listItem",
		"mark:link",
		"mark:strong",
		"paragraph",
		"text",
	}, analysis.NodeTypes)

	// root + heading + text + paragraph + 3 texts + list + item + paragraph + text
	assert.Equal(t, 11, analysis.TotalNodes)
}

func TestCountNodes(t *testing.T) {
	assert.Equal(t, 0, CountNodes(nil))
	assert.Equal(t, 1, CountNodes(Rule()))
	assert.Equal(t, 2, CountNodes(Paragraph(Text("x"))))
}

func TestFindByType(t *testing.T) {
	doc := inspectFixture()

	matches := FindByType(doc, NodeText)
	require.Len(t, matches, 5)
	assert.Equal(t, "root.content[0].content[0]", matches[0].Path)
	assert.Equal(t, "Title", matches[0].Node.Text)
	assert.Equal(t, "root.content[1].content[1]", matches[2].Path)
	assert.Equal(t, "strong", matches[2].Node.Text)
	assert.Equal(t, "root.content[2].content[0].content[0].content[0]", matches[4].Path)

	assert.Empty(t, FindByType(doc, NodeTable))
}

func TestDump(t *testing.T) {
	out := Dump(Text("hello"))
	assert.Contains(t, out, "hello")
}
