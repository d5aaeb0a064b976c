package markdown

import (
	"testing"

	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []*adf.Node
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "no markup here",
			want:  []*adf.Node{adf.Text("no markup here")},
		},
		{
			name:  "bold",
			input: "**bold**",
			want:  []*adf.Node{adf.MarkedText("bold", &adf.Mark{Type: adf.MarkStrong})},
		},
		{
			name:  "bold wins over italic at the same offset",
			input: "**bold** tail",
			want: []*adf.Node{
				adf.MarkedText("bold", &adf.Mark{Type: adf.MarkStrong}),
				adf.Text(" tail"),
			},
		},
		{
			name:  "italic",
			input: "an *em* word",
			want: []*adf.Node{
				adf.Text("an "),
				adf.MarkedText("em", &adf.Mark{Type: adf.MarkEm}),
				adf.Text(" word"),
			},
		},
		{
			name:  "code",
			input: "run `go build` now",
			want: []*adf.Node{
				adf.Text("run "),
				adf.MarkedText("go build", &adf.Mark{Type: adf.MarkCode}),
				adf.Text(" now"),
			},
		},
		{
			name:  "strike",
			input: "~~gone~~",
			want:  []*adf.Node{adf.MarkedText("gone", &adf.Mark{Type: adf.MarkStrike})},
		},
		{
			name:  "link",
			input: "see [docs](https://example.com) here",
			want: []*adf.Node{
				adf.Text("see "),
				adf.MarkedText("docs", &adf.Mark{
					Type:  adf.MarkLink,
					Attrs: &adf.MarkAttrs{Href: "https://example.com"},
				}),
				adf.Text(" here"),
			},
		},
		{
			name:  "multiple matches scan left to right",
			input: "**a** then *b*",
			want: []*adf.Node{
				adf.MarkedText("a", &adf.Mark{Type: adf.MarkStrong}),
				adf.Text(" then "),
				adf.MarkedText("b", &adf.Mark{Type: adf.MarkEm}),
			},
		},
		{
			name: "overlapping marks are not combined",
			// The strong pattern wins the opening span; the remainder is
			// re-scanned from past the match.
			input: "**bold *and em***",
			want: []*adf.Node{
				adf.MarkedText("bold *and em", &adf.Mark{Type: adf.MarkStrong}),
				adf.Text("*"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInline(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseInline(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseInlineConcatenationPreservesText(t *testing.T) {
	input := "pre **b** mid *i* `c` ~~s~~ [t](u) post"
	got := parseInline(input)
	assert.Equal(t, "pre b mid i c s t post", adf.PlainText(got))
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		name    string
		content []*adf.Node
		want    string
	}{
		{
			name:    "plain",
			content: []*adf.Node{adf.Text("hello")},
			want:    "hello",
		},
		{
			name: "each mark",
			content: []*adf.Node{
				adf.MarkedText("b", &adf.Mark{Type: adf.MarkStrong}),
				adf.MarkedText("i", &adf.Mark{Type: adf.MarkEm}),
				adf.MarkedText("c", &adf.Mark{Type: adf.MarkCode}),
				adf.MarkedText("s", &adf.Mark{Type: adf.MarkStrike}),
				adf.MarkedText("u", &adf.Mark{Type: adf.MarkUnderline}),
			},
			want: "**b***i*`c`~~s~~<u>u</u>",
		},
		{
			name: "link without title",
			content: []*adf.Node{
				adf.MarkedText("docs", &adf.Mark{
					Type:  adf.MarkLink,
					Attrs: &adf.MarkAttrs{Href: "https://example.com"},
				}),
			},
			want: "[docs](https://example.com)",
		},
		{
			name: "link with title",
			content: []*adf.Node{
				adf.MarkedText("docs", &adf.Mark{
					Type:  adf.MarkLink,
					Attrs: &adf.MarkAttrs{Href: "https://example.com", Title: "Docs"},
				}),
			},
			want: `[docs](https://example.com "Docs")`,
		},
		{
			name: "marks wrap in node order",
			content: []*adf.Node{
				adf.MarkedText("x",
					&adf.Mark{Type: adf.MarkStrong},
					&adf.Mark{Type: adf.MarkEm},
				),
			},
			want: "***x***",
		},
		{
			name: "hard break",
			content: []*adf.Node{
				adf.Text("a"),
				{Type: adf.NodeHardBreak},
				adf.Text("b"),
			},
			want: "a  \nb",
		},
		{
			name: "emoji and mention",
			content: []*adf.Node{
				{Type: adf.NodeEmoji, Attrs: &adf.Attrs{Text: ":tada:"}},
				adf.Text(" "),
				{Type: adf.NodeMention, Attrs: &adf.Attrs{Text: "@alex"}},
				adf.Text(" "),
				{Type: adf.NodeMention},
			},
			want: ":tada: @alex @user",
		},
		{
			name: "inline card",
			content: []*adf.Node{
				{Type: adf.NodeInlineCard, Attrs: &adf.Attrs{URL: "https://example.com/page"}},
			},
			want: "[https://example.com/page](https://example.com/page)",
		},
		{
			name: "inline card without url renders nothing",
			content: []*adf.Node{
				{Type: adf.NodeInlineCard},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderInline(tt.content))
		})
	}
}
