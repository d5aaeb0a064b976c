// Package adf models Atlassian Document Format (ADF) trees: the typed node
// set, the document envelope, and the helpers shared by the markdown and
// HTML converters.
package adf

// NodeType identifies an ADF node.
type NodeType string

const (
	NodeDoc         NodeType = "doc"
	NodeParagraph   NodeType = "paragraph"
	NodeHeading     NodeType = "heading"
	NodeBulletList  NodeType = "bulletList"
	NodeOrderedList NodeType = "orderedList"
	NodeListItem    NodeType = "listItem"
	NodeTaskList    NodeType = "taskList"
	NodeTaskItem    NodeType = "taskItem"
	NodeCodeBlock   NodeType = "codeBlock"
	NodeBlockquote  NodeType = "blockquote"
	NodeRule        NodeType = "rule"
	NodeTable       NodeType = "table"
	NodeTableRow    NodeType = "tableRow"
	NodeTableHeader NodeType = "tableHeader"
	NodeTableCell   NodeType = "tableCell"
	NodeText        NodeType = "text"
	NodeHardBreak   NodeType = "hardBreak"
	NodeEmoji       NodeType = "emoji"
	NodeMention     NodeType = "mention"
	NodeInlineCard  NodeType = "inlineCard"
	NodeExpand      NodeType = "expand"
	NodeExtension   NodeType = "extension"
	NodeMedia       NodeType = "media"
	NodeMediaSingle NodeType = "mediaSingle"
)

// MarkType identifies an inline formatting mark on a text node.
type MarkType string

const (
	MarkStrong    MarkType = "strong"
	MarkEm        MarkType = "em"
	MarkCode      MarkType = "code"
	MarkStrike    MarkType = "strike"
	MarkUnderline MarkType = "underline"
	MarkLink      MarkType = "link"
)

// TaskState is the checkbox state of a taskItem.
type TaskState string

const (
	TaskTODO TaskState = "TODO"
	TaskDone TaskState = "DONE"
)

// Node is a single ADF node. The struct is the JSON wire shape; fields that
// do not apply to a node type stay zero and are omitted on marshal.
type Node struct {
	Type    NodeType `json:"type"`
	Attrs   *Attrs   `json:"attrs,omitempty"`
	Content []*Node  `json:"content,omitempty"`
	Marks   []*Mark  `json:"marks,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Attrs is the union of per-type node attributes. Each node type reads only
// the fields meaningful to it (heading: Level; codeBlock: Language; taskItem:
// State; inlineCard: URL; expand: Title; emoji/mention/extension: Text;
// media: FileType/ID/Collection; mediaSingle: Layout/Width).
type Attrs struct {
	Level      int              `json:"level,omitempty"`
	Language   string           `json:"language,omitempty"`
	State      TaskState        `json:"state,omitempty"`
	URL        string           `json:"url,omitempty"`
	Title      string           `json:"title,omitempty"`
	Text       string           `json:"text,omitempty"`
	Parameters *ExtensionParams `json:"parameters,omitempty"`
	Layout     string           `json:"layout,omitempty"`
	Width      int              `json:"width,omitempty"`
	FileType   string           `json:"type,omitempty"`
	ID         string           `json:"id,omitempty"`
	Collection string           `json:"collection,omitempty"`
}

// ExtensionParams carries the display metadata of an extension macro.
type ExtensionParams struct {
	ExtensionTitle string `json:"extensionTitle,omitempty"`
}

// Mark is an inline formatting annotation attached to a text node.
type Mark struct {
	Type  MarkType   `json:"type"`
	Attrs *MarkAttrs `json:"attrs,omitempty"`
}

// MarkAttrs holds link mark attributes.
type MarkAttrs struct {
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

// Text returns a plain text node.
func Text(s string) *Node {
	return &Node{Type: NodeText, Text: s}
}

// MarkedText returns a text node carrying the given marks.
func MarkedText(s string, marks ...*Mark) *Node {
	return &Node{Type: NodeText, Text: s, Marks: marks}
}

// Paragraph returns a paragraph wrapping the given inline nodes.
func Paragraph(content ...*Node) *Node {
	return &Node{Type: NodeParagraph, Content: content}
}

// EmptyParagraph returns a paragraph with an empty (non-nil) content slice,
// the shape the spacing pass inserts.
func EmptyParagraph() *Node {
	return &Node{Type: NodeParagraph, Content: []*Node{}}
}

// Heading returns a heading node at the given level.
func Heading(level int, content ...*Node) *Node {
	return &Node{Type: NodeHeading, Attrs: &Attrs{Level: level}, Content: content}
}

// Rule returns a horizontal rule node.
func Rule() *Node {
	return &Node{Type: NodeRule}
}

// CodeBlock returns a code block with the given language tag and body.
func CodeBlock(language, code string) *Node {
	return &Node{
		Type:    NodeCodeBlock,
		Attrs:   &Attrs{Language: language},
		Content: []*Node{Text(code)},
	}
}

// MediaSingle returns a centered mediaSingle node embedding one file
// attachment. width is a percentage (1-100); 0 leaves it unset.
func MediaSingle(fileID, collection string, width int) *Node {
	media := &Node{
		Type:  NodeMedia,
		Attrs: &Attrs{FileType: "file", ID: fileID, Collection: collection},
	}
	attrs := &Attrs{Layout: "center"}
	if width > 0 {
		attrs.Width = width
	}
	return &Node{Type: NodeMediaSingle, Attrs: attrs, Content: []*Node{media}}
}

// Level returns the heading level, defaulting to 1 when unset.
func (n *Node) Level() int {
	if n.Attrs == nil || n.Attrs.Level == 0 {
		return 1
	}
	return n.Attrs.Level
}

// PlainText extracts the concatenated literal text of nodes and all their
// descendants, ignoring marks and structure.
func PlainText(nodes []*Node) string {
	var out []byte
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Type == NodeText {
			out = append(out, n.Text...)
			continue
		}
		if len(n.Content) > 0 {
			out = append(out, PlainText(n.Content)...)
		}
	}
	return string(out)
}
