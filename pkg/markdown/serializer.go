package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adfmd/adfmd/internal/derrors"
	"github.com/adfmd/adfmd/pkg/adf"
	"github.com/k1LoW/errors"
)

// maxRecursionDepth bounds the serializer against pathologically nested
// input; past it the conversion aborts with a structural error instead of
// overflowing the stack.
const maxRecursionDepth = 100

// FromADF renders an ADF document as markdown. Structural errors (non-doc
// root, runaway nesting) abort the conversion; unrecognized node types
// degrade to their plain text and never error.
func FromADF(doc *adf.Document) (_ string, err error) {
	defer derrors.Wrap(&err)

	if err := doc.Validate(); err != nil {
		return "", err
	}

	var blocks []string
	for _, node := range doc.Content {
		block, err := renderNode(node, 0, 0)
		if err != nil {
			return "", err
		}
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

// renderNode dispatches on node type. listDepth is the current list nesting
// level (two spaces of indent per level); depth counts recursion for the
// nesting guard.
func renderNode(node *adf.Node, listDepth, depth int) (string, error) {
	if depth > maxRecursionDepth {
		return "", errors.WithStack(adf.ErrTooDeep)
	}
	if node == nil {
		return "", nil
	}

	switch node.Type {
	case adf.NodeParagraph:
		return renderInline(node.Content), nil

	case adf.NodeHeading:
		// Marks inside headings are not preserved; only the text survives.
		return strings.Repeat("#", node.Level()) + " " + adf.PlainText(node.Content), nil

	case adf.NodeBulletList:
		return renderList(node, listDepth, depth, func(int) string { return "-" })

	case adf.NodeOrderedList:
		return renderList(node, listDepth, depth, func(i int) string {
			return strconv.Itoa(i+1) + "."
		})

	case adf.NodeCodeBlock:
		language := ""
		if node.Attrs != nil {
			language = node.Attrs.Language
		}
		return "```" + language + "\n" + adf.PlainText(node.Content) + "\n```", nil

	case adf.NodeBlockquote:
		return renderBlockquote(node, listDepth, depth)

	case adf.NodeRule:
		return "---", nil

	case adf.NodeTable:
		return renderTable(node, depth)

	case adf.NodeTaskList:
		return renderTaskList(node, listDepth, depth)

	case adf.NodeTaskItem:
		return renderTaskItem(node, listDepth, depth)

	case adf.NodeInlineCard:
		return renderInlineCard(node), nil

	case adf.NodeExpand:
		return renderExpand(node, depth)

	case adf.NodeExtension:
		return renderExtension(node), nil

	default:
		// Forward-compatible fallback: keep at least the text.
		return adf.PlainText(node.Content), nil
	}
}

// renderList emits one marker line per listItem's first paragraph. Further
// paragraphs and nested lists are appended as sibling lines; nested renders
// carry their own indentation.
func renderList(node *adf.Node, listDepth, depth int, marker func(i int) string) (string, error) {
	indent := strings.Repeat("  ", listDepth)
	var out []string

	itemIdx := 0
	for _, item := range node.Content {
		if item.Type != adf.NodeListItem {
			continue
		}

		firstLine := ""
		haveFirst := false
		var nested []string

		for _, child := range item.Content {
			switch child.Type {
			case adf.NodeParagraph:
				if !haveFirst {
					firstLine = renderInline(child.Content)
					haveFirst = true
				} else {
					nested = append(nested, renderInline(child.Content))
				}
			case adf.NodeBulletList, adf.NodeOrderedList, adf.NodeTaskList:
				block, err := renderNode(child, listDepth+1, depth+1)
				if err != nil {
					return "", err
				}
				nested = append(nested, block)
			default:
				block, err := renderNode(child, listDepth+1, depth+1)
				if err != nil {
					return "", err
				}
				if block != "" {
					nested = append(nested, block)
				}
			}
		}

		m := marker(itemIdx)
		if haveFirst {
			out = append(out, indent+m+" "+firstLine)
		} else {
			out = append(out, indent+m)
		}
		out = append(out, nested...)
		itemIdx++
	}

	return strings.Join(out, "\n"), nil
}

func renderBlockquote(node *adf.Node, listDepth, depth int) (string, error) {
	var out []string
	for _, child := range node.Content {
		block, err := renderNode(child, listDepth, depth+1)
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(block, "\n") {
			out = append(out, "> "+line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// renderTable joins each row's cells with '|' and inserts a '---' separator
// row after the header. Ragged rows render with however many cells they have.
func renderTable(node *adf.Node, depth int) (string, error) {
	var rows [][]string

	for _, rowNode := range node.Content {
		if rowNode.Type != adf.NodeTableRow {
			continue
		}

		var cells []string
		for _, cellNode := range rowNode.Content {
			if cellNode.Type != adf.NodeTableHeader && cellNode.Type != adf.NodeTableCell {
				continue
			}
			var parts []string
			for _, child := range cellNode.Content {
				part, err := renderNode(child, 0, depth+1)
				if err != nil {
					return "", err
				}
				parts = append(parts, part)
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return "", nil
	}

	var out []string
	out = append(out, "| "+strings.Join(rows[0], " | ")+" |")

	separators := make([]string, len(rows[0]))
	for i := range separators {
		separators[i] = "---"
	}
	out = append(out, "| "+strings.Join(separators, " | ")+" |")

	for _, row := range rows[1:] {
		out = append(out, "| "+strings.Join(row, " | ")+" |")
	}

	return strings.Join(out, "\n"), nil
}

func renderTaskList(node *adf.Node, listDepth, depth int) (string, error) {
	var out []string
	for _, item := range node.Content {
		if item.Type != adf.NodeTaskItem {
			continue
		}
		line, err := renderTaskItem(item, listDepth, depth+1)
		if err != nil {
			return "", err
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// renderTaskItem emits the checkbox line and appends nested task lists (or
// other block content) on following lines at depth+1.
func renderTaskItem(node *adf.Node, listDepth, depth int) (string, error) {
	if depth > maxRecursionDepth {
		return "", errors.WithStack(adf.ErrTooDeep)
	}

	indent := strings.Repeat("  ", listDepth)
	checkbox := "[ ]"
	if node.Attrs != nil && node.Attrs.State == adf.TaskDone {
		checkbox = "[x]"
	}

	var inline []string
	var nested []string

	for _, child := range node.Content {
		switch child.Type {
		case adf.NodeText:
			inline = append(inline, applyMarks(child.Text, child.Marks))
		case adf.NodeParagraph:
			inline = append(inline, renderInline(child.Content))
		case adf.NodeTaskList:
			block, err := renderTaskList(child, listDepth+1, depth+1)
			if err != nil {
				return "", err
			}
			nested = append(nested, block)
		default:
			block, err := renderNode(child, listDepth+1, depth+1)
			if err != nil {
				return "", err
			}
			if block != "" {
				nested = append(nested, block)
			}
		}
	}

	var out []string
	if len(inline) > 0 {
		out = append(out, indent+"- "+checkbox+" "+strings.Join(inline, ""))
	} else {
		out = append(out, indent+"- "+checkbox)
	}
	out = append(out, nested...)

	return strings.Join(out, "\n"), nil
}

// renderExpand emits the one construct that needs raw HTML passthrough:
// a details/summary block.
func renderExpand(node *adf.Node, depth int) (string, error) {
	title := "Details"
	if node.Attrs != nil && node.Attrs.Title != "" {
		title = node.Attrs.Title
	}

	var blocks []string
	for _, child := range node.Content {
		block, err := renderNode(child, 0, depth+1)
		if err != nil {
			return "", err
		}
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<details>\n<summary>%s</summary>\n", title)
	if len(blocks) > 0 {
		b.WriteString("\n" + strings.Join(blocks, "\n\n") + "\n")
	}
	b.WriteString("</details>")
	return b.String(), nil
}

// renderExtension emits a comment with the macro's display title; extension
// bodies are not representable in markdown.
func renderExtension(node *adf.Node) string {
	title := ""
	if node.Attrs != nil {
		if node.Attrs.Parameters != nil {
			title = node.Attrs.Parameters.ExtensionTitle
		}
		if title == "" {
			title = node.Attrs.Text
		}
	}
	if title == "" {
		title = "Unknown extension"
	}
	return fmt.Sprintf("<!-- Extension: %s -->", title)
}
