package markdown

import (
	"regexp"
	"strings"

	"github.com/adfmd/adfmd/pkg/adf"
)

// maxListDepth caps list nesting. Deeper indentation is clamped to the last
// level rather than rejected.
const maxListDepth = 3

var (
	orderedItemRe    = regexp.MustCompile(`^\s*\d+\.\s`)
	tableSeparatorRe = regexp.MustCompile(`^\|[\s\-:|]+\|$`)
)

// ToADF converts markdown text into an ADF document. The parser is a single
// forward pass over lines; blank lines separate blocks and produce no node.
// The spacing pass runs exactly once, here.
func ToADF(md string) *adf.Document {
	content := parseBlocks(strings.Split(md, "\n"))
	return adf.NewDocument(adf.AddSpacing(content))
}

func parseBlocks(lines []string) []*adf.Node {
	var content []*adf.Node
	i := 0

	for i < len(lines) {
		line := lines[i]

		switch {
		case strings.TrimSpace(line) == "":
			i++

		case strings.HasPrefix(line, "#"):
			content = append(content, parseHeading(line))
			i++

		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "```"):
			var node *adf.Node
			node, i = parseCodeBlock(lines, i)
			content = append(content, node)

		case isRuleLine(line):
			content = append(content, adf.Rule())
			i++

		case isTaskLine(line):
			var node *adf.Node
			node, i = parseTaskList(lines, i, listIndent(line))
			content = append(content, node)

		case isBulletLine(line):
			var node *adf.Node
			node, i = parseBulletList(lines, i, listIndent(line))
			content = append(content, node)

		case orderedItemRe.MatchString(line):
			var node *adf.Node
			node, i = parseOrderedList(lines, i, listIndent(line))
			content = append(content, node)

		case strings.HasPrefix(line, ">"):
			var node *adf.Node
			node, i = parseBlockquote(lines, i)
			content = append(content, node)

		case strings.HasPrefix(line, "|"):
			var node *adf.Node
			node, i = parseTable(lines, i)
			if node != nil {
				content = append(content, node)
			}

		default:
			var node *adf.Node
			node, i = parseParagraph(lines, i)
			content = append(content, node)
		}
	}

	return content
}

func parseHeading(line string) *adf.Node {
	level := len(line) - len(strings.TrimLeft(line, "#"))
	if level > 6 {
		level = 6
	}
	title := strings.TrimSpace(strings.TrimLeft(line, "#"))
	return adf.Heading(level, parseInline(title)...)
}

// parseCodeBlock consumes a fenced code region. The fence may be indented;
// the opening line's indent prefix is stripped from body lines that carry it
// so indented fences round-trip with their original body.
func parseCodeBlock(lines []string, start int) (*adf.Node, int) {
	line := lines[start]
	stripped := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(stripped)]
	language := strings.TrimSpace(stripped[3:])

	var body []string
	i := start + 1
	for i < len(lines) && !strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "```") {
		codeLine := strings.TrimPrefix(lines[i], indent)
		body = append(body, codeLine)
		i++
	}
	// Skip the closing fence; an unterminated fence consumes to EOF.
	if i < len(lines) {
		i++
	}

	return adf.CodeBlock(language, strings.Join(body, "\n")), i
}

func isRuleLine(line string) bool {
	switch strings.TrimSpace(line) {
	case "---", "***", "___":
		return true
	}
	return false
}

func isBulletLine(line string) bool {
	t := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") || strings.HasPrefix(t, "+ ")
}

// isTaskLine reports whether line is a bullet item carrying checkbox syntax.
func isTaskLine(line string) bool {
	if !isBulletLine(line) {
		return false
	}
	_, ok := splitTaskText(strings.TrimSpace(strings.TrimLeft(line, " \t")[2:]))
	return ok
}

// splitTaskText strips a leading "[x]"/"[ ]" checkbox and reports the state.
func splitTaskText(text string) (adf.TaskState, bool) {
	if len(text) < 3 || text[0] != '[' || text[2] != ']' {
		return "", false
	}
	if len(text) > 3 && text[3] != ' ' {
		return "", false
	}
	switch text[1] {
	case 'x', 'X':
		return adf.TaskDone, true
	case ' ':
		return adf.TaskTODO, true
	}
	return "", false
}

// listIndent maps leading whitespace to a nesting level: one level per two
// spaces, clamped to maxListDepth levels.
func listIndent(line string) int {
	spaces := len(line) - len(strings.TrimLeft(line, " \t"))
	level := spaces / 2
	if level > maxListDepth-1 {
		level = maxListDepth - 1
	}
	return level
}

// parseBulletList parses the run of bullet items at baseIndent, recursing
// when the following line is strictly deeper. The nested list becomes the
// item's second content element.
func parseBulletList(lines []string, start, baseIndent int) (*adf.Node, int) {
	var items []*adf.Node
	i := start

	for i < len(lines) {
		line := lines[i]
		// A checkbox item ends the plain-bullet run; the dispatch starts a
		// task list from it.
		if !isBulletLine(line) || isTaskLine(line) {
			break
		}

		indent := listIndent(line)
		if indent != baseIndent {
			break
		}

		itemText := strings.TrimSpace(strings.TrimLeft(line, " \t")[2:])
		itemContent := []*adf.Node{adf.Paragraph(parseInline(itemText)...)}
		i++

		if i < len(lines) && isBulletLine(lines[i]) {
			if next := listIndent(lines[i]); next > baseIndent {
				var nested *adf.Node
				if isTaskLine(lines[i]) {
					nested, i = parseTaskList(lines, i, next)
				} else {
					nested, i = parseBulletList(lines, i, next)
				}
				itemContent = append(itemContent, nested)
			}
		}

		items = append(items, &adf.Node{Type: adf.NodeListItem, Content: itemContent})
	}

	return &adf.Node{Type: adf.NodeBulletList, Content: items}, i
}

// parseTaskList is the checkbox variant of parseBulletList. Task items carry
// their inline content directly (no paragraph wrapper) and nest further task
// lists as trailing content elements.
func parseTaskList(lines []string, start, baseIndent int) (*adf.Node, int) {
	var items []*adf.Node
	i := start

	for i < len(lines) {
		line := lines[i]
		if !isTaskLine(line) {
			break
		}

		indent := listIndent(line)
		if indent != baseIndent {
			break
		}

		text := strings.TrimSpace(strings.TrimLeft(line, " \t")[2:])
		state, _ := splitTaskText(text)
		itemText := strings.TrimSpace(text[3:])

		item := &adf.Node{
			Type:    adf.NodeTaskItem,
			Attrs:   &adf.Attrs{State: state},
			Content: parseInline(itemText),
		}
		i++

		if i < len(lines) && isTaskLine(lines[i]) {
			if next := listIndent(lines[i]); next > baseIndent {
				var nested *adf.Node
				nested, i = parseTaskList(lines, i, next)
				item.Content = append(item.Content, nested)
			}
		}

		items = append(items, item)
	}

	return &adf.Node{Type: adf.NodeTaskList, Content: items}, i
}

// parseOrderedList parses numbered items with the same 2-space nesting policy
// as bullet lists. The literal numbers are not preserved; ADF ordered lists
// renumber on render.
func parseOrderedList(lines []string, start, baseIndent int) (*adf.Node, int) {
	var items []*adf.Node
	i := start

	for i < len(lines) {
		line := lines[i]
		if !orderedItemRe.MatchString(line) {
			break
		}

		indent := listIndent(line)
		if indent != baseIndent {
			break
		}

		itemText := orderedItemRe.ReplaceAllString(line, "")
		itemContent := []*adf.Node{adf.Paragraph(parseInline(itemText)...)}
		i++

		if i < len(lines) && orderedItemRe.MatchString(lines[i]) {
			if next := listIndent(lines[i]); next > baseIndent {
				var nested *adf.Node
				nested, i = parseOrderedList(lines, i, next)
				itemContent = append(itemContent, nested)
			}
		}

		items = append(items, &adf.Node{Type: adf.NodeListItem, Content: itemContent})
	}

	return &adf.Node{Type: adf.NodeOrderedList, Content: items}, i
}

// parseBlockquote joins contiguous '>' lines into a single paragraph inside a
// blockquote; multi-paragraph quotes are not distinguished.
func parseBlockquote(lines []string, start int) (*adf.Node, int) {
	var quoted []string
	i := start
	for i < len(lines) && strings.HasPrefix(lines[i], ">") {
		quoted = append(quoted, strings.TrimSpace(lines[i][1:]))
		i++
	}

	node := &adf.Node{
		Type:    adf.NodeBlockquote,
		Content: []*adf.Node{adf.Paragraph(parseInline(strings.Join(quoted, " "))...)},
	}
	return node, i
}

// parseTable consumes contiguous '|' lines. Separator rows are skipped; the
// first retained row becomes header cells. Ragged rows are kept as-is.
func parseTable(lines []string, start int) (*adf.Node, int) {
	var rows [][]string
	i := start

	for i < len(lines) && strings.HasPrefix(lines[i], "|") {
		line := strings.TrimSpace(lines[i])
		if tableSeparatorRe.MatchString(line) {
			i++
			continue
		}

		segments := strings.Split(line, "|")
		var cells []string
		if len(segments) > 2 {
			for _, seg := range segments[1 : len(segments)-1] {
				cells = append(cells, strings.TrimSpace(seg))
			}
		}
		rows = append(rows, cells)
		i++
	}

	if len(rows) == 0 {
		return nil, i
	}

	var tableRows []*adf.Node
	for rowIdx, cells := range rows {
		cellType := adf.NodeTableCell
		if rowIdx == 0 {
			cellType = adf.NodeTableHeader
		}

		var rowContent []*adf.Node
		for _, cell := range cells {
			rowContent = append(rowContent, &adf.Node{
				Type:    cellType,
				Content: []*adf.Node{adf.Paragraph(parseInline(cell)...)},
			})
		}
		tableRows = append(tableRows, &adf.Node{Type: adf.NodeTableRow, Content: rowContent})
	}

	return &adf.Node{Type: adf.NodeTable, Content: tableRows}, i
}

// parseParagraph joins plain lines until a blank line or any other
// block-start pattern, then inline-parses the result.
func parseParagraph(lines []string, start int) (*adf.Node, int) {
	var para []string
	i := start
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" && !startsBlock(lines[i]) {
		para = append(para, lines[i])
		i++
	}
	// Never loop forever on a line that both fails the block dispatch and
	// looks like a block starter here.
	if len(para) == 0 {
		para = append(para, lines[i])
		i++
	}

	return adf.Paragraph(parseInline(strings.Join(para, " "))...), i
}

func startsBlock(line string) bool {
	if strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, ">") ||
		strings.HasPrefix(line, "|") {
		return true
	}
	if isRuleLine(line) {
		return true
	}
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
		return true
	}
	if isBulletLine(line) || orderedItemRe.MatchString(line) {
		return true
	}
	return false
}
