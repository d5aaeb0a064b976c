package htmladf

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/adfmd/adfmd/pkg/adf"
	"golang.org/x/net/html"
)

// convertTable maps a table element to an ADF table. thead rows come first
// as header cells, then tbody rows; when markup has neither, every tr is
// scanned directly.
func convertTable(el *html.Node) (*adf.Node, error) {
	doc := goquery.NewDocumentFromNode(el)
	var rows []*adf.Node
	var walkErr error

	doc.Find("thead tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		var cells []*adf.Node
		tr.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
			cell, err := tableCell(adf.NodeTableHeader, th.Nodes[0])
			if err != nil {
				walkErr = err
				return false
			}
			cells = append(cells, cell)
			return true
		})
		if walkErr != nil {
			return false
		}
		if len(cells) > 0 {
			rows = append(rows, &adf.Node{Type: adf.NodeTableRow, Content: cells})
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	bodyRows := func(selector string) bool {
		doc.Find(selector).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			row, err := bodyRow(tr)
			if err != nil {
				walkErr = err
				return false
			}
			if row != nil {
				rows = append(rows, row)
			}
			return true
		})
		return walkErr == nil
	}

	if !bodyRows("tbody tr") {
		return nil, walkErr
	}
	if len(rows) == 0 && !bodyRows("tr") {
		return nil, walkErr
	}

	return &adf.Node{Type: adf.NodeTable, Content: rows}, nil
}

func bodyRow(tr *goquery.Selection) (*adf.Node, error) {
	var cells []*adf.Node
	var walkErr error

	tr.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		cellType := adf.NodeTableCell
		if cell.Nodes[0].Data == "th" {
			cellType = adf.NodeTableHeader
		}
		node, err := tableCell(cellType, cell.Nodes[0])
		if err != nil {
			walkErr = err
			return false
		}
		cells = append(cells, node)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(cells) == 0 {
		return nil, nil
	}
	return &adf.Node{Type: adf.NodeTableRow, Content: cells}, nil
}

func tableCell(cellType adf.NodeType, el *html.Node) (*adf.Node, error) {
	content, err := extractInline(el)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		content = []*adf.Node{adf.Text("")}
	}
	return &adf.Node{
		Type:    cellType,
		Content: []*adf.Node{adf.Paragraph(content...)},
	}, nil
}

// convertWidgetTable projects the tabular custom widget into the same table
// shape as ordinary markup. The widget stores its rows as HTML-entity-escaped
// JSON in a data attribute, sometimes wrapped in quotes with doubled
// escaping. Malformed or absent data yields no node, never an error.
func convertWidgetTable(el *html.Node) *adf.Node {
	raw := attr(el, "data-data")
	if raw == "" {
		return nil
	}

	jsonStr := strings.TrimSpace(html.UnescapeString(raw))
	if strings.HasPrefix(jsonStr, `"`) && strings.HasSuffix(jsonStr, `"`) && len(jsonStr) >= 2 {
		jsonStr = jsonStr[1 : len(jsonStr)-1]
		jsonStr = strings.ReplaceAll(jsonStr, `\"`, `"`)
		jsonStr = strings.ReplaceAll(jsonStr, `\\`, `\`)
	}

	var rowsData []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &rowsData); err != nil {
		return nil
	}
	if len(rowsData) == 0 || len(rowsData[0]) == 0 {
		return nil
	}

	// Column order follows the first row's key order in the JSON document,
	// which a Go map does not preserve.
	headers, err := firstObjectKeys(jsonStr)
	if err != nil || len(headers) == 0 {
		return nil
	}

	var tableRows []*adf.Node

	var headerCells []*adf.Node
	for _, header := range headers {
		headerCells = append(headerCells, textCell(adf.NodeTableHeader, header))
	}
	tableRows = append(tableRows, &adf.Node{Type: adf.NodeTableRow, Content: headerCells})

	for _, row := range rowsData {
		var cells []*adf.Node
		for _, header := range headers {
			cells = append(cells, textCell(adf.NodeTableCell, cellString(row[header])))
		}
		tableRows = append(tableRows, &adf.Node{Type: adf.NodeTableRow, Content: cells})
	}

	return &adf.Node{Type: adf.NodeTable, Content: tableRows}
}

func textCell(cellType adf.NodeType, text string) *adf.Node {
	return &adf.Node{
		Type:    cellType,
		Content: []*adf.Node{adf.Paragraph(adf.Text(text))},
	}
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// firstObjectKeys token-scans a JSON array's first object and returns its
// keys in document order.
func firstObjectKeys(jsonStr string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))

	if _, err := dec.Token(); err != nil { // opening '['
		return nil, err
	}
	if _, err := dec.Token(); err != nil { // opening '{'
		return nil, err
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in widget table data", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// skipValue consumes one JSON value, descending through nested containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
