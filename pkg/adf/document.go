package adf

import "github.com/k1LoW/errors"

// ErrInvalidRoot is returned when a document's root node is not of type doc.
var ErrInvalidRoot = errors.New("invalid ADF: root type must be 'doc'")

// ErrTooDeep is returned when node or element nesting exceeds the converters'
// recursion guard.
var ErrTooDeep = errors.New("invalid ADF: node nesting too deep")

// Document is the ADF document envelope. Exactly one doc node exists per
// document and it is always the root.
type Document struct {
	Version int      `json:"version"`
	Type    NodeType `json:"type"`
	Content []*Node  `json:"content"`
}

// NewDocument wraps content nodes in a version-1 doc envelope. It does not
// run the spacing pass; front ends apply AddSpacing exactly once before
// wrapping.
func NewDocument(content []*Node) *Document {
	if content == nil {
		content = []*Node{}
	}
	return &Document{Version: 1, Type: NodeDoc, Content: content}
}

// Validate checks the structural invariant on the envelope.
func (d *Document) Validate() error {
	if d == nil || d.Type != NodeDoc {
		return errors.WithStack(ErrInvalidRoot)
	}
	return nil
}
