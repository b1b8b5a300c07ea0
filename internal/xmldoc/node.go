// Package xmldoc models the XML markup of documentation comments as a tree
// of typed nodes. Parsing is total: malformed or unterminated markup degrades
// to literal text instead of failing.
package xmldoc

import (
	"strings"
)

// NodeKind discriminates the closed set of node variants.
type NodeKind int

const (
	// KindText is a run of literal text.
	KindText NodeKind = iota
	// KindElement is a markup element with optional attributes and children.
	KindElement
	// KindBlankLine marks an empty physical line in the original comment.
	KindBlankLine
)

// Attribute is one name="value" pair in document order.
type Attribute struct {
	Name  string
	Value string
}

// Node is one node of the parsed comment structure. Exactly one variant is
// populated according to Kind.
type Node struct {
	Kind        NodeKind
	Text        string
	Tag         string
	Attributes  []Attribute
	Children    []*Node
	Inline      bool
	SelfClosing bool
}

// NewText constructs a literal text node.
func NewText(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// NewBlankLine constructs a blank line marker node.
func NewBlankLine() *Node {
	return &Node{Kind: KindBlankLine}
}

// blockTags are elements that always start a new physical line.
var blockTags = map[string]struct{}{
	"summary":    {},
	"remarks":    {},
	"returns":    {},
	"value":      {},
	"example":    {},
	"param":      {},
	"typeparam":  {},
	"exception":  {},
	"list":       {},
	"item":       {},
	"listheader": {},
	"para":       {},
	"code":       {},
}

// inlineTags are elements shareable with text on one line; the reflow engine
// treats them as atomic unbreakable units.
var inlineTags = map[string]struct{}{
	"c":            {},
	"see":          {},
	"seealso":      {},
	"paramref":     {},
	"typeparamref": {},
	"b":            {},
	"i":            {},
	"inheritdoc":   {},
	"langword":     {},
}

// IsBlockTag reports whether the tag name belongs to the block-level set.
func IsBlockTag(tagName string) bool {
	_, found := blockTags[strings.ToLower(tagName)]
	return found
}

// IsInlineTag reports whether the tag name belongs to the inline set.
func IsInlineTag(tagName string) bool {
	_, found := inlineTags[strings.ToLower(tagName)]
	return found
}

// IsVerbatim reports whether the element's content is whitespace-significant
// and must never be rewrapped.
func (node *Node) IsVerbatim() bool {
	return node.Kind == KindElement && strings.EqualFold(node.Tag, "code")
}

// HasBlockChildren reports whether any direct child is a block-level element.
func (node *Node) HasBlockChildren() bool {
	for _, child := range node.Children {
		if child.Kind == KindElement && !child.Inline {
			return true
		}
	}
	return false
}

// Attribute returns the value of the named attribute, if present.
func (node *Node) Attribute(name string) (string, bool) {
	for _, attribute := range node.Attributes {
		if attribute.Name == name {
			return attribute.Value, true
		}
	}
	return "", false
}

// OpenTag serializes the element's opening tag, including attributes. A
// self-closing element serializes to its complete <tag/> form.
func (node *Node) OpenTag() string {
	var builder strings.Builder
	builder.WriteString("<")
	builder.WriteString(node.Tag)
	for _, attribute := range node.Attributes {
		builder.WriteString(" ")
		builder.WriteString(attribute.Name)
		builder.WriteString("=\"")
		builder.WriteString(attribute.Value)
		builder.WriteString("\"")
	}
	if node.SelfClosing {
		builder.WriteString("/>")
	} else {
		builder.WriteString(">")
	}
	return builder.String()
}

// CloseTag serializes the element's closing tag; self-closing elements have none.
func (node *Node) CloseTag() string {
	if node.SelfClosing {
		return ""
	}
	return "</" + node.Tag + ">"
}

// String serializes the node and its children on a single line. Blank line
// markers serialize to an empty string.
func (node *Node) String() string {
	switch node.Kind {
	case KindText:
		return node.Text
	case KindBlankLine:
		return ""
	}
	var builder strings.Builder
	builder.WriteString(node.OpenTag())
	for _, child := range node.Children {
		builder.WriteString(child.String())
	}
	builder.WriteString(node.CloseTag())
	return builder.String()
}

// InnerText concatenates the literal text of the node and its descendants.
func (node *Node) InnerText() string {
	if node.Kind == KindText {
		return node.Text
	}
	var builder strings.Builder
	for _, child := range node.Children {
		builder.WriteString(child.InnerText())
	}
	return builder.String()
}
