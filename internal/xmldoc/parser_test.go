package xmldoc_test

import (
	"strings"
	"testing"

	"github.com/temirov/cmt/internal/xmldoc"
)

func TestParseLines(t *testing.T) {
	testCases := []struct {
		name        string
		lines       []string
		verify      func(t *testing.T, nodes []*xmldoc.Node)
	}{
		{
			name:  "single summary element",
			lines: []string{"<summary>Gets the name.</summary>"},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 {
					t.Fatalf("expected one node, got %d", len(nodes))
				}
				element := nodes[0]
				if element.Kind != xmldoc.KindElement || element.Tag != "summary" {
					t.Fatalf("expected summary element, got %+v", element)
				}
				if element.Inline {
					t.Fatal("summary must be block-level")
				}
				if element.InnerText() != "Gets the name." {
					t.Fatalf("unexpected inner text %q", element.InnerText())
				}
			},
		},
		{
			name: "multi line element with inline child",
			lines: []string{
				"<summary>",
				"Uses <see cref=\"Other\"/> for details.",
				"</summary>",
			},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 {
					t.Fatalf("expected one node, got %d", len(nodes))
				}
				element := nodes[0]
				var seeNode *xmldoc.Node
				for _, child := range element.Children {
					if child.Kind == xmldoc.KindElement && child.Tag == "see" {
						seeNode = child
					}
				}
				if seeNode == nil {
					t.Fatal("expected a see child element")
				}
				if !seeNode.Inline || !seeNode.SelfClosing {
					t.Fatalf("see must be inline and self-closing: %+v", seeNode)
				}
				if value, found := seeNode.Attribute("cref"); !found || value != "Other" {
					t.Fatalf("expected cref=Other, got %q found=%v", value, found)
				}
			},
		},
		{
			name: "param with attribute",
			lines: []string{
				"<param name=\"count\">The number of items.</param>",
			},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				element := nodes[0]
				if element.Tag != "param" || element.Inline {
					t.Fatalf("expected block param element, got %+v", element)
				}
				if value, _ := element.Attribute("name"); value != "count" {
					t.Fatalf("expected name=count, got %q", value)
				}
				if element.OpenTag() != "<param name=\"count\">" {
					t.Fatalf("unexpected open tag %q", element.OpenTag())
				}
			},
		},
		{
			name: "blank line surfaces as node",
			lines: []string{
				"First paragraph.",
				"",
				"Second paragraph.",
			},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 3 {
					t.Fatalf("expected three nodes, got %d", len(nodes))
				}
				if nodes[1].Kind != xmldoc.KindBlankLine {
					t.Fatalf("expected blank line node, got %+v", nodes[1])
				}
			},
		},
		{
			name:  "unterminated tag degrades to text",
			lines: []string{"<summary>left open"},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 {
					t.Fatalf("expected one node, got %d", len(nodes))
				}
				if nodes[0].Kind != xmldoc.KindText {
					t.Fatalf("expected text node, got %+v", nodes[0])
				}
				if !strings.Contains(nodes[0].Text, "<summary>") {
					t.Fatalf("expected literal open tag in %q", nodes[0].Text)
				}
			},
		},
		{
			name:  "mismatched close degrades to text",
			lines: []string{"<summary>text</returns></summary>"},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 {
					t.Fatalf("expected one node, got %d", len(nodes))
				}
				element := nodes[0]
				if element.Kind != xmldoc.KindElement || element.Tag != "summary" {
					t.Fatalf("expected summary element, got %+v", element)
				}
				if !strings.Contains(element.InnerText(), "</returns>") {
					t.Fatalf("expected literal close tag inside summary, got %q", element.InnerText())
				}
			},
		},
		{
			name:  "bare angle bracket is literal",
			lines: []string{"a < b and c > d"},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 || nodes[0].Kind != xmldoc.KindText {
					t.Fatalf("expected single text node, got %+v", nodes)
				}
				if nodes[0].Text != "a < b and c > d" {
					t.Fatalf("unexpected text %q", nodes[0].Text)
				}
			},
		},
		{
			name: "code content is verbatim",
			lines: []string{
				"<code>",
				"var x = new List<int>();",
				"  indented();",
				"</code>",
			},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				if len(nodes) != 1 {
					t.Fatalf("expected one node, got %d", len(nodes))
				}
				element := nodes[0]
				if !element.IsVerbatim() {
					t.Fatalf("expected verbatim code element, got %+v", element)
				}
				innerText := element.InnerText()
				if !strings.Contains(innerText, "List<int>") {
					t.Fatalf("generic markup must stay literal, got %q", innerText)
				}
				if !strings.Contains(innerText, "  indented();") {
					t.Fatalf("indentation must be preserved, got %q", innerText)
				}
			},
		},
		{
			name: "list structure",
			lines: []string{
				"<list type=\"bullet\">",
				"<item>First</item>",
				"<item>Second</item>",
				"</list>",
			},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				element := nodes[0]
				if element.Tag != "list" {
					t.Fatalf("expected list element, got %+v", element)
				}
				if !element.HasBlockChildren() {
					t.Fatal("list items must be block-level children")
				}
				itemCount := 0
				for _, child := range element.Children {
					if child.Kind == xmldoc.KindElement && child.Tag == "item" {
						itemCount++
					}
				}
				if itemCount != 2 {
					t.Fatalf("expected two items, got %d", itemCount)
				}
			},
		},
		{
			name:  "unknown tag falls back to inline",
			lines: []string{"uses <custom>thing</custom> here"},
			verify: func(t *testing.T, nodes []*xmldoc.Node) {
				var customNode *xmldoc.Node
				for _, node := range nodes {
					if node.Kind == xmldoc.KindElement && node.Tag == "custom" {
						customNode = node
					}
				}
				if customNode == nil {
					t.Fatal("expected custom element")
				}
				if !customNode.Inline {
					t.Fatal("unknown tags must fall back to inline")
				}
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			nodes := xmldoc.ParseLines(testCase.lines)
			testCase.verify(t, nodes)
		})
	}
}

func TestNodeSerialization(t *testing.T) {
	nodes := xmldoc.ParseLines([]string{"<summary>Gets the <c>Name</c> value.</summary>"})
	if len(nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(nodes))
	}
	serialized := nodes[0].String()
	expected := "<summary>Gets the <c>Name</c> value.</summary>"
	if serialized != expected {
		t.Fatalf("expected %q, got %q", expected, serialized)
	}
}

func TestParseNeverFails(t *testing.T) {
	hostileInputs := [][]string{
		{"<"},
		{"<>"},
		{"</>"},
		{"<summary", "broken across lines>"},
		{"<a b=>"},
		{"<a b=\"unterminated>"},
		{"</never-opened>"},
		{"<x><y><z>"},
		{""},
	}
	for _, hostileInput := range hostileInputs {
		nodes := xmldoc.ParseLines(hostileInput)
		_ = nodes
	}
}
