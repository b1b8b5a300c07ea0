package reflow

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/temirov/cmt/internal/comment"
	"github.com/temirov/cmt/internal/xmldoc"
)

// Reflow reformats one documentation block under the supplied configuration.
// The second result is false when the formatted output equals the original
// modulo trailing whitespace, signalling that no edit is needed. Reflow is
// idempotent under a fixed configuration and never fails on malformed input.
func Reflow(block comment.Block, config Config) (string, bool) {
	if config.MaxLineLength < 1 || len(block.Lines) == 0 {
		return "", false
	}
	// Block-comment pairs keep their author layout; only marker runs are
	// rewrapped.
	if block.IsBlockPair() {
		return "", false
	}

	indentation := block.Indentation()
	linePrefix := indentation + block.Style.DocMarker + " "
	bareMarker := indentation + block.Style.DocMarker

	parsedNodes := xmldoc.Parse(block)
	formattedLines := renderForest(parsedNodes, linePrefix, bareMarker, config)
	if len(formattedLines) == 0 {
		return "", false
	}

	originalLines := make([]string, 0, len(block.Lines))
	for _, rawLine := range block.Lines {
		originalLines = append(originalLines, strings.TrimRight(rawLine, " \t"))
	}
	formattedText := strings.Join(formattedLines, "\n")
	if formattedText == strings.Join(originalLines, "\n") {
		return "", false
	}
	return formattedText, true
}

// renderForest renders a node sequence into physical comment lines. Runs of
// text and inline elements are gathered into one flow and wrapped together;
// block elements and blank lines interrupt the flow.
func renderForest(nodes []*xmldoc.Node, linePrefix string, bareMarker string, config Config) []string {
	var renderedLines []string
	var pendingFlow []*xmldoc.Node

	flushFlow := func() {
		if len(pendingFlow) == 0 {
			return
		}
		renderedLines = append(renderedLines, wrapFlow(pendingFlow, linePrefix, config.MaxLineLength)...)
		pendingFlow = nil
	}

	for _, node := range nodes {
		switch {
		case node.Kind == xmldoc.KindBlankLine:
			flushFlow()
			if config.PreserveBlankLines {
				renderedLines = append(renderedLines, bareMarker)
			}
		case node.Kind == xmldoc.KindElement && !node.Inline:
			flushFlow()
			renderedLines = append(renderedLines, renderBlockElement(node, linePrefix, bareMarker, config)...)
		default:
			pendingFlow = append(pendingFlow, node)
		}
	}
	flushFlow()

	return renderedLines
}

// renderBlockElement renders one block-level element, choosing between the
// compact single-line form and the expanded multi-line form.
func renderBlockElement(element *xmldoc.Node, linePrefix string, bareMarker string, config Config) []string {
	if element.IsVerbatim() {
		return renderVerbatim(element, linePrefix, bareMarker)
	}
	if element.SelfClosing {
		return []string{linePrefix + element.OpenTag()}
	}

	blanksBlockCompaction := config.PreserveBlankLines && containsBlankLine(element.Children)
	if config.UseCompactStyle && !element.HasBlockChildren() && !blanksBlockCompaction {
		compactLine := linePrefix + singleLineOf(element)
		if len(compactLine) <= config.MaxLineLength {
			return []string{compactLine}
		}
	}

	expandedLines := []string{linePrefix + element.OpenTag()}
	expandedLines = append(expandedLines, renderForest(element.Children, linePrefix, bareMarker, config)...)
	expandedLines = append(expandedLines, linePrefix+element.CloseTag())
	return expandedLines
}

// renderVerbatim copies code content line-for-line, always expanded and
// never rewrapped regardless of length.
func renderVerbatim(element *xmldoc.Node, linePrefix string, bareMarker string) []string {
	verbatimLines := []string{linePrefix + element.OpenTag()}
	for _, contentLine := range verbatimContentLines(element) {
		if contentLine == "" {
			verbatimLines = append(verbatimLines, bareMarker)
			continue
		}
		verbatimLines = append(verbatimLines, linePrefix+contentLine)
	}
	verbatimLines = append(verbatimLines, linePrefix+element.CloseTag())
	return verbatimLines
}

// verbatimContentLines splits the element's literal content into physical
// lines, dropping the empty first and last entries produced by the tags
// sitting on their own lines.
func verbatimContentLines(element *xmldoc.Node) []string {
	contentLines := strings.Split(element.InnerText(), "\n")
	for len(contentLines) > 0 && strings.TrimSpace(contentLines[0]) == "" {
		contentLines = contentLines[1:]
	}
	for len(contentLines) > 0 && strings.TrimSpace(contentLines[len(contentLines)-1]) == "" {
		contentLines = contentLines[:len(contentLines)-1]
	}
	trimmed := make([]string, 0, len(contentLines))
	for _, contentLine := range contentLines {
		trimmed = append(trimmed, strings.TrimRight(contentLine, " \t"))
	}
	return trimmed
}

// wrapFlow greedily wraps a run of text and inline elements. Words and whole
// inline-tag serializations are indivisible tokens; a token is appended while
// the line plus one separating space still fits. A token that alone exceeds
// the limit is emitted on its own line, the only permitted overflow.
func wrapFlow(flowNodes []*xmldoc.Node, linePrefix string, maxLineLength int) []string {
	flowTokens := tokensOf(flowNodes)
	if len(flowTokens) == 0 {
		return nil
	}

	var wrappedLines []string
	currentLine := linePrefix
	lineHasContent := false
	for _, flowToken := range flowTokens {
		if !lineHasContent {
			currentLine += flowToken
			lineHasContent = true
			continue
		}
		if len(currentLine)+1+len(flowToken) <= maxLineLength {
			currentLine += " " + flowToken
			continue
		}
		wrappedLines = append(wrappedLines, currentLine)
		currentLine = linePrefix + flowToken
	}
	if lineHasContent {
		wrappedLines = append(wrappedLines, currentLine)
	}
	return wrappedLines
}

// containsBlankLine reports whether any direct child is a blank line marker.
func containsBlankLine(nodes []*xmldoc.Node) bool {
	for _, node := range nodes {
		if node.Kind == xmldoc.KindBlankLine {
			return true
		}
	}
	return false
}

// tokensOf flattens flow nodes into indivisible wrap tokens. Text touching an
// inline element without intervening whitespace stays fused to the element's
// serialization, so punctuation such as a trailing comma never drifts away
// from the markup it follows.
func tokensOf(flowNodes []*xmldoc.Node) []string {
	var flowTokens []string
	fuseNext := false

	appendFlowToken := func(tokenText string, fused bool) {
		if fused && len(flowTokens) > 0 {
			flowTokens[len(flowTokens)-1] += tokenText
			return
		}
		flowTokens = append(flowTokens, tokenText)
	}

	for _, flowNode := range flowNodes {
		if flowNode.Kind == xmldoc.KindElement {
			appendFlowToken(singleLineOf(flowNode), fuseNext)
			fuseNext = true
			continue
		}
		textFields := strings.Fields(flowNode.Text)
		if len(textFields) == 0 {
			if flowNode.Text != "" {
				fuseNext = false
			}
			continue
		}
		for fieldIndex, textField := range textFields {
			appendFlowToken(textField, fieldIndex == 0 && fuseNext && !hasLeadingSpace(flowNode.Text))
		}
		fuseNext = !hasTrailingSpace(flowNode.Text)
	}
	return flowTokens
}

// hasLeadingSpace reports whether the text begins with whitespace.
func hasLeadingSpace(text string) bool {
	firstRune, _ := utf8.DecodeRuneInString(text)
	return unicode.IsSpace(firstRune)
}

// hasTrailingSpace reports whether the text ends with whitespace.
func hasTrailingSpace(text string) bool {
	lastRune, _ := utf8.DecodeLastRuneInString(text)
	return unicode.IsSpace(lastRune)
}

// singleLineOf serializes an element onto one line, collapsing the newline
// bookkeeping inside its text content to single spaces.
func singleLineOf(element *xmldoc.Node) string {
	if element.SelfClosing {
		return element.OpenTag()
	}
	var builder strings.Builder
	builder.WriteString(element.OpenTag())
	builder.WriteString(strings.Join(tokensOf(element.Children), " "))
	builder.WriteString(element.CloseTag())
	return builder.String()
}
