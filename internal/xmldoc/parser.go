package xmldoc

import (
	"strings"

	"github.com/temirov/cmt/internal/comment"
)

// tokenKind discriminates scanner tokens.
type tokenKind int

const (
	tokenText tokenKind = iota
	tokenOpen
	tokenSelfClose
	tokenClose
	tokenBlank
	tokenNewline
)

// token is one lexical unit of the marker-stripped comment stream.
type token struct {
	kind       tokenKind
	text       string
	tagName    string
	attributes []Attribute
	raw        string
}

// Parse strips the comment markers from the block and parses the resulting
// logical stream into a node sequence. Blank physical lines surface as
// BlankLine nodes. Markup that cannot be parsed, including unterminated and
// mismatched tags, degrades to literal text; Parse never fails.
func Parse(block comment.Block) []*Node {
	return ParseLines(block.ContentLines())
}

// ParseLines parses already marker-stripped content lines.
func ParseLines(contentLines []string) []*Node {
	tokens := tokenize(contentLines)
	return buildTree(tokens)
}

// tokenize scans content lines into tokens. Inside a code element the text
// is captured verbatim without tag recognition until the closing tag.
func tokenize(contentLines []string) []token {
	var tokens []token
	verbatimDepth := 0

	for lineIndex, contentLine := range contentLines {
		if lineIndex > 0 {
			tokens = append(tokens, token{kind: tokenNewline})
		}
		if strings.TrimSpace(contentLine) == "" && verbatimDepth == 0 {
			tokens = append(tokens, token{kind: tokenBlank})
			continue
		}

		position := 0
		textStart := 0
		flushText := func(end int) {
			if end > textStart {
				tokens = append(tokens, token{kind: tokenText, text: contentLine[textStart:end]})
			}
		}
		for position < len(contentLine) {
			if contentLine[position] != '<' {
				position++
				continue
			}
			parsedToken, consumed, parsed := scanTag(contentLine[position:])
			if !parsed {
				position++
				continue
			}
			if verbatimDepth > 0 {
				// Only the matching close tag ends verbatim capture; any
				// other markup stays literal.
				if parsedToken.kind == tokenClose && strings.EqualFold(parsedToken.tagName, "code") {
					verbatimDepth--
				} else if parsedToken.kind == tokenOpen && strings.EqualFold(parsedToken.tagName, "code") {
					verbatimDepth++
				}
				if verbatimDepth > 0 {
					position += consumed
					continue
				}
			}
			flushText(position)
			tokens = append(tokens, parsedToken)
			position += consumed
			textStart = position
			if parsedToken.kind == tokenOpen && strings.EqualFold(parsedToken.tagName, "code") {
				verbatimDepth++
			}
		}
		flushText(len(contentLine))
	}

	return tokens
}

// scanTag attempts to read a complete tag at the start of the input. It
// returns the token, the number of bytes consumed, and whether a well-formed
// tag was found.
func scanTag(input string) (token, int, bool) {
	if len(input) < 3 || input[0] != '<' {
		return token{}, 0, false
	}
	position := 1
	closing := false
	if input[position] == '/' {
		closing = true
		position++
	}

	nameStart := position
	for position < len(input) && isNameCharacter(input[position], position == nameStart) {
		position++
	}
	if position == nameStart {
		return token{}, 0, false
	}
	tagName := input[nameStart:position]

	if closing {
		if position >= len(input) || input[position] != '>' {
			return token{}, 0, false
		}
		position++
		return token{kind: tokenClose, tagName: tagName, raw: input[:position]}, position, true
	}

	var attributes []Attribute
	for {
		for position < len(input) && (input[position] == ' ' || input[position] == '\t') {
			position++
		}
		if position >= len(input) {
			return token{}, 0, false
		}
		if input[position] == '>' {
			position++
			return token{kind: tokenOpen, tagName: tagName, attributes: attributes, raw: input[:position]}, position, true
		}
		if input[position] == '/' {
			if position+1 < len(input) && input[position+1] == '>' {
				position += 2
				return token{kind: tokenSelfClose, tagName: tagName, attributes: attributes, raw: input[:position]}, position, true
			}
			return token{}, 0, false
		}

		attribute, attributeLength, attributeParsed := scanAttribute(input[position:])
		if !attributeParsed {
			return token{}, 0, false
		}
		attributes = append(attributes, attribute)
		position += attributeLength
	}
}

// scanAttribute reads one name="value" pair at the start of the input.
func scanAttribute(input string) (Attribute, int, bool) {
	position := 0
	for position < len(input) && isNameCharacter(input[position], position == 0) {
		position++
	}
	if position == 0 {
		return Attribute{}, 0, false
	}
	attributeName := input[:position]
	if position >= len(input) || input[position] != '=' {
		return Attribute{}, 0, false
	}
	position++
	if position >= len(input) || (input[position] != '"' && input[position] != '\'') {
		return Attribute{}, 0, false
	}
	quoteCharacter := input[position]
	position++
	valueStart := position
	for position < len(input) && input[position] != quoteCharacter {
		position++
	}
	if position >= len(input) {
		return Attribute{}, 0, false
	}
	attributeValue := input[valueStart:position]
	position++
	return Attribute{Name: attributeName, Value: attributeValue}, position, true
}

// isNameCharacter reports whether the byte may appear in a tag or attribute
// name at the given position.
func isNameCharacter(character byte, isFirst bool) bool {
	isLetter := (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
	if isFirst {
		return isLetter
	}
	isDigit := character >= '0' && character <= '9'
	return isLetter || isDigit || character == '-' || character == '_' || character == '.' || character == ':'
}

// buildTree assembles tokens into a node forest using an element stack.
// A close tag that does not match the innermost open element degrades to
// literal text; elements still open at end of stream degrade their opening
// markup to literal text while keeping their children in place.
func buildTree(tokens []token) []*Node {
	rootNode := &Node{Kind: KindElement}
	stack := []*Node{rootNode}
	rawOpenTags := []string{""}

	appendChild := func(child *Node) {
		parentNode := stack[len(stack)-1]
		parentNode.Children = append(parentNode.Children, child)
	}
	appendText := func(content string) {
		parentNode := stack[len(stack)-1]
		childCount := len(parentNode.Children)
		if childCount > 0 && parentNode.Children[childCount-1].Kind == KindText {
			parentNode.Children[childCount-1].Text += content
			return
		}
		appendChild(NewText(content))
	}

	insideVerbatim := func() bool {
		topNode := stack[len(stack)-1]
		return topNode.Kind == KindElement && topNode.IsVerbatim()
	}

	for _, currentToken := range tokens {
		switch currentToken.kind {
		case tokenText:
			appendText(currentToken.text)
		case tokenNewline:
			if len(stack[len(stack)-1].Children) > 0 || insideVerbatim() {
				appendText("\n")
			}
		case tokenBlank:
			appendChild(NewBlankLine())
		case tokenSelfClose:
			appendChild(&Node{
				Kind:        KindElement,
				Tag:         currentToken.tagName,
				Attributes:  currentToken.attributes,
				Inline:      classifyInline(currentToken.tagName),
				SelfClosing: true,
			})
		case tokenOpen:
			elementNode := &Node{
				Kind:       KindElement,
				Tag:        currentToken.tagName,
				Attributes: currentToken.attributes,
				Inline:     classifyInline(currentToken.tagName),
			}
			appendChild(elementNode)
			stack = append(stack, elementNode)
			rawOpenTags = append(rawOpenTags, currentToken.raw)
		case tokenClose:
			topNode := stack[len(stack)-1]
			if len(stack) > 1 && strings.EqualFold(topNode.Tag, currentToken.tagName) {
				stack = stack[:len(stack)-1]
				rawOpenTags = rawOpenTags[:len(rawOpenTags)-1]
			} else {
				appendText(currentToken.raw)
			}
		}
	}

	// Unwind elements left open at end of stream.
	for len(stack) > 1 {
		danglingNode := stack[len(stack)-1]
		danglingRaw := rawOpenTags[len(rawOpenTags)-1]
		stack = stack[:len(stack)-1]
		rawOpenTags = rawOpenTags[:len(rawOpenTags)-1]
		parentNode := stack[len(stack)-1]
		degradeDangling(parentNode, danglingNode, danglingRaw)
	}

	return trimForest(rootNode.Children)
}

// degradeDangling replaces an unterminated element in its parent with the
// literal open-tag text followed by the element's children.
func degradeDangling(parentNode *Node, danglingNode *Node, rawOpenTag string) {
	for childIndex, child := range parentNode.Children {
		if child != danglingNode {
			continue
		}
		replacement := make([]*Node, 0, len(parentNode.Children)+len(danglingNode.Children))
		replacement = append(replacement, parentNode.Children[:childIndex]...)
		replacement = append(replacement, NewText(rawOpenTag))
		replacement = append(replacement, danglingNode.Children...)
		replacement = append(replacement, parentNode.Children[childIndex+1:]...)
		parentNode.Children = replacement
		return
	}
}

// classifyInline decides whether a tag shares a line with surrounding text.
// Known block tags force a new line; everything else, including unknown
// tags, is treated as inline.
func classifyInline(tagName string) bool {
	return !IsBlockTag(tagName)
}

// trimForest drops whitespace-only text nodes produced by newline
// bookkeeping at the top level and merges adjacent text nodes left behind by
// dangling-markup degradation.
func trimForest(nodes []*Node) []*Node {
	trimmed := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Kind == KindText && strings.TrimSpace(node.Text) == "" {
			continue
		}
		lastIndex := len(trimmed) - 1
		if node.Kind == KindText && lastIndex >= 0 && trimmed[lastIndex].Kind == KindText {
			trimmed[lastIndex] = NewText(trimmed[lastIndex].Text + node.Text)
			continue
		}
		trimmed = append(trimmed, node)
	}
	return trimmed
}
