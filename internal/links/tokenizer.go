// Package links tokenizes LINK references found inside comment lines. A
// reference points at a file path with an optional line range and anchor, or
// at a local anchor within the current file.
package links

import (
	"strconv"
	"strings"
)

// keyword is the case-insensitive marker that introduces a reference.
const keyword = "LINK"

// Reference is one LINK occurrence located in a raw line. SpanStart and
// SpanLength are byte offsets into the scanned line. LineNumber and
// EndLineNumber are zero when absent. A local-anchor reference carries no
// file path.
type Reference struct {
	SpanStart     int
	SpanLength    int
	FilePath      string
	IsLocalAnchor bool
	AnchorName    string
	LineNumber    int
	EndLineNumber int
}

// HasLineRange reports whether the reference names an end line greater than
// its start line.
func (reference Reference) HasLineRange() bool {
	return reference.LineNumber > 0 && reference.EndLineNumber > reference.LineNumber
}

// Parse scans one raw line and returns every LINK reference in order of
// appearance. Matches never overlap. Lines without the keyword substring
// return immediately without structural parsing. Malformed bodies degrade to
// literal path text; Parse never fails.
func Parse(line string) []Reference {
	if !containsKeyword(line) {
		return nil
	}

	var references []Reference
	searchFrom := 0
	for {
		keywordStart := findKeyword(line, searchFrom)
		if keywordStart < 0 {
			break
		}

		bodyStart := keywordStart + len(keyword)
		bodyStart = skipSpaces(line, bodyStart)
		if bodyStart < len(line) && line[bodyStart] == ':' {
			bodyStart++
		}
		bodyStart = skipSpaces(line, bodyStart)

		bodyEnd := len(line)
		if nextKeyword := findKeyword(line, bodyStart); nextKeyword >= 0 {
			bodyEnd = nextKeyword
		}

		reference, consumed, matched := parseBody(line[bodyStart:bodyEnd])
		if !matched {
			searchFrom = keywordStart + len(keyword)
			continue
		}
		reference.SpanStart = keywordStart
		reference.SpanLength = bodyStart + consumed - keywordStart
		references = append(references, reference)
		searchFrom = bodyStart + consumed
	}
	return references
}

// FindAt returns the reference whose span contains the byte offset, if any.
func FindAt(line string, offset int) (Reference, bool) {
	for _, reference := range Parse(line) {
		if offset >= reference.SpanStart && offset < reference.SpanStart+reference.SpanLength {
			return reference, true
		}
		if reference.SpanStart > offset {
			break
		}
	}
	return Reference{}, false
}

// containsKeyword is the fast path: a case-insensitive substring check that
// does no structural work.
func containsKeyword(line string) bool {
	for position := 0; position+len(keyword) <= len(line); position++ {
		if equalsKeywordAt(line, position) {
			return true
		}
	}
	return false
}

// findKeyword locates the next whole-word keyword occurrence at or after the
// given position.
func findKeyword(line string, fromPosition int) int {
	for position := fromPosition; position+len(keyword) <= len(line); position++ {
		if !equalsKeywordAt(line, position) {
			continue
		}
		if position > 0 && isWordCharacter(line[position-1]) {
			continue
		}
		afterKeyword := position + len(keyword)
		if afterKeyword < len(line) && isWordCharacter(line[afterKeyword]) {
			continue
		}
		return position
	}
	return -1
}

func equalsKeywordAt(line string, position int) bool {
	for keywordIndex := 0; keywordIndex < len(keyword); keywordIndex++ {
		character := line[position+keywordIndex]
		if character >= 'a' && character <= 'z' {
			character -= 'a' - 'A'
		}
		if character != keyword[keywordIndex] {
			return false
		}
	}
	return true
}

func isWordCharacter(character byte) bool {
	isLetter := (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
	isDigit := character >= '0' && character <= '9'
	return isLetter || isDigit || character == '_'
}

func skipSpaces(line string, position int) int {
	for position < len(line) && (line[position] == ' ' || line[position] == '\t') {
		position++
	}
	return position
}

// parseBody interprets the reference body grammar
// [prefix]path[:line[-endLine]][#anchor]. The path may embed spaces; it is
// complete once a word ends with a file extension or carries a line/anchor
// suffix. The second result is the number of body bytes the match consumed.
func parseBody(body string) (Reference, int, bool) {
	if body == "" {
		return Reference{}, 0, false
	}

	if body[0] == '#' {
		anchorName, anchorLength := readAnchor(body[1:])
		if anchorLength == 0 {
			return Reference{}, 0, false
		}
		return Reference{IsLocalAnchor: true, AnchorName: anchorName}, 1 + anchorLength, true
	}

	pathBuilder := strings.Builder{}
	position := 0
	for {
		wordEnd := endOfWord(body, position)
		word := body[position:wordEnd]

		hashIndex := indexUnescaped(word, '#')
		colonSearchLimit := len(word)
		if hashIndex >= 0 {
			colonSearchLimit = hashIndex
		}

		if colonIndex, lineNumber, endLineNumber, suffixLength := findLineSuffix(word[:colonSearchLimit]); colonIndex >= 0 {
			pathBuilder.WriteString(unescape(word[:colonIndex]))
			reference := Reference{
				FilePath:      pathBuilder.String(),
				LineNumber:    lineNumber,
				EndLineNumber: endLineNumber,
			}
			consumed := position + colonIndex + suffixLength
			if consumed < len(body) && body[consumed] == '#' {
				anchorName, anchorLength := readAnchor(body[consumed+1:])
				if anchorLength > 0 {
					reference.AnchorName = anchorName
					consumed += 1 + anchorLength
				}
			}
			return reference, consumed, true
		}

		if hashIndex >= 0 {
			pathBuilder.WriteString(unescape(word[:hashIndex]))
			anchorName, anchorLength := readAnchor(word[hashIndex+1:])
			reference := Reference{
				FilePath:   pathBuilder.String(),
				AnchorName: anchorName,
			}
			return reference, position + hashIndex + 1 + anchorLength, true
		}

		pathBuilder.WriteString(unescape(word))

		// A word holding a delimiter that failed suffix parsing stays
		// literal path text and terminates the path.
		wordHoldsDelimiter := indexUnescaped(word, ':') >= 0
		if wordHoldsDelimiter || !pathMayContinue(pathBuilder.String()) {
			return Reference{FilePath: pathBuilder.String()}, wordEnd, true
		}

		nextWordStart := skipSpaces(body, wordEnd)
		if nextWordStart >= len(body) {
			return Reference{FilePath: pathBuilder.String()}, wordEnd, true
		}
		pathBuilder.WriteString(body[wordEnd:nextWordStart])
		position = nextWordStart
	}
}

// findLineSuffix locates the last unescaped ':' in the word that introduces
// a valid ":line[-endLine]" suffix. It returns the colon index, the parsed
// numbers, and the suffix length including the colon, or -1 when no valid
// suffix exists.
func findLineSuffix(word string) (int, int, int, int) {
	bestColon := -1
	var bestLine, bestEndLine, bestLength int
	for wordIndex := 0; wordIndex < len(word); wordIndex++ {
		if word[wordIndex] == '\\' {
			wordIndex++
			continue
		}
		if word[wordIndex] != ':' {
			continue
		}
		lineNumber, endLineNumber, suffixLength, valid := readLineSuffix(word[wordIndex:])
		if valid {
			bestColon = wordIndex
			bestLine, bestEndLine, bestLength = lineNumber, endLineNumber, suffixLength
		}
	}
	return bestColon, bestLine, bestEndLine, bestLength
}

// pathMayContinue reports whether an embedded space may extend the path. A
// path whose final segment already carries a file extension is complete;
// anything after the space is ordinary comment prose.
func pathMayContinue(pathSoFar string) bool {
	if pathSoFar == "" {
		return false
	}
	lastSlash := strings.LastIndexAny(pathSoFar, "/\\")
	lastSegment := pathSoFar[lastSlash+1:]
	dotIndex := strings.LastIndex(lastSegment, ".")
	if dotIndex < 0 || dotIndex == len(lastSegment)-1 {
		return true
	}
	extension := lastSegment[dotIndex+1:]
	if len(extension) > 10 {
		return true
	}
	for extensionIndex := 0; extensionIndex < len(extension); extensionIndex++ {
		if !isWordCharacter(extension[extensionIndex]) {
			return true
		}
	}
	return false
}

// readLineSuffix parses ":line" or ":line-endLine" at the start of the
// input. The end line is honored only when greater than the start line;
// otherwise the range portion is left unconsumed as literal trailing text. A
// missing, non-numeric, or zero start line invalidates the suffix.
func readLineSuffix(input string) (int, int, int, bool) {
	position := 1
	digitsStart := position
	for position < len(input) && input[position] >= '0' && input[position] <= '9' {
		position++
	}
	if position == digitsStart {
		return 0, 0, 0, false
	}
	if position < len(input) && isWordCharacter(input[position]) {
		return 0, 0, 0, false
	}
	lineNumber, conversionError := strconv.Atoi(input[digitsStart:position])
	if conversionError != nil || lineNumber == 0 {
		return 0, 0, 0, false
	}

	if position < len(input) && input[position] == '-' {
		rangeStart := position + 1
		rangeEnd := rangeStart
		for rangeEnd < len(input) && input[rangeEnd] >= '0' && input[rangeEnd] <= '9' {
			rangeEnd++
		}
		if rangeEnd > rangeStart && (rangeEnd >= len(input) || !isWordCharacter(input[rangeEnd])) {
			endLineNumber, rangeError := strconv.Atoi(input[rangeStart:rangeEnd])
			if rangeError == nil && endLineNumber > lineNumber {
				return lineNumber, endLineNumber, rangeEnd, true
			}
		}
	}
	return lineNumber, 0, position, true
}

// readAnchor reads the non-whitespace anchor run at the start of the input.
func readAnchor(input string) (string, int) {
	position := 0
	for position < len(input) && input[position] != ' ' && input[position] != '\t' {
		position++
	}
	return input[:position], position
}

// endOfWord returns the index of the first unescaped whitespace at or after
// the position; a backslash keeps the following character inside the word.
func endOfWord(body string, position int) int {
	for position < len(body) {
		if body[position] == '\\' && position+1 < len(body) {
			position += 2
			continue
		}
		if body[position] == ' ' || body[position] == '\t' {
			break
		}
		position++
	}
	return position
}

// indexUnescaped returns the index of the first unescaped occurrence of the
// character, or -1.
func indexUnescaped(input string, target byte) int {
	for inputIndex := 0; inputIndex < len(input); inputIndex++ {
		if input[inputIndex] == '\\' {
			inputIndex++
			continue
		}
		if input[inputIndex] == target {
			return inputIndex
		}
	}
	return -1
}

// unescape removes backslash escapes, keeping the escaped character literal.
func unescape(input string) string {
	if !strings.Contains(input, "\\") {
		return input
	}
	var builder strings.Builder
	for inputIndex := 0; inputIndex < len(input); inputIndex++ {
		if input[inputIndex] == '\\' && inputIndex+1 < len(input) {
			inputIndex++
		}
		builder.WriteByte(input[inputIndex])
	}
	return builder.String()
}
