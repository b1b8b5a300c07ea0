// Package tags tokenizes task-tag annotations such as TODO and HACK at the
// start of comment content, together with their bracketed owner, issue, and
// due-date metadata.
package tags

import (
	"strings"
	"time"
)

// dueDateLayout is the only accepted due-date form.
const dueDateLayout = "2006-01-02"

// DefaultKnownTags are the built-in tag keywords recognized without
// configuration.
var DefaultKnownTags = []string{"TODO", "HACK", "FIXME", "BUG", "NOTE", "XXX", "UNDONE"}

// Match is one recognized tag occurrence. SpanStart and SpanLength are byte
// offsets into the scanned line covering the tag name, its metadata section,
// and the trailing colon when present. Owner is empty, Issue zero, and
// DueDate the zero time when the corresponding metadata is absent.
type Match struct {
	TagName    string
	SpanStart  int
	SpanLength int
	Owner      string
	Issue      int
	DueDate    time.Time
}

// HasDueDate reports whether due-date metadata was recognized.
func (match Match) HasDueDate() bool {
	return !match.DueDate.IsZero()
}

// commentPrefixes are the marker forms stripped before tag recognition, in
// longest-first order.
var commentPrefixes = []string{"<!--", "///", "'''", "/**", "/*", "//", "*", "#", "'"}

// Parse scans one raw line for a tag annotation. A match is a known or
// custom tag name appearing as a whole word at the start of the comment
// content, optionally followed by a (...) or [...] metadata section and an
// optional colon. Unrecognized metadata tokens, including invalid calendar
// dates, are ignored rather than treated as errors.
func Parse(line string, knownTags []string, customTags []string) []Match {
	contentStart := commentContentStart(line)
	if contentStart < 0 {
		return nil
	}

	tagName, tagLength := matchTagName(line[contentStart:], knownTags, customTags)
	if tagLength == 0 {
		return nil
	}

	match := Match{
		TagName:   tagName,
		SpanStart: contentStart,
	}
	position := contentStart + tagLength

	if metadataSection, sectionLength := readMetadataSection(line[position:]); sectionLength > 0 {
		applyMetadata(&match, metadataSection)
		position += sectionLength
	}
	if position < len(line) && line[position] == ':' {
		position++
	}
	match.SpanLength = position - match.SpanStart

	return []Match{match}
}

// commentContentStart returns the offset of the first content character
// after leading whitespace and comment markers, or -1 for an empty line.
func commentContentStart(line string) int {
	position := len(line) - len(strings.TrimLeft(line, " \t"))
	for {
		advanced := false
		for _, markerPrefix := range commentPrefixes {
			if strings.HasPrefix(line[position:], markerPrefix) {
				position += len(markerPrefix)
				advanced = true
				break
			}
		}
		for position < len(line) && (line[position] == ' ' || line[position] == '\t') {
			position++
			advanced = true
		}
		if !advanced {
			break
		}
	}
	if position >= len(line) {
		return -1
	}
	return position
}

// matchTagName compares the content head against the known and custom tag
// lists case-insensitively and returns the canonical tag spelling with the
// matched length. The character after the tag must not extend the word.
func matchTagName(content string, knownTags []string, customTags []string) (string, int) {
	for _, candidateList := range [][]string{knownTags, customTags} {
		for _, candidateTag := range candidateList {
			if candidateTag == "" || len(content) < len(candidateTag) {
				continue
			}
			if !strings.EqualFold(content[:len(candidateTag)], candidateTag) {
				continue
			}
			if len(content) > len(candidateTag) && isTagWordCharacter(content[len(candidateTag)]) {
				continue
			}
			return candidateTag, len(candidateTag)
		}
	}
	return "", 0
}

func isTagWordCharacter(character byte) bool {
	isLetter := (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
	isDigit := character >= '0' && character <= '9'
	return isLetter || isDigit || character == '_'
}

// readMetadataSection reads a balanced (...) or [...] section at the start
// of the input, allowing whitespace before the opening bracket. It returns
// the inner text and the number of bytes consumed including both brackets;
// an unterminated section yields no metadata.
func readMetadataSection(input string) (string, int) {
	position := 0
	for position < len(input) && (input[position] == ' ' || input[position] == '\t') {
		position++
	}
	if position >= len(input) {
		return "", 0
	}
	var closingBracket byte
	switch input[position] {
	case '(':
		closingBracket = ')'
	case '[':
		closingBracket = ']'
	default:
		return "", 0
	}
	sectionStart := position + 1
	closingIndex := strings.IndexByte(input[sectionStart:], closingBracket)
	if closingIndex < 0 {
		return "", 0
	}
	return input[sectionStart : sectionStart+closingIndex], sectionStart + closingIndex + 1
}

// applyMetadata splits the metadata section on whitespace, commas, and
// semicolons and records the first owner, issue, and due-date token found.
func applyMetadata(match *Match, metadataSection string) {
	metadataTokens := strings.FieldsFunc(metadataSection, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ';'
	})
	for _, metadataToken := range metadataTokens {
		switch {
		case strings.HasPrefix(metadataToken, "@") && len(metadataToken) > 1:
			if match.Owner == "" {
				match.Owner = metadataToken[1:]
			}
		case strings.HasPrefix(metadataToken, "#"):
			if match.Issue == 0 {
				if issueNumber, valid := parseIssueNumber(metadataToken[1:]); valid {
					match.Issue = issueNumber
				}
			}
		default:
			if match.DueDate.IsZero() {
				if dueDate, valid := parseDueDate(metadataToken); valid {
					match.DueDate = dueDate
				}
			}
		}
	}
}

// parseIssueNumber accepts a non-empty all-digit token.
func parseIssueNumber(digits string) (int, bool) {
	if digits == "" {
		return 0, false
	}
	issueNumber := 0
	for digitIndex := 0; digitIndex < len(digits); digitIndex++ {
		character := digits[digitIndex]
		if character < '0' || character > '9' {
			return 0, false
		}
		issueNumber = issueNumber*10 + int(character-'0')
	}
	return issueNumber, true
}

// parseDueDate accepts an exact yyyy-MM-dd token naming a valid calendar
// date. Day 32 and the like are unrecognized tokens, not errors.
func parseDueDate(token string) (time.Time, bool) {
	if len(token) != len(dueDateLayout) {
		return time.Time{}, false
	}
	parsedDate, parseError := time.Parse(dueDateLayout, token)
	if parseError != nil {
		return time.Time{}, false
	}
	return parsedDate, true
}
