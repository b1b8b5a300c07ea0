package comment

import (
	"strings"
)

// blockForm identifies which delimiter form a run of documentation lines uses.
type blockForm int

const (
	formNone blockForm = iota
	formLine
	formBlockPair
)

// Block is one maximal contiguous run of documentation comment lines.
// StartLine and EndLine are zero-based inclusive indexes into the scanned
// line slice. Lines holds the raw, unmodified source lines of the run.
// Blocks are produced by scanning and read-only thereafter; edits to the
// underlying document require a fresh scan.
type Block struct {
	StartLine int
	EndLine   int
	Lines     []string
	Style     Style
}

// LineCount returns the number of physical lines the block spans.
func (block Block) LineCount() int {
	return len(block.Lines)
}

// ContainsLine reports whether the zero-based line index lies inside the block.
func (block Block) ContainsLine(lineIndex int) bool {
	return lineIndex >= block.StartLine && lineIndex <= block.EndLine
}

// FindAllBlocks scans the line sequence in a single forward pass and returns
// every documentation comment block in order of appearance. A trimmed line
// participates when it starts with the style's documentation marker or lies
// inside a documentation block-comment pair; machine directives such as
// "//go:build" or a "#!" shebang do not participate. Any non-participating
// line terminates the current run, and a change of delimiter form also closes
// the run, so each maximal contiguous run becomes its own block. The scan
// never fails; an unusable style yields an empty result.
func FindAllBlocks(lines []string, style Style) []Block {
	if style.DocMarker == "" && !style.HasBlockForm() {
		return nil
	}

	var blocks []Block
	currentStart := -1
	currentForm := formNone
	insidePair := false

	closeCurrent := func(endLine int) {
		if currentStart < 0 {
			return
		}
		blocks = append(blocks, Block{
			StartLine: currentStart,
			EndLine:   endLine,
			Lines:     append([]string(nil), lines[currentStart:endLine+1]...),
			Style:     style,
		})
		currentStart = -1
		currentForm = formNone
	}

	for lineIndex, rawLine := range lines {
		trimmedLine := strings.TrimSpace(rawLine)

		if insidePair {
			if strings.Contains(trimmedLine, style.BlockClose) {
				insidePair = false
				closeCurrent(lineIndex)
			}
			continue
		}

		lineForm := formNone
		switch {
		case style.HasBlockForm() && strings.HasPrefix(trimmedLine, style.BlockOpen):
			lineForm = formBlockPair
		case style.DocMarker != "" && strings.HasPrefix(trimmedLine, style.DocMarker) && !isDirectiveLine(trimmedLine, style):
			lineForm = formLine
		}

		if lineForm == formNone {
			closeCurrent(lineIndex - 1)
			continue
		}

		if currentStart >= 0 && lineForm != currentForm {
			closeCurrent(lineIndex - 1)
		}
		if currentStart < 0 {
			currentStart = lineIndex
			currentForm = lineForm
		}

		if lineForm == formBlockPair {
			remainderAfterOpen := trimmedLine[len(style.BlockOpen):]
			if strings.Contains(remainderAfterOpen, style.BlockClose) {
				closeCurrent(lineIndex)
			} else {
				insidePair = true
			}
		}
	}

	if insidePair || currentStart >= 0 {
		closeCurrent(len(lines) - 1)
	}

	return blocks
}

// isDirectiveLine reports whether a marker line carries a machine directive
// rather than documentation. Directives butt their payload directly against
// the marker, as in "//go:build", "//nolint" or a "#!" shebang, while prose
// separates it with a space. Only styles whose documentation marker equals
// the plain line marker can collide with directives; a dedicated marker such
// as "///" never matches a directive prefix.
func isDirectiveLine(trimmedLine string, style Style) bool {
	if style.DocMarker != style.LineMarker {
		return false
	}
	remainder := trimmedLine[len(style.DocMarker):]
	if remainder == "" {
		return false
	}
	firstByte := remainder[0]
	return firstByte != ' ' && firstByte != '\t' && firstByte != style.DocMarker[0]
}

// FindBlockAtLine locates the documentation block containing the zero-based
// line index, if any.
func FindBlockAtLine(lines []string, style Style, lineIndex int) (Block, bool) {
	for _, block := range FindAllBlocks(lines, style) {
		if block.ContainsLine(lineIndex) {
			return block, true
		}
		if block.StartLine > lineIndex {
			break
		}
	}
	return Block{}, false
}

// Indentation returns the leading whitespace of the block's first line.
func (block Block) Indentation() string {
	if len(block.Lines) == 0 {
		return ""
	}
	firstLine := block.Lines[0]
	return firstLine[:len(firstLine)-len(strings.TrimLeft(firstLine, " \t"))]
}

// IsBlockPair reports whether the block was scanned from a block-comment pair
// rather than a run of marker-prefixed lines.
func (block Block) IsBlockPair() bool {
	if len(block.Lines) == 0 || !block.Style.HasBlockForm() {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(block.Lines[0]), block.Style.BlockOpen)
}

// ContentLines strips the comment delimiters from every line of the block and
// returns the logical documentation text, one entry per physical line. For
// marker runs the documentation marker and one following space are removed.
// For block pairs the opening and closing delimiters are dropped and a
// leading "*" continuation on interior lines is removed together with one
// following space.
func (block Block) ContentLines() []string {
	if block.IsBlockPair() {
		return block.blockPairContentLines()
	}
	contentLines := make([]string, 0, len(block.Lines))
	for _, rawLine := range block.Lines {
		contentLines = append(contentLines, StripMarker(rawLine, block.Style))
	}
	return contentLines
}

func (block Block) blockPairContentLines() []string {
	var contentLines []string
	for lineIndex, rawLine := range block.Lines {
		trimmedLine := strings.TrimSpace(rawLine)
		if lineIndex == 0 {
			trimmedLine = strings.TrimPrefix(trimmedLine, block.Style.BlockOpen)
		}
		if lineIndex == len(block.Lines)-1 {
			if closeIndex := strings.Index(trimmedLine, block.Style.BlockClose); closeIndex >= 0 {
				trimmedLine = trimmedLine[:closeIndex]
			}
		}
		trimmedLine = strings.TrimSpace(trimmedLine)
		if strings.HasPrefix(trimmedLine, "*") {
			trimmedLine = strings.TrimPrefix(trimmedLine, "*")
			trimmedLine = strings.TrimPrefix(trimmedLine, " ")
		}
		isDelimiterOnly := (lineIndex == 0 || lineIndex == len(block.Lines)-1) && trimmedLine == ""
		if isDelimiterOnly {
			continue
		}
		contentLines = append(contentLines, trimmedLine)
	}
	return contentLines
}

// StripMarker removes the style's documentation marker and one following
// space from a raw line. Lines that do not carry the marker are returned
// trimmed of leading whitespace.
func StripMarker(rawLine string, style Style) string {
	trimmedLine := strings.TrimLeft(rawLine, " \t")
	if style.DocMarker != "" && strings.HasPrefix(trimmedLine, style.DocMarker) {
		trimmedLine = trimmedLine[len(style.DocMarker):]
		trimmedLine = strings.TrimPrefix(trimmedLine, " ")
	}
	return trimmedLine
}
