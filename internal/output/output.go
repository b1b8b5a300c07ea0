// Package output renders collected reports in raw, JSON, XML, and Markdown
// form. Renderers build strings; writing and clipboard copy are the caller's
// concern.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/cmt/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	emptyJSONArray = "[]"

	changedLabel   = "changed"
	unchangedLabel = "unchanged"
	writtenSuffix  = " (written)"

	separatorLine = "----------------------------------------"

	markdownCellPlaceholder = "-"
)

// RenderBlocks renders the blocks report in the requested format.
func RenderBlocks(format string, fileBlocks []types.FileBlocks) (string, error) {
	switch format {
	case types.FormatJSON:
		return renderJSON(fileBlocks)
	case types.FormatXML:
		return renderXML("files", fileBlocks)
	case types.FormatMarkdown:
		return renderBlocksMarkdown(fileBlocks), nil
	default:
		return renderBlocksRaw(fileBlocks), nil
	}
}

// RenderReflow renders the reflow report in the requested format.
func RenderReflow(format string, fileReflows []types.FileReflow) (string, error) {
	switch format {
	case types.FormatJSON:
		return renderJSON(fileReflows)
	case types.FormatXML:
		return renderXML("files", fileReflows)
	case types.FormatMarkdown:
		return renderReflowMarkdown(fileReflows), nil
	default:
		return renderReflowRaw(fileReflows), nil
	}
}

// RenderLinks renders the link-reference report in the requested format.
func RenderLinks(format string, occurrences []types.LinkOccurrence) (string, error) {
	switch format {
	case types.FormatJSON:
		return renderJSON(occurrences)
	case types.FormatXML:
		return renderXML("links", occurrences)
	case types.FormatMarkdown:
		return renderLinksMarkdown(occurrences), nil
	default:
		return renderLinksRaw(occurrences), nil
	}
}

// RenderTags renders the tag report in the requested format.
func RenderTags(format string, occurrences []types.TagOccurrence) (string, error) {
	switch format {
	case types.FormatJSON:
		return renderJSON(occurrences)
	case types.FormatXML:
		return renderXML("tags", occurrences)
	case types.FormatMarkdown:
		return renderTagsMarkdown(occurrences), nil
	default:
		return renderTagsRaw(occurrences), nil
	}
}

// FormatSummaryLine formats a ScanSummary into the raw summary line.
func FormatSummaryLine(summary types.ScanSummary) string {
	fileLabel := "files"
	if summary.TotalFiles == 1 {
		fileLabel = "file"
	}
	matchLabel := "matches"
	if summary.TotalMatches == 1 {
		matchLabel = "match"
	}
	tokenSuffix := ""
	if summary.TotalTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %d %s%s%s", summary.TotalFiles, fileLabel, summary.TotalMatches, matchLabel, tokenSuffix, modelSuffix)
}

func renderJSON(report interface{}) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(report, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	if string(encoded) == "null" {
		return emptyJSONArray, nil
	}
	return string(encoded), nil
}

func renderXML(rootElementName string, report interface{}) (string, error) {
	// Element names come from each item's XMLName field, which overrides
	// the field tag during marshaling.
	wrapper := struct {
		XMLName xml.Name
		Items   interface{} `xml:"item"`
	}{
		XMLName: xml.Name{Local: rootElementName},
		Items:   report,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

func renderBlocksRaw(fileBlocks []types.FileBlocks) string {
	var buffer bytes.Buffer
	for _, fileEntry := range fileBlocks {
		fmt.Fprintf(&buffer, "File: %s (%s)\n", fileEntry.Path, fileEntry.Language)
		for _, blockEntry := range fileEntry.Blocks {
			fmt.Fprintf(&buffer, "  %d-%d (%d lines)", blockEntry.StartLine, blockEntry.EndLine, blockEntry.LineCount)
			if blockEntry.Tokens > 0 {
				fmt.Fprintf(&buffer, " [%d tokens]", blockEntry.Tokens)
			}
			if blockEntry.Text != "" {
				fmt.Fprintf(&buffer, ": %s", blockEntry.Text)
			}
			buffer.WriteString("\n")
		}
	}
	buffer.WriteString(FormatSummaryLine(summarizeBlocks(fileBlocks)) + "\n")
	return buffer.String()
}

func summarizeBlocks(fileBlocks []types.FileBlocks) types.ScanSummary {
	summary := types.ScanSummary{TotalFiles: len(fileBlocks)}
	for _, fileEntry := range fileBlocks {
		summary.TotalMatches += len(fileEntry.Blocks)
		summary.TotalTokens += fileEntry.Tokens
		if summary.Model == "" {
			summary.Model = fileEntry.Model
		}
	}
	return summary
}

func linkPaths(occurrences []types.LinkOccurrence) []string {
	paths := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		paths = append(paths, occurrence.Path)
	}
	return paths
}

func tagPaths(occurrences []types.TagOccurrence) []string {
	paths := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		paths = append(paths, occurrence.Path)
	}
	return paths
}

func summarizeOccurrencePaths(paths []string) types.ScanSummary {
	distinctPaths := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		distinctPaths[path] = struct{}{}
	}
	return types.ScanSummary{TotalFiles: len(distinctPaths), TotalMatches: len(paths)}
}

func renderBlocksMarkdown(fileBlocks []types.FileBlocks) string {
	rows := [][]string{{"File", "Language", "Lines", "Count", "Tokens", "Text"}}
	for _, fileEntry := range fileBlocks {
		for _, blockEntry := range fileEntry.Blocks {
			tokenCell := markdownCellPlaceholder
			if blockEntry.Tokens > 0 {
				tokenCell = strconv.Itoa(blockEntry.Tokens)
			}
			rows = append(rows, []string{
				fileEntry.Path,
				fileEntry.Language,
				fmt.Sprintf("%d-%d", blockEntry.StartLine, blockEntry.EndLine),
				strconv.Itoa(blockEntry.LineCount),
				tokenCell,
				markdownCell(blockEntry.Text),
			})
		}
	}
	return renderMarkdownTable(rows)
}

func renderReflowRaw(fileReflows []types.FileReflow) string {
	var buffer bytes.Buffer
	for _, fileEntry := range fileReflows {
		stateLabel := unchangedLabel
		if fileEntry.Changed {
			stateLabel = fmt.Sprintf("%s (%d of %d blocks)", changedLabel, fileEntry.BlocksChanged, fileEntry.BlocksTotal)
			if fileEntry.Written {
				stateLabel += writtenSuffix
			}
		}
		fmt.Fprintf(&buffer, "File: %s: %s\n", fileEntry.Path, stateLabel)
		if fileEntry.Content != "" {
			buffer.WriteString(fileEntry.Content)
			if !strings.HasSuffix(fileEntry.Content, "\n") {
				buffer.WriteString("\n")
			}
			buffer.WriteString(separatorLine + "\n")
		}
	}
	return buffer.String()
}

func renderReflowMarkdown(fileReflows []types.FileReflow) string {
	rows := [][]string{{"File", "Blocks", "Changed", "Written"}}
	for _, fileEntry := range fileReflows {
		rows = append(rows, []string{
			fileEntry.Path,
			strconv.Itoa(fileEntry.BlocksTotal),
			strconv.Itoa(fileEntry.BlocksChanged),
			strconv.FormatBool(fileEntry.Written),
		})
	}
	return renderMarkdownTable(rows)
}

func renderLinksRaw(occurrences []types.LinkOccurrence) string {
	var buffer bytes.Buffer
	for _, occurrence := range occurrences {
		fmt.Fprintf(&buffer, "%s:%d:%d: %s", occurrence.Path, occurrence.Line, occurrence.Column, occurrence.Target)
		if occurrence.TargetLine > 0 {
			fmt.Fprintf(&buffer, " line %d", occurrence.TargetLine)
			if occurrence.TargetEndLine > occurrence.TargetLine {
				fmt.Fprintf(&buffer, "-%d", occurrence.TargetEndLine)
			}
		}
		if !occurrence.IsLocalAnchor && occurrence.Anchor != "" {
			fmt.Fprintf(&buffer, " #%s", occurrence.Anchor)
		}
		buffer.WriteString("\n")
	}
	buffer.WriteString(FormatSummaryLine(summarizeOccurrencePaths(linkPaths(occurrences))) + "\n")
	return buffer.String()
}

func renderLinksMarkdown(occurrences []types.LinkOccurrence) string {
	rows := [][]string{{"Target", "Location", "Lines", "Anchor"}}
	for _, occurrence := range occurrences {
		lineCell := markdownCellPlaceholder
		if occurrence.TargetLine > 0 {
			lineCell = strconv.Itoa(occurrence.TargetLine)
			if occurrence.TargetEndLine > occurrence.TargetLine {
				lineCell = fmt.Sprintf("%d-%d", occurrence.TargetLine, occurrence.TargetEndLine)
			}
		}
		anchorCell := markdownCellPlaceholder
		if occurrence.Anchor != "" {
			anchorCell = occurrence.Anchor
		}
		rows = append(rows, []string{
			markdownCell(occurrence.Target),
			fmt.Sprintf("%s:%d", occurrence.Path, occurrence.Line),
			lineCell,
			anchorCell,
		})
	}
	return renderMarkdownTable(rows)
}

func renderTagsRaw(occurrences []types.TagOccurrence) string {
	var buffer bytes.Buffer
	for _, occurrence := range occurrences {
		fmt.Fprintf(&buffer, "%s:%d: %s", occurrence.Path, occurrence.Line, occurrence.Tag)
		if occurrence.Owner != "" {
			fmt.Fprintf(&buffer, " @%s", occurrence.Owner)
		}
		if occurrence.Issue > 0 {
			fmt.Fprintf(&buffer, " #%d", occurrence.Issue)
		}
		if occurrence.DueDate != "" {
			fmt.Fprintf(&buffer, " due %s", occurrence.DueDate)
		}
		if occurrence.Text != "" {
			fmt.Fprintf(&buffer, ": %s", occurrence.Text)
		}
		buffer.WriteString("\n")
	}
	buffer.WriteString(FormatSummaryLine(summarizeOccurrencePaths(tagPaths(occurrences))) + "\n")
	return buffer.String()
}

func renderTagsMarkdown(occurrences []types.TagOccurrence) string {
	rows := [][]string{{"Tag", "Location", "Owner", "Issue", "Due", "Text"}}
	for _, occurrence := range occurrences {
		ownerCell := markdownCellPlaceholder
		if occurrence.Owner != "" {
			ownerCell = "@" + occurrence.Owner
		}
		issueCell := markdownCellPlaceholder
		if occurrence.Issue > 0 {
			issueCell = "#" + strconv.Itoa(occurrence.Issue)
		}
		dueCell := markdownCellPlaceholder
		if occurrence.DueDate != "" {
			dueCell = occurrence.DueDate
		}
		rows = append(rows, []string{
			occurrence.Tag,
			fmt.Sprintf("%s:%d", occurrence.Path, occurrence.Line),
			ownerCell,
			issueCell,
			dueCell,
			markdownCell(occurrence.Text),
		})
	}
	return renderMarkdownTable(rows)
}

// renderMarkdownTable renders header and body rows as a pipe table. The first
// row is the header.
func renderMarkdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var buffer bytes.Buffer
	buffer.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
	separators := make([]string, len(rows[0]))
	for columnIndex := range separators {
		separators[columnIndex] = "---"
	}
	buffer.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, row := range rows[1:] {
		buffer.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return buffer.String()
}

// markdownCell escapes pipe characters so cell text cannot break the table.
func markdownCell(text string) string {
	if text == "" {
		return markdownCellPlaceholder
	}
	return strings.ReplaceAll(text, "|", "\\|")
}
