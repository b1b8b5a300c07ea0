package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/cmt/internal/tags"
	"github.com/temirov/cmt/internal/types"
)

const dueDateLayout = "2006-01-02"

// TagsOptions configures tag collection.
type TagsOptions struct {
	IgnorePatterns []string
	KnownTags      []string
	CustomTags     []string
}

// GetTagsData scans comment lines under the validated path for task tags and
// returns the occurrences in lexical path order.
func GetTagsData(parentContext context.Context, rootPath types.ValidatedPath, options TagsOptions) ([]types.TagOccurrence, error) {
	scanFiles, collectError := CollectScanFiles(rootPath, options.IgnorePatterns)
	if collectError != nil {
		return nil, collectError
	}

	knownTags := options.KnownTags
	if len(knownTags) == 0 {
		knownTags = tags.DefaultKnownTags
	}

	fileResults := make([][]types.TagOccurrence, len(scanFiles))
	scanError := forEachScanFile(parentContext, scanFiles, func(fileIndex int, scanFile ScanFile) error {
		lines, _, readError := readFileLines(scanFile.AbsolutePath)
		if readError != nil {
			fmt.Fprintf(os.Stderr, warningSkipFileFormat, scanFile.AbsolutePath, readError)
			return nil
		}
		commentFlags := commentLineFlags(lines, scanFile.Style)
		var occurrences []types.TagOccurrence
		for lineIndex, rawLine := range lines {
			if !commentFlags[lineIndex] {
				continue
			}
			for _, match := range tags.Parse(rawLine, knownTags, options.CustomTags) {
				occurrences = append(occurrences, tagOccurrence(scanFile.AbsolutePath, lineIndex, rawLine, match))
			}
		}
		fileResults[fileIndex] = occurrences
		return nil
	})
	if scanError != nil {
		return nil, scanError
	}

	var collected []types.TagOccurrence
	for _, occurrences := range fileResults {
		collected = append(collected, occurrences...)
	}
	return collected, nil
}

func tagOccurrence(filePath string, lineIndex int, rawLine string, match tags.Match) types.TagOccurrence {
	occurrence := types.TagOccurrence{
		Path:  filePath,
		Line:  lineIndex + 1,
		Tag:   match.TagName,
		Owner: match.Owner,
		Issue: match.Issue,
		Text:  strings.TrimSpace(rawLine[match.SpanStart+match.SpanLength:]),
	}
	if match.HasDueDate() {
		occurrence.DueDate = match.DueDate.Format(dueDateLayout)
	}
	return occurrence
}
