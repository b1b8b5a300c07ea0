package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/temirov/cmt/internal/links"
	"github.com/temirov/cmt/internal/types"
)

// LinksOptions configures link-reference collection.
type LinksOptions struct {
	IgnorePatterns []string
}

// GetLinksData scans comment lines under the validated path for link
// references and returns the occurrences in lexical path order. Lines
// outside comments are never inspected.
func GetLinksData(parentContext context.Context, rootPath types.ValidatedPath, options LinksOptions) ([]types.LinkOccurrence, error) {
	scanFiles, collectError := CollectScanFiles(rootPath, options.IgnorePatterns)
	if collectError != nil {
		return nil, collectError
	}

	fileResults := make([][]types.LinkOccurrence, len(scanFiles))
	scanError := forEachScanFile(parentContext, scanFiles, func(fileIndex int, scanFile ScanFile) error {
		lines, _, readError := readFileLines(scanFile.AbsolutePath)
		if readError != nil {
			fmt.Fprintf(os.Stderr, warningSkipFileFormat, scanFile.AbsolutePath, readError)
			return nil
		}
		commentFlags := commentLineFlags(lines, scanFile.Style)
		var occurrences []types.LinkOccurrence
		for lineIndex, rawLine := range lines {
			if !commentFlags[lineIndex] {
				continue
			}
			for _, reference := range links.Parse(rawLine) {
				occurrences = append(occurrences, linkOccurrence(scanFile.AbsolutePath, lineIndex, reference))
			}
		}
		fileResults[fileIndex] = occurrences
		return nil
	})
	if scanError != nil {
		return nil, scanError
	}

	var collected []types.LinkOccurrence
	for _, occurrences := range fileResults {
		collected = append(collected, occurrences...)
	}
	return collected, nil
}

func linkOccurrence(filePath string, lineIndex int, reference links.Reference) types.LinkOccurrence {
	occurrence := types.LinkOccurrence{
		Path:          filePath,
		Line:          lineIndex + 1,
		Column:        reference.SpanStart + 1,
		Target:        reference.FilePath,
		IsLocalAnchor: reference.IsLocalAnchor,
		Anchor:        reference.AnchorName,
		TargetLine:    reference.LineNumber,
	}
	// A range end survives only when it denotes a real span past the start.
	if reference.HasLineRange() {
		occurrence.TargetEndLine = reference.EndLineNumber
	}
	if reference.IsLocalAnchor {
		occurrence.Target = "#" + reference.AnchorName
	}
	return occurrence
}
