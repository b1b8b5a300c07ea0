package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/cmt/internal/comment"
	"github.com/temirov/cmt/internal/reflow"
	"github.com/temirov/cmt/internal/types"
)

const errorWriteFileFormat = "failed to write file %s: %w"

// ReflowOptions configures documentation reflowing.
type ReflowOptions struct {
	IgnorePatterns []string
	Config         reflow.Config
	Write          bool
}

// GetReflowData reflows every documentation block under the validated path
// and returns a per-file report in lexical path order. With Write set,
// changed files are rewritten in place; otherwise the reformatted content is
// carried in the report. Files whose blocks are already formatted are
// reported unchanged.
func GetReflowData(parentContext context.Context, rootPath types.ValidatedPath, options ReflowOptions) ([]types.FileReflow, error) {
	scanFiles, collectError := CollectScanFiles(rootPath, options.IgnorePatterns)
	if collectError != nil {
		return nil, collectError
	}

	fileResults := make([]*types.FileReflow, len(scanFiles))
	scanError := forEachScanFile(parentContext, scanFiles, func(fileIndex int, scanFile ScanFile) error {
		fileReflow, reflowError := reflowFile(scanFile, options)
		if reflowError != nil {
			return reflowError
		}
		fileResults[fileIndex] = fileReflow
		return nil
	})
	if scanError != nil {
		return nil, scanError
	}

	var collected []types.FileReflow
	for _, fileReflow := range fileResults {
		if fileReflow != nil {
			collected = append(collected, *fileReflow)
		}
	}
	return collected, nil
}

func reflowFile(scanFile ScanFile, options ReflowOptions) (*types.FileReflow, error) {
	lines, trailingNewline, readError := readFileLines(scanFile.AbsolutePath)
	if readError != nil {
		fmt.Fprintf(os.Stderr, warningSkipFileFormat, scanFile.AbsolutePath, readError)
		return nil, nil
	}

	blocks := comment.FindAllBlocks(lines, scanFile.Style)
	if len(blocks) == 0 {
		return nil, nil
	}

	fileReflow := types.FileReflow{
		Path:        scanFile.AbsolutePath,
		BlocksTotal: len(blocks),
	}

	// Splice from the last block upward so earlier line indexes stay valid.
	updatedLines := lines
	for blockIndex := len(blocks) - 1; blockIndex >= 0; blockIndex-- {
		block := blocks[blockIndex]
		formatted, changed := reflow.Reflow(block, options.Config)
		if !changed {
			continue
		}
		fileReflow.BlocksChanged++
		replacement := strings.Split(formatted, "\n")
		spliced := make([]string, 0, len(updatedLines)-block.LineCount()+len(replacement))
		spliced = append(spliced, updatedLines[:block.StartLine]...)
		spliced = append(spliced, replacement...)
		spliced = append(spliced, updatedLines[block.EndLine+1:]...)
		updatedLines = spliced
	}
	fileReflow.Changed = fileReflow.BlocksChanged > 0
	if !fileReflow.Changed {
		return &fileReflow, nil
	}

	updatedContent := strings.Join(updatedLines, "\n")
	if trailingNewline {
		updatedContent += "\n"
	}

	if options.Write {
		fileInfo, statError := os.Stat(scanFile.AbsolutePath)
		fileMode := os.FileMode(0o644)
		if statError == nil {
			fileMode = fileInfo.Mode().Perm()
		}
		if writeError := os.WriteFile(scanFile.AbsolutePath, []byte(updatedContent), fileMode); writeError != nil {
			return nil, fmt.Errorf(errorWriteFileFormat, scanFile.AbsolutePath, writeError)
		}
		fileReflow.Written = true
		return &fileReflow, nil
	}

	fileReflow.Content = updatedContent
	return &fileReflow, nil
}
