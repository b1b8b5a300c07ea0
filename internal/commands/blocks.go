package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/cmt/internal/comment"
	"github.com/temirov/cmt/internal/tokenizer"
	"github.com/temirov/cmt/internal/types"
)

const warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"

// BlocksOptions configures documentation-block collection.
type BlocksOptions struct {
	IgnorePatterns []string
	TokenCounter   tokenizer.Counter
	TokenModel     string
}

// GetBlocksData scans the validated path and returns the documentation
// blocks of every scannable file in lexical path order. Files without blocks
// are omitted.
func GetBlocksData(parentContext context.Context, rootPath types.ValidatedPath, options BlocksOptions) ([]types.FileBlocks, error) {
	scanFiles, collectError := CollectScanFiles(rootPath, options.IgnorePatterns)
	if collectError != nil {
		return nil, collectError
	}

	fileResults := make([]*types.FileBlocks, len(scanFiles))
	scanError := forEachScanFile(parentContext, scanFiles, func(fileIndex int, scanFile ScanFile) error {
		fileBlocks, blockError := collectFileBlocks(scanFile, options)
		if blockError != nil {
			return blockError
		}
		fileResults[fileIndex] = fileBlocks
		return nil
	})
	if scanError != nil {
		return nil, scanError
	}

	var collected []types.FileBlocks
	for _, fileBlocks := range fileResults {
		if fileBlocks != nil {
			collected = append(collected, *fileBlocks)
		}
	}
	return collected, nil
}

func collectFileBlocks(scanFile ScanFile, options BlocksOptions) (*types.FileBlocks, error) {
	lines, _, readError := readFileLines(scanFile.AbsolutePath)
	if readError != nil {
		fmt.Fprintf(os.Stderr, warningSkipFileFormat, scanFile.AbsolutePath, readError)
		return nil, nil
	}

	blocks := comment.FindAllBlocks(lines, scanFile.Style)
	if len(blocks) == 0 {
		return nil, nil
	}

	fileBlocks := types.FileBlocks{
		Path:     scanFile.AbsolutePath,
		Language: scanFile.Style.LanguageID,
	}
	for _, block := range blocks {
		blockEntry := types.BlockEntry{
			StartLine: block.StartLine + 1,
			EndLine:   block.EndLine + 1,
			LineCount: block.LineCount(),
			Text:      blockSummaryText(block),
		}
		if options.TokenCounter != nil {
			blockContent := strings.Join(block.ContentLines(), "\n")
			tokenCount, countError := options.TokenCounter.CountString(blockContent)
			if countError != nil {
				fmt.Fprintf(os.Stderr, warningTokenCountFormat, scanFile.AbsolutePath, countError)
			} else {
				blockEntry.Tokens = tokenCount
				fileBlocks.Tokens += tokenCount
			}
		}
		fileBlocks.Blocks = append(fileBlocks.Blocks, blockEntry)
	}
	if options.TokenCounter != nil {
		fileBlocks.Model = options.TokenModel
	}
	return &fileBlocks, nil
}

// blockSummaryText returns the first non-empty content line of the block.
func blockSummaryText(block comment.Block) string {
	for _, contentLine := range block.ContentLines() {
		trimmedLine := strings.TrimSpace(contentLine)
		if trimmedLine != "" {
			return trimmedLine
		}
	}
	return ""
}
