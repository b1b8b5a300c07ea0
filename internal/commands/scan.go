// Package commands collects per-command data from validated input paths.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/cmt/internal/comment"
	"github.com/temirov/cmt/internal/types"
	"github.com/temirov/cmt/internal/utils"
)

const (
	// maxConcurrentFileScans bounds the number of files processed in parallel.
	maxConcurrentFileScans = 8

	warningAccessPathFormat = "Warning: error accessing path %s: %v\n"
	warningSkipFileFormat   = "Warning: skipping %s: %v\n"
	errorReadFileFormat     = "failed to read file %s: %w"
)

// ScanFile is one file selected for scanning together with its comment style.
type ScanFile struct {
	AbsolutePath string
	Style        comment.Style
}

// CollectScanFiles walks the validated path and returns every scannable file
// in lexical order. Files with no recognized comment style and binary files
// are skipped. A file path input resolves to at most one entry.
func CollectScanFiles(rootPath types.ValidatedPath, ignorePatterns []string) ([]ScanFile, error) {
	if !rootPath.IsDir {
		style, known := comment.StyleForPath(rootPath.AbsolutePath)
		if !known {
			return nil, nil
		}
		if utils.IsFileBinary(rootPath.AbsolutePath) {
			return nil, nil
		}
		return []ScanFile{{AbsolutePath: rootPath.AbsolutePath, Style: style}}, nil
	}

	var scanFiles []ScanFile

	directoryWalkError := filepath.WalkDir(rootPath.AbsolutePath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			fmt.Fprintf(os.Stderr, warningAccessPathFormat, walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, rootPath.AbsolutePath)
		if relativePath == "." {
			return nil
		}
		if utils.ShouldIgnoreByPath(relativePath, ignorePatterns) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}

		style, known := comment.StyleForPath(walkedPath)
		if !known {
			return nil
		}
		if utils.IsFileBinary(walkedPath) {
			return nil
		}
		scanFiles = append(scanFiles, ScanFile{AbsolutePath: walkedPath, Style: style})
		return nil
	})
	if directoryWalkError != nil {
		return nil, directoryWalkError
	}

	return scanFiles, nil
}

// forEachScanFile processes the files concurrently with a bounded errgroup.
// The process callback receives the index of the file in the input slice so
// callers can store results in deterministic order.
func forEachScanFile(parentContext context.Context, scanFiles []ScanFile, process func(fileIndex int, scanFile ScanFile) error) error {
	group, groupContext := errgroup.WithContext(parentContext)
	group.SetLimit(maxConcurrentFileScans)
	for fileIndex, scanFile := range scanFiles {
		fileIndex, scanFile := fileIndex, scanFile
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			return process(fileIndex, scanFile)
		})
	}
	return group.Wait()
}

// readFileLines reads the file and splits it into lines. Windows line endings
// are normalized away. The second result reports whether the file ended with
// a newline so writers can restore it.
func readFileLines(filePath string) ([]string, bool, error) {
	fileBytes, fileReadError := os.ReadFile(filePath)
	if fileReadError != nil {
		return nil, false, fmt.Errorf(errorReadFileFormat, filePath, fileReadError)
	}
	fileContent := string(fileBytes)
	trailingNewline := strings.HasSuffix(fileContent, "\n")
	if trailingNewline {
		fileContent = strings.TrimSuffix(fileContent, "\n")
	}
	lines := strings.Split(fileContent, "\n")
	for lineIndex := range lines {
		lines[lineIndex] = strings.TrimSuffix(lines[lineIndex], "\r")
	}
	return lines, trailingNewline, nil
}

// commentLineFlags marks every line that belongs to a comment: lines whose
// trimmed form starts with the style's line marker and lines inside
// documentation blocks located by the scanner.
func commentLineFlags(lines []string, style comment.Style) []bool {
	flags := make([]bool, len(lines))
	for lineIndex, rawLine := range lines {
		trimmedLine := strings.TrimSpace(rawLine)
		if strings.HasPrefix(trimmedLine, style.LineMarker) {
			flags[lineIndex] = true
		}
	}
	for _, block := range comment.FindAllBlocks(lines, style) {
		for lineIndex := block.StartLine; lineIndex <= block.EndLine; lineIndex++ {
			flags[lineIndex] = true
		}
	}
	return flags
}
