// Package types defines every cross‑package data structure used by the cmt CLI.
package types

import "encoding/xml"

const (
	CommandBlocks = "blocks"
	CommandReflow = "reflow"
	CommandLinks  = "links"
	CommandTags   = "tags"

	FormatRaw      = "raw"
	FormatJSON     = "json"
	FormatXML      = "xml"
	FormatMarkdown = "markdown"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// BlockEntry describes one documentation-comment block found in a file.
// Line numbers are one-based and inclusive.
type BlockEntry struct {
	StartLine int    `json:"startLine" xml:"startLine"`
	EndLine   int    `json:"endLine" xml:"endLine"`
	LineCount int    `json:"lineCount" xml:"lineCount"`
	Text      string `json:"text" xml:"text"`
	Tokens    int    `json:"tokens,omitempty" xml:"tokens,omitempty"`
}

// FileBlocks lists the documentation blocks of a single file.
type FileBlocks struct {
	XMLName  xml.Name     `json:"-" xml:"file"`
	Path     string       `json:"path" xml:"path"`
	Language string       `json:"language" xml:"language"`
	Blocks   []BlockEntry `json:"blocks" xml:"blocks>block"`
	Tokens   int          `json:"tokens,omitempty" xml:"tokens,omitempty"`
	Model    string       `json:"model,omitempty" xml:"model,omitempty"`
}

// FileReflow reports the outcome of reflowing one file.
type FileReflow struct {
	XMLName       xml.Name `json:"-" xml:"file"`
	Path          string   `json:"path" xml:"path"`
	Changed       bool     `json:"changed" xml:"changed"`
	BlocksTotal   int      `json:"blocksTotal" xml:"blocksTotal"`
	BlocksChanged int      `json:"blocksChanged" xml:"blocksChanged"`
	Written       bool     `json:"written,omitempty" xml:"written,omitempty"`
	Content       string   `json:"content,omitempty" xml:"content,omitempty"`
}

// LinkOccurrence is one recognized link reference inside a comment line.
type LinkOccurrence struct {
	XMLName       xml.Name `json:"-" xml:"link"`
	Path          string   `json:"path" xml:"path"`
	Line          int      `json:"line" xml:"line"`
	Column        int      `json:"column" xml:"column"`
	Target        string   `json:"target" xml:"target"`
	IsLocalAnchor bool     `json:"isLocalAnchor,omitempty" xml:"isLocalAnchor,omitempty"`
	Anchor        string   `json:"anchor,omitempty" xml:"anchor,omitempty"`
	TargetLine    int      `json:"targetLine,omitempty" xml:"targetLine,omitempty"`
	TargetEndLine int      `json:"targetEndLine,omitempty" xml:"targetEndLine,omitempty"`
}

// TagOccurrence is one recognized task tag inside a comment line.
type TagOccurrence struct {
	XMLName xml.Name `json:"-" xml:"tag"`
	Path    string   `json:"path" xml:"path"`
	Line    int      `json:"line" xml:"line"`
	Tag     string   `json:"tag" xml:"name"`
	Owner   string   `json:"owner,omitempty" xml:"owner,omitempty"`
	Issue   int      `json:"issue,omitempty" xml:"issue,omitempty"`
	DueDate string   `json:"dueDate,omitempty" xml:"dueDate,omitempty"`
	Text    string   `json:"text" xml:"text"`
}

// ScanSummary captures aggregate information about a completed scan.
type ScanSummary struct {
	TotalFiles   int    `json:"totalFiles" xml:"totalFiles"`
	TotalMatches int    `json:"totalMatches" xml:"totalMatches"`
	TotalTokens  int    `json:"totalTokens,omitempty" xml:"totalTokens,omitempty"`
	Model        string `json:"model,omitempty" xml:"model,omitempty"`
}
