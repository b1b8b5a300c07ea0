// Package comment locates documentation comment blocks inside source lines.
package comment

import (
	"path/filepath"
	"sort"
	"strings"
)

// Style describes the comment delimiters of one supported language.
// DocMarker is the line form of a documentation comment. BlockOpen and
// BlockClose delimit documentation block comments and are empty for
// languages without a block form.
type Style struct {
	LanguageID string
	LineMarker string
	DocMarker  string
	BlockOpen  string
	BlockClose string
}

// HasBlockForm reports whether the style defines a documentation block pair.
func (style Style) HasBlockForm() bool {
	return style.BlockOpen != "" && style.BlockClose != ""
}

// Language identifiers recognized by the catalog.
const (
	LanguageCSharp      = "csharp"
	LanguageGo          = "go"
	LanguageJavaScript  = "javascript"
	LanguageTypeScript  = "typescript"
	LanguagePython      = "python"
	LanguageRust        = "rust"
	LanguageC           = "c"
	LanguageCPP         = "cpp"
	LanguageVisualBasic = "vb"
)

// styleCatalog holds the immutable per-language delimiter table. It is the
// only process-wide state in the package and is never mutated after init.
var styleCatalog = map[string]Style{
	LanguageCSharp:      {LanguageID: LanguageCSharp, LineMarker: "//", DocMarker: "///", BlockOpen: "/**", BlockClose: "*/"},
	LanguageGo:          {LanguageID: LanguageGo, LineMarker: "//", DocMarker: "//"},
	LanguageJavaScript:  {LanguageID: LanguageJavaScript, LineMarker: "//", DocMarker: "///", BlockOpen: "/**", BlockClose: "*/"},
	LanguageTypeScript:  {LanguageID: LanguageTypeScript, LineMarker: "//", DocMarker: "///", BlockOpen: "/**", BlockClose: "*/"},
	LanguagePython:      {LanguageID: LanguagePython, LineMarker: "#", DocMarker: "#"},
	LanguageRust:        {LanguageID: LanguageRust, LineMarker: "//", DocMarker: "///"},
	LanguageC:           {LanguageID: LanguageC, LineMarker: "//", DocMarker: "///", BlockOpen: "/**", BlockClose: "*/"},
	LanguageCPP:         {LanguageID: LanguageCPP, LineMarker: "//", DocMarker: "///", BlockOpen: "/**", BlockClose: "*/"},
	LanguageVisualBasic: {LanguageID: LanguageVisualBasic, LineMarker: "'", DocMarker: "'''"},
}

// extensionCatalog maps lower-case file extensions to language identifiers.
var extensionCatalog = map[string]string{
	".cs":  LanguageCSharp,
	".go":  LanguageGo,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".tsx": LanguageTypeScript,
	".py":  LanguagePython,
	".rs":  LanguageRust,
	".c":   LanguageC,
	".h":   LanguageC,
	".cpp": LanguageCPP,
	".cc":  LanguageCPP,
	".hpp": LanguageCPP,
	".vb":  LanguageVisualBasic,
}

// StyleForLanguage returns the comment style registered for a language identifier.
func StyleForLanguage(languageID string) (Style, bool) {
	style, found := styleCatalog[strings.ToLower(languageID)]
	return style, found
}

// StyleForExtension returns the comment style for a file extension such as ".cs".
func StyleForExtension(extension string) (Style, bool) {
	languageID, found := extensionCatalog[strings.ToLower(extension)]
	if !found {
		return Style{}, false
	}
	return StyleForLanguage(languageID)
}

// StyleForPath returns the comment style inferred from a file path's extension.
func StyleForPath(path string) (Style, bool) {
	return StyleForExtension(filepath.Ext(path))
}

// SupportedLanguages returns the sorted identifiers of every cataloged language.
func SupportedLanguages() []string {
	languages := make([]string, 0, len(styleCatalog))
	for languageID := range styleCatalog {
		languages = append(languages, languageID)
	}
	sort.Strings(languages)
	return languages
}
