package reflow_test

import (
	"strings"
	"testing"

	"github.com/temirov/cmt/internal/comment"
	"github.com/temirov/cmt/internal/reflow"
)

func csharpBlock(t *testing.T, lines []string) comment.Block {
	t.Helper()
	style, found := comment.StyleForLanguage("csharp")
	if !found {
		t.Fatal("csharp style not found")
	}
	blocks := comment.FindAllBlocks(lines, style)
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	return blocks[0]
}

func mustConfig(t *testing.T, maxLineLength int, compact bool, preserveBlank bool) reflow.Config {
	t.Helper()
	config, configError := reflow.NewConfig(maxLineLength, compact, preserveBlank)
	if configError != nil {
		t.Fatalf("unexpected config error: %v", configError)
	}
	return config
}

func TestNewConfigRejectsNonPositiveWidth(t *testing.T) {
	testCases := []struct {
		name          string
		width         int
		expectedError bool
	}{
		{name: "zero", width: 0, expectedError: true},
		{name: "negative", width: -10, expectedError: true},
		{name: "one", width: 1, expectedError: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, configError := reflow.NewConfig(testCase.width, true, true)
			if (configError != nil) != testCase.expectedError {
				t.Fatalf("width %d: expected error=%v, got %v", testCase.width, testCase.expectedError, configError)
			}
		})
	}
}

// TestCompactThreshold verifies the single-line collapse decision: a short
// summary stays on one line while a long one expands to at least three.
func TestCompactThreshold(t *testing.T) {
	config := mustConfig(t, 120, true, true)

	shortBlock := csharpBlock(t, []string{"/// <summary>Gets the name.</summary>"})
	if _, changed := reflow.Reflow(shortBlock, config); changed {
		t.Fatal("short compact summary must be a no-op")
	}

	longContent := strings.Repeat("wide content words ", 11)
	longBlock := csharpBlock(t, []string{"/// <summary>" + strings.TrimSpace(longContent) + "</summary>"})
	formattedText, changed := reflow.Reflow(longBlock, config)
	if !changed {
		t.Fatal("long summary must be reformatted")
	}
	formattedLines := strings.Split(formattedText, "\n")
	if len(formattedLines) < 3 {
		t.Fatalf("expected at least three lines, got %d: %q", len(formattedLines), formattedText)
	}
	if formattedLines[0] != "/// <summary>" {
		t.Fatalf("expected open tag alone, got %q", formattedLines[0])
	}
	if formattedLines[len(formattedLines)-1] != "/// </summary>" {
		t.Fatalf("expected close tag alone, got %q", formattedLines[len(formattedLines)-1])
	}
}

// TestWrapBound verifies no output line exceeds the width except a single
// oversized token.
func TestWrapBound(t *testing.T) {
	config := mustConfig(t, 40, true, true)
	block := csharpBlock(t, []string{
		"/// <summary>" + strings.Repeat("word ", 30) + "unsplittable-token-that-is-well-beyond-the-configured-width</summary>",
	})
	formattedText, changed := reflow.Reflow(block, config)
	if !changed {
		t.Fatal("expected a reformat")
	}
	for _, formattedLine := range strings.Split(formattedText, "\n") {
		if len(formattedLine) <= config.MaxLineLength {
			continue
		}
		contentPart := strings.TrimPrefix(formattedLine, "/// ")
		if strings.ContainsAny(contentPart, " ") {
			t.Fatalf("overlong line %q holds more than one token", formattedLine)
		}
	}
}

// TestInlinePunctuationStaysAttached verifies that text touching an inline
// element without a separating space keeps hugging it through a rewrap, so a
// trailing comma or closing parenthesis never drifts behind a space.
func TestInlinePunctuationStaysAttached(t *testing.T) {
	t.Run("already formatted", func(t *testing.T) {
		formattedInputs := []string{
			"/// Returns the <c>value</c>, or null.",
			"/// Wraps (<see cref=\"Other.Member\"/>) in parentheses.",
			"/// <summary>Returns the <c>value</c>, or null.</summary>",
		}
		for _, formattedInput := range formattedInputs {
			block := csharpBlock(t, []string{formattedInput})
			if formattedText, changed := reflow.Reflow(block, reflow.DefaultConfig()); changed {
				t.Fatalf("expected no-op for %q, got %q", formattedInput, formattedText)
			}
		}
	})

	t.Run("across a wrap", func(t *testing.T) {
		block := csharpBlock(t, []string{
			"/// " + strings.Repeat("pad ", 9) + "holds the <c>value</c>, or null when the lookup finds nothing.",
		})
		formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 44, UseCompactStyle: true, PreserveBlankLines: true})
		if !changed {
			t.Fatal("expected a rewrap")
		}
		if !strings.Contains(formattedText, "<c>value</c>,") {
			t.Fatalf("comma drifted from its element in %q", formattedText)
		}
	})
}

// TestIdempotence verifies that reflowing already-reflowed output yields a
// no-op under the same configuration.
func TestIdempotence(t *testing.T) {
	testCases := []struct {
		name   string
		lines  []string
		config reflow.Config
	}{
		{
			name: "expanded summary",
			lines: []string{
				"/// <summary>" + strings.Repeat("alpha beta gamma ", 12) + "</summary>",
				"/// <param name=\"count\">Number of items.</param>",
			},
			config: reflow.Config{MaxLineLength: 60, UseCompactStyle: true, PreserveBlankLines: true},
		},
		{
			name: "plain text with blank line",
			lines: []string{
				"/// First paragraph that is fairly long and will wrap at the configured width.",
				"///",
				"/// Second paragraph.",
			},
			config: reflow.Config{MaxLineLength: 50, UseCompactStyle: true, PreserveBlankLines: true},
		},
		{
			name: "inline tags",
			lines: []string{
				"/// Uses <see cref=\"Other.Member\"/> together with <c>value</c> across a fairly long sentence that wraps.",
			},
			config: reflow.Config{MaxLineLength: 48, UseCompactStyle: true, PreserveBlankLines: true},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			firstBlock := csharpBlock(t, testCase.lines)
			firstText, firstChanged := reflow.Reflow(firstBlock, testCase.config)
			if !firstChanged {
				t.Skip("input already formatted")
			}
			secondBlock := csharpBlock(t, strings.Split(firstText, "\n"))
			secondText, secondChanged := reflow.Reflow(secondBlock, testCase.config)
			if secondChanged {
				t.Fatalf("reflow is not idempotent:\nfirst:\n%s\nsecond:\n%s", firstText, secondText)
			}
		})
	}
}

// TestRoundTripSafety verifies reflow changes only whitespace for blocks
// without code elements.
func TestRoundTripSafety(t *testing.T) {
	lines := []string{
		"/// <summary>Grabs the <c>first</c> item and verifies it against <see cref=\"Rules\"/> with a long trailing explanation.</summary>",
		"/// <returns>The first item.</returns>",
	}
	block := csharpBlock(t, lines)
	formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 52, UseCompactStyle: true, PreserveBlankLines: true})
	if !changed {
		t.Fatal("expected a reformat")
	}
	stripWhitespace := func(input string) string {
		return strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' {
				return -1
			}
			return r
		}, input)
	}
	if stripWhitespace(formattedText) != stripWhitespace(strings.Join(lines, "\n")) {
		t.Fatalf("non-whitespace content changed:\noriginal: %s\nformatted: %s", strings.Join(lines, "\n"), formattedText)
	}
}

// TestVerbatimCode verifies code content is copied line-for-line and always
// expanded.
func TestVerbatimCode(t *testing.T) {
	lines := []string{
		"/// <code>var tiny = 1;</code>",
	}
	block := csharpBlock(t, lines)
	formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 120, UseCompactStyle: true, PreserveBlankLines: true})
	if !changed {
		t.Fatal("code elements must always expand")
	}
	expectedText := "/// <code>\n/// var tiny = 1;\n/// </code>"
	if formattedText != expectedText {
		t.Fatalf("expected %q, got %q", expectedText, formattedText)
	}
}

func TestBlankLineHandling(t *testing.T) {
	lines := []string{
		"/// First.",
		"///",
		"/// Second.",
	}
	block := csharpBlock(t, lines)

	t.Run("preserved", func(t *testing.T) {
		_, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 120, UseCompactStyle: true, PreserveBlankLines: true})
		if changed {
			t.Fatal("expected no-op when blank lines are preserved")
		}
	})

	t.Run("dropped", func(t *testing.T) {
		formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 120, UseCompactStyle: true, PreserveBlankLines: false})
		if !changed {
			t.Fatal("expected blank line removal to change the block")
		}
		if strings.Contains(formattedText, "\n///\n") {
			t.Fatalf("blank separator still present in %q", formattedText)
		}
	})
}

func TestCompactDisabled(t *testing.T) {
	block := csharpBlock(t, []string{"/// <summary>Gets the name.</summary>"})
	formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 120, UseCompactStyle: false, PreserveBlankLines: true})
	if !changed {
		t.Fatal("expected expansion when compact style is disabled")
	}
	expectedText := "/// <summary>\n/// Gets the name.\n/// </summary>"
	if formattedText != expectedText {
		t.Fatalf("expected %q, got %q", expectedText, formattedText)
	}
}

func TestIndentationPreserved(t *testing.T) {
	lines := []string{
		"    /// <summary>" + strings.Repeat("indent keeping words ", 8) + "</summary>",
	}
	block := csharpBlock(t, lines)
	formattedText, changed := reflow.Reflow(block, reflow.Config{MaxLineLength: 60, UseCompactStyle: true, PreserveBlankLines: true})
	if !changed {
		t.Fatal("expected a reformat")
	}
	for _, formattedLine := range strings.Split(formattedText, "\n") {
		if !strings.HasPrefix(formattedLine, "    /// ") {
			t.Fatalf("line lost indentation: %q", formattedLine)
		}
	}
}

// TestBuildConstraintStaysSeparate verifies a machine directive above package
// documentation never joins the block handed to the engine, so reflowing can
// never fold "//go:build" into prose.
func TestBuildConstraintStaysSeparate(t *testing.T) {
	style, found := comment.StyleForLanguage("go")
	if !found {
		t.Fatal("go style not found")
	}
	lines := []string{
		"//go:build linux",
		"// Package doc.",
	}
	blocks := comment.FindAllBlocks(lines, style)
	if len(blocks) != 1 || blocks[0].StartLine != 1 || blocks[0].EndLine != 1 {
		t.Fatalf("expected one block covering only the doc line, got %+v", blocks)
	}
	if formattedText, changed := reflow.Reflow(blocks[0], reflow.DefaultConfig()); changed {
		t.Fatalf("expected no-op on the doc line, got %q", formattedText)
	}
}

func TestBlockPairIsNoOp(t *testing.T) {
	style, _ := comment.StyleForLanguage("csharp")
	blocks := comment.FindAllBlocks([]string{"/**", " * text", " */"}, style)
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	if _, changed := reflow.Reflow(blocks[0], reflow.DefaultConfig()); changed {
		t.Fatal("block-comment pairs must not be rewritten")
	}
}
