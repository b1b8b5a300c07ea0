package tags_test

import (
	"testing"
	"time"

	"github.com/temirov/cmt/internal/tags"
)

func dateOf(t *testing.T, value string) time.Time {
	t.Helper()
	parsedDate, parseError := time.Parse("2006-01-02", value)
	if parseError != nil {
		t.Fatalf("bad test date %s: %v", value, parseError)
	}
	return parsedDate
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		line          string
		customTags    []string
		expectedMatch *tags.Match
	}{
		{
			name: "full metadata",
			line: "TODO(@mads, #1234, 2026-02-01): Refactor this",
			expectedMatch: &tags.Match{
				TagName: "TODO",
				Owner:   "mads",
				Issue:   1234,
			},
		},
		{
			name: "invalid calendar date ignored",
			line: "TODO(2026-02-32): bad date",
			expectedMatch: &tags.Match{
				TagName: "TODO",
			},
		},
		{
			name: "comment marker stripped",
			line: "    // HACK: temporary workaround",
			expectedMatch: &tags.Match{
				TagName: "HACK",
			},
		},
		{
			name: "doc marker stripped",
			line: "/// FIXME [#42] broken edge case",
			expectedMatch: &tags.Match{
				TagName: "FIXME",
				Issue:   42,
			},
		},
		{
			name: "square bracket metadata",
			line: "# TODO[@kim; 2025-12-31] finish port",
			expectedMatch: &tags.Match{
				TagName: "TODO",
				Owner:   "kim",
			},
		},
		{
			name: "case insensitive with canonical spelling",
			line: "// todo: lower case",
			expectedMatch: &tags.Match{
				TagName: "TODO",
			},
		},
		{
			name:       "custom tag",
			line:       "// REVIEW(@pat): double-check the math",
			customTags: []string{"REVIEW"},
			expectedMatch: &tags.Match{
				TagName: "REVIEW",
				Owner:   "pat",
			},
		},
		{
			name:          "tag not at content start",
			line:          "// this mentions TODO later",
			expectedMatch: nil,
		},
		{
			name:          "tag embedded in word",
			line:          "// TODOS: plural is not a tag",
			expectedMatch: nil,
		},
		{
			name:          "unknown keyword",
			line:          "// WISH: not registered",
			expectedMatch: nil,
		},
		{
			name:          "empty line",
			line:          "",
			expectedMatch: nil,
		},
		{
			name: "unterminated metadata ignored",
			line: "// TODO(@mads broken",
			expectedMatch: &tags.Match{
				TagName: "TODO",
			},
		},
		{
			name: "unrecognized tokens ignored",
			line: "// TODO(urgent, @sam, maybe#later): work",
			expectedMatch: &tags.Match{
				TagName: "TODO",
				Owner:   "sam",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			matches := tags.Parse(testCase.line, tags.DefaultKnownTags, testCase.customTags)
			if testCase.expectedMatch == nil {
				if len(matches) != 0 {
					t.Fatalf("expected no matches, got %+v", matches)
				}
				return
			}
			if len(matches) != 1 {
				t.Fatalf("expected one match, got %d: %+v", len(matches), matches)
			}
			actual := matches[0]
			if actual.TagName != testCase.expectedMatch.TagName {
				t.Fatalf("expected tag %q, got %q", testCase.expectedMatch.TagName, actual.TagName)
			}
			if actual.Owner != testCase.expectedMatch.Owner {
				t.Fatalf("expected owner %q, got %q", testCase.expectedMatch.Owner, actual.Owner)
			}
			if actual.Issue != testCase.expectedMatch.Issue {
				t.Fatalf("expected issue %d, got %d", testCase.expectedMatch.Issue, actual.Issue)
			}
		})
	}
}

func TestParseDueDates(t *testing.T) {
	testCases := []struct {
		name        string
		line        string
		expectedDue time.Time
	}{
		{name: "valid date", line: "TODO(2026-02-01): x", expectedDue: dateOf(t, "2026-02-01")},
		{name: "day out of range", line: "TODO(2026-02-32): x"},
		{name: "month out of range", line: "TODO(2026-13-01): x"},
		{name: "wrong separator", line: "TODO(2026/02/01): x"},
		{name: "short form", line: "TODO(26-2-1): x"},
		{name: "leap day accepted", line: "TODO(2028-02-29): x", expectedDue: dateOf(t, "2028-02-29")},
		{name: "leap day rejected off leap year", line: "TODO(2026-02-29): x"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			matches := tags.Parse(testCase.line, tags.DefaultKnownTags, nil)
			if len(matches) != 1 {
				t.Fatalf("expected one match, got %d", len(matches))
			}
			actual := matches[0]
			if testCase.expectedDue.IsZero() {
				if actual.HasDueDate() {
					t.Fatalf("expected no due date, got %v", actual.DueDate)
				}
				return
			}
			if !actual.DueDate.Equal(testCase.expectedDue) {
				t.Fatalf("expected due date %v, got %v", testCase.expectedDue, actual.DueDate)
			}
		})
	}
}

func TestParseFirstMetadataOfEachKindWins(t *testing.T) {
	matches := tags.Parse("TODO(@first @second, #1 #2, 2025-01-01 2025-02-02): x", tags.DefaultKnownTags, nil)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	actual := matches[0]
	if actual.Owner != "first" {
		t.Fatalf("expected owner first, got %q", actual.Owner)
	}
	if actual.Issue != 1 {
		t.Fatalf("expected issue 1, got %d", actual.Issue)
	}
	if !actual.DueDate.Equal(dateOf(t, "2025-01-01")) {
		t.Fatalf("expected first due date, got %v", actual.DueDate)
	}
}

func TestParseSpan(t *testing.T) {
	line := "// TODO(@mads): fix"
	matches := tags.Parse(line, tags.DefaultKnownTags, nil)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	actual := matches[0]
	spanText := line[actual.SpanStart : actual.SpanStart+actual.SpanLength]
	if spanText != "TODO(@mads):" {
		t.Fatalf("expected span %q, got %q", "TODO(@mads):", spanText)
	}
}
