package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/cmt/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

// writeConfigurationFile creates the configuration file at filePath when content is non-empty.
func writeConfigurationFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if content == "" {
		return
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o600); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name           string
		globalContent  string
		localContent   string
		expectedWidth  *int
		expectedCompat *bool
		expectedModel  string
		expectedTokens *bool
		expectedCustom []string
	}{
		{
			name:           "local_overrides_global",
			globalContent:  "reflow:\n  width: 100\n  compact: false\ntokens:\n  enabled: false\n  model: gpt-4o\n",
			localContent:   "reflow:\n  width: 80\ntokens:\n  enabled: true\n  model: custom\ntags:\n  custom: [REVIEW]\n",
			expectedWidth:  intPointer(80),
			expectedCompat: boolPointer(false),
			expectedModel:  "custom",
			expectedTokens: boolPointer(true),
			expectedCustom: []string{"REVIEW"},
		},
		{
			name:           "global_only",
			globalContent:  "reflow:\n  width: 72\ntags:\n  custom: [REVIEW, SPIKE, REVIEW]\n",
			localContent:   "",
			expectedWidth:  intPointer(72),
			expectedCompat: nil,
			expectedModel:  "",
			expectedTokens: nil,
			expectedCustom: []string{"REVIEW", "SPIKE"},
		},
		{
			name:           "local_only",
			globalContent:  "",
			localContent:   "reflow:\n  compact: true\n  keep_blank_lines: false\n",
			expectedWidth:  nil,
			expectedCompat: boolPointer(true),
			expectedModel:  "",
			expectedTokens: nil,
			expectedCustom: []string{},
		},
		{
			name:           "no_configuration_files",
			globalContent:  "",
			localContent:   "",
			expectedWidth:  nil,
			expectedCompat: nil,
			expectedModel:  "",
			expectedTokens: nil,
			expectedCustom: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)

			globalConfigDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
			if makeDirError := os.MkdirAll(globalConfigDirectory, 0o755); makeDirError != nil {
				t.Fatalf("failed to create global configuration directory: %v", makeDirError)
			}
			writeConfigurationFile(t, filepath.Join(globalConfigDirectory, utils.GlobalConfigFileName), testCase.globalContent)

			workingDirectory := t.TempDir()
			writeConfigurationFile(t, filepath.Join(workingDirectory, utils.LocalConfigFileName), testCase.localContent)

			loadedConfiguration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
			if loadError != nil {
				t.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
			}

			assertIntPointerEqual(t, "reflow width", testCase.expectedWidth, loadedConfiguration.Reflow.Width)
			assertBoolPointerEqual(t, "reflow compact", testCase.expectedCompat, loadedConfiguration.Reflow.Compact)
			if loadedConfiguration.Tokens.Model != testCase.expectedModel {
				t.Errorf("token model: got %q want %q", loadedConfiguration.Tokens.Model, testCase.expectedModel)
			}
			assertBoolPointerEqual(t, "tokens enabled", testCase.expectedTokens, loadedConfiguration.Tokens.Enabled)
			if !reflect.DeepEqual(loadedConfiguration.Tags.Custom, testCase.expectedCustom) {
				t.Errorf("custom tags: got %v want %v", loadedConfiguration.Tags.Custom, testCase.expectedCustom)
			}
		})
	}
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)

	workingDirectory := t.TempDir()
	explicitFileName := "custom.yaml"
	writeConfigurationFile(t, filepath.Join(workingDirectory, explicitFileName), "paths:\n  exclude: [vendor/, vendor/]\n  use_gitignore: false\n")

	loadedConfiguration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: explicitFileName})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}

	expectedExclusions := []string{"vendor/"}
	if !reflect.DeepEqual(loadedConfiguration.Paths.Exclude, expectedExclusions) {
		t.Fatalf("exclusions: got %v want %v", loadedConfiguration.Paths.Exclude, expectedExclusions)
	}
	assertBoolPointerEqual(t, "use gitignore", boolPointer(false), loadedConfiguration.Paths.UseGitignore)
}

func TestLoadApplicationConfigurationRejectsDirectoryPath(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)

	workingDirectory := t.TempDir()
	directoryName := "confdir"
	if makeDirError := os.MkdirAll(filepath.Join(workingDirectory, directoryName), 0o755); makeDirError != nil {
		t.Fatalf("failed to create directory: %v", makeDirError)
	}

	_, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: directoryName})
	if loadError == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func assertBoolPointerEqual(testingHandle *testing.T, label string, expected *bool, actual *bool) {
	testingHandle.Helper()
	if expected == nil {
		if actual != nil {
			testingHandle.Errorf("%s: got %v want nil", label, *actual)
		}
		return
	}
	if actual == nil {
		testingHandle.Errorf("%s: got nil want %v", label, *expected)
		return
	}
	if *actual != *expected {
		testingHandle.Errorf("%s: got %v want %v", label, *actual, *expected)
	}
}

func assertIntPointerEqual(testingHandle *testing.T, label string, expected *int, actual *int) {
	testingHandle.Helper()
	if expected == nil {
		if actual != nil {
			testingHandle.Errorf("%s: got %v want nil", label, *actual)
		}
		return
	}
	if actual == nil {
		testingHandle.Errorf("%s: got nil want %v", label, *expected)
		return
	}
	if *actual != *expected {
		testingHandle.Errorf("%s: got %v want %v", label, *actual, *expected)
	}
}
