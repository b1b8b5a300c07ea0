// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/cmt/internal/commands"
	"github.com/temirov/cmt/internal/config"
	"github.com/temirov/cmt/internal/output"
	"github.com/temirov/cmt/internal/reflow"
	"github.com/temirov/cmt/internal/services/clipboard"
	"github.com/temirov/cmt/internal/tokenizer"
	"github.com/temirov/cmt/internal/types"
	"github.com/temirov/cmt/internal/utils"
)

const (
	exclusionFlagName      = "e"
	noGitignoreFlagName    = "no-gitignore"
	noIgnoreFlagName       = "no-ignore"
	formatFlagName         = "format"
	copyFlagName           = "copy"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	widthFlagName          = "width"
	compactFlagName        = "compact"
	keepBlankLinesFlagName = "keep-blank-lines"
	writeFlagName          = "write"
	tagFlagName            = "tag"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"
	versionTemplate        = "cmt version: %s\n"
	defaultPath            = "."
	rootUse                = "cmt"
	rootShortDescription   = "cmt command line interface"
	rootLongDescription    = `cmt inspects and reformats documentation comments in source code.
It lists doc-comment blocks, reflows XML doc comments to a line width, and
extracts link references and task tags from comment lines.
Use --format to select raw, json, xml, or markdown output, and --version to print the application version.`
	versionFlagDescription = "display application version"

	blocksUse              = "blocks [paths...]"
	reflowUse              = "reflow [paths...]"
	linksUse               = "links [paths...]"
	tagsUse                = "tags [paths...]"
	configUse              = "config"
	configInitUse          = "init"
	blocksAlias            = "b"
	reflowAlias            = "r"
	linksAlias             = "l"
	tagsAlias              = "t"
	blocksShortDescription = "list documentation comment blocks (" + blocksAlias + ")"
	reflowShortDescription = "reflow documentation comments (" + reflowAlias + ")"
	linksShortDescription  = "extract link references from comments (" + linksAlias + ")"
	tagsShortDescription   = "extract task tags from comments (" + tagsAlias + ")"
	configShortDescription = "manage cmt configuration"
	initShortDescription   = "write a default configuration file"

	// blocksLongDescription provides detailed help for the blocks command.
	blocksLongDescription = `List documentation comment blocks for one or more paths.
Use --tokens to include tiktoken token counts per block.`
	// blocksUsageExample demonstrates blocks command usage.
	blocksUsageExample = `  # List doc blocks of a project as JSON
  cmt blocks --format json .

  # Count tokens per block
  cmt blocks --tokens src/`

	// reflowLongDescription provides detailed help for the reflow command.
	reflowLongDescription = `Reflow every documentation comment block under the provided paths.
Use --width, --compact, and --keep-blank-lines to override configuration, and
--write to rewrite changed files in place.`
	// reflowUsageExample demonstrates reflow command usage.
	reflowUsageExample = `  # Preview reflowed files at width 100
  cmt reflow --width 100 .

  # Rewrite files in place
  cmt reflow --write src/`

	// linksLongDescription provides detailed help for the links command.
	linksLongDescription = `Scan comment lines for link references and report every occurrence
with its file position, target path, line range, and anchor.`
	// linksUsageExample demonstrates links command usage.
	linksUsageExample = `  # Report link references as a Markdown table
  cmt links --format markdown .`

	// tagsLongDescription provides detailed help for the tags command.
	tagsLongDescription = `Scan comment lines for task tags such as TODO and FIXME and report every
occurrence with its metadata. Use --tag to recognize additional keywords.`
	// tagsUsageExample demonstrates tags command usage.
	tagsUsageExample = `  # Report task tags as a Markdown table
  cmt tags --format markdown .

  # Recognize a project-specific tag
  cmt tags --tag REVIEW src/`

	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	formatFlagDescription           = "output format"
	copyFlagDescription             = "copy rendered output to the clipboard"
	tokensFlagDescription           = "include token counts per block"
	modelFlagDescription            = "tokenizer model to use for token counting"
	widthFlagDescription            = "maximum line length for reflowed comments"
	compactFlagDescription          = "render short single-child tags on one line"
	keepBlankLinesFlagDescription   = "preserve blank separator lines inside comments"
	writeFlagDescription            = "rewrite changed files in place"
	tagFlagDescription              = "additional tag keyword to recognize"
	globalFlagDescription           = "write the global configuration file"
	forceFlagDescription            = "overwrite an existing configuration file"

	defaultTokenizerModelName = "gpt-4o"

	invalidFormatMessage        = "invalid format value '%s'"
	warningSkipPathFormat       = "Warning: skipping %s: %v\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	clipboardCopyErrorFormat    = "copy output to clipboard: %w"
	configInitializedFormat     = "Configuration written to %s\n"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatMarkdown:
		return true
	default:
		return false
	}
}

// Execute runs the cmt application.
func Execute() error {
	rootCommand := createRootCommand()
	arguments := normalizeBooleanFlagArguments(rootCommand, os.Args[1:])
	arguments = normalizeCopyFlagArguments(arguments)
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createBlocksCommand(),
		createReflowCommand(),
		createLinksCommand(),
		createTagsCommand(),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
}

// commonOptions stores flags shared by every scanning command.
type commonOptions struct {
	paths           pathOptions
	outputFormat    string
	copyToClipboard bool
}

// addCommonFlags registers the flags shared by every scanning command.
func addCommonFlags(command *cobra.Command, options *commonOptions) {
	command.Flags().StringArrayVarP(&options.paths.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().BoolVar(&options.paths.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().BoolVar(&options.paths.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	command.Flags().StringVar(&options.outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerCopyFlag(command.Flags(), &options.copyToClipboard)
}

// resolveFormat validates and normalizes the format flag value.
func resolveFormat(outputFormat string) (string, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(outputFormat))
	if !isSupportedFormat(normalizedFormat) {
		return "", fmt.Errorf(invalidFormatMessage, normalizedFormat)
	}
	return normalizedFormat, nil
}

// createBlocksCommand returns the blocks subcommand.
func createBlocksCommand() *cobra.Command {
	var options commonOptions
	var tokensEnabled bool
	var tokenModel string

	blocksCommand := &cobra.Command{
		Use:     blocksUse,
		Aliases: []string{blocksAlias},
		Short:   blocksShortDescription,
		Long:    blocksLongDescription,
		Example: blocksUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormat, formatError := resolveFormat(options.outputFormat)
			if formatError != nil {
				return formatError
			}
			applicationConfig, configError := loadApplicationConfiguration()
			if configError != nil {
				return configError
			}
			if !command.Flags().Changed(tokensFlagName) && applicationConfig.Tokens.Enabled != nil {
				tokensEnabled = *applicationConfig.Tokens.Enabled
			}
			if !command.Flags().Changed(modelFlagName) && applicationConfig.Tokens.Model != "" {
				tokenModel = applicationConfig.Tokens.Model
			}

			var tokenCounter tokenizer.Counter
			var resolvedModel string
			if tokensEnabled {
				createdCounter, counterModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenModel})
				if counterError != nil {
					return counterError
				}
				tokenCounter = createdCounter
				resolvedModel = counterModel
			}

			return runScanCommand(arguments, options, applicationConfig, func(scanContext context.Context, validatedPath types.ValidatedPath, ignorePatterns []string) (string, error) {
				fileBlocks, blocksError := commands.GetBlocksData(scanContext, validatedPath, commands.BlocksOptions{
					IgnorePatterns: ignorePatterns,
					TokenCounter:   tokenCounter,
					TokenModel:     resolvedModel,
				})
				if blocksError != nil {
					return "", blocksError
				}
				return output.RenderBlocks(outputFormat, fileBlocks)
			})
		},
	}

	addCommonFlags(blocksCommand, &options)
	blocksCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	blocksCommand.Flags().StringVar(&tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	return blocksCommand
}

// createReflowCommand returns the reflow subcommand.
func createReflowCommand() *cobra.Command {
	var options commonOptions
	var lineWidth int
	var compactStyle bool
	var keepBlankLines bool
	var writeInPlace bool

	reflowCommand := &cobra.Command{
		Use:     reflowUse,
		Aliases: []string{reflowAlias},
		Short:   reflowShortDescription,
		Long:    reflowLongDescription,
		Example: reflowUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormat, formatError := resolveFormat(options.outputFormat)
			if formatError != nil {
				return formatError
			}
			applicationConfig, configError := loadApplicationConfiguration()
			if configError != nil {
				return configError
			}
			if !command.Flags().Changed(widthFlagName) && applicationConfig.Reflow.Width != nil {
				lineWidth = *applicationConfig.Reflow.Width
			}
			if !command.Flags().Changed(compactFlagName) && applicationConfig.Reflow.Compact != nil {
				compactStyle = *applicationConfig.Reflow.Compact
			}
			if !command.Flags().Changed(keepBlankLinesFlagName) && applicationConfig.Reflow.KeepBlankLines != nil {
				keepBlankLines = *applicationConfig.Reflow.KeepBlankLines
			}

			reflowConfig, reflowConfigError := reflow.NewConfig(lineWidth, compactStyle, keepBlankLines)
			if reflowConfigError != nil {
				return reflowConfigError
			}

			return runScanCommand(arguments, options, applicationConfig, func(scanContext context.Context, validatedPath types.ValidatedPath, ignorePatterns []string) (string, error) {
				fileReflows, reflowError := commands.GetReflowData(scanContext, validatedPath, commands.ReflowOptions{
					IgnorePatterns: ignorePatterns,
					Config:         reflowConfig,
					Write:          writeInPlace,
				})
				if reflowError != nil {
					return "", reflowError
				}
				return output.RenderReflow(outputFormat, fileReflows)
			})
		},
	}

	addCommonFlags(reflowCommand, &options)
	reflowCommand.Flags().IntVar(&lineWidth, widthFlagName, reflow.DefaultMaxLineLength, widthFlagDescription)
	registerBooleanFlag(reflowCommand.Flags(), &compactStyle, compactFlagName, true, compactFlagDescription)
	registerBooleanFlag(reflowCommand.Flags(), &keepBlankLines, keepBlankLinesFlagName, true, keepBlankLinesFlagDescription)
	reflowCommand.Flags().BoolVar(&writeInPlace, writeFlagName, false, writeFlagDescription)
	return reflowCommand
}

// createLinksCommand returns the links subcommand.
func createLinksCommand() *cobra.Command {
	var options commonOptions

	linksCommand := &cobra.Command{
		Use:     linksUse,
		Aliases: []string{linksAlias},
		Short:   linksShortDescription,
		Long:    linksLongDescription,
		Example: linksUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormat, formatError := resolveFormat(options.outputFormat)
			if formatError != nil {
				return formatError
			}
			applicationConfig, configError := loadApplicationConfiguration()
			if configError != nil {
				return configError
			}
			return runScanCommand(arguments, options, applicationConfig, func(scanContext context.Context, validatedPath types.ValidatedPath, ignorePatterns []string) (string, error) {
				occurrences, linksError := commands.GetLinksData(scanContext, validatedPath, commands.LinksOptions{
					IgnorePatterns: ignorePatterns,
				})
				if linksError != nil {
					return "", linksError
				}
				return output.RenderLinks(outputFormat, occurrences)
			})
		},
	}

	addCommonFlags(linksCommand, &options)
	return linksCommand
}

// createTagsCommand returns the tags subcommand.
func createTagsCommand() *cobra.Command {
	var options commonOptions
	var customTags []string

	tagsCommand := &cobra.Command{
		Use:     tagsUse,
		Aliases: []string{tagsAlias},
		Short:   tagsShortDescription,
		Long:    tagsLongDescription,
		Example: tagsUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormat, formatError := resolveFormat(options.outputFormat)
			if formatError != nil {
				return formatError
			}
			applicationConfig, configError := loadApplicationConfiguration()
			if configError != nil {
				return configError
			}
			combinedCustomTags := append([]string{}, applicationConfig.Tags.Custom...)
			combinedCustomTags = append(combinedCustomTags, customTags...)

			return runScanCommand(arguments, options, applicationConfig, func(scanContext context.Context, validatedPath types.ValidatedPath, ignorePatterns []string) (string, error) {
				occurrences, tagsError := commands.GetTagsData(scanContext, validatedPath, commands.TagsOptions{
					IgnorePatterns: ignorePatterns,
					CustomTags:     utils.DeduplicatePatterns(combinedCustomTags),
				})
				if tagsError != nil {
					return "", tagsError
				}
				return output.RenderTags(outputFormat, occurrences)
			})
		},
	}

	addCommonFlags(tagsCommand, &options)
	tagsCommand.Flags().StringArrayVar(&customTags, tagFlagName, nil, tagFlagDescription)
	return tagsCommand
}

// createConfigCommand returns the config subcommand with its init child.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var writeGlobal bool
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initError != nil {
				return initError
			}
			fmt.Printf(configInitializedFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)

	configCommand.AddCommand(initCommand)
	return configCommand
}

// loadApplicationConfiguration loads the merged application configuration for
// the current working directory.
func loadApplicationConfiguration() (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
}

// runScanCommand validates the argument paths, loads ignore patterns per
// directory, runs the collector for every path, and writes the concatenated
// rendered output. Per-path failures are warnings; the command fails only
// when no path can be processed at all.
func runScanCommand(
	arguments []string,
	options commonOptions,
	applicationConfig config.ApplicationConfiguration,
	collect func(scanContext context.Context, validatedPath types.ValidatedPath, ignorePatterns []string) (string, error),
) error {
	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	exclusionPatterns := append([]string{}, applicationConfig.Paths.Exclude...)
	exclusionPatterns = append(exclusionPatterns, options.paths.exclusionPatterns...)
	useGitignore := !options.paths.disableGitignore
	if applicationConfig.Paths.UseGitignore != nil && !options.paths.disableGitignore {
		useGitignore = *applicationConfig.Paths.UseGitignore
	}
	useIgnoreFile := !options.paths.disableIgnoreFile
	if applicationConfig.Paths.UseIgnoreFile != nil && !options.paths.disableIgnoreFile {
		useIgnoreFile = *applicationConfig.Paths.UseIgnoreFile
	}

	scanContext := context.Background()

	var renderedSections []string
	for _, validatedPath := range validatedPaths {
		var ignorePatterns []string
		if validatedPath.IsDir {
			patterns, loadError := config.LoadRecursiveIgnorePatterns(validatedPath.AbsolutePath, exclusionPatterns, useGitignore, useIgnoreFile)
			if loadError != nil {
				fmt.Fprintf(os.Stderr, warningSkipPathFormat, validatedPath.AbsolutePath, loadError)
				continue
			}
			ignorePatterns = patterns
		}
		rendered, collectError := collect(scanContext, validatedPath, ignorePatterns)
		if collectError != nil {
			fmt.Fprintf(os.Stderr, warningSkipPathFormat, validatedPath.AbsolutePath, collectError)
			continue
		}
		if rendered != "" {
			renderedSections = append(renderedSections, rendered)
		}
	}

	renderedOutput := strings.Join(renderedSections, "\n")
	if renderedOutput != "" {
		fmt.Print(renderedOutput)
		if !strings.HasSuffix(renderedOutput, "\n") {
			fmt.Println()
		}
	}

	if options.copyToClipboard && renderedOutput != "" {
		copier := clipboard.NewService()
		if copyError := copier.Copy(renderedOutput); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
