package main

// Command names
const (
	CmdNameGenerate  = "generate"
	CmdNameValidate  = "validate"
	CmdNameWildcards = "wildcards"
	CmdNameVersion   = "version"
	CmdNameHelp      = "help"
)

// Flag names - long form
const (
	FlagTemplate  = "template"
	FlagPrompt    = "prompt"
	FlagStrategy  = "strategy"
	FlagCount     = "count"
	FlagSeed      = "seed"
	FlagWildcards = "wildcards"
	FlagOutput    = "output"
	FlagFormat    = "format"
)

// Flag names - short form
const (
	FlagTemplateShort  = "t"
	FlagPromptShort    = "p"
	FlagStrategyShort  = "s"
	FlagCountShort     = "n"
	FlagWildcardsShort = "w"
	FlagOutputShort    = "o"
	FlagFormatShort    = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultCount  = 1
	FlagDefaultSeed   = -1 // unused unless --seed is given
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgConflictingSource = "use either --template or --prompt, not both"
	ErrMsgMissingWildcards  = "wildcard directory required"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgLoadWildcards     = "failed to load wildcard directory"
	ErrMsgGenerateFailed    = "prompt generation failed"
	ErrMsgValidateFailed    = "template validation failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidStrategy   = "invalid generation strategy"
)

// Help text templates
const (
	HelpMainUsage = `dynamicprompts - Dynamic prompt generation CLI

Usage:
    dynamicprompts <command> [options]

Commands:
    generate    Generate prompts from a template
    validate    Check template syntax without generating
    wildcards   List wildcard collections in a directory
    version     Show version information
    help        Show help for a command

Use "dynamicprompts help <command>" for more information about a command.`

	HelpGenerateUsage = `Generate prompts from a template

Usage:
    dynamicprompts generate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -p, --prompt <text>     Inline template text
    -s, --strategy <name>   Strategy: random, combinatorial, cyclical (default: random)
    -n, --count <n>         Number of prompts (0 with combinatorial: all)
    --seed <n>              Random seed for reproducible output
    -w, --wildcards <dir>   Wildcard collection directory
    -o, --output <file>     Output file (default: stdout)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    dynamicprompts generate -p "a {red|green|blue} ball" -n 5
    dynamicprompts generate -t template.txt -s combinatorial -n 0
    dynamicprompts generate -p "__colors__ __animals__" -w ./wildcards --seed 42
    cat template.txt | dynamicprompts generate -t - -n 3 -F json`

	HelpValidateUsage = `Check template syntax without generating

Usage:
    dynamicprompts validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -p, --prompt <text>     Inline template text
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    dynamicprompts validate -p "a {red|green|blue} ball"
    cat template.txt | dynamicprompts validate -t -`

	HelpWildcardsUsage = `List wildcard collections in a directory

Usage:
    dynamicprompts wildcards [options]

Options:
    -w, --wildcards <dir>   Wildcard collection directory
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    dynamicprompts wildcards -w ./wildcards
    dynamicprompts wildcards -w ./wildcards -F json`

	HelpVersionUsage = `Show version information

Usage:
    dynamicprompts version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    dynamicprompts help [command]

Commands:
    generate    Show help for generate command
    validate    Show help for validate command
    wildcards   Show help for wildcards command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "dynamicprompts version %s\nGo: %s"
)

// Validation output format templates
const (
	ValidationTextSuccess = "Template is valid"
	ValidationTextFailure = "Template is invalid"
)

// Wildcards output format templates
const (
	WildcardsTextFormat = "%s (%d values)"
	WildcardsTextEmpty  = "No wildcard collections found"
)

// CLI metadata
const (
	CLIName = "dynamicprompts"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
