package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ITCups/dynamicprompts"
)

// generateCLIConfig holds parsed generate command configuration
type generateCLIConfig struct {
	templatePath string
	promptText   string
	strategyName string
	count        int
	seed         int64
	seedSet      bool
	wildcardDir  string
	outputPath   string
	format       string
}

// generateOutput represents JSON output for generation
type generateOutput struct {
	Strategy string   `json:"strategy"`
	Count    int      `json:"count"`
	Prompts  []string `json:"prompts"`
}

func runGenerate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseGenerateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	source, exitCode := loadTemplateSource(cfg.templatePath, cfg.promptText, stdin, stderr)
	if exitCode != ExitCodeSuccess {
		return exitCode
	}

	strategy, err := dynamicprompts.ParseStrategy(cfg.strategyName)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidStrategy, cfg.strategyName)
		return ExitCodeUsageError
	}

	engine, exitCode := buildEngine(cfg.wildcardDir, stderr)
	if exitCode != ExitCodeSuccess {
		return exitCode
	}

	genOpts := []dynamicprompts.GenerateOption{dynamicprompts.WithStrategy(strategy)}
	if cfg.seedSet {
		genOpts = append(genOpts, dynamicprompts.WithSeed(cfg.seed))
	}

	prompts, err := engine.Generate(source, cfg.count, genOpts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgGenerateFailed, err)
		return ExitCodeError
	}

	var rendered []byte
	if cfg.format == OutputFormatJSON {
		output := generateOutput{
			Strategy: strategy.String(),
			Count:    len(prompts),
			Prompts:  prompts,
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		rendered = append(jsonBytes, '\n')
	} else {
		rendered = []byte(strings.Join(prompts, FmtNewline) + FmtNewline)
	}

	if err := emitPrompts(cfg.outputPath, rendered, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseGenerateFlags(args []string) (*generateCLIConfig, error) {
	fs := flag.NewFlagSet(CmdNameGenerate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &generateCLIConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.promptText, FlagPrompt, "", "")
	fs.StringVar(&cfg.promptText, FlagPromptShort, "", "")
	fs.StringVar(&cfg.strategyName, FlagStrategy, dynamicprompts.StrategyNameRandom, "")
	fs.StringVar(&cfg.strategyName, FlagStrategyShort, dynamicprompts.StrategyNameRandom, "")
	fs.IntVar(&cfg.count, FlagCount, FlagDefaultCount, "")
	fs.IntVar(&cfg.count, FlagCountShort, FlagDefaultCount, "")
	fs.Int64Var(&cfg.seed, FlagSeed, FlagDefaultSeed, "")
	fs.StringVar(&cfg.wildcardDir, FlagWildcards, "", "")
	fs.StringVar(&cfg.wildcardDir, FlagWildcardsShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// Any explicit seed value is honored, including negative ones
	fs.Visit(func(f *flag.Flag) {
		if f.Name == FlagSeed {
			cfg.seedSet = true
		}
	})

	if cfg.templatePath == "" && cfg.promptText == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.templatePath != "" && cfg.promptText != "" {
		return nil, errors.New(ErrMsgConflictingSource)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// loadTemplateSource resolves the template text from an inline flag,
// a file path, or stdin when the path is the stdin marker. Trailing
// newlines are stripped so file templates match their inline form.
func loadTemplateSource(templatePath, promptText string, stdin io.Reader, stderr io.Writer) (string, int) {
	if promptText != "" {
		return promptText, ExitCodeSuccess
	}

	var data []byte
	var err error
	if templatePath == InputSourceStdin {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(templatePath)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return "", ExitCodeInputError
	}
	return strings.TrimRight(string(data), FmtNewline), ExitCodeSuccess
}

// emitPrompts delivers the rendered output to stdout, or to the
// requested output file
func emitPrompts(outputPath string, rendered []byte, stdout io.Writer) error {
	if outputPath != FlagDefaultOutput {
		return os.WriteFile(outputPath, rendered, FilePermissions)
	}

	_, err := stdout.Write(rendered)
	return err
}

// buildEngine creates an engine, wiring in a wildcard directory when
// one was given
func buildEngine(wildcardDir string, stderr io.Writer) (*dynamicprompts.Engine, int) {
	var opts []dynamicprompts.Option
	if wildcardDir != "" {
		source, err := dynamicprompts.NewFilesystemWildcards(wildcardDir, nil)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadWildcards, err)
			return nil, ExitCodeInputError
		}
		opts = append(opts, dynamicprompts.WithWildcards(source))
	}

	engine, err := dynamicprompts.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgGenerateFailed, err)
		return nil, ExitCodeError
	}
	return engine, ExitCodeSuccess
}
