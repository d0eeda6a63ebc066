package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ITCups/dynamicprompts"
)

// validateCLIConfig holds parsed validate command configuration
type validateCLIConfig struct {
	templatePath string
	promptText   string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	source, exitCode := loadTemplateSource(cfg.templatePath, cfg.promptText, stdin, stderr)
	if exitCode != ExitCodeSuccess {
		return exitCode
	}

	engine := dynamicprompts.MustNew()
	_, parseErr := engine.Parse(source)

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(parseErr, stdout)
	}
	return outputValidationText(parseErr, stdout)
}

func parseValidateFlags(args []string) (*validateCLIConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateCLIConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.promptText, FlagPrompt, "", "")
	fs.StringVar(&cfg.promptText, FlagPromptShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

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

func outputValidationText(parseErr error, stdout io.Writer) int {
	if parseErr == nil {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, FmtErrorWithCause, ValidationTextFailure, parseErr)
	return ExitCodeValidationError
}

func outputValidationJSON(parseErr error, stdout io.Writer) int {
	output := validationOutput{Valid: parseErr == nil}
	if parseErr != nil {
		output.Error = parseErr.Error()
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
