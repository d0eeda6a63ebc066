package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ITCups/dynamicprompts"
)

// wildcardsCLIConfig holds parsed wildcards command configuration
type wildcardsCLIConfig struct {
	wildcardDir string
	format      string
}

// wildcardsOutput represents JSON output for the wildcards command
type wildcardsOutput struct {
	Root        string                  `json:"root"`
	Collections []wildcardCollectionOut `json:"collections"`
}

type wildcardCollectionOut struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Values []string `json:"values"`
}

func runWildcards(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseWildcardsFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingWildcards, err)
		return ExitCodeUsageError
	}

	source, err := dynamicprompts.NewFilesystemWildcards(cfg.wildcardDir, nil)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadWildcards, err)
		return ExitCodeInputError
	}
	defer source.Close()

	if cfg.format == OutputFormatJSON {
		return outputWildcardsJSON(cfg.wildcardDir, source, stdout)
	}
	return outputWildcardsText(source, stdout)
}

func parseWildcardsFlags(args []string) (*wildcardsCLIConfig, error) {
	fs := flag.NewFlagSet(CmdNameWildcards, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &wildcardsCLIConfig{}

	fs.StringVar(&cfg.wildcardDir, FlagWildcards, "", "")
	fs.StringVar(&cfg.wildcardDir, FlagWildcardsShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.wildcardDir == "" {
		return nil, errors.New(ErrMsgMissingWildcards)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputWildcardsText(source *dynamicprompts.FilesystemWildcards, stdout io.Writer) int {
	names := source.Names()
	if len(names) == 0 {
		fmt.Fprintln(stdout, WildcardsTextEmpty)
		return ExitCodeSuccess
	}

	for _, name := range names {
		values, _ := source.Get(name)
		fmt.Fprintf(stdout, WildcardsTextFormat+FmtNewline, name, len(values))
	}
	return ExitCodeSuccess
}

func outputWildcardsJSON(root string, source *dynamicprompts.FilesystemWildcards, stdout io.Writer) int {
	names := source.Names()
	output := wildcardsOutput{
		Root:        root,
		Collections: make([]wildcardCollectionOut, 0, len(names)),
	}

	for _, name := range names {
		values, _ := source.Get(name)
		output.Collections = append(output.Collections, wildcardCollectionOut{
			Name:   name,
			Count:  len(values),
			Values: values,
		})
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
	return ExitCodeSuccess
}
