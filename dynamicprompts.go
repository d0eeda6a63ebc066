// Package dynamicprompts generates prompt variations from templates
// with variant groups, wildcards, and variables.
//
// A template is plain text with embedded generation syntax:
//
//	a {red|green|blue} __animal__ in ${place=the park}
//
// # Basic Usage
//
// Create an engine, parse a template, and pull prompts from a stream:
//
//	engine := dynamicprompts.MustNew()
//	tmpl, err := engine.Parse("a {red|green|blue} ball")
//	stream := tmpl.Random(nil)
//	prompt, err := stream.Next()
//
// Or generate a batch in one call:
//
//	prompts, err := engine.Generate("a {red|blue} ball", 5,
//	    dynamicprompts.WithStrategy(dynamicprompts.StrategyRandom),
//	    dynamicprompts.WithSeed(42),
//	)
//
// # Template Syntax
//
// Variant groups pick one of several options, with optional weights,
// draw counts, and a custom joining separator:
//
//	{red|green|blue}            one option, equal odds
//	{2::red|1::blue}            weighted draw
//	{2$$red|green|blue}         two distinct options, joined with ","
//	{1-2$$ and $$red|green}     one or two options, joined with " and "
//
// Wildcards reference named value collections supplied through
// WildcardSource implementations; "*" globs across collection names:
//
//	__colors__  __themes/dark/*__  __${theme}/colors__
//
// Variables bind values for the rest of the prompt:
//
//	${x=value}   assign, emitting the value in place
//	${x=!value}  assign silently
//	${x?=value}  assign only when unbound
//	${x}         reference
//	${x:fallback} reference with default
//
// A backslash escapes any marker character into literal text.
//
// # Generation Strategies
//
// Three strategies expand a template into prompts. Random draws
// independent samples. Combinatorial enumerates every expansion
// exactly once, guarded by a configurable space limit. Cyclical
// samples the full space without replacement, reshuffling once each
// pass is exhausted.
//
//	all, err := tmpl.Combinatorial(nil).All()
//
// # Wildcard Collections
//
// Collections come from in-memory maps or a directory tree of .txt
// and .yaml files, optionally hot-reloaded:
//
//	files, err := dynamicprompts.NewFilesystemWildcards("./wildcards", nil)
//	engine := dynamicprompts.MustNew(dynamicprompts.WithWildcards(files))
//
// # Error Handling
//
// Errors carry a category code and metadata such as line, column, and
// the offending name. On an endless random stream an error fails only
// the current item; on a finite stream errors are terminal.
package dynamicprompts
