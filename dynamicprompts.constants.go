package dynamicprompts

// Version is the current library version
const Version = "1.0.0"

// Default configuration values
const (
	DefaultVariantOpen        = "{"
	DefaultVariantClose       = "}"
	DefaultVariantSeparator   = "|"
	DefaultEscapeChar         = "\\"
	DefaultWildcardWrap       = "__"
	DefaultJoinSeparator      = ","
	DefaultMaxDepth           = 32
	DefaultCombinatorialLimit = 100000
)

// Strategy selects how a template is expanded into prompts
type Strategy int

// Generation strategies
const (
	// StrategyRandom draws independent samples, one per prompt
	StrategyRandom Strategy = iota
	// StrategyCombinatorial enumerates every expansion exactly once
	StrategyCombinatorial
	// StrategyCyclical samples the full space without replacement,
	// reshuffling and continuing once the space is exhausted
	StrategyCyclical
)

// Strategy name constants
const (
	StrategyNameRandom        = "random"
	StrategyNameCombinatorial = "combinatorial"
	StrategyNameCyclical      = "cyclical"
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case StrategyCombinatorial:
		return StrategyNameCombinatorial
	case StrategyCyclical:
		return StrategyNameCyclical
	default:
		return StrategyNameRandom
	}
}

// ParseStrategy resolves a strategy name, as used by the CLI flags
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyNameRandom:
		return StrategyRandom, nil
	case StrategyNameCombinatorial:
		return StrategyCombinatorial, nil
	case StrategyNameCyclical:
		return StrategyCyclical, nil
	default:
		return StrategyRandom, NewUnknownStrategyError(name)
	}
}

// Metadata keys attached to errors
const (
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyExpected = "expected"
	MetaKeyActual   = "actual"
	MetaKeyDepth    = "depth"
	MetaKeyMaxDepth = "max_depth"
	MetaKeyName     = "name"
	MetaKeySize     = "size"
	MetaKeyLimit    = "limit"
	MetaKeyValue    = "value"
	MetaKeyStrategy = "strategy"
	MetaKeyWildcard = "wildcard"
	MetaKeyVariable = "variable"
	MetaKeyPath     = "path"
)

// Log message constants
const (
	LogMsgEngineCreated    = "engine created"
	LogMsgTemplateParsed   = "template parsed"
	LogMsgStreamOpened     = "stream opened"
	LogMsgGenerateStart    = "starting generation"
	LogMsgGenerateEnd      = "generation complete"
	LogMsgWildcardsLoaded  = "wildcard collections loaded"
	LogMsgWildcardsReload  = "wildcard collections reloaded"
	LogMsgWatcherStarted   = "wildcard watcher started"
	LogMsgWatcherStopped   = "wildcard watcher stopped"
	LogMsgWatcherEvent     = "wildcard file event"
	LogMsgReloadFailed     = "wildcard reload failed"
	LogMsgGlobMatched      = "wildcard glob matched"
)

// Log field names
const (
	LogFieldSource      = "source_length"
	LogFieldStrategy    = "strategy"
	LogFieldCount       = "count"
	LogFieldSeed        = "seed"
	LogFieldCollections = "collection_count"
	LogFieldRoot        = "root"
	LogFieldName        = "name"
	LogFieldPattern     = "pattern"
	LogFieldMatches     = "match_count"
	LogFieldEvent       = "event"
	LogFieldError       = "error"
)

// Wildcard file extensions recognized by the filesystem source
const (
	WildcardExtText = ".txt"
	WildcardExtYAML = ".yaml"
	WildcardExtYML  = ".yml"
)

// Wildcard file syntax
const (
	WildcardCommentPrefix = "#"
	WildcardNameSep       = "/"
	WildcardGlobChar      = "*"
)
