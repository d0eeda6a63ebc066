package dynamicprompts

import (
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// WildcardSource supplies named value collections to the engine.
// Implementations must be safe for concurrent readers.
type WildcardSource interface {
	// Get returns the values of a collection, ok=false when the name
	// is unknown to this source.
	Get(name string) ([]string, bool)
	// Names returns every collection name this source can serve.
	Names() []string
}

// MemoryWildcards is a map-backed wildcard source. It is the primary
// injection point for library callers and tests.
type MemoryWildcards struct {
	mu     sync.RWMutex
	values map[string][]string
}

// NewMemoryWildcards creates an empty in-memory wildcard source
func NewMemoryWildcards() *MemoryWildcards {
	return &MemoryWildcards{values: make(map[string][]string)}
}

// Add appends values to a collection, creating it if needed
func (m *MemoryWildcards) Add(name string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = append(m.values[name], values...)
}

// Set replaces the values of a collection
func (m *MemoryWildcards) Set(name string, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = append([]string(nil), values...)
}

// Remove deletes a collection
func (m *MemoryWildcards) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
}

// Get returns a copy of the collection values
func (m *MemoryWildcards) Get(name string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.values[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// Names returns all collection names in sorted order
func (m *MemoryWildcards) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// wildcardResolver resolves collection names against the registered
// sources for one generation pass. Glob patterns match against the
// union of source names in lexical order; values are deduplicated
// keeping first occurrence. Lookups are cached for the resolver's
// lifetime.
type wildcardResolver struct {
	sources []WildcardSource
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string][]string
}

func newWildcardResolver(sources []WildcardSource, logger *zap.Logger) *wildcardResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &wildcardResolver{
		sources: sources,
		logger:  logger,
		cache:   make(map[string][]string),
	}
}

// Values implements the provider contract of the internal samplers
func (r *wildcardResolver) Values(name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if values, ok := r.cache[name]; ok {
		return values, nil
	}

	var values []string
	if strings.Contains(name, WildcardGlobChar) {
		values = r.globValues(name)
	} else {
		values = r.directValues(name)
	}
	if len(values) == 0 {
		return nil, NewUnknownWildcardError(name)
	}

	values = dedupeValues(values)
	r.cache[name] = values
	return values, nil
}

// directValues concatenates the collection from every source that
// knows the name, in source registration order
func (r *wildcardResolver) directValues(name string) []string {
	var values []string
	for _, source := range r.sources {
		if sourceValues, ok := source.Get(name); ok {
			values = append(values, sourceValues...)
		}
	}
	return values
}

// globValues concatenates every matching collection in lexical name
// order
func (r *wildcardResolver) globValues(pattern string) []string {
	matched := make(map[string]bool)
	for _, source := range r.sources {
		for _, name := range source.Names() {
			if ok, err := path.Match(pattern, name); err == nil && ok {
				matched[name] = true
			}
		}
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)

	r.logger.Debug(LogMsgGlobMatched,
		zap.String(LogFieldPattern, pattern),
		zap.Int(LogFieldMatches, len(names)))

	var values []string
	for _, name := range names {
		values = append(values, r.directValues(name)...)
	}
	return values
}

// dedupeValues removes duplicates preserving first occurrence
func dedupeValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
