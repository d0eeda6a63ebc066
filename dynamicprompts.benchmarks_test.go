package dynamicprompts

import (
	"math/rand"
	"testing"
)

// =============================================================================
// PARSING BENCHMARKS
// =============================================================================

func BenchmarkParse_Simple(b *testing.B) {
	engine := MustNew()
	source := "a {red|green|blue} ball"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

func BenchmarkParse_Weighted(b *testing.B) {
	engine := MustNew()
	source := "{4::summer|3::autumn|2::winter|1::spring} {2$$ and $$hat|scarf|coat}"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

func BenchmarkParse_Nested(b *testing.B) {
	engine := MustNew()
	source := "{a {deep|shallow} {pond|lake}|a {tall|short} {tree|tower}}"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

func BenchmarkParse_Variables(b *testing.B) {
	engine := MustNew()
	source := "${subject={portrait|landscape}} of ${subject}, ${style:painterly}"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

// =============================================================================
// GENERATION BENCHMARKS
// =============================================================================

func BenchmarkRandom_Simple(b *testing.B) {
	engine := MustNew()
	tmpl, err := engine.Parse("a {red|green|blue} {cat|dog|bird}")
	if err != nil {
		b.Fatal(err)
	}
	stream := tmpl.Random(rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = stream.Next()
	}
}

func BenchmarkRandom_Wildcards(b *testing.B) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red", "green", "blue", "cyan", "magenta")
	wildcards.Add("animals", "cat", "dog", "bird", "fish")
	engine := MustNew(WithWildcards(wildcards))
	tmpl, err := engine.Parse("a __colors__ __animals__")
	if err != nil {
		b.Fatal(err)
	}
	stream := tmpl.Random(rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = stream.Next()
	}
}

func BenchmarkRandom_MultiDraw(b *testing.B) {
	engine := MustNew()
	tmpl, err := engine.Parse("{2-4$$ and $$red|green|blue|cyan|magenta}")
	if err != nil {
		b.Fatal(err)
	}
	stream := tmpl.Random(rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = stream.Next()
	}
}

func BenchmarkCombinatorial_Enumerate(b *testing.B) {
	engine := MustNew()
	tmpl, err := engine.Parse("{a|b|c|d}{1|2|3|4}{w|x|y|z}")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Combinatorial(nil).All()
	}
}

func BenchmarkCyclical_Next(b *testing.B) {
	engine := MustNew()
	tmpl, err := engine.Parse("{a|b|c|d}{1|2|3|4}")
	if err != nil {
		b.Fatal(err)
	}
	stream := tmpl.Cyclical(rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = stream.Next()
	}
}

func BenchmarkGenerate_EndToEnd(b *testing.B) {
	engine := MustNew()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Generate("a {red|green|blue} ball", 10, WithSeed(int64(i)))
	}
}

// =============================================================================
// WILDCARD RESOLUTION BENCHMARKS
// =============================================================================

func BenchmarkResolver_Direct(b *testing.B) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red", "green", "blue")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)
		_, _ = resolver.Values("colors")
	}
}

func BenchmarkResolver_Glob(b *testing.B) {
	wildcards := NewMemoryWildcards()
	for _, name := range []string{"animals/cats", "animals/dogs", "animals/birds", "plants/trees"} {
		wildcards.Add(name, "value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)
		_, _ = resolver.Values("animals/*")
	}
}
