package internal

// Bindings is a stack of variable scope frames for one generation pass.
// Lookups walk from the innermost frame outward; assignments land in
// the innermost frame, shadowing outer bindings of the same name.
type Bindings struct {
	frames []map[string]string
}

// NewBindings creates a binding stack with a single root frame
func NewBindings() *Bindings {
	return &Bindings{frames: []map[string]string{make(map[string]string)}}
}

// Push enters a new scope frame
func (b *Bindings) Push() {
	b.frames = append(b.frames, make(map[string]string))
}

// Pop leaves the innermost scope frame. The root frame is never popped.
func (b *Bindings) Pop() {
	if len(b.frames) > 1 {
		b.frames = b.frames[:len(b.frames)-1]
	}
}

// Set binds a name in the innermost frame, overwriting any prior
// binding in that frame
func (b *Bindings) Set(name, value string) {
	b.frames[len(b.frames)-1][name] = value
}

// Lookup resolves a name from the innermost frame outward
func (b *Bindings) Lookup(name string) (string, bool) {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if value, ok := b.frames[i][name]; ok {
			return value, true
		}
	}
	return "", false
}

// Has reports whether a name is bound in any frame
func (b *Bindings) Has(name string) bool {
	_, ok := b.Lookup(name)
	return ok
}

// Depth returns the number of active frames
func (b *Bindings) Depth() int {
	return len(b.frames)
}

// Reset drops all frames and bindings, leaving a fresh root frame
func (b *Bindings) Reset() {
	b.frames = []map[string]string{make(map[string]string)}
}
