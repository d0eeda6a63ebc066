package dynamicprompts

// Stream is a pull-based sequence of generated prompts. Streams are
// not safe for concurrent use; open one stream per goroutine instead.
// Abandoning a stream is the only cancellation needed, no resources
// outlive it.
type Stream struct {
	pull func() (string, bool, error)

	peeked  bool
	value   string
	itemErr error

	done    bool
	failure error
}

// newStream wraps a pull function. The function returns ok=false on
// exhaustion; an error with ok=false is terminal, an error with
// ok=true fails a single item.
func newStream(pull func() (string, bool, error)) *Stream {
	return &Stream{pull: pull}
}

// failedStream is a stream whose construction failed; it delivers the
// error once through Next and then reports exhaustion.
func failedStream(err error) *Stream {
	return &Stream{peeked: true, itemErr: err, done: true}
}

func (s *Stream) peek() {
	if s.peeked || s.done {
		return
	}
	value, ok, err := s.pull()
	if ok {
		s.peeked = true
		s.value = value
		s.itemErr = err
		return
	}
	s.done = true
	if err != nil {
		// Terminal error, delivered once through the peek slot
		s.peeked = true
		s.value = ""
		s.itemErr = err
	}
}

// More reports whether Next will deliver another item or a pending
// error. Endless streams always report true.
func (s *Stream) More() bool {
	s.peek()
	return s.peeked
}

// Next returns the next prompt. An error return on an endless random
// stream fails only that item; on a finite stream errors are
// terminal. Pulling past the end returns a stream-exhausted error.
func (s *Stream) Next() (string, error) {
	s.peek()
	if !s.peeked {
		if s.failure == nil {
			s.failure = NewStreamExhaustedError()
		}
		return "", s.failure
	}

	s.peeked = false
	value, err := s.value, s.itemErr
	s.value = ""
	s.itemErr = nil
	if err != nil && s.done {
		s.failure = err
	}
	return value, err
}

// Take pulls up to n prompts, stopping early when a finite stream
// runs out. The first error ends the collection.
func (s *Stream) Take(n int) ([]string, error) {
	prompts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if !s.More() {
			break
		}
		value, err := s.Next()
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, value)
	}
	return prompts, nil
}

// All drains a finite stream. Calling All on an endless stream never
// returns; use Take there instead.
func (s *Stream) All() ([]string, error) {
	var prompts []string
	for s.More() {
		value, err := s.Next()
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, value)
	}
	return prompts, nil
}
