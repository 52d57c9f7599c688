package device

import "sync"

// Session is one unit of device work: an in-order stream plus the arena
// of every buffer allocated through it. Sessions are not shared between
// runs, so a sticky kernel error never outlives the run that caused it.
type Session struct {
	dev *Device

	mu     sync.Mutex
	tail   chan struct{} // closed when the last enqueued operation finishes
	err    error         // sticky
	owned  []releaser
	closed bool
}

// Device returns the device the session runs on.
func (s *Session) Device() *Device {
	return s.dev
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) track(r releaser) {
	s.mu.Lock()
	s.owned = append(s.owned, r)
	s.mu.Unlock()
}

func (s *Session) failed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// enqueue appends fn to the stream. Operations run one at a time in
// submission order; once one fails the rest are skipped.
func (s *Session) enqueue(op string, fn func() error) {
	s.mu.Lock()
	prev := s.tail
	done := make(chan struct{})
	s.tail = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		<-prev
		if s.failed() != nil {
			return
		}
		if err := fn(); err != nil {
			s.dev.logger.Debug("stream operation failed", "op", op, "error", err)
			s.fail(opError(op, err))
		}
	}()
}

// Synchronize blocks until all enqueued work has finished and returns the
// session's sticky error, if any.
func (s *Session) Synchronize() error {
	s.mu.Lock()
	tail := s.tail
	s.mu.Unlock()

	<-tail
	return s.failed()
}

// Close drains the stream and frees every buffer the session still owns.
// It is safe to call more than once and on every exit path; it does not
// report the sticky error, which callers observe through Synchronize.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	tail := s.tail
	owned := s.owned
	s.owned = nil
	s.mu.Unlock()

	<-tail
	if err := releaseAll(owned); err != nil {
		return opError("close", err)
	}
	return nil
}
