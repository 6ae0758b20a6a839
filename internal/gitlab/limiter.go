package gitlab

import "context"

// semaphore implements a counting semaphore bounding the number of
// in-flight API requests. It is owned by a Client rather than shared
// process-wide, so multiple clients in tests do not share limits.
type semaphore struct {
	permits chan struct{}
}

func newSemaphore(permits int) *semaphore {
	s := &semaphore{
		permits: make(chan struct{}, permits),
	}
	for i := 0; i < permits; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Acquire acquires a permit, blocking if none available.
func (s *semaphore) Acquire(ctx context.Context) error {
	select {
	case <-s.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a permit back to the semaphore.
func (s *semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Release called more often than Acquire; drop the extra permit.
	}
}
