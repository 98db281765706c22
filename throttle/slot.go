package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// DefaultCooldown is the pause enforced after every request before the
// slot is handed to the next caller.
const DefaultCooldown = time.Second

// Slot is a single-permit gate. Once acquired, the holder must call
// Release, which sleeps for the cooldown before freeing the permit.
// Waiters are not served in any guaranteed order.
type Slot struct {
	sem      *semaphore.Weighted
	cooldown time.Duration
	sleep    func(time.Duration)
}

// NewSlot returns a Slot with the given cooldown. A negative cooldown is
// treated as zero.
func NewSlot(cooldown time.Duration) *Slot {
	return &Slot{
		sem:      semaphore.NewWeighted(1),
		cooldown: max(cooldown, 0),
		sleep:    time.Sleep,
	}
}

// Acquire blocks until the permit is free or ctx ends.
func (s *Slot) Acquire(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrContextEnded, err)
	}

	return nil
}

// Release waits out the cooldown and frees the permit. The wait is not
// tied to any context: a cancelled caller still pays the cooldown, which
// keeps the request spacing intact.
func (s *Slot) Release() {
	if s.cooldown > 0 {
		s.sleep(s.cooldown)
	}
	s.sem.Release(1)
}

// Cooldown reports the pause applied on Release.
func (s *Slot) Cooldown() time.Duration {
	return s.cooldown
}

var (
	sharedOnce sync.Once
	shared     *Slot
)

// Shared returns the process-wide Slot. Every dispatcher built with it
// takes turns with every other, regardless of target host.
func Shared() *Slot {
	sharedOnce.Do(func() {
		shared = NewSlot(DefaultCooldown)
	})

	return shared
}
