// Package worker bounds how many generations may run at once.
package worker

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned under PolicyReject when every slot is taken.
var ErrBusy = errors.New("a generation is already in progress")

// Policy decides what happens to a submission while the slots are full.
type Policy string

const (
	PolicyReject Policy = "reject"
	PolicyQueue  Policy = "queue"
)

// ParsePolicy accepts "reject" or "queue"; empty means reject.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyQueue:
		return PolicyQueue, nil
	default:
		return "", fmt.Errorf("unknown slot policy %q", s)
	}
}

// Slot is a bounded executor. With the default size of one, at most a
// single generation is in flight.
type Slot struct {
	sem    *semaphore.Weighted
	policy Policy
}

// NewSlot returns a Slot with size concurrent runs (minimum 1).
func NewSlot(size int, policy Policy) *Slot {
	if size < 1 {
		size = 1
	}
	if policy == "" {
		policy = PolicyReject
	}
	return &Slot{
		sem:    semaphore.NewWeighted(int64(size)),
		policy: policy,
	}
}

// Policy reports how the slot treats submissions while full.
func (s *Slot) Policy() Policy {
	return s.policy
}

// Run executes fn in the caller's goroutine once a slot is held. Under
// PolicyQueue it waits until a slot frees up or ctx is done.
func (s *Slot) Run(ctx context.Context, fn func(context.Context) error) error {
	if s.policy == PolicyQueue {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	} else if !s.sem.TryAcquire(1) {
		return ErrBusy
	}
	defer s.sem.Release(1)

	return fn(ctx)
}
