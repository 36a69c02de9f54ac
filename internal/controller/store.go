package controller

import (
	"sync"
)

// ThresholdStore holds the active thresholds behind a RWMutex so decision
// cycles read a consistent snapshot while the HTTP API swaps values between
// cycles. The engine never observes a half-updated config.
type ThresholdStore struct {
	mu  sync.RWMutex
	cur Thresholds
}

// NewThresholdStore validates the initial thresholds before accepting them.
func NewThresholdStore(t Thresholds) (*ThresholdStore, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &ThresholdStore{cur: t}, nil
}

// Get returns the current thresholds by value; the caller's copy stays
// stable for the whole decision cycle.
func (s *ThresholdStore) Get() Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Set atomically replaces the thresholds after validation. On error the
// previous values stay in force.
func (s *ThresholdStore) Set(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = t
	return nil
}
