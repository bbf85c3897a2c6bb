package live

import "sync/atomic"

// Slot is a single-frame mailbox with latest-wins semantics. Offer never
// blocks: a frame still waiting in the slot is replaced and counted as
// dropped. It is safe for one producer and any number of consumers.
type Slot struct {
	ch      chan Packet
	dropped atomic.Uint64
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{ch: make(chan Packet, 1)}
}

// Offer places p in the slot and reports whether an older frame was
// discarded to make room.
func (s *Slot) Offer(p Packet) bool {
	dropped := false
	for {
		select {
		case s.ch <- p:
			return dropped
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
			dropped = true
		default:
		}
	}
}

// C returns the receive side of the slot.
func (s *Slot) C() <-chan Packet { return s.ch }

// Dropped returns the number of frames discarded so far.
func (s *Slot) Dropped() uint64 { return s.dropped.Load() }
