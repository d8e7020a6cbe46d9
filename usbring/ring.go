// Package usbring implements small single-producer/single-consumer byte
// ring buffers for the USB CDC-ACM RX and TX paths. A real target drives
// Push from its USB interrupt handler and Pop from the main loop (or vice
// versa for TX); the atomic head/tail split lets the two run without a lock,
// the same style the rest of this loader uses for the one piece of shared
// state an interrupt handler touches.
package usbring

import "sync/atomic"

// Size is the ring's capacity in bytes. It must be a power of two so the
// index arithmetic can use a mask instead of a modulo.
const Size = 256

const mask = Size - 1

// Ring is a fixed-capacity SPSC byte queue. The zero value is an empty,
// ready-to-use ring.
type Ring struct {
	buf  [Size]byte
	head atomic.Uint32 // next slot Push will write
	tail atomic.Uint32 // next slot Pop will read
}

// Push appends b to the ring. It reports false and does nothing if the ring
// is full. Only the producer goroutine/interrupt may call Push.
func (r *Ring) Push(b byte) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail == Size {
		return false
	}
	r.buf[head&mask] = b
	r.head.Store(head + 1)
	return true
}

// Pop removes and returns the oldest byte in the ring. It reports false if
// the ring is empty. Only the consumer goroutine/interrupt may call Pop.
func (r *Ring) Pop() (byte, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		return 0, false
	}
	b := r.buf[tail&mask]
	r.tail.Store(tail + 1)
	return b, true
}

// Len reports the number of bytes currently queued. It is safe to call from
// either side but, like any SPSC snapshot, may be stale by the time the
// caller acts on it.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Full reports whether the ring has no room for another Push.
func (r *Ring) Full() bool {
	return r.Len() == Size
}

// Empty reports whether Pop would currently report false.
func (r *Ring) Empty() bool {
	return r.Len() == 0
}

// Drain calls fn for every currently-queued byte, oldest first, popping a
// byte only after fn accepts it. It stops as soon as fn returns false,
// leaving that byte (and everything after it) in the ring. This is the
// shape WritePump uses to flush pending TX bytes to hardware that may stop
// accepting bytes mid-stream.
func (r *Ring) Drain(fn func(b byte) bool) {
	for {
		tail := r.tail.Load()
		head := r.head.Load()
		if tail == head {
			return
		}
		b := r.buf[tail&mask]
		if !fn(b) {
			return
		}
		r.tail.Store(tail + 1)
	}
}
