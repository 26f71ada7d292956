/*
 * drum1100 - Virtual-time scheduler.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package timing keeps emulated drum time aligned with wall-clock time
// and provides the single cooperative suspension point (DelayUntil) the
// processor and peripheral tasks block on.
package timing

import (
	"time"
)

// WordTime is the nominal duration of one 29-bit word passing the head:
// 1/(108*30) seconds.
const WordTime = time.Second / (108 * 30)

// Scheduler maps word-times to wall-clock deadlines and exposes the
// cooperative suspension point every task blocks on, grounded in the
// teacher's ticker-driven timer goroutine (emu/timer.Timer) and its
// time-ordered event list (emu/event).
type Scheduler struct {
	epoch    time.Time // Wall time corresponding to word-time 0.
	cancel   chan struct{}
	canceled bool
}

// New creates a scheduler with its epoch anchored to the current wall
// clock, matching the teacher's SetTod-at-start idiom.
func New() *Scheduler {
	return &Scheduler{
		epoch:  time.Now(),
		cancel: make(chan struct{}),
	}
}

// Now returns a monotonic high-resolution timestamp.
func (s *Scheduler) Now() time.Time {
	return time.Now()
}

// Reset re-anchors the epoch to the current wall clock, used by power-up
// and system reset so elapsed emulated time restarts at zero.
func (s *Scheduler) Reset() {
	s.epoch = time.Now()
}

// DeadlineFor returns the wall-clock instant at which the given word-time
// count since the epoch should occur.
func (s *Scheduler) DeadlineFor(wordTimes int64) time.Time {
	return s.epoch.Add(time.Duration(wordTimes) * WordTime)
}

// Result is the outcome of a suspension point: either the deadline was
// reached, or the wait was canceled — a distinguished result variant,
// not an exceptional unwind.
type Result int

const (
	Reached Result = iota
	Canceled
)

// DelayUntil suspends the calling goroutine until wall time reaches
// target, or until Cancel is called. If the host is running behind
// (target already in the past), it returns Reached immediately without
// skipping any emulated cycles: falling behind is observable, not an
// error.
func (s *Scheduler) DelayUntil(target time.Time) Result {
	d := time.Until(target)
	if d <= 0 {
		return Reached
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return Reached
	case <-s.cancel:
		return Canceled
	}
}

// Cancel rejects any in-flight DelayUntil, used by cancel_io and
// power-down. It is safe to call more than once.
func (s *Scheduler) Cancel() {
	if s.canceled {
		return
	}
	s.canceled = true
	close(s.cancel)
}

// Rearm prepares the scheduler for further DelayUntil calls after a
// Cancel, as happens when I/O resumes after a cancel_io.
func (s *Scheduler) Rearm() {
	s.cancel = make(chan struct{})
	s.canceled = false
}
