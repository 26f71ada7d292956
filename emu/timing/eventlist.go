/*
 * drum1100 - Word-time ordered event list.
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

package timing

// Callback fires when a scheduled event's word-time arrives.
type Callback func(arg int)

type event struct {
	time int // Word-times remaining until this event, relative to prev.
	tag  any // Identifies the owner, for CancelEvent lookups.
	cb   Callback
	arg  int
	prev *event
	next *event
}

// EventList is a relative-time ordered list of pending device callbacks,
// the same delta-encoded shape as the teacher's emu/event package: each
// event stores only the word-times since the previous one, so advancing
// time is a single decrement at the head.
type EventList struct {
	head *event
	tail *event
}

// AddEvent schedules cb to fire after delay word-times, tagged with owner
// so it can later be found by CancelEvent. A delay of 0 fires cb
// synchronously, matching the teacher's "process immediately" shortcut.
func (el *EventList) AddEvent(owner any, cb Callback, delay int, arg int) {
	if delay <= 0 {
		cb(arg)
		return
	}

	ev := &event{tag: owner, cb: cb, time: delay, arg: arg}

	cur := el.head
	if cur == nil {
		el.head = ev
		el.tail = ev
		return
	}
	for cur != nil {
		if ev.time <= cur.time {
			cur.time -= ev.time
			ev.prev = cur.prev
			ev.next = cur
			cur.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				el.head = ev
			}
			return
		}
		ev.time -= cur.time
		cur = cur.next
	}
	ev.prev = el.tail
	el.tail.next = ev
	el.tail = ev
}

// CancelEvent removes the first pending event matching owner and arg, if
// any, folding its remaining time into the following event so the total
// delay to later events is unchanged.
func (el *EventList) CancelEvent(owner any, arg int) {
	for cur := el.head; cur != nil; cur = cur.next {
		if cur.tag != owner || cur.arg != arg {
			continue
		}
		if cur.next != nil {
			cur.next.time += cur.time
			cur.next.prev = cur.prev
		} else {
			el.tail = cur.prev
		}
		if cur.prev != nil {
			cur.prev.next = cur.next
		} else {
			el.head = cur.next
		}
		return
	}
}

// Advance moves emulated time forward by t word-times, firing and
// removing every event whose deadline has arrived.
func (el *EventList) Advance(t int) {
	cur := el.head
	if cur == nil {
		return
	}
	cur.time -= t
	for cur != nil && cur.time <= 0 {
		cur.cb(cur.arg)
		el.head = cur.next
		if el.head != nil {
			el.head.prev = nil
		} else {
			el.tail = nil
		}
		cur = el.head
	}
}

// AnyPending reports whether any event is still scheduled.
func (el *EventList) AnyPending() bool {
	return el.head != nil
}
