// Package timeline schedules one-shot actions against a tick clock.
//
// Time is counted in Advance() calls. Scripted sequences (delayed phase
// advances, unlock events, hints) are queued here instead of sleeping, so the
// caller's frame never blocks. There is no cancellation: once queued, an
// action runs when its time comes.
package timeline

// Tick counts Advance() calls.
type Tick uint64

type entry struct {
	remain int
	label  string
	fn     func()
}

type Timeline struct {
	now     Tick
	entries []entry
	due     []entry
}

// Now returns the number of Advance() calls so far.
func (tl *Timeline) Now() Tick { return tl.now }

// After queues fn to run on the delay-th Advance() from now. A delay below 1
// is treated as 1: nothing runs during the call that schedules it.
func (tl *Timeline) After(delay int, label string, fn func()) {
	if fn == nil {
		return
	}
	if delay < 1 {
		delay = 1
	}
	tl.entries = append(tl.entries, entry{remain: delay, label: label, fn: fn})
}

// Sequence queues steps back to back; each delay is relative to the previous step.
func (tl *Timeline) Sequence(steps ...Step) {
	total := 0
	for _, s := range steps {
		total += s.Delay
		tl.After(total, s.Label, s.Do)
	}
}

// Step is one entry of a Sequence.
type Step struct {
	Delay int
	Label string
	Do    func()
}

// Advance moves the clock one tick and runs every action that came due, in
// the order they were scheduled. Actions may schedule further actions.
func (tl *Timeline) Advance() {
	tl.now++

	tl.due = tl.due[:0]
	kept := tl.entries[:0]
	for _, e := range tl.entries {
		e.remain--
		if e.remain <= 0 {
			tl.due = append(tl.due, e)
			continue
		}
		kept = append(kept, e)
	}
	// zero the tail so dropped closures can be collected
	for i := len(kept); i < len(tl.entries); i++ {
		tl.entries[i] = entry{}
	}
	tl.entries = kept

	for _, e := range tl.due {
		e.fn()
	}
}

// Pending returns how many actions are still queued.
func (tl *Timeline) Pending() int { return len(tl.entries) }

// Labels lists the queued action labels in schedule order.
func (tl *Timeline) Labels() []string {
	out := make([]string, 0, len(tl.entries))
	for _, e := range tl.entries {
		out = append(out, e.label)
	}
	return out
}
