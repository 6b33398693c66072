package ranges

import (
	"math/rand"
)

// Enumerator is a lazy, single-pass address sequence. Implementations are
// forward-only; restarting means constructing a new instance.
type Enumerator interface {
	// Next returns the next address and true, or a zero Addr and false
	// once the sequence is exhausted.
	Next() (Addr, bool)
}

// Seeker is implemented by enumerators that can skip the remainder of a
// contiguous excluded span without emitting through it. blocked is the
// address that was just rejected; end is the last address of the span
// containing it. Enumerators with no meaningful seek (permuted order)
// simply do not implement it.
type Seeker interface {
	SeekPast(blocked, end Addr)
}

// cursor tracks per-range enumeration state. Owned exclusively by the
// Scheduler; offsets only move forward.
type cursor struct {
	rng     Range
	next    Addr // address to emit on the next selection
	last    Addr
	emitted Uint128 // count of offsets consumed, monotonically non-decreasing
	weight  float64
	credit  float64
	done    bool
}

// Scheduler emits every address of a RangeSet exactly once, interleaving
// across ranges proportionally to their size via deficit weighted
// round-robin: each step the highest-credit live cursor emits, pays 1
// credit, and every live cursor earns size/total credit. Ties break on the
// lowest (family, base), so an unseeded Scheduler is fully deterministic.
//
// A Scheduler is single-pass and must be confined to one consumer;
// independent instances over disjoint sets may run concurrently.
type Scheduler struct {
	cursors []*cursor
	live    int
	emitted Uint128
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption func(*Scheduler)

// WithSeed perturbs the initial credits with values in (0, 1e-9) drawn from
// the seeded source, fixing the order among equally-weighted ranges. Two
// schedulers built over the same set with the same seed emit identical
// sequences. Proportionality holds regardless of seed.
func WithSeed(seed int64) SchedulerOption {
	return func(s *Scheduler) {
		rng := rand.New(rand.NewSource(seed))
		for _, c := range s.cursors {
			c.credit = rng.Float64() * 1e-9
		}
	}
}

// NewScheduler creates a scheduler over the normalized set. An empty set
// yields an immediately-exhausted sequence.
func NewScheduler(set RangeSet, opts ...SchedulerOption) *Scheduler {
	total := set.totalFloat()
	cursors := make([]*cursor, set.Len())
	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		cursors[i] = &cursor{
			rng:    r,
			next:   r.Base(),
			last:   r.Last(),
			weight: r.sizeFloat() / total,
		}
	}
	s := &Scheduler{cursors: cursors, live: len(cursors)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next emits the next address, or false when all cursors are exhausted.
func (s *Scheduler) Next() (Addr, bool) {
	if s.live == 0 {
		return Addr{}, false
	}

	// Flat scan: the range count is orders of magnitude below any range's
	// address count, so O(k) selection is not the bottleneck.
	var sel *cursor
	for _, c := range s.cursors {
		if c.done {
			continue
		}
		if sel == nil || c.credit > sel.credit {
			sel = c
		}
	}

	addr := sel.next
	sel.emitted = sel.emitted.Inc()
	s.emitted = s.emitted.Inc()
	if sel.next == sel.last {
		sel.done = true
		s.live--
	} else {
		sel.next = sel.next.AddOffset(U128(1))
	}

	sel.credit -= 1
	for _, c := range s.cursors {
		if !c.done {
			c.credit += c.weight
		}
	}
	return addr, true
}

// SeekPast advances the cursor owning blocked so it never emits the rest of
// the excluded span (blocked, end]. Only that cursor moves: addresses below
// end in other ranges are outside the span and stay pending. Skipped
// offsets count as consumed.
func (s *Scheduler) SeekPast(blocked, end Addr) {
	for _, c := range s.cursors {
		if c.done || !c.rng.Contains(blocked) {
			continue
		}
		if end.Compare(c.last) >= 0 {
			c.emitted = c.emitted.Add(c.next.Distance(c.last).Inc())
			c.done = true
			s.live--
		} else if end.Compare(c.next) >= 0 {
			skip := end.AddOffset(U128(1))
			c.emitted = c.emitted.Add(c.next.Distance(skip))
			c.next = skip
		}
		return
	}
}

// Done reports whether the sequence is exhausted.
func (s *Scheduler) Done() bool { return s.live == 0 }

// Emitted returns the total number of addresses produced so far.
func (s *Scheduler) Emitted() Uint128 { return s.emitted }

// Len returns the number of ranges the scheduler draws from.
func (s *Scheduler) Len() int { return len(s.cursors) }

// RangeEmitted returns the i-th range (in set order) and how many of its
// addresses have been produced so far.
func (s *Scheduler) RangeEmitted(i int) (Range, Uint128) {
	c := s.cursors[i]
	return c.rng, c.emitted
}

// Linear enumerates a RangeSet range by range in ascending order, with no
// interleaving.
type Linear struct {
	set  RangeSet
	idx  int
	next Addr
	last Addr
	open bool
}

// NewLinear creates a concatenating enumerator over the set.
func NewLinear(set RangeSet) *Linear {
	l := &Linear{set: set}
	if set.Len() > 0 {
		l.next = set.At(0).Base()
		l.last = set.At(0).Last()
		l.open = true
	}
	return l
}

func (l *Linear) Next() (Addr, bool) {
	if !l.open {
		return Addr{}, false
	}
	addr := l.next
	if l.next == l.last {
		l.idx++
		if l.idx >= l.set.Len() {
			l.open = false
		} else {
			l.next = l.set.At(l.idx).Base()
			l.last = l.set.At(l.idx).Last()
		}
	} else {
		l.next = l.next.AddOffset(U128(1))
	}
	return addr, true
}

// SeekPast skips everything up to and including end. Ranges are sorted by
// (family, base), so skipping stops at the first range of another family;
// spans never cross families.
func (l *Linear) SeekPast(blocked, end Addr) {
	for l.open {
		if l.set.At(l.idx).Family() != end.Family() {
			return
		}
		if l.last.Compare(end) <= 0 {
			l.idx++
			if l.idx >= l.set.Len() {
				l.open = false
				return
			}
			l.next = l.set.At(l.idx).Base()
			l.last = l.set.At(l.idx).Last()
			continue
		}
		if l.next.Compare(end) <= 0 {
			l.next = end.AddOffset(U128(1))
		}
		return
	}
}
