package ranges

import "fmt"

// Shuffled emits the union of a RangeSet in pseudo-random order, each
// address exactly once, in O(1) memory. A Feistel permutation over the
// cumulative index space replaces materialize-and-shuffle, so the full
// sequence never exists at once.
//
// The permutation runs on a 64-bit domain, so the set's total size must fit
// in a uint64; IPv6 sets wider than that are rejected at construction.
type Shuffled struct {
	spans   []shuffleSpan
	total   uint64
	perm    *feistel
	current uint64
}

// shuffleSpan is one range with its cumulative starting index, so a global
// index resolves to (range, offset) by a reverse scan.
type shuffleSpan struct {
	base            Addr
	cumulativeStart uint64
}

// NewShuffled creates a randomized enumerator over the set. A zero seed
// draws a fresh permutation; any other seed is reproducible.
func NewShuffled(set RangeSet, seed int64) (*Shuffled, error) {
	if set.Len() == 0 {
		return &Shuffled{}, nil
	}
	total128, ok := set.Total()
	if !ok {
		return nil, fmt.Errorf("%w: cannot shuffle", ErrSpaceTooLarge)
	}
	total, fits := total128.Uint64()
	if !fits {
		return nil, fmt.Errorf("%w: cannot shuffle %s addresses", ErrSpaceTooLarge, total128)
	}

	spans := make([]shuffleSpan, set.Len())
	var cum uint64
	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		spans[i] = shuffleSpan{base: r.Base(), cumulativeStart: cum}
		size, _ := r.Size()
		count, _ := size.Uint64()
		cum += count
	}

	return &Shuffled{
		spans: spans,
		total: total,
		perm:  newFeistel(total, seed),
	}, nil
}

// Next returns the next address in permuted order.
func (e *Shuffled) Next() (Addr, bool) {
	if e.current >= e.total {
		return Addr{}, false
	}
	idx := e.perm.permute(e.current)
	e.current++
	return e.resolve(idx), true
}

// resolve maps a global index to an address using cumulative-start
// arithmetic over the sorted spans.
func (e *Shuffled) resolve(idx uint64) Addr {
	for i := len(e.spans) - 1; i >= 0; i-- {
		s := e.spans[i]
		if idx >= s.cumulativeStart {
			return s.base.AddOffset(U128(idx - s.cumulativeStart))
		}
	}
	return Addr{}
}

// Emitted returns how many addresses have been produced so far.
func (e *Shuffled) Emitted() uint64 { return e.current }

// Total returns the number of addresses the enumerator will produce.
func (e *Shuffled) Total() uint64 { return e.total }
