package ranges

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
)

// maxU128 is the highest 128-bit value, the last native IPv6 address.
var maxU128 = Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}

// familyMax returns the numeric value of the family's last address.
func familyMax(f Family) Uint128 {
	if f == V4 {
		return AddrFrom4(255, 255, 255, 255).ToUint128()
	}
	return maxU128
}

// ParseRange parses one CIDR string into a Range. A bare address without a
// prefix denotes a single-address range (/32 or /128). Host bits set in the
// textual form are silently masked, matching common CIDR tooling.
func ParseRange(s string) (Range, error) {
	ipStr, prefixStr, hasPrefix := strings.Cut(s, "/")
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
	}
	family := V6
	if ip.To4() != nil {
		family = V4
	}
	prefix := family.Bits()
	if hasPrefix {
		p, err := strconv.Atoi(prefixStr)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
		}
		prefix = p
	}
	r, err := NewRange(family, FromNetIP(ip), prefix)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
	}
	return r, nil
}

// RangeSet is an ordered collection of disjoint Ranges, sorted by
// (family, base). Construct via Normalize.
type RangeSet struct {
	ranges []Range
}

// Len returns the number of ranges in the set.
func (s RangeSet) Len() int { return len(s.ranges) }

// At returns the i-th range in (family, base) order.
func (s RangeSet) At(i int) Range { return s.ranges[i] }

// Ranges returns a copy of the underlying ranges.
func (s RangeSet) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Total returns the summed address count. ok is false when the sum does not
// fit in 128 bits (only reachable with IPv6 ranges covering the full space).
func (s RangeSet) Total() (Uint128, bool) {
	var total Uint128
	for _, r := range s.ranges {
		size, ok := r.Size()
		if !ok {
			return Uint128{}, false
		}
		sum := total.Add(size)
		if sum.Cmp(total) < 0 {
			return Uint128{}, false
		}
		total = sum
	}
	return total, true
}

// totalFloat returns the approximate summed address count for weighting.
func (s RangeSet) totalFloat() float64 {
	var total float64
	for _, r := range s.ranges {
		total += r.sizeFloat()
	}
	return total
}

// Contains reports whether any range in the set covers a.
func (s RangeSet) Contains(a Addr) bool {
	for _, r := range s.ranges {
		if r.Contains(a) {
			return true
		}
	}
	return false
}

// Partition splits the set into at most n disjoint sub-sets with contiguous
// runs of ranges, for driving independent schedulers concurrently.
func (s RangeSet) Partition(n int) []RangeSet {
	if n <= 1 || s.Len() <= 1 {
		return []RangeSet{s}
	}
	if n > s.Len() {
		n = s.Len()
	}
	per := s.Len() / n
	extra := s.Len() % n
	out := make([]RangeSet, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := per
		if i < extra {
			size++
		}
		out = append(out, RangeSet{ranges: s.ranges[start : start+size]})
		start += size
	}
	return out
}

// interval is a closed span of addresses within one family, the working
// representation during the union sweep.
type interval struct {
	family Family
	start  Uint128
	end    Uint128
}

// Normalize parses CIDR inputs and produces the minimal covering set:
// sorted, deduplicated, with overlapping/adjacent/contained same-family
// ranges merged. Fails atomically: any invalid input rejects the whole
// batch. An empty input yields an empty set.
func Normalize(cidrs []string) (RangeSet, error) {
	parsed := make([]Range, 0, len(cidrs))
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		r, err := ParseRange(c)
		if err != nil {
			return RangeSet{}, err
		}
		parsed = append(parsed, r)
	}
	if len(parsed) == 0 {
		return RangeSet{}, nil
	}

	intervals := make([]interval, len(parsed))
	for i, r := range parsed {
		intervals[i] = interval{family: r.Family(), start: r.Base().ToUint128(), end: r.Last().ToUint128()}
	}
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].family != intervals[j].family {
			return intervals[i].family < intervals[j].family
		}
		return intervals[i].start.Cmp(intervals[j].start) < 0
	})

	// Interval-union sweep. Ranges of different families never merge.
	merged := intervals[:1]
	for _, iv := range intervals[1:] {
		cur := &merged[len(merged)-1]
		if iv.family == cur.family && !curEndsSpace(*cur) && iv.start.Cmp(cur.end.Inc()) <= 0 {
			if iv.end.Cmp(cur.end) > 0 {
				cur.end = iv.end
			}
			continue
		}
		if iv.family == cur.family && curEndsSpace(*cur) {
			// Accumulator already reaches the end of the family's space;
			// everything after it in this family is contained.
			continue
		}
		merged = append(merged, iv)
	}

	var out []Range
	for _, iv := range merged {
		out = appendCoveringCIDRs(out, iv.family, iv.start, iv.end)
	}
	return RangeSet{ranges: out}, nil
}

// curEndsSpace reports whether the accumulator's end is the family's last
// address, where end+1 would wrap.
func curEndsSpace(iv interval) bool {
	return iv.end == familyMax(iv.family)
}

// appendCoveringCIDRs decomposes a closed interval into the minimal set of
// prefix-aligned CIDR blocks, appended in ascending order.
func appendCoveringCIDRs(dst []Range, family Family, start, end Uint128) []Range {
	bits := family.Bits()
	if family == V6 && start.IsZero() && end == maxU128 {
		r, _ := NewRange(V6, AddrFromUint128(start), 0)
		return append(dst, r)
	}
	for {
		span := end.Sub(start).Inc() // count of remaining addresses, < 2^128
		host := start.TrailingZeros()
		if host > bits {
			host = bits
		}
		if host > 127 {
			host = 127
		}
		for hostMask(uint(host)).Inc().Cmp(span) > 0 {
			host--
		}
		r, _ := NewRange(family, AddrFromUint128(start), bits-host)
		dst = append(dst, r)
		start = start.Add(hostMask(uint(host)).Inc())
		if start.IsZero() || start.Cmp(end) > 0 {
			return dst
		}
	}
}
