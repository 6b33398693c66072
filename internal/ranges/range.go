package ranges

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for the normalization and codec boundaries.
var (
	// ErrInvalidCIDR reports malformed textual input or an out-of-range
	// prefix length. Raised during normalization, never during enumeration.
	ErrInvalidCIDR = errors.New("invalid CIDR")

	// ErrOffsetOutOfRange reports an offset at or beyond the range size.
	// The scheduler never produces one; the codec validates independently.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrSpaceTooLarge reports an address space too large for the shuffled
	// enumerator, whose permutation runs on a 64-bit domain.
	ErrSpaceTooLarge = errors.New("address space exceeds 2^64")
)

// Range is one CIDR block: a family, a canonical base address (host bits
// zero), and a prefix length. Immutable once constructed.
type Range struct {
	family Family
	base   Addr
	prefix int
}

// NewRange constructs a Range, masking any host bits set in base.
func NewRange(family Family, base Addr, prefix int) (Range, error) {
	if prefix < 0 || prefix > family.Bits() {
		return Range{}, fmt.Errorf("%w: prefix /%d out of bounds for %s", ErrInvalidCIDR, prefix, family)
	}
	return Range{family: family, base: maskBase(family, base, prefix), prefix: prefix}, nil
}

// maskBase zeroes the host bits of base for the given family and prefix.
func maskBase(family Family, base Addr, prefix int) Addr {
	host := uint(family.Bits() - prefix)
	return AddrFromUint128(base.ToUint128().And(hostMask(host).Not()))
}

// hostMask returns a Uint128 with the low n bits set.
func hostMask(n uint) Uint128 {
	switch {
	case n == 0:
		return Uint128{}
	case n < 64:
		return Uint128{Lo: (1 << n) - 1}
	case n == 64:
		return Uint128{Lo: ^uint64(0)}
	case n < 128:
		return Uint128{Hi: (1 << (n - 64)) - 1, Lo: ^uint64(0)}
	default:
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
}

// Family returns the range's address family.
func (r Range) Family() Family { return r.family }

// Base returns the canonical network address.
func (r Range) Base() Addr { return r.base }

// PrefixLen returns the prefix length.
func (r Range) PrefixLen() int { return r.prefix }

// Size returns the address count 2^(bits-prefix). ok is false only for an
// IPv6 /0, whose count 2^128 does not fit; callers that need exhaustion
// checks compare against Last instead of counting.
func (r Range) Size() (Uint128, bool) {
	host := uint(r.family.Bits() - r.prefix)
	if host == 128 {
		return Uint128{}, false
	}
	return hostMask(host).Inc(), true
}

// sizeFloat returns the address count as a float64, exact enough for
// scheduler weights. Handles the 2^128 full-space case.
func (r Range) sizeFloat() float64 {
	host := uint(r.family.Bits() - r.prefix)
	if host == 128 {
		return 0x1p128
	}
	return hostMask(host).Inc().Float64()
}

// Last returns the highest address in the range.
func (r Range) Last() Addr {
	host := uint(r.family.Bits() - r.prefix)
	return AddrFromUint128(r.base.ToUint128().Add(hostMask(host)))
}

// Contains reports whether a falls inside the range. Family mismatches are
// never contained.
func (r Range) Contains(a Addr) bool {
	if a.Family() != r.family {
		return false
	}
	return a.Compare(r.base) >= 0 && a.Compare(r.Last()) <= 0
}

// AddrAt maps an offset into the range to the address base+offset. This is
// the codec boundary: it validates the offset independently of any caller.
func (r Range) AddrAt(offset Uint128) (Addr, error) {
	if size, ok := r.Size(); ok && offset.Cmp(size) >= 0 {
		return Addr{}, fmt.Errorf("%w: offset %s in %s", ErrOffsetOutOfRange, offset, r)
	}
	return r.base.AddOffset(offset), nil
}

// String renders the range in CIDR notation.
func (r Range) String() string {
	return r.base.String() + "/" + strconv.Itoa(r.prefix)
}
