package ranges

import (
	"math/bits"
	"strconv"
)

// Uint128 is an unsigned 128-bit integer. IPv6 offsets and range sizes do
// not fit in uint64, so all offset arithmetic in this package runs on it.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// U128 creates a Uint128 from a uint64.
func U128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Add returns u+v with wraparound at 2^128.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, carry)
	return Uint128{Hi: hi, Lo: lo}
}

// Sub returns u-v with wraparound at 0.
func (u Uint128) Sub(v Uint128) Uint128 {
	lo, borrow := bits.Sub64(u.Lo, v.Lo, 0)
	hi, _ := bits.Sub64(u.Hi, v.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

// Inc returns u+1.
func (u Uint128) Inc() Uint128 {
	return u.Add(Uint128{Lo: 1})
}

// And returns the bitwise AND of u and v.
func (u Uint128) And(v Uint128) Uint128 {
	return Uint128{Hi: u.Hi & v.Hi, Lo: u.Lo & v.Lo}
}

// Not returns the bitwise complement of u.
func (u Uint128) Not() Uint128 {
	return Uint128{Hi: ^u.Hi, Lo: ^u.Lo}
}

// Cmp returns -1, 0, or 1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// IsZero reports whether u == 0.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// TrailingZeros returns the number of trailing zero bits; 128 for zero.
func (u Uint128) TrailingZeros() int {
	if u.Lo != 0 {
		return bits.TrailingZeros64(u.Lo)
	}
	if u.Hi != 0 {
		return 64 + bits.TrailingZeros64(u.Hi)
	}
	return 128
}

// BitLen returns the minimum number of bits needed to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// Uint64 returns the low word and whether the value fits in 64 bits.
func (u Uint128) Uint64() (uint64, bool) {
	return u.Lo, u.Hi == 0
}

// Float64 returns the nearest float64. Exact for values up to 2^53; above
// that it is an approximation, which is all the credit scheduler needs.
func (u Uint128) Float64() float64 {
	return float64(u.Hi)*(1<<64) + float64(u.Lo)
}

// String renders the value in decimal.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return strconv.FormatUint(u.Lo, 10)
	}
	// Long division by 10^19, largest power of ten in a uint64.
	const chunk = 1e19
	q, r := divmod128(u, chunk)
	if q.Hi == 0 {
		return strconv.FormatUint(q.Lo, 10) + pad19(r)
	}
	q2, r2 := divmod128(q, chunk)
	return strconv.FormatUint(q2.Lo, 10) + pad19(r2) + pad19(r)
}

func divmod128(u Uint128, d uint64) (Uint128, uint64) {
	hiQ := u.Hi / d
	hiR := u.Hi % d
	loQ, loR := bits.Div64(hiR, u.Lo, d)
	return Uint128{Hi: hiQ, Lo: loQ}, loR
}

func pad19(v uint64) string {
	s := strconv.FormatUint(v, 10)
	for len(s) < 19 {
		s = "0" + s
	}
	return s
}
