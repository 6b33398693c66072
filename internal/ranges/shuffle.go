package ranges

import (
	"crypto/rand"
	"encoding/binary"
)

const feistelRounds = 6

// feistel implements format-preserving encryption on a 64-bit domain,
// mapping indices [0, size) to a 1-to-1 permutation via cycle-walking.
type feistel struct {
	keys      [feistelRounds]uint64
	size      uint64
	halfWidth uint   // bits per half-block
	lowerMask uint64 // (1 << halfWidth) - 1
}

// newFeistel creates a permutation for a domain of the given size. A zero
// seed draws random keys; any other seed derives them deterministically.
func newFeistel(size uint64, seed int64) *feistel {
	// Find smallest even bit-width that covers size
	bitw := uint(2)
	for bitw < 64 && (uint64(1)<<bitw) < size {
		bitw++
	}
	if bitw%2 != 0 {
		bitw++
	}

	halfWidth := bitw / 2
	lowerMask := uint64((1 << halfWidth) - 1)

	var keys [feistelRounds]uint64
	if seed == 0 {
		b := make([]byte, feistelRounds*8)
		rand.Read(b)
		for i := 0; i < feistelRounds; i++ {
			keys[i] = binary.LittleEndian.Uint64(b[i*8 : (i+1)*8])
		}
	} else {
		state := uint64(seed)
		for i := 0; i < feistelRounds; i++ {
			state = splitmix64(&keys[i], state)
		}
	}

	return &feistel{
		keys:      keys,
		size:      size,
		halfWidth: halfWidth,
		lowerMask: lowerMask,
	}
}

// splitmix64 advances the state and writes the next key.
func splitmix64(out *uint64, state uint64) uint64 {
	state += 0x9e3779b97f4a7c15
	z := state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	*out = z ^ (z >> 31)
	return state
}

// permute maps an input index to a unique output in [0, size).
// Cycle-walking: re-encrypt until the result falls within the domain.
func (f *feistel) permute(index uint64) uint64 {
	x := index
	for {
		x = f.encrypt(x)
		if x < f.size {
			return x
		}
	}
}

func (f *feistel) encrypt(block uint64) uint64 {
	left := (block >> f.halfWidth) & f.lowerMask
	right := block & f.lowerMask

	for i := 0; i < feistelRounds; i++ {
		roundVal := roundFunc(right, f.keys[i]) & f.lowerMask
		left, right = right, left^roundVal
	}

	return (left << f.halfWidth) | right
}

// roundFunc is a PRF using the murmur3 64-bit finalizer for strong avalanche.
func roundFunc(val, key uint64) uint64 {
	v := val ^ key
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	v *= 0xc4ceb9fe1a85ec53
	v ^= v >> 33
	return v
}
