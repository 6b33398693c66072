package ranges

import (
	"encoding/binary"
	"net"
)

// Family identifies the address family of a Range or Addr.
type Family uint8

const (
	V4 Family = 4
	V6 Family = 6
)

// Bits returns the width of the family's address space.
func (f Family) Bits() int {
	if f == V4 {
		return 32
	}
	return 128
}

func (f Family) String() string {
	if f == V4 {
		return "ipv4"
	}
	return "ipv6"
}

// Addr is a fixed-size 16-byte IP address stored in IPv4-mapped IPv6 format.
// IPv4 addresses use the ::ffff:a.b.c.d mapping (bytes 10-11 = 0xFF,
// bytes 12-15 = IPv4). Stack-allocated and zero-GC, unlike net.IP.
type Addr [16]byte

// v4InV6Prefix is the IPv4-mapped IPv6 prefix: 10 zero bytes + 2 0xFF bytes.
var v4InV6Prefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF}

// AddrFrom4 creates an Addr from 4 IPv4 bytes.
func AddrFrom4(a, b, c, d byte) Addr {
	var ip Addr
	copy(ip[:12], v4InV6Prefix[:])
	ip[12] = a
	ip[13] = b
	ip[14] = c
	ip[15] = d
	return ip
}

// AddrFromSlice creates an Addr from a byte slice (4 or 16 bytes).
func AddrFromSlice(b []byte) Addr {
	var ip Addr
	switch len(b) {
	case 4:
		copy(ip[:12], v4InV6Prefix[:])
		copy(ip[12:], b)
	case 16:
		copy(ip[:], b)
	}
	return ip
}

// FromNetIP converts a net.IP to Addr. Handles both 4-byte and 16-byte forms.
func FromNetIP(ip net.IP) Addr {
	if ip4 := ip.To4(); ip4 != nil {
		return AddrFromSlice(ip4)
	}
	if ip16 := ip.To16(); ip16 != nil {
		return AddrFromSlice(ip16)
	}
	return Addr{}
}

// Is4 returns true if this is an IPv4-mapped address.
func (ip Addr) Is4() bool {
	return ip[0] == 0 && ip[1] == 0 && ip[2] == 0 && ip[3] == 0 &&
		ip[4] == 0 && ip[5] == 0 && ip[6] == 0 && ip[7] == 0 &&
		ip[8] == 0 && ip[9] == 0 && ip[10] == 0xFF && ip[11] == 0xFF
}

// Family returns V4 for IPv4-mapped addresses, V6 otherwise.
func (ip Addr) Family() Family {
	if ip.Is4() {
		return V4
	}
	return V6
}

// IsZero returns true if the address is all zeros.
func (ip Addr) IsZero() bool {
	return ip == Addr{}
}

// String returns the canonical text form. IPv4-mapped addresses render as
// dotted decimal.
func (ip Addr) String() string {
	if ip.Is4() {
		return net.IP(ip[12:16]).String()
	}
	return net.IP(ip[:]).String()
}

// ToNetIP converts to net.IP. IPv4-mapped addresses return a 4-byte net.IP.
func (ip Addr) ToNetIP() net.IP {
	if ip.Is4() {
		return net.IP{ip[12], ip[13], ip[14], ip[15]}
	}
	out := make(net.IP, 16)
	copy(out, ip[:])
	return out
}

// Compare returns -1, 0, or 1 for ordering.
func (ip Addr) Compare(other Addr) int {
	for i := 0; i < 16; i++ {
		if ip[i] < other[i] {
			return -1
		}
		if ip[i] > other[i] {
			return 1
		}
	}
	return 0
}

// ToUint128 returns the address as a 128-bit integer (big-endian).
func (ip Addr) ToUint128() Uint128 {
	return Uint128{
		Hi: binary.BigEndian.Uint64(ip[0:8]),
		Lo: binary.BigEndian.Uint64(ip[8:16]),
	}
}

// AddrFromUint128 is the inverse of ToUint128.
func AddrFromUint128(u Uint128) Addr {
	var ip Addr
	binary.BigEndian.PutUint64(ip[0:8], u.Hi)
	binary.BigEndian.PutUint64(ip[8:16], u.Lo)
	return ip
}

// AddOffset returns a new Addr with offset added numerically to the 128-bit
// address. Wraps at 2^128; callers bound the offset to their range size.
func (ip Addr) AddOffset(offset Uint128) Addr {
	return AddrFromUint128(ip.ToUint128().Add(offset))
}

// Distance returns other - ip as a 128-bit integer. Only meaningful when
// other >= ip.
func (ip Addr) Distance(other Addr) Uint128 {
	return other.ToUint128().Sub(ip.ToUint128())
}
