package ranges

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, s string) Range {
	t.Helper()
	r, err := ParseRange(s)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", s, err)
	}
	return r
}

func TestRangeSize(t *testing.T) {
	tests := []struct {
		cidr string
		want Uint128
	}{
		{"192.168.1.0/24", U128(256)},
		{"10.0.0.0/8", U128(1 << 24)},
		{"10.1.2.3/32", U128(1)},
		{"0.0.0.0/0", U128(1 << 32)},
		{"2001:db8::/112", U128(65536)},
		{"2001:db8::/128", U128(1)},
		{"2001:db8::/64", Uint128{Hi: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			r := mustParse(t, tt.cidr)
			size, ok := r.Size()
			if !ok {
				t.Fatal("Size() reported overflow")
			}
			if size != tt.want {
				t.Errorf("Size() = %v, want %v", size, tt.want)
			}
		})
	}
}

func TestRangeSizeFullV6(t *testing.T) {
	r := mustParse(t, "::/0")
	if _, ok := r.Size(); ok {
		t.Error("::/0 size should overflow Uint128")
	}
	if r.sizeFloat() != 0x1p128 {
		t.Errorf("sizeFloat = %g, want 2^128", r.sizeFloat())
	}
	if s := r.Last().String(); s != "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff" {
		t.Errorf("Last = %s", s)
	}
}

func TestRangeLastAndContains(t *testing.T) {
	r := mustParse(t, "10.0.0.0/24")
	if s := r.Last().String(); s != "10.0.0.255" {
		t.Errorf("Last = %s, want 10.0.0.255", s)
	}
	if !r.Contains(AddrFrom4(10, 0, 0, 128)) {
		t.Error("should contain 10.0.0.128")
	}
	if r.Contains(AddrFrom4(10, 0, 1, 0)) {
		t.Error("should not contain 10.0.1.0")
	}
	v6 := mustParse(t, "2001:db8::/120")
	if r.Contains(v6.Base()) || v6.Contains(r.Base()) {
		t.Error("families must not contain each other")
	}
}

func TestRangeAddrAt(t *testing.T) {
	r := mustParse(t, "192.168.1.0/30")
	for i, want := range []string{"192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"} {
		a, err := r.AddrAt(U128(uint64(i)))
		if err != nil {
			t.Fatalf("AddrAt(%d): %v", i, err)
		}
		if s := a.String(); s != want {
			t.Errorf("AddrAt(%d) = %s, want %s", i, s, want)
		}
	}
	if _, err := r.AddrAt(U128(4)); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("AddrAt(4) err = %v, want ErrOffsetOutOfRange", err)
	}
}

func TestRangeHostBitsMasked(t *testing.T) {
	r := mustParse(t, "10.0.0.77/24")
	if s := r.String(); s != "10.0.0.0/24" {
		t.Errorf("host bits not masked: %s", s)
	}
	r6 := mustParse(t, "2001:db8::beef/112")
	if s := r6.String(); s != "2001:db8::/112" {
		t.Errorf("v6 host bits not masked: %s", s)
	}
}
