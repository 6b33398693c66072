package ranges

import (
	"net"
	"testing"
)

func TestExcludeTreeContains(t *testing.T) {
	tree := &ExcludeTree{}
	tree.Insert(AddrFrom4(192, 168, 1, 10), AddrFrom4(192, 168, 1, 200))
	tree.Insert(AddrFrom4(10, 0, 0, 0), AddrFrom4(10, 255, 255, 255))

	tests := []struct {
		ip      string
		blocked bool
	}{
		{"192.168.1.9", false},
		{"192.168.1.10", true},
		{"192.168.1.200", true},
		{"192.168.1.201", false},
		{"10.128.0.1", true},
		{"11.0.0.0", false},
	}
	for _, tt := range tests {
		a := FromNetIP(net.ParseIP(tt.ip))
		if got, _ := tree.Contains(a); got != tt.blocked {
			t.Errorf("Contains(%s) = %v, want %v", tt.ip, got, tt.blocked)
		}
	}

	if blocked, end := tree.Contains(AddrFrom4(192, 168, 1, 50)); !blocked || end != AddrFrom4(192, 168, 1, 200) {
		t.Errorf("Contains should report the span end, got %v %s", blocked, end)
	}
}

func TestExcludeTreeRebalances(t *testing.T) {
	// Ascending inserts degenerate without AVL rotation.
	tree := &ExcludeTree{}
	for i := 0; i < 64; i++ {
		a := AddrFrom4(10, 0, byte(i), 0)
		tree.Insert(a, AddrFrom4(10, 0, byte(i), 255))
	}
	if h := nodeHeight(tree.root); h > 8 {
		t.Errorf("tree height %d after 64 ordered inserts, want O(log n)", h)
	}
	if blocked, _ := tree.Contains(AddrFrom4(10, 0, 63, 17)); !blocked {
		t.Error("lookup after rebalancing failed")
	}
}

func TestFilteredEnumerator(t *testing.T) {
	set := normalize(t, "192.168.1.0/24")
	tree, err := NewExcludeTree([]string{"192.168.1.10/31"})
	if err != nil {
		t.Fatal(err)
	}
	tree.Insert(AddrFrom4(192, 168, 1, 12), AddrFrom4(192, 168, 1, 200))

	count := 0
	e := Filter(NewScheduler(set), tree)
	for {
		a, ok := e.Next()
		if !ok {
			break
		}
		if blocked, _ := tree.Contains(a); blocked {
			t.Errorf("excluded address surfaced: %s", a)
		}
		count++
	}
	// 256 - (200 - 10 + 1) = 65
	if count != 65 {
		t.Errorf("got %d addresses, want 65", count)
	}
}

func TestFilteredV6(t *testing.T) {
	set := normalize(t, "2001:db8::/120")
	tree, err := NewExcludeTree([]string{"2001:db8::/121"})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	e := Filter(shuffledOrFatal(t, set, 3), tree)
	for {
		a, ok := e.Next()
		if !ok {
			break
		}
		if a.Compare(FromNetIP(net.ParseIP("2001:db8::80"))) < 0 {
			t.Errorf("excluded v6 address surfaced: %s", a)
		}
		count++
	}
	if count != 128 {
		t.Errorf("got %d addresses, want 128", count)
	}
}

func shuffledOrFatal(t *testing.T, set RangeSet, seed int64) *Shuffled {
	t.Helper()
	e, err := NewShuffled(set, seed)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// countingSource forwards to a Linear while counting pulls.
type countingSource struct {
	inner *Linear
	nexts int
}

func (c *countingSource) Next() (Addr, bool) {
	c.nexts++
	return c.inner.Next()
}

func (c *countingSource) SeekPast(blocked, end Addr) {
	c.inner.SeekPast(blocked, end)
}

func TestFilteredSeeksPastSpans(t *testing.T) {
	set := normalize(t, "10.0.0.0/24")
	tree, err := NewExcludeTree([]string{"10.0.0.0/25"})
	if err != nil {
		t.Fatal(err)
	}

	src := &countingSource{inner: NewLinear(set)}
	got := collect(Filter(src, tree))
	if len(got) != 128 {
		t.Fatalf("got %d addresses, want 128", len(got))
	}
	if got[0] != AddrFrom4(10, 0, 0, 128) {
		t.Errorf("first address = %s, want 10.0.0.128", got[0])
	}
	// One blocked pull, 128 emissions, one exhausting pull. Without the
	// skip the source would be pulled through all 128 excluded addresses.
	if src.nexts != 130 {
		t.Errorf("source pulled %d times, want 130", src.nexts)
	}
}

func TestNewExcludeTreeTrimsEntries(t *testing.T) {
	tree, err := NewExcludeTree([]string{" 10.0.0.0/8 ", "", "  ", "192.168.0.0/16"})
	if err != nil {
		t.Fatalf("NewExcludeTree: %v", err)
	}
	if blocked, _ := tree.Contains(AddrFrom4(10, 200, 0, 1)); !blocked {
		t.Error("trimmed entry not inserted")
	}
	if blocked, _ := tree.Contains(AddrFrom4(192, 168, 3, 4)); !blocked {
		t.Error("entry after blanks not inserted")
	}
}

func TestFilterNilTree(t *testing.T) {
	set := normalize(t, "10.0.0.0/30")
	if got := collect(Filter(NewLinear(set), nil)); len(got) != 4 {
		t.Errorf("nil tree should pass everything, got %d", len(got))
	}
}
