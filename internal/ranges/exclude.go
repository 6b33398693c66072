package ranges

import "strings"

// intervalNode is a node in an AVL-balanced interval tree keyed by Addr.
type intervalNode struct {
	start       Addr
	end         Addr
	maxEnd      Addr
	left, right *intervalNode
	height      int
}

// ExcludeTree stores excluded address spans and answers membership in
// O(log N). Both families share one tree; the 16-byte ordering keeps
// IPv4-mapped and native IPv6 spans apart.
type ExcludeTree struct {
	root *intervalNode
}

// NewExcludeTree parses CIDR exclusion strings into a tree. Inputs follow
// the same syntax as Normalize, including whitespace trimming and blank
// entries.
func NewExcludeTree(cidrs []string) (*ExcludeTree, error) {
	t := &ExcludeTree{}
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		r, err := ParseRange(c)
		if err != nil {
			return nil, err
		}
		t.Insert(r.Base(), r.Last())
	}
	return t, nil
}

// Insert adds the closed span [start, end] with AVL rebalancing.
func (t *ExcludeTree) Insert(start, end Addr) {
	t.root = insertNode(t.root, start, end)
}

// Contains checks whether the address falls in any excluded span. Returns
// (true, end_of_span) when found, so a seeking caller can skip ahead.
func (t *ExcludeTree) Contains(a Addr) (bool, Addr) {
	return containsNode(t.root, a)
}

func nodeHeight(n *intervalNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceFactor(n *intervalNode) int {
	if n == nil {
		return 0
	}
	return nodeHeight(n.left) - nodeHeight(n.right)
}

func updateNode(n *intervalNode) {
	lh, rh := nodeHeight(n.left), nodeHeight(n.right)
	if lh > rh {
		n.height = lh + 1
	} else {
		n.height = rh + 1
	}
	n.maxEnd = n.end
	if n.left != nil && n.left.maxEnd.Compare(n.maxEnd) > 0 {
		n.maxEnd = n.left.maxEnd
	}
	if n.right != nil && n.right.maxEnd.Compare(n.maxEnd) > 0 {
		n.maxEnd = n.right.maxEnd
	}
}

func rotateRight(y *intervalNode) *intervalNode {
	x := y.left
	t := x.right
	x.right = y
	y.left = t
	updateNode(y)
	updateNode(x)
	return x
}

func rotateLeft(x *intervalNode) *intervalNode {
	y := x.right
	t := y.left
	y.left = x
	x.right = t
	updateNode(x)
	updateNode(y)
	return y
}

func insertNode(node *intervalNode, start, end Addr) *intervalNode {
	if node == nil {
		return &intervalNode{start: start, end: end, maxEnd: end, height: 1}
	}

	if start.Compare(node.start) < 0 {
		node.left = insertNode(node.left, start, end)
	} else {
		node.right = insertNode(node.right, start, end)
	}

	updateNode(node)

	bf := balanceFactor(node)
	if bf > 1 && start.Compare(node.left.start) < 0 {
		return rotateRight(node)
	}
	if bf < -1 && start.Compare(node.right.start) >= 0 {
		return rotateLeft(node)
	}
	if bf > 1 && start.Compare(node.left.start) >= 0 {
		node.left = rotateLeft(node.left)
		return rotateRight(node)
	}
	if bf < -1 && start.Compare(node.right.start) < 0 {
		node.right = rotateRight(node.right)
		return rotateLeft(node)
	}

	return node
}

func containsNode(node *intervalNode, a Addr) (bool, Addr) {
	if node == nil {
		return false, Addr{}
	}

	if a.Compare(node.maxEnd) > 0 {
		return false, Addr{}
	}

	if a.Compare(node.start) >= 0 && a.Compare(node.end) <= 0 {
		return true, node.end
	}

	if node.left != nil && node.left.maxEnd.Compare(a) >= 0 {
		if found, end := containsNode(node.left, a); found {
			return true, end
		}
	}

	return containsNode(node.right, a)
}

// Filtered wraps an Enumerator and drops addresses covered by an exclusion
// tree. The source keeps its emission order; excluded addresses simply never
// surface. Sources implementing Seeker skip the rest of an excluded span
// instead of emitting through it one address at a time.
type Filtered struct {
	source Enumerator
	seeker Seeker // non-nil when source can skip ahead
	tree   *ExcludeTree
}

// Filter creates a wrapper that skips excluded addresses. A nil tree passes
// everything through.
func Filter(source Enumerator, tree *ExcludeTree) *Filtered {
	f := &Filtered{source: source, tree: tree}
	if s, ok := source.(Seeker); ok {
		f.seeker = s
	}
	return f
}

func (f *Filtered) Next() (Addr, bool) {
	for {
		a, ok := f.source.Next()
		if !ok {
			return Addr{}, false
		}
		if f.tree == nil {
			return a, true
		}
		blocked, end := f.tree.Contains(a)
		if !blocked {
			return a, true
		}
		if f.seeker != nil {
			f.seeker.SeekPast(a, end)
		}
	}
}
