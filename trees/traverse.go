package trees

// Preorder walks the subtree rooted at n in preorder, children in their
// stored order. The walk stops early when visit returns false.
func Preorder(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !Preorder(c, visit) {
			return false
		}
	}
	return true
}

// Postorder walks the subtree rooted at n in postorder, children in their
// stored order. The walk stops early when visit returns false.
func Postorder(n *Node, visit func(*Node) bool) bool {
	for _, c := range n.children {
		if !Postorder(c, visit) {
			return false
		}
	}
	return visit(n)
}

// Nodes returns the nodes of the subtree rooted at n in preorder.
func Nodes(n *Node) []*Node {
	var ns []*Node
	Preorder(n, func(m *Node) bool {
		ns = append(ns, m)
		return true
	})
	return ns
}

// RightSibling returns the sibling immediately right of n in canonical
// order, nil if n is rightmost or the root.
func RightSibling(n *Node) *Node {
	if n.parent == nil {
		return nil
	}
	sibs := CanonicalChildren(n.parent)
	for i := 0; i+1 < len(sibs); i++ {
		if sibs[i] == n {
			return sibs[i+1]
		}
	}
	return nil
}

// LeftSibling returns the sibling immediately left of n in canonical order,
// nil if n is leftmost or the root.
func LeftSibling(n *Node) *Node {
	if n.parent == nil {
		return nil
	}
	sibs := CanonicalChildren(n.parent)
	for i := 1; i < len(sibs); i++ {
		if sibs[i] == n {
			return sibs[i-1]
		}
	}
	return nil
}

// CanonicalChildren returns the children of n sorted into canonical order,
// i.e., by leftmost terminal, leaving the stored sequence alone.
func CanonicalChildren(n *Node) []*Node {
	cs := n.Children()
	sortNodes(cs)
	return cs
}

// LCA returns the least common ancestor of a and b, nil if they are not
// part of the same tree.
func LCA(a, b *Node) *Node {
	domA := Dominance(a)
	domB := Dominance(b)
	var lca *Node
	i, j := len(domA)-1, len(domB)-1
	for i >= 0 && j >= 0 && domA[i] == domB[j] {
		lca = domA[i]
		i--
		j--
	}
	return lca
}

// Dominance returns n and its ancestors, bottom-up, ending at the root.
func Dominance(n *Node) []*Node {
	var dom []*Node
	for ; n != nil; n = n.parent {
		dom = append(dom, n)
	}
	return dom
}
