package parser

// Children returns the nodes directly contained by n, in order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Unit:
		return n.Children
	case *Block:
		return n.Children
	case *BlockContent:
		return n.Children
	case *AccessRegion:
		return n.Children
	case *Struct:
		if n.Block != nil {
			return []Node{n.Block}
		}
	case *Namespace:
		if n.Block != nil {
			return []Node{n.Block}
		}
	case *Enum:
		if n.Block != nil {
			return []Node{n.Block}
		}
	case *Function:
		if n.Block != nil {
			return []Node{n.Block}
		}
	case *Constructor:
		if n.Block != nil {
			return []Node{n.Block}
		}
	case *DeclStmt:
		r := make([]Node, len(n.Decls))
		for i, d := range n.Decls {
			r[i] = d
		}
		return r
	}
	return nil
}

// Walk calls fn for n and every node below it, depth first. parents holds
// the enclosing nodes, outermost first. When fn returns false the children
// of n are skipped.
func Walk(n Node, fn func(n Node, parents []Node) bool) {
	walk(n, nil, fn)
}

func walk(n Node, parents []Node, fn func(Node, []Node) bool) {
	if !fn(n, parents) {
		return
	}
	parents = append(parents[:len(parents):len(parents)], n)
	for _, c := range Children(n) {
		walk(c, parents, fn)
	}
}
