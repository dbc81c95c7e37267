// Package srcml models the XML tree produced by the srcml executable
// (https://www.srcml.org/) and converts between that tree and C++ source.
package srcml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Namespaces used by srcml output.
const (
	NamespaceSrc      = "http://www.srcML.org/srcML/src"
	NamespaceCpp      = "http://www.srcML.org/srcML/cpp"
	NamespacePosition = "http://www.srcML.org/srcML/position"
)

// Ref is a handle to a node inside a Tree. AST nodes keep a Ref instead of
// a pointer so they never own, or cycle back into, the srcml tree.
type Ref int

// NoRef marks an element that was synthesised and has no srcml origin.
const NoRef Ref = -1

// Node is one XML element of a srcml tree.
//
// Text holds the character data between the start tag and the first child,
// Tail the character data between the end tag and the next sibling. Together
// they hold every character of the original source.
type Node struct {
	ID       Ref
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Tail     string
	Children []*Node
}

// Tree is a decoded srcml document. Nodes lists every element in document
// order, so that Nodes[n.ID] == n.
type Tree struct {
	Root  *Node
	Nodes []*Node
}

// Node returns the node for a handle, or nil for NoRef or an unknown handle.
func (t *Tree) Node(ref Ref) *Node {
	if t == nil || ref < 0 || int(ref) >= len(t.Nodes) {
		return nil
	}
	return t.Nodes[ref]
}

// Render returns the source code of the node behind a handle.
func (t *Tree) Render(ref Ref) string {
	return Render(t.Node(ref))
}

// Decode reads a srcml document.
func Decode(r io.Reader) (*Tree, error) {
	d := xml.NewDecoder(r)
	d.Strict = true

	tree := &Tree{}
	var stack []*Node

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding srcml: %w", err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			n := &Node{
				ID:    Ref(len(tree.Nodes)),
				Name:  tok.Name,
				Attrs: append([]xml.Attr(nil), tok.Attr...),
			}
			tree.Nodes = append(tree.Nodes, n)

			if len(stack) == 0 {
				if tree.Root != nil {
					return nil, errors.New("decoding srcml: more than one root element")
				}
				tree.Root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if len(parent.Children) == 0 {
				parent.Text += string(tok)
			} else {
				last := parent.Children[len(parent.Children)-1]
				last.Tail += string(tok)
			}
		}
	}

	if tree.Root == nil {
		return nil, errors.New("decoding srcml: empty document")
	}

	return tree, nil
}

// DecodeString is Decode for an in-memory document.
func DecodeString(s string) (*Tree, error) {
	return Decode(strings.NewReader(s))
}

// CleanTag strips any namespace from a tag or attribute name: both the
// "{uri}local" form and literal "nsN:" prefixes.
func CleanTag(name string) string {
	if strings.HasPrefix(name, "{") {
		if i := strings.Index(name, "}"); i >= 0 {
			name = name[i+1:]
		}
	}
	if i := strings.Index(name, ":"); i >= 0 && isNsPrefix(name[:i]) {
		name = name[i+1:]
	}
	return name
}

// isNsPrefix reports whether p looks like a generated prefix: "ns" followed
// by digits.
func isNsPrefix(p string) bool {
	if len(p) < 3 || !strings.HasPrefix(p, "ns") {
		return false
	}
	for _, r := range p[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Tag returns the namespace-free tag name.
func (n *Node) Tag() string {
	if n == nil {
		return ""
	}
	return CleanTag(n.Name.Local)
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if CleanTag(a.Name.Local) == local {
			return a.Value, true
		}
	}
	return "", false
}

// HasText reports whether the node carries a direct text payload. Nodes with
// nested structure, like a templated name, do not.
func (n *Node) HasText() bool {
	return n.Text != ""
}

// ChildrenWithTag returns the direct children with the given tag.
func (n *Node) ChildrenWithTag(tag string) []*Node {
	var r []*Node
	for _, c := range n.Children {
		if c.Tag() == tag {
			r = append(r, c)
		}
	}
	return r
}

// ChildWithTag returns the only direct child with the given tag.
func (n *Node) ChildWithTag(tag string) (*Node, error) {
	children := n.ChildrenWithTag(tag)
	switch len(children) {
	case 1:
		return children[0], nil
	case 0:
		tags := make([]string, len(n.Children))
		for i, c := range n.Children {
			tags[i] = fmt.Sprintf("%q", c.Tag())
		}
		return nil, fmt.Errorf("did not find child with tag %q (found [%s])", tag, strings.Join(tags, ", "))
	default:
		return nil, fmt.Errorf("found more than one child with tag %q (found %d)", tag, len(children))
	}
}
