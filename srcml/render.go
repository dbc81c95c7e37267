package srcml

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Render returns the C++ source a node was built from. srcml keeps every
// source character as character data, so the code is the in-order
// concatenation of the text below the node. The node's own tail belongs to
// its parent and is not included.
func Render(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n *Node) {
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		render(sb, c)
		sb.WriteString(c.Tail)
	}
}

// Encode writes the node and its descendants back to XML. It is used to dump
// the tree in diagnostics and to feed a sub-tree to the srcml executable.
func Encode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encode(enc, n, true); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *xml.Encoder, n *Node, root bool) error {
	start := xml.StartElement{Name: xml.Name{Local: prefixed(n.Name)}}
	if root {
		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: NamespaceSrc},
			xml.Attr{Name: xml.Name{Local: "xmlns:cpp"}, Value: NamespaceCpp},
			xml.Attr{Name: xml.Name{Local: "xmlns:pos"}, Value: NamespacePosition},
		)
	}
	for _, a := range n.Attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: prefixed(a.Name)}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encode(enc, c, false); err != nil {
			return err
		}
		if c.Tail != "" {
			if err := enc.EncodeToken(xml.CharData(c.Tail)); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

// prefixed gives back the conventional srcml prefix of a name.
func prefixed(n xml.Name) string {
	local := CleanTag(n.Local)
	switch n.Space {
	case NamespaceCpp:
		return "cpp:" + local
	case NamespacePosition:
		return "pos:" + local
	}
	return local
}

// unitWrap embeds a fragment into a unit element, which is what the srcml
// executable expects as input.
func unitWrap(n *Node) *Node {
	if n.Tag() == "unit" {
		return n
	}
	return &Node{
		ID:       NoRef,
		Name:     xml.Name{Space: NamespaceSrc, Local: "unit"},
		Children: []*Node{n},
	}
}
