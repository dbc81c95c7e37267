package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardanlabs/bindgen/srcml"
)

// Kinds of parse failures. A ParseError unwraps to one of them.
var (
	ErrUnexpectedTag = errors.New("unexpected tag")
	ErrMissingChild  = errors.New("missing child")
	ErrUnsupported   = errors.New("unsupported construct")
	ErrMalformed     = errors.New("malformed declaration")
)

// ParentContext describes the nearest enclosing node that was already
// (partially) parsed when an error happened.
type ParentContext struct {
	Kind     NodeKind
	Position Position
	// Code is the original source of the parent.
	Code string
	// Repr is the parent as parsed so far.
	Repr string
}

// ParseError is a fatal error on a malformed or unsupported srcml node.
type ParseError struct {
	Kind     error
	Message  string
	Filename string

	// Tag, Code and Position describe the offending srcml node.
	Tag      string
	Code     string
	Position Position

	// Parent is nil when no enclosing node was parsed yet.
	Parent *ParentContext

	// Routine is the parse routine that failed.
	Routine string
}

func (e *ParseError) Unwrap() error { return e.Kind }

func (e *ParseError) Error() string {
	var sb strings.Builder

	where := e.Filename
	if where == "" {
		where = "position"
	}

	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Tag != "" {
		msg = fmt.Sprintf("%s (tag %q)", msg, e.Tag)
	}

	pos := e.Position
	if e.Parent != nil && pos == (Position{}) {
		pos = e.Parent.Position
	}
	fmt.Fprintf(&sb, "%s:%s: %s, in %s", where, pos, msg, e.Routine)

	if e.Code != "" {
		fmt.Fprintf(&sb, "\n    code:\n%s", indentBy(e.Code, 8))
	}
	if e.Parent != nil {
		fmt.Fprintf(&sb, "\n    inside %s at %s, original code:\n%s", e.Parent.Kind, e.Parent.Position, indentBy(e.Parent.Code, 8))
		fmt.Fprintf(&sb, "\n    %s as parsed so far:\n%s", e.Parent.Kind, indentBy(e.Parent.Repr, 8))
	}
	return sb.String()
}

func indentBy(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// newError builds a ParseError for the srcml node n found while routine was
// filling parent. Either n or parent may be nil.
func (p *parser) newError(kind error, routine string, n *srcml.Node, parent Node, format string, args ...any) *ParseError {
	e := &ParseError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Filename: p.filename,
		Routine:  routine,
	}

	if n != nil {
		e.Tag = n.Tag()
		e.Code = p.render(n)
		e.Position = nodeStart(n)
	}

	if parent != nil {
		el := parent.Elem()
		e.Parent = &ParentContext{
			Kind:     parent.Kind(),
			Position: el.Start,
			Repr:     parent.String(),
		}
		if pn := p.tree.Node(el.Ref); pn != nil {
			e.Parent.Code = p.render(pn)
		}
	}

	return e
}

// unexpected is the error for a tag that a closed context does not accept.
func (p *parser) unexpected(routine string, n *srcml.Node, parent Node) *ParseError {
	return p.newError(ErrUnexpectedTag, routine, n, parent, "")
}

func nodeStart(n *srcml.Node) Position {
	if v, ok := n.Attr("start"); ok {
		if pos, err := ParsePosition(v); err == nil {
			return pos
		}
	}
	return Position{}
}
