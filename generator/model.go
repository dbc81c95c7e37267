package generator

import (
	"slices"
	"strings"

	"github.com/ardanlabs/bindgen/adapter"
	"github.com/ardanlabs/bindgen/parser"
)

type function struct {
	fn  *adapter.AdaptedFunction
	doc string
}

type field struct {
	decl     *adapter.AdaptedDecl
	doc      string
	static   bool
	readonly bool
}

// class is a struct or class. name is qualified by its namespaces, pyName
// is not: namespaces are flattened into the module.
type class struct {
	name    string
	pyName  string
	doc     string
	bases   []string
	fields  []field
	methods []function
	ctors   []*adapter.AdaptedConstructor

	// declaresCtor is set when the class declares any constructor, public
	// or not. pybind11 then can not rely on the implicit one.
	declaresCtor bool
}

type enumValue struct {
	name   string
	pyName string
	value  string
	doc    string
}

type enum struct {
	name   string
	pyName string
	doc    string
	values []enumValue
}

type model struct {
	items []any
	boxed []adapter.BoxedType
}

func (g *Generator) collect() *model {
	var m model
	g.collectBlock(&m, &g.unit.Block, "")
	return &m
}

func (g *Generator) collectBlock(m *model, b *parser.Block, namespace string) {
	var comments []string

	for _, n := range b.Children {
		if c, ok := n.(*parser.Comment); ok {
			comments = append(comments, c.Text)
			continue
		}
		doc := docstring(comments)
		comments = nil

		switch n := n.(type) {
		case *parser.FunctionDecl, *parser.Function:
			fd := n.(parser.Declared).Decl()
			if af, ok := g.adaptFunction(m, fd, "", namespace); ok {
				m.items = append(m.items, function{fn: af, doc: doc})
			}

		case *parser.Struct:
			if n.Template != nil {
				g.log.Warn("template struct skipped", "file", g.unit.Filename, "struct", n.Name, "position", n.Start)
				continue
			}
			if n.Name == "" || n.Block == nil {
				continue
			}
			m.items = append(m.items, g.collectClass(m, n, namespace, doc))

		case *parser.Enum:
			if n.Name == "" {
				g.log.Debug("anonymous enum skipped", "file", g.unit.Filename, "position", n.Start)
				continue
			}
			m.items = append(m.items, g.collectEnum(n, namespace, doc))

		case *parser.Namespace:
			if n.Name == "" || n.Block == nil {
				continue
			}
			g.collectBlock(m, n.Block, qualify(namespace, n.Name))

		case *parser.DeclStmt:
			g.log.Debug("global variable skipped", "file", g.unit.Filename, "code", n.String())
		}
	}
}

// adaptFunction returns the adapted version of fd, or false when fd can not
// be published.
func (g *Generator) adaptFunction(m *model, fd *parser.FunctionDecl, parent, namespace string) (*adapter.AdaptedFunction, bool) {
	switch {
	case fd.Template != nil:
		g.log.Warn("template function skipped", "file", g.unit.Filename, "function", fd.Name, "position", fd.Start)
		return nil, false
	case strings.HasPrefix(fd.Name, "operator"):
		g.log.Warn("operator skipped", "file", g.unit.Filename, "function", fd.Name, "position", fd.Start)
		return nil, false
	case fd.IsDeleted(), fd.ReturnType == nil:
		return nil, false
	}

	af, err := adapter.NewAdaptedFunction(fd, parent, namespace, g.opts)
	if err != nil {
		g.log.Warn("function skipped", "file", g.unit.Filename, "function", fd.Name, "position", fd.Start, "error", err)
		return nil, false
	}

	m.boxed = adapter.AppendBoxed(m.boxed, af.BoxedTypes...)
	return af, true
}

type ctorDeclared interface {
	CtorDecl() *parser.ConstructorDecl
}

func (g *Generator) collectClass(m *model, s *parser.Struct, namespace, doc string) *class {
	c := class{
		name:   qualify(namespace, s.Name),
		pyName: s.Name,
		doc:    doc,
	}

	if s.SuperList != nil {
		for _, sup := range s.SuperList.Supers {
			if sup.Specifier == "private" || sup.Specifier == "protected" {
				continue
			}
			if s.Keyword == "class" && sup.Specifier == "" {
				continue
			}
			base := sup.Name
			if !strings.Contains(base, "::") {
				base = qualify(namespace, base)
			}
			c.bases = append(c.bases, base)
		}
	}

	for _, child := range s.Block.Children {
		region, ok := child.(*parser.AccessRegion)
		if !ok {
			continue
		}
		for _, n := range region.Children {
			if _, ok := n.(ctorDeclared); ok {
				c.declaresCtor = true
			}
		}
		if region.Access != "public" {
			continue
		}
		g.collectMembers(m, &c, region)
	}

	return &c
}

func (g *Generator) collectMembers(m *model, c *class, region *parser.AccessRegion) {
	var comments []string

	for _, n := range region.Children {
		if cm, ok := n.(*parser.Comment); ok {
			comments = append(comments, cm.Text)
			continue
		}
		doc := docstring(comments)
		comments = nil

		switch n := n.(type) {
		case *parser.DeclStmt:
			for _, d := range n.Decls {
				if d.IsCArray() {
					g.log.Debug("array field skipped", "file", g.unit.Filename, "struct", c.name, "field", d.Name)
					continue
				}
				c.fields = append(c.fields, field{
					decl:     adapter.NewAdaptedDecl(d, g.opts),
					doc:      doc,
					static:   d.Type != nil && slices.Contains(d.Type.Specifiers, "static"),
					readonly: d.Type != nil && (d.Type.IsConst() || slices.Contains(d.Type.Modifiers, "&")),
				})
			}

		case *parser.FunctionDecl, *parser.Function:
			fd := n.(parser.Declared).Decl()
			if af, ok := g.adaptFunction(m, fd, c.name, ""); ok {
				c.methods = append(c.methods, function{fn: af, doc: doc})
			}

		case *parser.ConstructorDecl, *parser.Constructor:
			ac := adapter.NewAdaptedConstructor(n.(ctorDeclared).CtorDecl(), c.name, g.opts)
			if ac.IsDeleted() {
				continue
			}
			if !ac.IsSupported() {
				g.log.Warn("constructor skipped", "file", g.unit.Filename, "struct", c.name, "code", ac.Original().String())
				continue
			}
			c.ctors = append(c.ctors, ac)

		case *parser.Struct, *parser.Enum:
			g.log.Warn("nested type skipped", "file", g.unit.Filename, "struct", c.name, "position", n.Elem().Start)
		}
	}
}

func (g *Generator) collectEnum(e *parser.Enum, namespace, doc string) *enum {
	r := enum{
		name:   qualify(namespace, e.Name),
		pyName: e.Name,
		doc:    doc,
	}
	if e.Block == nil {
		return &r
	}

	var comments []string
	for _, n := range e.Block.Children {
		switch n := n.(type) {
		case *parser.Comment:
			comments = append(comments, n.Text)
		case *parser.Decl:
			r.values = append(r.values, enumValue{
				name:   r.name + "::" + n.Name,
				pyName: adapter.VarNameToPython(n.Name, g.opts),
				value:  n.Init,
				doc:    docstring(comments),
			})
			comments = nil
		}
	}

	return &r
}

// namedCtorFields returns the fields a generated constructor can take by
// name, or false when the class can not be built field by field.
func (c *class) namedCtorFields() ([]field, bool) {
	var r []field
	for _, f := range c.fields {
		if f.static {
			continue
		}
		if f.readonly {
			return nil, false
		}
		r = append(r, f)
	}
	return r, true
}

// =============================================================================

// docstring converts the comments preceding a declaration into its
// documentation.
func docstring(comments []string) string {
	var lines []string
	for _, c := range comments {
		c = strings.TrimSpace(c)
		switch {
		case strings.HasPrefix(c, "//"):
			lines = append(lines, strings.TrimSpace(strings.TrimLeft(c, "/")))
		case strings.HasPrefix(c, "/*"):
			body := strings.TrimSuffix(strings.TrimPrefix(c, "/*"), "*/")
			for l := range strings.SplitSeq(body, "\n") {
				l = strings.TrimSpace(l)
				l = strings.TrimSpace(strings.TrimLeft(l, "*"))
				lines = append(lines, l)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}
