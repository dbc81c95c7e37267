package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ardanlabs/bindgen/srcml"
)

// Position is a line/column location in the parsed source.
type Position struct {
	Line   int
	Column int
}

// ParsePosition reads a srcml position attribute such as "12:5".
func ParsePosition(s string) (Position, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return Position{}, fmt.Errorf("bad position %q", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return Position{}, fmt.Errorf("bad position %q: %w", s, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return Position{}, fmt.Errorf("bad position %q: %w", s, err)
	}
	return Position{Line: l, Column: c}, nil
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Element is embedded in every AST node. Ref points back to the srcml node
// the element was parsed from.
type Element struct {
	Ref   srcml.Ref
	Start Position
	End   Position
}

func (e *Element) Elem() *Element { return e }

// synthetic returns the element of a node that has no srcml origin.
func synthetic() Element {
	return Element{Ref: srcml.NoRef}
}

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	KindType NodeKind = iota + 1
	KindDecl
	KindDeclStmt
	KindParameter
	KindParameterList
	KindTemplate
	KindFunctionDecl
	KindFunction
	KindConstructorDecl
	KindConstructor
	KindSuper
	KindSuperList
	KindStruct
	KindClass
	KindEnum
	KindNamespace
	KindBlock
	KindBlockContent
	KindAccessRegion
	KindComment
	KindExprStmt
	KindReturn
	KindUnit
)

var kindNames = map[NodeKind]string{
	KindType:            "Type",
	KindDecl:            "Decl",
	KindDeclStmt:        "DeclStmt",
	KindParameter:       "Parameter",
	KindParameterList:   "ParameterList",
	KindTemplate:        "Template",
	KindFunctionDecl:    "FunctionDecl",
	KindFunction:        "Function",
	KindConstructorDecl: "ConstructorDecl",
	KindConstructor:     "Constructor",
	KindSuper:           "Super",
	KindSuperList:       "SuperList",
	KindStruct:          "Struct",
	KindClass:           "Class",
	KindEnum:            "Enum",
	KindNamespace:       "Namespace",
	KindBlock:           "Block",
	KindBlockContent:    "BlockContent",
	KindAccessRegion:    "AccessRegion",
	KindComment:         "Comment",
	KindExprStmt:        "ExprStmt",
	KindReturn:          "Return",
	KindUnit:            "Unit",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Elem() *Element
	String() string
}

// =============================================================================

// AuthorizedModifiers lists the only type modifiers the parser accepts.
var AuthorizedModifiers = []string{"*", "&", "&&", "..."}

// Type is a C++ type: "const unsigned int *" has the specifier "const", the
// names "unsigned" and "int" and the modifier "*". Templated names such as
// "std::map<int, std::string>" are kept as one opaque name.
type Type struct {
	Element
	Names        []string
	Specifiers   []string
	Modifiers    []string
	ArgumentList []string
}

func (t *Type) Kind() NodeKind { return KindType }

func NewType(specifiers, names, modifiers []string) *Type {
	return &Type{
		Element:    synthetic(),
		Names:      names,
		Specifiers: specifiers,
		Modifiers:  modifiers,
	}
}

// Name is the type without specifiers or modifiers.
func (t *Type) Name() string {
	return strings.Join(t.Names, " ")
}

// IsEllipsis reports whether the type is the variadic "...".
func (t *Type) IsEllipsis() bool {
	return len(t.Names) == 0 && slices.Contains(t.Modifiers, "...")
}

func (t *Type) IsConst() bool {
	return slices.Contains(t.Specifiers, "const")
}

func (t *Type) IsPointer() bool {
	return slices.Equal(t.Modifiers, []string{"*"})
}

func (t *Type) IsPointerToPointer() bool {
	return slices.Equal(t.Modifiers, []string{"*", "*"})
}

func (t *Type) String() string {
	var parts []string
	parts = append(parts, t.Specifiers...)
	parts = append(parts, t.Names...)
	s := strings.Join(parts, " ")
	if len(t.Modifiers) > 0 {
		if s != "" {
			s += " "
		}
		s += strings.Join(t.Modifiers, "")
	}
	if len(t.ArgumentList) > 0 {
		s += strings.Join(t.ArgumentList, "")
	}
	return s
}

// =============================================================================

// Decl is one declarator: "int a = 5" or "double values[2]".
// Enum values are decls without a type.
type Decl struct {
	Element
	Type *Type
	Name string
	Init string
}

func (d *Decl) Kind() NodeKind { return KindDecl }

func NewDecl(typ *Type, name string) *Decl {
	return &Decl{Element: synthetic(), Type: typ, Name: name}
}

func (d *Decl) IsCArray() bool {
	return strings.Contains(d.Name, "[")
}

// CArrayCode returns the bracket part of the name: "[2]" for "values[2]".
func (d *Decl) CArrayCode() string {
	if i := strings.Index(d.Name, "["); i >= 0 {
		return d.Name[i:]
	}
	return ""
}

// NameWithoutArray returns "values" for "values[2]".
func (d *Decl) NameWithoutArray() string {
	if i := strings.Index(d.Name, "["); i >= 0 {
		return strings.TrimSpace(d.Name[:i])
	}
	return d.Name
}

// CArraySize returns the size of a one-dimensional array with a literal
// size.
func (d *Decl) CArraySize() (int, bool) {
	code := d.CArrayCode()
	if !strings.HasPrefix(code, "[") || !strings.HasSuffix(code, "]") || strings.Count(code, "[") != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(code[1 : len(code)-1]))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// IsCArrayFixedSize reports whether the decl is an array with a literal size.
func (d *Decl) IsCArrayFixedSize() bool {
	_, ok := d.CArraySize()
	return ok
}

func (d *Decl) String() string {
	var s string
	if d.Type != nil {
		s = d.Type.String()
	}
	if d.Name != "" {
		if s != "" {
			s += " "
		}
		s += d.Name
	}
	if d.Init != "" {
		s += " = " + d.Init
	}
	return s
}

// DeclStmt is a declaration statement: "int a, b = 2;".
type DeclStmt struct {
	Element
	Decls []*Decl
}

func (s *DeclStmt) Kind() NodeKind { return KindDeclStmt }

func (s *DeclStmt) String() string {
	lines := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		lines[i] = d.String() + ";"
	}
	return strings.Join(lines, "\n")
}

// =============================================================================

// Parameter is either a function parameter (Decl) or a template parameter
// (TemplateType and TemplateName), never both.
type Parameter struct {
	Element
	Decl         *Decl
	TemplateType *Type
	TemplateName string
}

func (p *Parameter) Kind() NodeKind { return KindParameter }

func NewParameter(typ *Type, name string) *Parameter {
	return &Parameter{Element: synthetic(), Decl: NewDecl(typ, name)}
}

func (p *Parameter) IsTemplateParameter() bool {
	return p.Decl == nil
}

func (p *Parameter) DefaultValue() string {
	if p.Decl == nil {
		return ""
	}
	return p.Decl.Init
}

func (p *Parameter) String() string {
	if p.Decl != nil {
		return p.Decl.String()
	}
	var s string
	if p.TemplateType != nil {
		s = p.TemplateType.String()
	}
	if p.TemplateName != "" {
		if s != "" {
			s += " "
		}
		s += p.TemplateName
	}
	return s
}

type ParameterList struct {
	Element
	Parameters []*Parameter
}

func (l *ParameterList) Kind() NodeKind { return KindParameterList }

// TypesNamesForSignature renders each parameter as "type name" and, when
// withDefaults is set, its default value.
func (l *ParameterList) TypesNamesForSignature(withDefaults bool) []string {
	r := make([]string, 0, len(l.Parameters))
	for _, p := range l.Parameters {
		if p.Decl == nil {
			r = append(r, p.String())
			continue
		}
		d := *p.Decl
		if !withDefaults {
			d.Init = ""
		}
		r = append(r, d.String())
	}
	return r
}

// NamesForCall renders the argument list of a call forwarding every
// parameter. Ellipsis parameters cannot be forwarded and are left out.
func (l *ParameterList) NamesForCall() string {
	var names []string
	for _, p := range l.Parameters {
		if p.Decl == nil || (p.Decl.Type != nil && p.Decl.Type.IsEllipsis()) {
			continue
		}
		names = append(names, p.Decl.NameWithoutArray())
	}
	return strings.Join(names, ", ")
}

// TypesForTemplate renders the parameter types as template arguments:
// "int, const std::string &".
func (l *ParameterList) TypesForTemplate() string {
	var types []string
	for _, p := range l.Parameters {
		if p.Decl != nil && p.Decl.Type != nil {
			types = append(types, p.Decl.Type.String())
		}
	}
	return strings.Join(types, ", ")
}

func (l *ParameterList) String() string {
	return strings.Join(l.TypesNamesForSignature(true), ", ")
}

// Template holds the template parameters of a function, struct or class.
type Template struct {
	Element
	ParameterList *ParameterList
}

func (t *Template) Kind() NodeKind { return KindTemplate }

func (t *Template) String() string {
	if t.ParameterList == nil {
		return "template<>"
	}
	return "template<" + t.ParameterList.String() + ">"
}

// =============================================================================

// FunctionDecl is a function declaration. Function adds a body.
type FunctionDecl struct {
	Element
	ReturnType    *Type
	Name          string
	ParameterList *ParameterList
	Specifiers    []string
	Template      *Template
}

func (f *FunctionDecl) Kind() NodeKind { return KindFunctionDecl }

// Decl returns the declaration itself; Function shares it.
func (f *FunctionDecl) Decl() *FunctionDecl { return f }

func (f *FunctionDecl) IsConst() bool {
	return slices.Contains(f.Specifiers, "const")
}

// IsStatic reports whether the return type carries "static".
func (f *FunctionDecl) IsStatic() bool {
	return f.ReturnType != nil && slices.Contains(f.ReturnType.Specifiers, "static")
}

func (f *FunctionDecl) IsDeleted() bool {
	return slices.Contains(f.Specifiers, "delete")
}

func (f *FunctionDecl) IsVariadic() bool {
	ps := f.Parameters()
	if len(ps) == 0 {
		return false
	}
	last := ps[len(ps)-1]
	return last.Decl != nil && last.Decl.Type != nil && last.Decl.Type.IsEllipsis()
}

func (f *FunctionDecl) Parameters() []*Parameter {
	if f.ParameterList == nil {
		return nil
	}
	return f.ParameterList.Parameters
}

// FullReturnType renders the return type, without the storage specifiers
// and without any of the given API markers (for example "MY_API").
func (f *FunctionDecl) FullReturnType(apiPrefixes []string) string {
	if f.ReturnType == nil {
		return ""
	}
	var specifiers []string
	for _, s := range f.ReturnType.Specifiers {
		switch s {
		case "static", "inline", "extern", "virtual", "constexpr":
			continue
		}
		specifiers = append(specifiers, s)
	}
	var names []string
	for _, n := range f.ReturnType.Names {
		if slices.Contains(apiPrefixes, n) {
			continue
		}
		names = append(names, n)
	}
	t := NewType(specifiers, names, f.ReturnType.Modifiers)
	return t.String()
}

// Clone returns a copy that shares no slices with f. The parameters
// themselves are shared; adapters replace them, they never modify them.
func (f *FunctionDecl) Clone() *FunctionDecl {
	c := *f
	c.Specifiers = slices.Clone(f.Specifiers)
	c.ParameterList = &ParameterList{Element: synthetic()}
	if f.ParameterList != nil {
		c.ParameterList.Element = f.ParameterList.Element
		c.ParameterList.Parameters = slices.Clone(f.ParameterList.Parameters)
	}
	return &c
}

func (f *FunctionDecl) String() string {
	var sb strings.Builder
	if f.Template != nil {
		sb.WriteString(f.Template.String())
		sb.WriteString(" ")
	}
	if f.ReturnType != nil {
		sb.WriteString(f.ReturnType.String())
		sb.WriteString(" ")
	}
	sb.WriteString(f.Name)
	sb.WriteString("(")
	if f.ParameterList != nil {
		sb.WriteString(f.ParameterList.String())
	}
	sb.WriteString(")")
	for _, s := range f.Specifiers {
		sb.WriteString(" " + s)
	}
	return sb.String()
}

type Function struct {
	FunctionDecl
	Block *Block
}

func (f *Function) Kind() NodeKind { return KindFunction }

func (f *Function) String() string {
	return f.FunctionDecl.String() + " { ... }"
}

// Declared is implemented by FunctionDecl and Function.
type Declared interface {
	Node
	Decl() *FunctionDecl
}

// ConstructorDecl is a constructor declaration; it has no return type.
type ConstructorDecl struct {
	Element
	Name          string
	ParameterList *ParameterList
	Specifiers    []string
}

func (c *ConstructorDecl) Kind() NodeKind { return KindConstructorDecl }

// CtorDecl returns the declaration itself; Constructor shares it.
func (c *ConstructorDecl) CtorDecl() *ConstructorDecl { return c }

func (c *ConstructorDecl) IsDeleted() bool {
	return slices.Contains(c.Specifiers, "delete")
}

func (c *ConstructorDecl) String() string {
	s := c.Name + "("
	if c.ParameterList != nil {
		s += c.ParameterList.String()
	}
	s += ")"
	for _, sp := range c.Specifiers {
		s += " " + sp
	}
	return s
}

type Constructor struct {
	ConstructorDecl
	Block *Block
}

func (c *Constructor) Kind() NodeKind { return KindConstructor }

func (c *Constructor) String() string {
	return c.ConstructorDecl.String() + " { ... }"
}

// =============================================================================

// Super is one base of a struct or class: "public Base".
type Super struct {
	Element
	Specifier string
	Name      string
}

func (s *Super) Kind() NodeKind { return KindSuper }

func (s *Super) String() string {
	if s.Specifier == "" {
		return s.Name
	}
	return s.Specifier + " " + s.Name
}

type SuperList struct {
	Element
	Supers []*Super
}

func (l *SuperList) Kind() NodeKind { return KindSuperList }

func (l *SuperList) String() string {
	parts := make([]string, len(l.Supers))
	for i, s := range l.Supers {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Struct is a struct or a class; Keyword tells which.
type Struct struct {
	Element
	Keyword   string
	Name      string
	SuperList *SuperList
	Block     *Block
	Template  *Template
}

func (s *Struct) Kind() NodeKind {
	if s.Keyword == "class" {
		return KindClass
	}
	return KindStruct
}

// DefaultAccess is the access level of members declared before any access
// specifier.
func (s *Struct) DefaultAccess() string {
	if s.Keyword == "class" {
		return "private"
	}
	return "public"
}

func (s *Struct) String() string {
	var sb strings.Builder
	if s.Template != nil {
		sb.WriteString(s.Template.String() + " ")
	}
	sb.WriteString(s.Keyword + " " + s.Name)
	if s.SuperList != nil && len(s.SuperList.Supers) > 0 {
		sb.WriteString(" : " + s.SuperList.String())
	}
	sb.WriteString("\n{\n")
	if s.Block != nil {
		sb.WriteString(indent(s.Block.String()))
	}
	sb.WriteString("};")
	return sb.String()
}

// Enum is an enum or, when Type is "class", a scoped enum.
type Enum struct {
	Element
	Type  string
	Name  string
	Block *Block
}

func (e *Enum) Kind() NodeKind { return KindEnum }

func (e *Enum) IsScoped() bool {
	return e.Type == "class"
}

func (e *Enum) Values() []*Decl {
	if e.Block == nil {
		return nil
	}
	var r []*Decl
	for _, c := range e.Block.Children {
		if d, ok := c.(*Decl); ok {
			r = append(r, d)
		}
	}
	return r
}

func (e *Enum) String() string {
	s := "enum "
	if e.IsScoped() {
		s += "class "
	}
	s += e.Name + "\n{\n"
	for _, v := range e.Values() {
		s += "    " + v.String() + ",\n"
	}
	return s + "};"
}

type Namespace struct {
	Element
	Name  string
	Block *Block
}

func (n *Namespace) Kind() NodeKind { return KindNamespace }

func (n *Namespace) String() string {
	s := "namespace " + n.Name + "\n{\n"
	if n.Block != nil {
		s += indent(n.Block.String())
	}
	return s + "}"
}

// =============================================================================

// Block is an ordered list of children. Order matters: it is the
// declaration order and it decides access region membership.
type Block struct {
	Element
	Children []Node
}

func (b *Block) Kind() NodeKind { return KindBlock }

func (b *Block) String() string {
	var sb strings.Builder
	for _, c := range b.Children {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

type BlockContent struct {
	Block
}

func (b *BlockContent) Kind() NodeKind { return KindBlockContent }

// AccessRegion is a "public:", "protected:" or "private:" region inside a
// struct or class. It is a block labelled by its access level.
type AccessRegion struct {
	Block
	Access string
	// Implicit is set for the region before the first access specifier.
	Implicit bool
}

func (a *AccessRegion) Kind() NodeKind { return KindAccessRegion }

func (a *AccessRegion) String() string {
	if a.Implicit {
		return a.Block.String()
	}
	return a.Access + ":\n" + indent(a.Block.String())
}

// Unit is the root of a parsed translation unit. It keeps the srcml tree so
// that element handles can be rendered back to code.
type Unit struct {
	Block
	Tree     *srcml.Tree
	Filename string
}

func (u *Unit) Kind() NodeKind { return KindUnit }

func (u *Unit) Code(n Node) string {
	return u.Tree.Render(n.Elem().Ref)
}

// Comment is a C or C++ comment, kept verbatim.
type Comment struct {
	Element
	Text string
}

func (c *Comment) Kind() NodeKind { return KindComment }

func (c *Comment) String() string { return c.Text }

// ExprStmt is an expression statement. Its content is not modelled.
type ExprStmt struct {
	Element
	Code string
}

func (e *ExprStmt) Kind() NodeKind { return KindExprStmt }

func (e *ExprStmt) String() string { return e.Code }

// Return is a return statement. Its content is not modelled.
type Return struct {
	Element
	Code string
}

func (r *Return) Kind() NodeKind { return KindReturn }

func (r *Return) String() string { return r.Code }

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
