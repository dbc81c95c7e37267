// Package parser builds a C++ AST from the srcml tree of a header.
//
// See https://www.srcml.org/doc/cpp_srcML.html for the shape of the tree.
// Inner contexts (type, decl, parameter, ...) accept a closed set of tags
// and fail on anything else. Blocks accept anything: tags outside the
// modelled subset are logged and skipped.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardanlabs/bindgen/srcml"
)

// SourceParser converts code to a srcml tree. srcml.Runner implements it.
type SourceParser interface {
	Parse(ctx context.Context, code string) (*srcml.Tree, error)
}

type Options struct {
	// Filename is only used in messages.
	Filename string
	Logger   *slog.Logger

	// Render converts a srcml node back to code. Defaults to srcml.Render.
	Render func(*srcml.Node) string

	// Source is used by ParseCode.
	Source SourceParser
}

type parser struct {
	tree     *srcml.Tree
	filename string
	log      *slog.Logger
	render   func(*srcml.Node) string
}

// Parse builds the AST of a srcml unit.
func Parse(tree *srcml.Tree, opts Options) (*Unit, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New("parse: empty srcml tree")
	}

	p := &parser{
		tree:     tree,
		filename: opts.Filename,
		log:      opts.Logger,
		render:   opts.Render,
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.render == nil {
		p.render = srcml.Render
	}

	return p.parseUnit(tree.Root)
}

// ParseCode runs opts.Source on code and parses the result.
func ParseCode(ctx context.Context, code string, opts Options) (*Unit, error) {
	if opts.Source == nil {
		return nil, errors.New("parse: no source parser configured")
	}

	tree, err := opts.Source.Parse(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("converting code to srcml: %w", err)
	}

	return Parse(tree, opts)
}

// =============================================================================

func (p *parser) fillElement(n *srcml.Node, el *Element) {
	el.Ref = n.ID
	el.Start = nodeStart(n)
	if v, ok := n.Attr("end"); ok {
		if pos, err := ParsePosition(v); err == nil {
			el.End = pos
		}
	}
}

func (p *parser) expectTag(routine string, n *srcml.Node, tags ...string) error {
	if slices.Contains(tags, n.Tag()) {
		return nil
	}
	return p.newError(ErrUnexpectedTag, routine, n, nil, "expected one of %q", tags)
}

// recompose returns the direct text of a name, or its rendered code when
// the name has nested structure (std::string, std::map<int, int>, a[2]).
func (p *parser) recompose(n *srcml.Node) string {
	if n.HasText() {
		return n.Text
	}
	return strings.TrimSpace(p.render(n))
}

// =============================================================================

func (p *parser) parseType(n *srcml.Node, prev *Decl) (*Type, error) {
	const routine = "parseType"
	if err := p.expectTag(routine, n, "type"); err != nil {
		return nil, err
	}

	result := &Type{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "name":
			result.Names = append(result.Names, p.recompose(c))
		case "specifier":
			result.Specifiers = append(result.Specifiers, c.Text)
		case "modifier":
			if !slices.Contains(AuthorizedModifiers, c.Text) {
				return nil, p.newError(ErrMalformed, routine, c, result, "modifier %q is not authorized", c.Text)
			}
			result.Modifiers = append(result.Modifiers, c.Text)
		case "argument_list":
			result.ArgumentList = append(result.ArgumentList, p.render(c))
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	if len(result.Names) == 0 && !slices.Contains(result.Modifiers, "...") {
		if prev == nil || prev.Type == nil || len(prev.Type.Names) == 0 {
			return nil, p.newError(ErrMalformed, routine, nil, result, "can't find type name")
		}
		result.Names = slices.Clone(prev.Type.Names)
	}

	return result, nil
}

// parseInit returns the initializer of a decl as code. A single literal or
// name is read directly; richer expressions are rendered.
func (p *parser) parseInit(n *srcml.Node) (string, error) {
	const routine = "parseInit"
	if err := p.expectTag(routine, n, "init"); err != nil {
		return "", err
	}

	expr, err := n.ChildWithTag("expr")
	if err != nil {
		return "", p.newError(ErrMissingChild, routine, n, nil, "%v", err)
	}

	if len(expr.Children) == 1 {
		c := expr.Children[0]
		if tag := c.Tag(); (tag == "literal" || tag == "name") && c.HasText() {
			return c.Text, nil
		}
	}

	return strings.TrimSpace(p.render(expr)), nil
}

// parseDecl parses one declarator. prev is the previous declarator of the
// same statement: "int a, b;" gives b the type of a.
func (p *parser) parseDecl(n *srcml.Node, prev *Decl) (*Decl, error) {
	const routine = "parseDecl"
	if err := p.expectTag(routine, n, "decl"); err != nil {
		return nil, err
	}

	result := &Decl{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "type":
			t, err := p.parseType(c, prev)
			if err != nil {
				return nil, err
			}
			result.Type = t
		case "name":
			result.Name = p.recompose(c)
		case "init":
			init, err := p.parseInit(c)
			if err != nil {
				return nil, err
			}
			result.Init = init
		case "range":
			// bit field
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	return result, nil
}

func (p *parser) parseDeclStmt(n *srcml.Node) (*DeclStmt, error) {
	const routine = "parseDeclStmt"
	if err := p.expectTag(routine, n, "decl_stmt"); err != nil {
		return nil, err
	}

	result := &DeclStmt{}
	p.fillElement(n, &result.Element)

	var prev *Decl
	for _, c := range n.Children {
		if c.Tag() != "decl" {
			return nil, p.unexpected(routine, c, result)
		}
		d, err := p.parseDecl(c, prev)
		if err != nil {
			return nil, err
		}
		if prev == nil && d.Type == nil {
			return nil, p.newError(ErrMalformed, routine, c, result, "first declarator %q has no type", d.Name)
		}
		result.Decls = append(result.Decls, d)
		prev = d
	}

	return result, nil
}

func (p *parser) parseDeclNode(n *srcml.Node) (*Decl, error) {
	return p.parseDecl(n, nil)
}

// =============================================================================

func (p *parser) parseParameter(n *srcml.Node) (*Parameter, error) {
	const routine = "parseParameter"
	if err := p.expectTag(routine, n, "parameter"); err != nil {
		return nil, err
	}

	result := &Parameter{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "decl":
			d, err := p.parseDecl(c, nil)
			if err != nil {
				return nil, err
			}
			result.Decl = d
		case "type":
			t, err := p.parseType(c, nil)
			if err != nil {
				return nil, err
			}
			result.TemplateType = t
		case "name":
			result.TemplateName = c.Text
		case "function_decl":
			return nil, p.newError(ErrUnsupported, routine, c, result, "a function uses a function_decl as a parameter")
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	if result.Decl != nil && (result.TemplateType != nil || result.TemplateName != "") {
		return nil, p.newError(ErrMalformed, routine, nil, result, "parameter is both a declaration and a template parameter")
	}

	return result, nil
}

func (p *parser) parseParameterList(n *srcml.Node) (*ParameterList, error) {
	const routine = "parseParameterList"
	if err := p.expectTag(routine, n, "parameter_list"); err != nil {
		return nil, err
	}

	result := &ParameterList{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		if c.Tag() != "parameter" {
			return nil, p.unexpected(routine, c, result)
		}
		param, err := p.parseParameter(c)
		if err != nil {
			return nil, err
		}
		result.Parameters = append(result.Parameters, param)
	}

	return result, nil
}

func (p *parser) parseTemplate(n *srcml.Node) (*Template, error) {
	const routine = "parseTemplate"
	if err := p.expectTag(routine, n, "template"); err != nil {
		return nil, err
	}

	result := &Template{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		if c.Tag() != "parameter_list" {
			return nil, p.unexpected(routine, c, result)
		}
		l, err := p.parseParameterList(c)
		if err != nil {
			return nil, err
		}
		result.ParameterList = l
	}

	return result, nil
}

// =============================================================================

// fillFunctionDecl reads the declaration part of a function or function
// declaration into fd. It returns the body block, if any, for the caller to
// parse. parent is the node reported in errors.
func (p *parser) fillFunctionDecl(routine string, n *srcml.Node, fd *FunctionDecl, parent Node) (*srcml.Node, error) {
	p.fillElement(n, &fd.Element)

	var body *srcml.Node
	for _, c := range n.Children {
		switch c.Tag() {
		case "type":
			t, err := p.parseType(c, nil)
			if err != nil {
				return nil, err
			}
			fd.ReturnType = t
		case "name":
			fd.Name = p.recompose(c)
		case "parameter_list":
			l, err := p.parseParameterList(c)
			if err != nil {
				return nil, err
			}
			fd.ParameterList = l
		case "specifier":
			fd.Specifiers = append(fd.Specifiers, c.Text)
		case "noexcept":
			fd.Specifiers = append(fd.Specifiers, strings.TrimSpace(p.render(c)))
		case "attribute":
			// compiler attributes, such as [[nodiscard]]
		case "template":
			t, err := p.parseTemplate(c)
			if err != nil {
				return nil, err
			}
			fd.Template = t
		case "block":
			body = c
		default:
			return nil, p.unexpected(routine, c, parent)
		}
	}

	return body, nil
}

func (p *parser) parseFunctionDecl(n *srcml.Node) (*FunctionDecl, error) {
	const routine = "parseFunctionDecl"
	if err := p.expectTag(routine, n, "function_decl"); err != nil {
		return nil, err
	}

	result := &FunctionDecl{}
	if _, err := p.fillFunctionDecl(routine, n, result, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *parser) parseFunction(n *srcml.Node) (*Function, error) {
	const routine = "parseFunction"
	if err := p.expectTag(routine, n, "function"); err != nil {
		return nil, err
	}

	result := &Function{}
	body, err := p.fillFunctionDecl(routine, n, &result.FunctionDecl, result)
	if err != nil {
		return nil, err
	}

	if body != nil {
		b, err := p.parseBlock(body)
		if err != nil {
			return nil, err
		}
		result.Block = b
	}

	return result, nil
}

func (p *parser) fillConstructorDecl(routine string, n *srcml.Node, cd *ConstructorDecl, parent Node) (*srcml.Node, error) {
	p.fillElement(n, &cd.Element)

	var body *srcml.Node
	for _, c := range n.Children {
		switch c.Tag() {
		case "name":
			cd.Name = p.recompose(c)
		case "parameter_list":
			l, err := p.parseParameterList(c)
			if err != nil {
				return nil, err
			}
			cd.ParameterList = l
		case "specifier":
			cd.Specifiers = append(cd.Specifiers, c.Text)
		case "noexcept":
			cd.Specifiers = append(cd.Specifiers, strings.TrimSpace(p.render(c)))
		case "attribute", "member_init_list":
		case "block":
			body = c
		default:
			return nil, p.unexpected(routine, c, parent)
		}
	}

	return body, nil
}

func (p *parser) parseConstructorDecl(n *srcml.Node) (*ConstructorDecl, error) {
	const routine = "parseConstructorDecl"
	if err := p.expectTag(routine, n, "constructor_decl"); err != nil {
		return nil, err
	}

	result := &ConstructorDecl{}
	if _, err := p.fillConstructorDecl(routine, n, result, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *parser) parseConstructor(n *srcml.Node) (*Constructor, error) {
	const routine = "parseConstructor"
	if err := p.expectTag(routine, n, "constructor"); err != nil {
		return nil, err
	}

	result := &Constructor{}
	body, err := p.fillConstructorDecl(routine, n, &result.ConstructorDecl, result)
	if err != nil {
		return nil, err
	}

	if body != nil {
		b, err := p.parseBlock(body)
		if err != nil {
			return nil, err
		}
		result.Block = b
	}

	return result, nil
}

// =============================================================================

func (p *parser) parseSuper(n *srcml.Node) (*Super, error) {
	const routine = "parseSuper"
	if err := p.expectTag(routine, n, "super"); err != nil {
		return nil, err
	}

	result := &Super{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "specifier":
			result.Specifier = c.Text
		case "name":
			result.Name = p.recompose(c)
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	return result, nil
}

func (p *parser) parseSuperList(n *srcml.Node) (*SuperList, error) {
	const routine = "parseSuperList"
	if err := p.expectTag(routine, n, "super_list"); err != nil {
		return nil, err
	}

	result := &SuperList{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		if c.Tag() != "super" {
			return nil, p.unexpected(routine, c, result)
		}
		s, err := p.parseSuper(c)
		if err != nil {
			return nil, err
		}
		result.Supers = append(result.Supers, s)
	}

	return result, nil
}

func (p *parser) parseStruct(n *srcml.Node) (*Struct, error) {
	const routine = "parseStruct"
	if err := p.expectTag(routine, n, "struct", "class"); err != nil {
		return nil, err
	}

	result := &Struct{Keyword: n.Tag()}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "name":
			result.Name = p.recompose(c)
		case "super_list":
			l, err := p.parseSuperList(c)
			if err != nil {
				return nil, err
			}
			result.SuperList = l
		case "block":
			b, err := p.parseBlock(c)
			if err != nil {
				return nil, err
			}
			result.Block = b
		case "template":
			t, err := p.parseTemplate(c)
			if err != nil {
				return nil, err
			}
			result.Template = t
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	return result, nil
}

func (p *parser) parseNamespace(n *srcml.Node) (*Namespace, error) {
	const routine = "parseNamespace"
	if err := p.expectTag(routine, n, "namespace"); err != nil {
		return nil, err
	}

	result := &Namespace{}
	p.fillElement(n, &result.Element)

	for _, c := range n.Children {
		switch c.Tag() {
		case "name":
			result.Name = p.recompose(c)
		case "block":
			b, err := p.parseBlock(c)
			if err != nil {
				return nil, err
			}
			result.Block = b
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	return result, nil
}

func (p *parser) parseEnum(n *srcml.Node) (*Enum, error) {
	const routine = "parseEnum"
	if err := p.expectTag(routine, n, "enum"); err != nil {
		return nil, err
	}

	result := &Enum{}
	p.fillElement(n, &result.Element)
	result.Type, _ = n.Attr("type")

	for _, c := range n.Children {
		switch c.Tag() {
		case "name":
			result.Name = p.recompose(c)
		case "block":
			b, err := p.parseBlock(c)
			if err != nil {
				return nil, err
			}
			result.Block = b
		default:
			return nil, p.unexpected(routine, c, result)
		}
	}

	return result, nil
}

// =============================================================================

func (p *parser) parseComment(n *srcml.Node) (*Comment, error) {
	const routine = "parseComment"
	if err := p.expectTag(routine, n, "comment"); err != nil {
		return nil, err
	}

	result := &Comment{Text: n.Text}
	p.fillElement(n, &result.Element)

	if len(n.Children) > 0 {
		return nil, p.newError(ErrMalformed, routine, n.Children[0], result, "a comment has no children")
	}

	return result, nil
}

func (p *parser) parseExprStmt(n *srcml.Node) (*ExprStmt, error) {
	if err := p.expectTag("parseExprStmt", n, "expr_stmt"); err != nil {
		return nil, err
	}

	result := &ExprStmt{Code: strings.TrimSpace(p.render(n))}
	p.fillElement(n, &result.Element)
	return result, nil
}

func (p *parser) parseReturn(n *srcml.Node) (*Return, error) {
	if err := p.expectTag("parseReturn", n, "return"); err != nil {
		return nil, err
	}

	result := &Return{Code: strings.TrimSpace(p.render(n))}
	p.fillElement(n, &result.Element)
	return result, nil
}
