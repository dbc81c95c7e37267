package adapter

import (
	"fmt"

	"github.com/ardanlabs/bindgen/parser"
)

// AdaptedDecl is a declaration seen from Python: a parameter, a struct
// field or an enum value.
type AdaptedDecl struct {
	Decl *parser.Decl
	opts *Options
}

func NewAdaptedDecl(d *parser.Decl, opts *Options) *AdaptedDecl {
	return &AdaptedDecl{Decl: d, opts: opts}
}

func (a *AdaptedDecl) NamePython() string {
	return VarNameToPython(a.Decl.NameWithoutArray(), a.opts)
}

func (a *AdaptedDecl) TypePython() string {
	if a.Decl.Type == nil {
		return ""
	}
	return TypeToPython(a.Decl.Type.String(), a.opts)
}

func (a *AdaptedDecl) DefaultValuePython() string {
	if a.Decl.Init == "" {
		return ""
	}
	return ValueToPython(a.Decl.Init, a.opts)
}

// PyArg renders the pybind11 argument annotation: py::arg("x") = 2. The
// default value stays in C++ since pybind11 evaluates it.
func (a *AdaptedDecl) PyArg() string {
	s := fmt.Sprintf("py::arg(%q)", a.NamePython())
	if a.Decl.Init != "" {
		s += " = " + a.Decl.Init
	}
	return s
}

// StubParam renders the declaration as a parameter of a Python stub:
// "x: int = 2".
func (a *AdaptedDecl) StubParam() string {
	s := a.NamePython() + ": " + a.TypePython()
	if v := a.DefaultValuePython(); v != "" {
		s += " = " + v
	}
	return s
}

// =============================================================================

type AdaptedParameter struct {
	Parameter *parser.Parameter
	opts      *Options
}

func NewAdaptedParameter(p *parser.Parameter, opts *Options) *AdaptedParameter {
	return &AdaptedParameter{Parameter: p, opts: opts}
}

func (p *AdaptedParameter) Decl() *AdaptedDecl {
	return NewAdaptedDecl(p.Parameter.Decl, p.opts)
}

func adaptParameters(l *parser.ParameterList, opts *Options) []*AdaptedParameter {
	if l == nil {
		return nil
	}
	var r []*AdaptedParameter
	for _, p := range l.Parameters {
		if p.IsTemplateParameter() || (p.Decl.Type != nil && p.Decl.Type.IsEllipsis()) {
			continue
		}
		r = append(r, NewAdaptedParameter(p, opts))
	}
	return r
}
